package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clintrovert/jts/internal/fields"
	"github.com/clintrovert/jts/pkg/types"
)

// Phase is the step a Migrator has reached
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseReady
	PhaseCreated
	PhaseAttachmentsAligned
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	case PhaseCreated:
		return "created"
	case PhaseAttachmentsAligned:
		return "attachments_aligned"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// state holds the data available in each phase. Only ready carries what
// CreateIssue needs and only created carries what AlignAttachments needs.
type state interface {
	phase() Phase
}

type uninitialized struct{}

type initializing struct {
	sourceKey  string
	projectKey string
}

type ready struct {
	source        *types.Issue
	projectKey    string
	serviceDeskID int
	requestTypeID int
	fields        []types.RequiredField
}

type created struct {
	serviceDeskID int
	issue         *types.CreatedIssue
}

type aligned struct {
	issue *types.CreatedIssue
}

type failed struct {
	err error
}

func (uninitialized) phase() Phase { return PhaseUninitialized }
func (initializing) phase() Phase  { return PhaseInitializing }
func (ready) phase() Phase         { return PhaseReady }
func (created) phase() Phase       { return PhaseCreated }
func (aligned) phase() Phase       { return PhaseAttachmentsAligned }
func (failed) phase() Phase        { return PhaseFailed }

// Options configures a Migrator
type Options struct {
	// Username is the Jira user the clone is performed for
	Username string
	// ScratchDir receives downloaded attachments
	ScratchDir string
	// RequestType is the name of the request type to open, "Task" if empty
	RequestType string
	// PageSize is the service desk page size, 50 if zero
	PageSize int
}

// Migrator clones one issue into a service desk project. A Migrator is
// used for a single clone and is not safe for concurrent use.
type Migrator struct {
	transport Transport
	resolver  *Resolver
	cloner    *AttachmentCloner
	logger    *zap.Logger
	username  string
	state     state
}

// NewMigrator creates a new migrator
func NewMigrator(transport Transport, opts Options, logger *zap.Logger) *Migrator {
	return &Migrator{
		transport: transport,
		resolver:  NewResolver(transport, opts.PageSize, opts.RequestType, logger),
		cloner:    NewAttachmentCloner(transport, opts.ScratchDir, logger),
		logger:    logger,
		username:  opts.Username,
		state:     uninitialized{},
	}
}

// Phase returns the current phase
func (m *Migrator) Phase() Phase {
	return m.state.phase()
}

// Err returns the cause of the failure once the migrator has failed
func (m *Migrator) Err() error {
	if f, ok := m.state.(failed); ok {
		return f.err
	}
	return nil
}

// Initialize reads the source issue and resolves everything needed to
// create the clone in projectKey. It can be called again after a failure.
func (m *Migrator) Initialize(ctx context.Context, sourceKey, projectKey string) error {
	switch m.state.(type) {
	case uninitialized, failed:
	default:
		return fmt.Errorf("%w: initialize called while %s", ErrInvalidState, m.Phase())
	}
	if sourceKey == "" || projectKey == "" {
		return m.fail(errors.New("source issue key and project key are required"))
	}

	m.state = initializing{sourceKey: sourceKey, projectKey: projectKey}
	logger := m.logger.With(
		zap.String("source_key", sourceKey),
		zap.String("project_key", projectKey),
	)

	issue, err := m.transport.GetIssue(ctx, sourceKey)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.fail(ctxErr)
	}
	if err != nil {
		return m.fail(fmt.Errorf("%w: %s: %w", ErrIssueNotFound, sourceKey, err))
	}
	if issue == nil {
		return m.fail(fmt.Errorf("%w: %s", ErrIssueNotFound, sourceKey))
	}

	serviceDeskID, err := m.resolver.ResolveServiceDeskID(ctx, projectKey)
	if err != nil {
		return m.fail(err)
	}

	requestTypeID, err := m.resolver.ResolveRequestTypeID(ctx, serviceDeskID)
	if err != nil {
		return m.fail(err)
	}

	requestFields, err := m.transport.GetRequestTypeFields(ctx, serviceDeskID, requestTypeID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.fail(ctxErr)
	}
	if err != nil {
		return m.fail(fmt.Errorf("%w: project %s: %w", ErrFieldsNotFound, projectKey, err))
	}
	if len(requestFields) == 0 {
		return m.fail(fmt.Errorf("%w: project %s", ErrFieldsNotFound, projectKey))
	}

	m.state = ready{
		source:        issue,
		projectKey:    projectKey,
		serviceDeskID: serviceDeskID,
		requestTypeID: requestTypeID,
		fields:        requestFields,
	}

	logger.Info("migration initialized",
		zap.Int("service_desk_id", serviceDeskID),
		zap.Int("request_type_id", requestTypeID),
		zap.Int("fields", len(requestFields)),
		zap.Int("attachments", len(issue.Attachments)),
	)

	return nil
}

// CreateIssue opens the service desk request. It must follow a successful
// Initialize for the same project key.
func (m *Migrator) CreateIssue(ctx context.Context, projectKey string) (*types.CreatedIssue, error) {
	st, ok := m.state.(ready)
	if !ok {
		return nil, fmt.Errorf("%w: create issue called while %s", ErrInvalidState, m.Phase())
	}
	if projectKey == "" || !strings.EqualFold(projectKey, st.projectKey) {
		return nil, fmt.Errorf("%w: project %q was not initialized", ErrInvalidState, projectKey)
	}
	if m.username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidState)
	}

	values, err := fields.Elaborate(st.fields, st.source, m.username)
	if err != nil {
		return nil, m.fail(fmt.Errorf("failed to elaborate fields for %s: %w", st.source.Key, err))
	}

	resp, err := m.transport.CreateRequest(ctx, &types.CreateRequest{
		ServiceDeskID: st.serviceDeskID,
		RequestTypeID: st.requestTypeID,
		FieldValues:   values,
	})
	// A request Jira accepted is kept even if ctx was cancelled meanwhile
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, m.fail(ctxErr)
		}
		return nil, m.fail(fmt.Errorf("%w for %s: %w", ErrCreateFailed, st.source.Key, err))
	}
	if resp == nil {
		return nil, m.fail(fmt.Errorf("%w for %s", ErrCreateFailed, st.source.Key))
	}

	issue := *resp
	if issue.Summary == "" {
		if summary, ok := values["summary"].(string); ok {
			issue.Summary = summary
		}
	}
	issue.Attachments = append([]string(nil), st.source.Attachments...)

	m.state = created{serviceDeskID: st.serviceDeskID, issue: &issue}

	m.logger.Info("cloned issue",
		zap.String("source_key", st.source.Key),
		zap.String("issue_key", issue.Key),
	)

	return &issue, nil
}

// AlignAttachments copies the source attachments to the created request.
// Attachments that fail are reported on the returned issue and never fail
// the migration; only cancellation does.
func (m *Migrator) AlignAttachments(ctx context.Context, issue *types.CreatedIssue) (*types.CreatedIssue, error) {
	st, ok := m.state.(created)
	if !ok {
		return nil, fmt.Errorf("%w: align attachments called while %s", ErrInvalidState, m.Phase())
	}
	if issue == nil || issue.Key != st.issue.Key {
		return nil, fmt.Errorf("%w: issue was not created by this migration", ErrInvalidState)
	}
	if len(issue.Attachments) == 0 {
		return issue, nil
	}

	result, err := m.cloner.Clone(ctx, st.serviceDeskID, issue.Attachments)
	if err != nil {
		return nil, m.fail(err)
	}

	out := *issue
	out.FailedAttachments = result.Failed
	if len(result.HandleIDs) > 0 {
		if err := m.cloner.Link(ctx, issue.Key, result.HandleIDs); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, m.fail(ctxErr)
			}
			m.logger.Warn("request created without attachments",
				zap.String("issue_key", issue.Key),
				zap.Error(err),
			)
			out.FailedAttachments = append([]string(nil), issue.Attachments...)
		} else {
			out.LinkedAttachments = result.HandleIDs
		}
	}

	m.state = aligned{issue: &out}

	m.logger.Info("aligned attachments",
		zap.String("issue_key", out.Key),
		zap.Int("linked", len(out.LinkedAttachments)),
		zap.Int("failed", len(out.FailedAttachments)),
	)

	return &out, nil
}

func (m *Migrator) fail(err error) error {
	m.logger.Error("migration failed",
		zap.String("phase", m.Phase().String()),
		zap.Error(err),
	)
	m.state = failed{err: err}
	return err
}
