package manager

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clintrovert/jts/internal/migration"
	"github.com/clintrovert/jts/pkg/types"
)

// JiraClient is what the manager needs from the Jira client
type JiraClient interface {
	migration.Transport
	SearchAssignedIssues(ctx context.Context, username string) ([]types.Issue, error)
	Probe(ctx context.Context) types.ConnectionStatus
	UseBearerAuth() error
	Username() string
}

// Options configures the migrations run by the manager
type Options struct {
	ScratchDir  string
	RequestType string
	PageSize    int
}

// Manager coordinates issue clones, issue listing and connection checks
type Manager struct {
	jiraClient JiraClient
	options    Options
	logger     *zap.Logger
}

// NewManager creates a new manager
func NewManager(jiraClient JiraClient, options Options, logger *zap.Logger) *Manager {
	return &Manager{
		jiraClient: jiraClient,
		options:    options,
		logger:     logger,
	}
}

// CloneIssue clones sourceKey into the service desk project projectKey.
// Every call runs its own migration.
func (m *Manager) CloneIssue(ctx context.Context, sourceKey, projectKey string) (*types.CreatedIssue, error) {
	m.logger.Info("cloning issue",
		zap.String("source_key", sourceKey),
		zap.String("project_key", projectKey),
	)

	migrator := migration.NewMigrator(m.jiraClient, migration.Options{
		Username:    m.jiraClient.Username(),
		ScratchDir:  m.options.ScratchDir,
		RequestType: m.options.RequestType,
		PageSize:    m.options.PageSize,
	}, m.logger)

	if err := migrator.Initialize(ctx, sourceKey, projectKey); err != nil {
		return nil, fmt.Errorf("failed to initialize clone of %s: %w", sourceKey, err)
	}

	created, err := migrator.CreateIssue(ctx, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", sourceKey, err)
	}

	aligned, err := migrator.AlignAttachments(ctx, created)
	if err != nil {
		return created, fmt.Errorf("failed to clone attachments of %s: %w", sourceKey, err)
	}

	if len(aligned.FailedAttachments) > 0 {
		m.logger.Warn("some attachments were not cloned",
			zap.String("issue_key", aligned.Key),
			zap.Strings("failed", aligned.FailedAttachments),
		)
	}

	return aligned, nil
}

// GetIssues lists the unresolved tasks assigned to the configured user
func (m *Manager) GetIssues(ctx context.Context) ([]types.Issue, error) {
	issues, err := m.jiraClient.SearchAssignedIssues(ctx, m.jiraClient.Username())
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}

	return issues, nil
}

// CheckConnection probes Jira and switches to bearer authentication when
// the basic credentials are rejected
func (m *Manager) CheckConnection(ctx context.Context) bool {
	switch m.jiraClient.Probe(ctx) {
	case types.Connected:
		return true
	case types.Unauthorized:
		m.logger.Info("unauthorized, switching to bearer token")
		if err := m.jiraClient.UseBearerAuth(); err != nil {
			m.logger.Error("failed to switch to bearer token", zap.Error(err))
			return false
		}
		if m.jiraClient.Probe(ctx) == types.Connected {
			return true
		}
		m.logger.Warn("still unauthorized, please check your credentials")
	default:
		m.logger.Warn("unable to reach jira, please check your configuration")
	}

	return false
}
