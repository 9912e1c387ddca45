package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/clintrovert/jts/internal/fields"
	"github.com/clintrovert/jts/internal/migration"
	"github.com/clintrovert/jts/pkg/types"
)

// Cloner runs clones and connection checks
type Cloner interface {
	CloneIssue(ctx context.Context, sourceKey, projectKey string) (*types.CreatedIssue, error)
	CheckConnection(ctx context.Context) bool
}

// MigrationActivities handles clone-related activities
type MigrationActivities struct {
	cloner Cloner
}

// NewMigrationActivities creates a new migration activities handler
func NewMigrationActivities(cloner Cloner) *MigrationActivities {
	return &MigrationActivities{cloner: cloner}
}

// CheckConnectionActivity verifies Jira accepts the configured credentials
func (a *MigrationActivities) CheckConnectionActivity(ctx context.Context) (ConnectionResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("checking jira connection")

	if !a.cloner.CheckConnection(ctx) {
		return ConnectionResult{Connected: false, Message: "jira rejected the credentials or is unreachable"}, nil
	}

	return ConnectionResult{Connected: true, Message: "connection to jira is working"}, nil
}

// CloneIssueActivity clones an issue into a service desk project. Lookup and
// schema failures are not retryable.
func (a *MigrationActivities) CloneIssueActivity(ctx context.Context, req CloneRequest) (CloneResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("cloning issue",
		"source_key", req.SourceKey,
		"project_key", req.ProjectKey,
	)

	created, err := a.cloner.CloneIssue(ctx, req.SourceKey, req.ProjectKey)
	if err != nil {
		logger.Error("failed to clone issue", "error", err)
		result := CloneResult{Success: false, Message: err.Error(), Issue: created}
		if isPermanent(err) {
			return result, temporal.NewNonRetryableApplicationError(err.Error(), "CloneError", err)
		}
		return result, err
	}

	return CloneResult{
		Success: true,
		Message: fmt.Sprintf("cloned %s as %s", req.SourceKey, created.Key),
		Issue:   created,
	}, nil
}

func isPermanent(err error) bool {
	for _, target := range []error{
		migration.ErrIssueNotFound,
		migration.ErrProjectNotFound,
		migration.ErrRequestTypeNotFound,
		migration.ErrFieldsNotFound,
		migration.ErrInvalidState,
		fields.ErrNoDefaultValue,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
