package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/clintrovert/jts/internal/activities"
	"github.com/clintrovert/jts/pkg/types"
)

// CloneIssueWorkflow clones a Jira issue into a service desk project. A
// clone is never retried automatically.
func CloneIssueWorkflow(ctx workflow.Context, input WorkflowInput) (*types.CreatedIssue, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting clone workflow",
		"source_key", input.SourceKey,
		"project_key", input.ProjectKey,
	)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Step 1: Check the Jira connection
	var connResult activities.ConnectionResult
	err := workflow.ExecuteActivity(ctx, activities.CheckConnectionActivity).Get(ctx, &connResult)
	if err != nil {
		logger.Error("failed to check connection", "error", err)
		return nil, err
	}
	if !connResult.Connected {
		return nil, temporal.NewNonRetryableApplicationError(connResult.Message, "ConnectionError", nil)
	}

	// Step 2: Clone the issue and its attachments
	var cloneResult activities.CloneResult
	req := activities.CloneRequest{SourceKey: input.SourceKey, ProjectKey: input.ProjectKey}
	err = workflow.ExecuteActivity(ctx, activities.CloneIssueActivity, req).Get(ctx, &cloneResult)
	if err != nil {
		logger.Error("failed to clone issue", "error", err)
		return nil, err
	}
	if !cloneResult.Success {
		return nil, temporal.NewNonRetryableApplicationError(cloneResult.Message, "CloneError", nil)
	}

	logger.Info("clone workflow completed",
		"issue_key", cloneResult.Issue.Key,
		"failed_attachments", len(cloneResult.Issue.FailedAttachments),
	)

	return cloneResult.Issue, nil
}

// WorkflowID builds the id of a clone workflow
func WorkflowID(sourceKey, projectKey, suffix string) string {
	return "clone-" + sourceKey + "-" + projectKey + "-" + suffix
}
