package temporal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/clintrovert/jts/internal/temporal/workflows"
)

// Client wraps Temporal client functionality
type Client struct {
	temporalClient client.Client
	logger         *zap.Logger
	taskQueue      string
}

// NewClient creates a new Temporal client
func NewClient(address, namespace, taskQueue string, logger *zap.Logger) (*Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  address,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}

	return NewClientFrom(c, taskQueue, logger), nil
}

// NewClientFrom wraps an existing Temporal client
func NewClientFrom(c client.Client, taskQueue string, logger *zap.Logger) *Client {
	return &Client{
		temporalClient: c,
		logger:         logger,
		taskQueue:      taskQueue,
	}
}

// StartCloneWorkflow starts a new clone workflow
func (c *Client) StartCloneWorkflow(ctx context.Context, sourceKey, projectKey string) (string, error) {
	workflowID := workflows.WorkflowID(sourceKey, projectKey, uuid.NewString())

	workflowOptions := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: c.taskQueue,
	}

	workflowInput := workflows.WorkflowInput{
		SourceKey:  sourceKey,
		ProjectKey: projectKey,
	}

	we, err := c.temporalClient.ExecuteWorkflow(ctx, workflowOptions, workflows.CloneIssueWorkflow, workflowInput)
	if err != nil {
		return "", fmt.Errorf("failed to start workflow: %w", err)
	}

	c.logger.Info("started workflow",
		zap.String("workflow_id", we.GetID()),
		zap.String("run_id", we.GetRunID()),
		zap.String("source_key", sourceKey),
		zap.String("project_key", projectKey),
	)

	return we.GetID(), nil
}

// GetWorkflowStatus retrieves the execution status of a workflow
func (c *Client) GetWorkflowStatus(ctx context.Context, workflowID string) (string, error) {
	resp, err := c.temporalClient.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return "", fmt.Errorf("failed to describe workflow: %w", err)
	}

	return resp.GetWorkflowExecutionInfo().GetStatus().String(), nil
}

// CancelWorkflow cancels a running workflow
func (c *Client) CancelWorkflow(ctx context.Context, workflowID string) error {
	return c.temporalClient.CancelWorkflow(ctx, workflowID, "")
}

// Close closes the Temporal client
func (c *Client) Close() {
	c.temporalClient.Close()
}
