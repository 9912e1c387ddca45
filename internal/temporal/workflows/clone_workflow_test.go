package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/clintrovert/jts/internal/activities"
	"github.com/clintrovert/jts/pkg/types"
)

func newEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(activities.CheckConnectionActivity)
	env.RegisterActivity(activities.CloneIssueActivity)
	return env
}

func TestCloneIssueWorkflow(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(activities.CheckConnectionActivity, mock.Anything).
		Return(activities.ConnectionResult{Connected: true}, nil)
	env.OnActivity(activities.CloneIssueActivity, mock.Anything, activities.CloneRequest{SourceKey: "TEST-1", ProjectKey: "DEST"}).
		Return(activities.CloneResult{Success: true, Issue: &types.CreatedIssue{Key: "DEST-1", Summary: "Test Issue"}}, nil)

	env.ExecuteWorkflow(CloneIssueWorkflow, WorkflowInput{SourceKey: "TEST-1", ProjectKey: "DEST"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var created types.CreatedIssue
	require.NoError(t, env.GetWorkflowResult(&created))
	assert.Equal(t, "DEST-1", created.Key)
	assert.Equal(t, "Test Issue", created.Summary)
}

func TestCloneIssueWorkflow_NotConnected(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(activities.CheckConnectionActivity, mock.Anything).
		Return(activities.ConnectionResult{Connected: false, Message: "unauthorized"}, nil)

	env.ExecuteWorkflow(CloneIssueWorkflow, WorkflowInput{SourceKey: "TEST-1", ProjectKey: "DEST"})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
	env.AssertNotCalled(t, "CloneIssueActivity", mock.Anything, mock.Anything)
}

func TestCloneIssueWorkflow_CloneFails(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(activities.CheckConnectionActivity, mock.Anything).
		Return(activities.ConnectionResult{Connected: true}, nil)
	env.OnActivity(activities.CloneIssueActivity, mock.Anything, mock.Anything).
		Return(activities.CloneResult{}, errors.New("service desk project not found")).Once()

	env.ExecuteWorkflow(CloneIssueWorkflow, WorkflowInput{SourceKey: "TEST-1", ProjectKey: "NOPE"})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service desk project not found")
	env.AssertExpectations(t)
}

func TestWorkflowID(t *testing.T) {
	assert.Equal(t, "clone-TEST-1-DEST-abc", WorkflowID("TEST-1", "DEST", "abc"))
}
