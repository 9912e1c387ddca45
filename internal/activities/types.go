package activities

import (
	"github.com/clintrovert/jts/pkg/types"
)

// CloneRequest is the input of the clone activity
type CloneRequest struct {
	SourceKey  string
	ProjectKey string
}

// CloneResult contains the result of a clone
type CloneResult struct {
	Success bool
	Message string
	Issue   *types.CreatedIssue
}

// ConnectionResult contains the result of a Jira connection check
type ConnectionResult struct {
	Connected bool
	Message   string
}
