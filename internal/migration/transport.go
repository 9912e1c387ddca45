// Package migration clones a Jira issue into a Jira Service Management
// project: it resolves the destination metadata, fills the required fields
// of the destination request type, opens the request and copies the
// attachments over.
package migration

import (
	"context"
	"errors"

	"github.com/clintrovert/jts/pkg/types"
)

var (
	// ErrIssueNotFound is returned when the source issue can't be read
	ErrIssueNotFound = errors.New("issue not found")
	// ErrProjectNotFound is returned when no service desk matches the project key
	ErrProjectNotFound = errors.New("service desk project not found")
	// ErrRequestTypeNotFound is returned when the service desk has no matching request type
	ErrRequestTypeNotFound = errors.New("request type not found")
	// ErrFieldsNotFound is returned when the request type exposes no fields
	ErrFieldsNotFound = errors.New("request type fields not found")
	// ErrCreateFailed is returned when Jira refuses to open the request
	ErrCreateFailed = errors.New("failed to create service desk request")
	// ErrInvalidState is returned when an operation is called out of order
	ErrInvalidState = errors.New("invalid migration state")
)

// Transport is the Jira API surface a migration needs
type Transport interface {
	GetIssue(ctx context.Context, key string) (*types.Issue, error)
	SearchServiceDesks(ctx context.Context, start, limit int) (*types.ServiceDeskPage, error)
	ListRequestTypes(ctx context.Context, serviceDeskID int) ([]types.RequestType, error)
	GetRequestTypeFields(ctx context.Context, serviceDeskID, requestTypeID int) ([]types.RequiredField, error)
	CreateRequest(ctx context.Context, req *types.CreateRequest) (*types.CreatedIssue, error)
	DownloadAttachment(ctx context.Context, uri string) ([]byte, error)
	UploadTemporaryFile(ctx context.Context, serviceDeskID int, path string) ([]types.TemporaryAttachment, error)
	AttachTemporaryFiles(ctx context.Context, issueKey string, temporaryIDs []string) error
}
