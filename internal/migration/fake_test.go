package migration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"

	"github.com/clintrovert/jts/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBoom = errors.New("boom")

// fakeTransport is an in-memory Jira used by the migration tests
type fakeTransport struct {
	issues       map[string]*types.Issue
	pages        []*types.ServiceDeskPage
	pageErr      error
	requestTypes []types.RequestType
	fields       []types.RequiredField
	createErr    error
	created      *types.CreatedIssue
	onCreate     func()
	downloads    map[string][]byte
	uploadErr    map[string]error
	linkErr      error

	searchCalls  []int
	createCalls  []*types.CreateRequest
	uploadPaths  []string
	linkCalls    [][]string
	linkedIssues []string
}

func (f *fakeTransport) GetIssue(ctx context.Context, key string) (*types.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	issue, ok := f.issues[key]
	if !ok {
		return nil, errors.New("404")
	}
	return issue, nil
}

func (f *fakeTransport) SearchServiceDesks(ctx context.Context, start, limit int) (*types.ServiceDeskPage, error) {
	f.searchCalls = append(f.searchCalls, start)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	idx := start / limit
	if idx >= len(f.pages) {
		return nil, nil
	}
	return f.pages[idx], nil
}

func (f *fakeTransport) ListRequestTypes(ctx context.Context, serviceDeskID int) ([]types.RequestType, error) {
	return f.requestTypes, nil
}

func (f *fakeTransport) GetRequestTypeFields(ctx context.Context, serviceDeskID, requestTypeID int) ([]types.RequiredField, error) {
	return f.fields, nil
}

func (f *fakeTransport) CreateRequest(ctx context.Context, req *types.CreateRequest) (*types.CreatedIssue, error) {
	f.createCalls = append(f.createCalls, req)
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	summary, _ := req.FieldValues["summary"].(string)
	return &types.CreatedIssue{
		ID:          "10001",
		Key:         "DEST-1",
		Summary:     summary,
		Status:      "Open",
		FieldValues: req.FieldValues,
	}, nil
}

func (f *fakeTransport) DownloadAttachment(ctx context.Context, uri string) ([]byte, error) {
	data, ok := f.downloads[uri]
	if !ok {
		return nil, errBoom
	}
	return data, nil
}

func (f *fakeTransport) UploadTemporaryFile(ctx context.Context, serviceDeskID int, path string) ([]types.TemporaryAttachment, error) {
	f.uploadPaths = append(f.uploadPaths, path)
	name := filepath.Base(path)
	if err := f.uploadErr[name]; err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return []types.TemporaryAttachment{{ID: "temp-" + name, FileName: name}}, nil
}

func (f *fakeTransport) AttachTemporaryFiles(ctx context.Context, issueKey string, temporaryIDs []string) error {
	f.linkCalls = append(f.linkCalls, temporaryIDs)
	f.linkedIssues = append(f.linkedIssues, issueKey)
	return f.linkErr
}

func destPages() []*types.ServiceDeskPage {
	return []*types.ServiceDeskPage{
		{Start: 0, Limit: 50, Values: []types.ServiceDesk{{ID: 1, ProjectKey: "OTHER"}}},
		{Start: 50, Limit: 50, IsLastPage: true, Values: []types.ServiceDesk{{ID: 7, ProjectKey: "DEST"}}},
	}
}
