package jira

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clintrovert/jts/pkg/types"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "jdoe@example.com", "secret", zaptest.NewLogger(t))
	require.NoError(t, err)

	return client, server
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("", "a@b.c", "k", zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = NewClient("https://jira.example.com", "", "k", zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "jdoe", UsernameFromEmail("jdoe@example.com"))
	assert.Equal(t, "jdoe", UsernameFromEmail("jdoe"))
}

func TestGetIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issue/SUP-1", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "jdoe@example.com" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{
			"key": "SUP-1",
			"fields": map[string]any{
				"summary":     "Broken VPN",
				"description": "Cannot connect",
				"status":      map[string]any{"name": "Open"},
				"assignee":    map[string]any{"displayName": "Jane Doe"},
				"project":     map[string]any{"key": "SUP"},
				"attachment": []map[string]any{
					{"id": "1", "filename": "log.txt", "content": "https://jira.example.com/secure/attachment/1/log.txt"},
					{"id": "2", "filename": "empty"},
				},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	issue, err := client.GetIssue(context.Background(), "SUP-1")
	require.NoError(t, err)

	assert.Equal(t, "SUP-1", issue.Key)
	assert.Equal(t, "Broken VPN", issue.Summary)
	assert.Equal(t, "Cannot connect", issue.Description)
	assert.Equal(t, "Open", issue.Status)
	assert.Equal(t, "Jane Doe", issue.Assignee)
	assert.Equal(t, "SUP", issue.ProjectKey)
	assert.Equal(t, []string{"https://jira.example.com/secure/attachment/1/log.txt"}, issue.Attachments)
}

func TestGetIssue_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issue/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"errorMessages": []string{"Issue does not exist"}})
	})

	client, _ := newTestClient(t, mux)

	_, err := client.GetIssue(context.Background(), "NOPE-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSearchAssignedIssues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		jql := r.URL.Query().Get("jql")
		assert.Contains(t, jql, `assignee = "jdoe"`)
		assert.Contains(t, jql, "resolution = Unresolved")
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		writeJSON(w, map[string]any{
			"startAt":    0,
			"maxResults": 50,
			"total":      1,
			"issues": []map[string]any{
				{"key": "SUP-7", "fields": map[string]any{"summary": "Reset password"}},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	issues, err := client.SearchAssignedIssues(context.Background(), client.Username())
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "SUP-7", issues[0].Key)
	assert.Equal(t, "Reset password", issues[0].Summary)

	_, err = client.SearchAssignedIssues(context.Background(), "")
	assert.Error(t, err)
}

func TestSearchServiceDesks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/servicedeskapi/servicedesk", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("start"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		writeJSON(w, map[string]any{
			"start":      50,
			"limit":      50,
			"isLastPage": true,
			"values": []map[string]any{
				{"id": "4", "projectKey": "DEST", "projectName": "Destination"},
				{"id": "bad", "projectKey": "BAD"},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	page, err := client.SearchServiceDesks(context.Background(), 50, 50)
	require.NoError(t, err)
	assert.True(t, page.IsLastPage)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, []types.ServiceDesk{{ID: 4, ProjectKey: "DEST", ProjectName: "Destination"}}, page.Values)
}

func TestListRequestTypesAndFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/servicedeskapi/servicedesk/4/requesttype", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"values": []map[string]any{
				{"id": "11", "name": "Bug"},
				{"id": "12", "name": "Task"},
			},
		})
	})
	mux.HandleFunc("/rest/servicedeskapi/servicedesk/4/requesttype/12/field", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"requestTypeFields": []map[string]any{
				{"fieldId": "summary", "name": "Summary", "required": true, "jiraSchema": map[string]any{"type": "string", "system": "summary"}},
				{
					"fieldId":  "components",
					"name":     "Components",
					"required": true,
					"validValues": []map[string]any{
						{"value": "1", "label": "Frontend"},
					},
					"jiraSchema": map[string]any{"type": "array", "items": "component", "customId": 10010},
				},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	requestTypes, err := client.ListRequestTypes(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []types.RequestType{{ID: 11, Name: "Bug"}, {ID: 12, Name: "Task"}}, requestTypes)

	fields, err := client.GetRequestTypeFields(context.Background(), 4, 12)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "summary", fields[0].FieldID)
	assert.True(t, fields[0].Required)
	require.NotNil(t, fields[1].Schema)
	assert.Equal(t, "array", fields[1].Schema.Type)
	assert.Equal(t, 10010, fields[1].Schema.CustomID)
	assert.Equal(t, []types.ValidValue{{Value: "1", Label: "Frontend"}}, fields[1].ValidValues)
}

func TestCreateRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/servicedeskapi/request", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body createRequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "4", body.ServiceDeskID)
		assert.Equal(t, "12", body.RequestTypeID)
		assert.Equal(t, "Broken VPN", body.RequestFieldValues["summary"])
		assert.NotNil(t, body.RequestParticipants)

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{
			"issueId":       "10001",
			"issueKey":      "DEST-1",
			"requestTypeId": "12",
			"serviceDeskId": "4",
			"requestFieldValues": []map[string]any{
				{"fieldId": "summary", "value": "Broken VPN"},
			},
			"currentStatus": map[string]any{"status": "Waiting for support"},
		})
	})

	client, _ := newTestClient(t, mux)

	created, err := client.CreateRequest(context.Background(), &types.CreateRequest{
		ServiceDeskID: 4,
		RequestTypeID: 12,
		FieldValues:   map[string]any{"summary": "Broken VPN"},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEST-1", created.Key)
	assert.Equal(t, "10001", created.ID)
	assert.Equal(t, "Broken VPN", created.Summary)
	assert.Equal(t, "Waiting for support", created.Status)
}

func TestCreateRequest_Failure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/servicedeskapi/request", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"errorMessage": "Field summary is required"})
	})

	client, _ := newTestClient(t, mux)

	_, err := client.CreateRequest(context.Background(), &types.CreateRequest{ServiceDeskID: 4, RequestTypeID: 12})
	assert.Error(t, err)
}

func TestDownloadAttachment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/secure/attachment/1/log.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	mux.HandleFunc("/secure/attachment/2/gone.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, server := newTestClient(t, mux)

	data, err := client.DownloadAttachment(context.Background(), server.URL+"/secure/attachment/1/log.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = client.DownloadAttachment(context.Background(), server.URL+"/secure/attachment/2/gone.txt")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUploadTemporaryFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/servicedeskapi/servicedesk/4/attachTemporaryFile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))
		assert.Equal(t, "true", r.Header.Get("X-ExperimentalApi"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "log.txt", header.Filename)
		assert.Equal(t, "hello", string(content))

		writeJSON(w, map[string]any{
			"temporaryAttachments": []map[string]any{
				{"temporaryAttachmentId": "temp-1", "fileName": "log.txt"},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	attachments, err := client.UploadTemporaryFile(context.Background(), 4, path)
	require.NoError(t, err)
	assert.Equal(t, []types.TemporaryAttachment{{ID: "temp-1", FileName: "log.txt"}}, attachments)

	_, err = client.UploadTemporaryFile(context.Background(), 4, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestAttachTemporaryFiles(t *testing.T) {
	var got attachRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/servicedeskapi/request/DEST-1/attachment", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]any{})
	})

	client, _ := newTestClient(t, mux)

	require.NoError(t, client.AttachTemporaryFiles(context.Background(), "DEST-1", []string{"temp-1", "temp-2"}))
	assert.Equal(t, []string{"temp-1", "temp-2"}, got.TemporaryAttachmentIDs)
	assert.True(t, got.Public)

	assert.Error(t, client.AttachTemporaryFiles(context.Background(), "DEST-1", nil))
}

func TestProbe_BearerEscalation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.Header.Get("Authorization") == "Bearer secret" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, _ := newTestClient(t, mux)

	assert.Equal(t, AuthBasic, client.Scheme())
	assert.Equal(t, types.Unauthorized, client.Probe(context.Background()))

	require.NoError(t, client.UseBearerAuth())
	assert.Equal(t, AuthBearer, client.Scheme())
	assert.Equal(t, types.Connected, client.Probe(context.Background()))
}

func TestProbe_NotConnected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, server := newTestClient(t, mux)
	assert.Equal(t, types.NotConnected, client.Probe(context.Background()))

	server.Close()
	assert.Equal(t, types.NotConnected, client.Probe(context.Background()))
}

func TestSetAuthScheme_Unsupported(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	err := client.SetAuthScheme(AuthScheme("digest"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "digest"))
}
