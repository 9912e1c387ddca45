package jira

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/clintrovert/jts/pkg/types"
)

// DownloadAttachment retrieves the content of an attachment by its URI
func (c *Client) DownloadAttachment(ctx context.Context, uri string) ([]byte, error) {
	if uri == "" {
		return nil, errors.New("attachment uri is required")
	}

	api := c.api()
	req, err := api.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}

	resp, err := api.Do(req, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment %s: %w", uri, responseError(resp, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment %s: %w", uri, err)
	}

	c.logger.Debug("downloaded attachment",
		zap.String("uri", uri),
		zap.Int("bytes", len(data)),
	)

	return data, nil
}

// UploadTemporaryFile stages a local file on a service desk. The endpoint
// is experimental and needs the X-ExperimentalApi header.
func (c *Client) UploadTemporaryFile(ctx context.Context, serviceDeskID int, path string) ([]types.TemporaryAttachment, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to copy %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	api := c.api()
	endpoint := "rest/servicedeskapi/servicedesk/" + strconv.Itoa(serviceDeskID) + "/attachTemporaryFile"
	req, err := api.NewMultiPartRequestWithContext(ctx, http.MethodPost, endpoint, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")
	req.Header.Set("X-ExperimentalApi", "true")

	var result temporaryFileResult
	resp, err := api.Do(req, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to upload temporary file: %w", responseError(resp, jira.NewJiraError(resp, err)))
	}

	attachments := make([]types.TemporaryAttachment, 0, len(result.TemporaryAttachments))
	for _, a := range result.TemporaryAttachments {
		attachments = append(attachments, types.TemporaryAttachment{
			ID:       a.TemporaryAttachmentID,
			FileName: a.FileName,
		})
	}

	return attachments, nil
}

// AttachTemporaryFiles links staged files to a service desk request
func (c *Client) AttachTemporaryFiles(ctx context.Context, issueKey string, temporaryIDs []string) error {
	if len(temporaryIDs) == 0 {
		return errors.New("no temporary attachments to link")
	}

	api := c.api()
	body := attachRequest{
		TemporaryAttachmentIDs: temporaryIDs,
		Public:                 true,
	}
	req, err := api.NewRequestWithContext(ctx, http.MethodPost, "rest/servicedeskapi/request/"+issueKey+"/attachment", body)
	if err != nil {
		return fmt.Errorf("failed to build attach request: %w", err)
	}

	resp, err := api.Do(req, nil)
	if err != nil {
		return fmt.Errorf("failed to attach files to %s: %w", issueKey, responseError(resp, jira.NewJiraError(resp, err)))
	}
	resp.Body.Close()

	c.logger.Info("attached files to request",
		zap.String("issue_key", issueKey),
		zap.Int("count", len(temporaryIDs)),
	)

	return nil
}
