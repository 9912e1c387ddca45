package migration

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// CloneResult reports what happened to the attachments of one issue
type CloneResult struct {
	// HandleIDs are the temporary attachment ids staged on the service desk
	HandleIDs []string
	// Failed are the attachment URIs that could not be downloaded or staged
	Failed []string
}

// AttachmentCloner copies attachments from an issue to a service desk
type AttachmentCloner struct {
	transport  Transport
	logger     *zap.Logger
	scratchDir string
}

// NewAttachmentCloner creates a new attachment cloner writing downloaded
// files to scratchDir. Files are left in place once uploaded.
func NewAttachmentCloner(transport Transport, scratchDir string, logger *zap.Logger) *AttachmentCloner {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	return &AttachmentCloner{
		transport:  transport,
		logger:     logger,
		scratchDir: scratchDir,
	}
}

// Clone downloads every attachment, one at a time and in order, and stages
// it on the service desk. A failing attachment is logged and skipped; only
// cancellation stops the loop.
func (c *AttachmentCloner) Clone(ctx context.Context, serviceDeskID int, uris []string) (CloneResult, error) {
	result := CloneResult{HandleIDs: []string{}}

	for _, uri := range uris {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		ids, err := c.cloneOne(ctx, serviceDeskID, uri)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			c.logger.Warn("skipping attachment",
				zap.String("uri", uri),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, uri)
			continue
		}

		result.HandleIDs = append(result.HandleIDs, ids...)
	}

	return result, nil
}

func (c *AttachmentCloner) cloneOne(ctx context.Context, serviceDeskID int, uri string) ([]string, error) {
	data, err := c.transport.DownloadAttachment(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}

	name, err := scratchName(uri)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	scratchPath := filepath.Join(c.scratchDir, name)
	if err := os.WriteFile(scratchPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write scratch file: %w", err)
	}

	staged, err := c.transport.UploadTemporaryFile(ctx, serviceDeskID, scratchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload: %w", err)
	}

	ids := make([]string, 0, len(staged))
	for _, s := range staged {
		ids = append(ids, s.ID)
	}

	c.logger.Debug("staged attachment",
		zap.String("uri", uri),
		zap.String("path", scratchPath),
		zap.Strings("temporary_ids", ids),
	)

	return ids, nil
}

// Link attaches the staged files to a request in a single call
func (c *AttachmentCloner) Link(ctx context.Context, issueKey string, handleIDs []string) error {
	if len(handleIDs) == 0 {
		return errors.New("no staged attachments to link")
	}

	if err := c.transport.AttachTemporaryFiles(ctx, issueKey, handleIDs); err != nil {
		return fmt.Errorf("failed to link attachments to %s: %w", issueKey, err)
	}

	return nil
}

// scratchName is the base name of the attachment URI path
func scratchName(uri string) (string, error) {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}

	name := path.Base(p)
	if name == "." || name == ".." || name == "/" || name == "" {
		return "", fmt.Errorf("attachment uri %q has no file name", uri)
	}

	return name, nil
}
