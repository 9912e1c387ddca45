package migration

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize is the number of service desks requested per page
	DefaultPageSize = 50
	// DefaultRequestType is the request type new requests are opened with
	DefaultRequestType = "Task"
)

// Resolver finds the service desk and request type a clone is created in
type Resolver struct {
	transport   Transport
	logger      *zap.Logger
	pageSize    int
	requestType string
}

// NewResolver creates a new resolver. Zero page size and empty request
// type fall back to the defaults.
func NewResolver(transport Transport, pageSize int, requestType string, logger *zap.Logger) *Resolver {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if requestType == "" {
		requestType = DefaultRequestType
	}

	return &Resolver{
		transport:   transport,
		logger:      logger,
		pageSize:    pageSize,
		requestType: requestType,
	}
}

// ResolveServiceDeskID pages through the service desks until one has the
// given project key. Failed, empty and exhausted listings all end in
// ErrProjectNotFound.
func (r *Resolver) ResolveServiceDeskID(ctx context.Context, projectKey string) (int, error) {
	start := 0
	for {
		page, err := r.transport.SearchServiceDesks(ctx, start, r.pageSize)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		if err != nil {
			r.logger.Warn("failed to list service desks",
				zap.Int("start", start),
				zap.Error(err),
			)
			return 0, fmt.Errorf("%w: %s", ErrProjectNotFound, projectKey)
		}
		if page == nil || (len(page.Values) == 0 && page.Size == 0) {
			r.logger.Info("no service desks found", zap.Int("start", start))
			return 0, fmt.Errorf("%w: %s", ErrProjectNotFound, projectKey)
		}

		for _, desk := range page.Values {
			if desk.ProjectKey != "" && strings.EqualFold(desk.ProjectKey, projectKey) {
				r.logger.Debug("resolved service desk",
					zap.String("project_key", projectKey),
					zap.Int("service_desk_id", desk.ID),
				)
				return desk.ID, nil
			}
		}

		if page.IsLastPage {
			return 0, fmt.Errorf("%w: %s", ErrProjectNotFound, projectKey)
		}
		start += r.pageSize
	}
}

// ResolveRequestTypeID finds the configured request type of a service
// desk. Only the first page of request types is inspected.
func (r *Resolver) ResolveRequestTypeID(ctx context.Context, serviceDeskID int) (int, error) {
	requestTypes, err := r.transport.ListRequestTypes(ctx, serviceDeskID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	if err != nil {
		r.logger.Warn("failed to list request types",
			zap.Int("service_desk_id", serviceDeskID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("%w: %q in service desk %d", ErrRequestTypeNotFound, r.requestType, serviceDeskID)
	}

	for _, rt := range requestTypes {
		if rt.Name != "" && strings.EqualFold(rt.Name, r.requestType) {
			return rt.ID, nil
		}
	}

	return 0, fmt.Errorf("%w: %q in service desk %d", ErrRequestTypeNotFound, r.requestType, serviceDeskID)
}
