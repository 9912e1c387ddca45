package grpc

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/clintrovert/jts/internal/fields"
	"github.com/clintrovert/jts/internal/migration"
	"github.com/clintrovert/jts/pkg/types"
)

// Service is the clone surface exposed over gRPC
type Service interface {
	CloneIssue(ctx context.Context, sourceKey, projectKey string) (*types.CreatedIssue, error)
	GetIssues(ctx context.Context) ([]types.Issue, error)
	CheckConnection(ctx context.Context) bool
}

// Server implements the MigrationService gRPC service
type Server struct {
	service Service
	logger  *zap.Logger
}

// NewServer creates a new gRPC server
func NewServer(service Service, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		logger:  logger,
	}
}

// Register registers the server with a gRPC server
func (s *Server) Register(grpcServer *grpc.Server) {
	RegisterMigrationServiceServer(grpcServer, s)
}

// CloneIssue clones an issue into a service desk project
func (s *Server) CloneIssue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sourceKey := req.GetFields()["source_key"].GetStringValue()
	projectKey := req.GetFields()["project_key"].GetStringValue()
	if sourceKey == "" || projectKey == "" {
		return nil, status.Error(codes.InvalidArgument, "source_key and project_key are required")
	}

	created, err := s.service.CloneIssue(ctx, sourceKey, projectKey)
	if err != nil {
		s.logger.Error("failed to clone issue",
			zap.String("source_key", sourceKey),
			zap.String("project_key", projectKey),
			zap.Error(err),
		)
		if created != nil {
			return nil, withIssueKey(statusFromError(err), created.Key)
		}
		return nil, statusFromError(err)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"id":                 created.ID,
		"key":                created.Key,
		"summary":            created.Summary,
		"status":             created.Status,
		"linked_attachments": toList(created.LinkedAttachments),
		"failed_attachments": toList(created.FailedAttachments),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return resp, nil
}

// ListIssues lists the issues assigned to the configured user
func (s *Server) ListIssues(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	issues, err := s.service.GetIssues(ctx)
	if err != nil {
		s.logger.Error("failed to list issues", zap.Error(err))
		return nil, statusFromError(err)
	}

	list := make([]any, 0, len(issues))
	for _, issue := range issues {
		list = append(list, map[string]any{
			"key":     issue.Key,
			"summary": issue.Summary,
			"status":  issue.Status,
		})
	}

	resp, err := structpb.NewStruct(map[string]any{"issues": list})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return resp, nil
}

// CheckConnection reports whether Jira accepts the configured credentials
func (s *Server) CheckConnection(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"connected": structpb.NewBoolValue(s.service.CheckConnection(ctx)),
	}}, nil
}

func toList(values []string) []any {
	list := make([]any, 0, len(values))
	for _, v := range values {
		list = append(list, v)
	}
	return list
}

// withIssueKey attaches the key of an already created request to err as a
// Struct detail
func withIssueKey(err error, key string) error {
	st := status.Convert(err)
	detailed, detailErr := st.WithDetails(&structpb.Struct{Fields: map[string]*structpb.Value{
		"issue_key": structpb.NewStringValue(key),
	}})
	if detailErr != nil {
		return err
	}
	return detailed.Err()
}

func statusFromError(err error) error {
	switch {
	case errors.Is(err, migration.ErrIssueNotFound),
		errors.Is(err, migration.ErrProjectNotFound),
		errors.Is(err, migration.ErrRequestTypeNotFound),
		errors.Is(err, migration.ErrFieldsNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, fields.ErrNoDefaultValue),
		errors.Is(err, migration.ErrInvalidState):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}
