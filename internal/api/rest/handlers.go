package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clintrovert/jts/internal/fields"
	"github.com/clintrovert/jts/internal/migration"
	"github.com/clintrovert/jts/pkg/types"
)

// Service is the clone surface exposed over REST
type Service interface {
	CloneIssue(ctx context.Context, sourceKey, projectKey string) (*types.CreatedIssue, error)
	GetIssues(ctx context.Context) ([]types.Issue, error)
	CheckConnection(ctx context.Context) bool
}

// Workflows starts and tracks asynchronous clones
type Workflows interface {
	StartCloneWorkflow(ctx context.Context, sourceKey, projectKey string) (string, error)
	GetWorkflowStatus(ctx context.Context, workflowID string) (string, error)
	CancelWorkflow(ctx context.Context, workflowID string) error
}

// Handler handles REST API requests
type Handler struct {
	service   Service
	workflows Workflows
	logger    *zap.Logger
}

// NewHandler creates a new REST handler. workflows may be nil when no
// Temporal server is configured.
func NewHandler(service Service, workflows Workflows, logger *zap.Logger) *Handler {
	return &Handler{
		service:   service,
		workflows: workflows,
		logger:    logger,
	}
}

// CloneRequest represents a request to clone an issue
type CloneRequest struct {
	SourceKey  string `json:"source_key"`
	ProjectKey string `json:"project_key"`
}

// IssueResponse is a source issue as listed by GET /issues
type IssueResponse struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Status  string `json:"status,omitempty"`
}

// CloneResponse is the issue created by a clone
type CloneResponse struct {
	ID                string   `json:"id"`
	Key               string   `json:"key"`
	Summary           string   `json:"summary"`
	Status            string   `json:"status,omitempty"`
	LinkedAttachments []string `json:"linked_attachments,omitempty"`
	FailedAttachments []string `json:"failed_attachments,omitempty"`
}

// ConnectionResponse reports whether Jira accepts the configured credentials
type ConnectionResponse struct {
	Connected bool `json:"connected"`
}

// StartWorkflowResponse represents the response from starting a workflow
type StartWorkflowResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
}

// GetWorkflowStatusResponse represents the workflow status
type GetWorkflowStatusResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
}

// ErrorResponse is the body of every failed request. IssueKey is set when
// the service desk request was created before the failure.
type ErrorResponse struct {
	Error    string `json:"error"`
	IssueKey string `json:"issue_key,omitempty"`
}

// CloneIssue handles POST /clones
func (h *Handler) CloneIssue(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCloneRequest(w, r)
	if !ok {
		return
	}

	created, err := h.service.CloneIssue(r.Context(), req.SourceKey, req.ProjectKey)
	if err != nil {
		h.logger.Error("failed to clone issue",
			zap.String("source_key", req.SourceKey),
			zap.String("project_key", req.ProjectKey),
			zap.Error(err),
		)
		resp := ErrorResponse{Error: err.Error()}
		if created != nil {
			resp.IssueKey = created.Key
		}
		h.writeJSON(w, statusFor(err), resp)
		return
	}

	h.writeJSON(w, http.StatusCreated, CloneResponse{
		ID:                created.ID,
		Key:               created.Key,
		Summary:           created.Summary,
		Status:            created.Status,
		LinkedAttachments: created.LinkedAttachments,
		FailedAttachments: created.FailedAttachments,
	})
}

// ListIssues handles GET /issues
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.service.GetIssues(r.Context())
	if err != nil {
		h.logger.Error("failed to list issues", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, err)
		return
	}

	resp := make([]IssueResponse, 0, len(issues))
	for _, issue := range issues {
		resp = append(resp, IssueResponse{Key: issue.Key, Summary: issue.Summary, Status: issue.Status})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// CheckConnection handles GET /connection
func (h *Handler) CheckConnection(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ConnectionResponse{Connected: h.service.CheckConnection(r.Context())})
}

// StartWorkflow handles POST /workflows
func (h *Handler) StartWorkflow(w http.ResponseWriter, r *http.Request) {
	if !h.requireWorkflows(w) {
		return
	}

	req, ok := h.decodeCloneRequest(w, r)
	if !ok {
		return
	}

	workflowID, err := h.workflows.StartCloneWorkflow(r.Context(), req.SourceKey, req.ProjectKey)
	if err != nil {
		h.logger.Error("failed to start workflow", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, StartWorkflowResponse{
		WorkflowID: workflowID,
		Status:     "started",
	})
}

// GetWorkflowStatus handles GET /workflows/{id}
func (h *Handler) GetWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireWorkflows(w) {
		return
	}

	workflowID := chi.URLParam(r, "id")
	status, err := h.workflows.GetWorkflowStatus(r.Context(), workflowID)
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}

	h.writeJSON(w, http.StatusOK, GetWorkflowStatusResponse{
		WorkflowID: workflowID,
		Status:     status,
	})
}

// CancelWorkflow handles DELETE /workflows/{id}
func (h *Handler) CancelWorkflow(w http.ResponseWriter, r *http.Request) {
	if !h.requireWorkflows(w) {
		return
	}

	workflowID := chi.URLParam(r, "id")
	if err := h.workflows.CancelWorkflow(r.Context(), workflowID); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/clones", h.CloneIssue)
	r.Get("/issues", h.ListIssues)
	r.Get("/connection", h.CheckConnection)
	r.Post("/workflows", h.StartWorkflow)
	r.Get("/workflows/{id}", h.GetWorkflowStatus)
	r.Delete("/workflows/{id}", h.CancelWorkflow)
}

// NewRouter mounts the API under /api/v1 next to a root health check
func NewRouter(h *Handler) chi.Router {
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return router
}

func (h *Handler) decodeCloneRequest(w http.ResponseWriter, r *http.Request) (CloneRequest, bool) {
	var req CloneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return req, false
	}
	if req.SourceKey == "" || req.ProjectKey == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("source_key and project_key are required"))
		return req, false
	}
	return req, true
}

func (h *Handler) requireWorkflows(w http.ResponseWriter) bool {
	if h.workflows == nil {
		h.writeError(w, http.StatusServiceUnavailable, errors.New("workflows are not configured"))
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, migration.ErrIssueNotFound),
		errors.Is(err, migration.ErrProjectNotFound),
		errors.Is(err, migration.ErrRequestTypeNotFound),
		errors.Is(err, migration.ErrFieldsNotFound):
		return http.StatusNotFound
	case errors.Is(err, fields.ErrNoDefaultValue),
		errors.Is(err, migration.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
