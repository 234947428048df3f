package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avenford/workflow-backend/internal/application/service"
	"github.com/avenford/workflow-backend/internal/domain/submission"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	submissionService service.SubmissionService
	workflowService   service.WorkflowService
	exportService     service.ExportService
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	submissionService service.SubmissionService,
	workflowService service.WorkflowService,
	exportService service.ExportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		submissionService: submissionService,
		workflowService:   workflowService,
		exportService:     exportService,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateSubmissionRequest is the POST /api/workflow body
type CreateSubmissionRequest struct {
	Name    string               `json:"name"`
	Email   string               `json:"email"`
	Subject string               `json:"subject"`
	Message string               `json:"message"`
	Files   []submission.FileRef `json:"files"`
}

// TransitionRequest is the PATCH /api/workflow body
type TransitionRequest struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	Reviewer           string `json:"reviewer"`
	Comment            string `json:"comment"`
	SubmitterSignature string `json:"submitterSignature"`
	FounderSignature   string `json:"founderSignature"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateSubmission handles POST /api/workflow
func (h *Handlers) CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	sub, err := h.submissionService.Create(c.Request.Context(), service.CreateSubmissionRequest{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Files:   req.Files,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    sub,
	})
}

// ListSubmissions handles GET /api/workflow
func (h *Handlers) ListSubmissions(c *gin.Context) {
	filter := submission.Filter{
		Status: submission.Status(c.Query("status")),
		Email:  c.Query("email"),
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   fmt.Sprintf("invalid status: %s", filter.Status),
		})
		return
	}

	subs, err := h.submissionService.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    subs,
	})
}

// TransitionSubmission handles PATCH /api/workflow
func (h *Handlers) TransitionSubmission(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	sub, err := h.workflowService.Transition(c.Request.Context(), service.TransitionRequest{
		ID:                 req.ID,
		Status:             submission.Status(req.Status),
		Reviewer:           submission.Reviewer(req.Reviewer),
		Comment:            req.Comment,
		SubmitterSignature: req.SubmitterSignature,
		FounderSignature:   req.FounderSignature,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    sub,
	})
}

// DeleteSubmission handles DELETE /api/workflow
func (h *Handlers) DeleteSubmission(c *gin.Context) {
	id := c.Query("id")
	email := c.Query("email")

	if err := h.submissionService.Delete(c.Request.Context(), id, email); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
	})
}

// ExportSubmissions handles GET /api/workflow/export
func (h *Handlers) ExportSubmissions(c *gin.Context) {
	filter := submission.Filter{
		Status: submission.Status(c.Query("status")),
		Email:  c.Query("email"),
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   fmt.Sprintf("invalid status: %s", filter.Status),
		})
		return
	}

	content, err := h.exportService.Export(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// respondError maps domain errors to HTTP status codes. Validation errors
// carry their message to the caller; upstream failures are logged in full
// and surfaced generically.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, submission.ErrMissingField),
		errors.Is(err, submission.ErrInvalidStatus),
		errors.Is(err, submission.ErrInvalidTransition),
		errors.Is(err, submission.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, submission.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, submission.ErrForbidden):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "internal server error",
		})
	}
}
