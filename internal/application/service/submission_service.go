package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avenford/workflow-backend/internal/application/port"
	"github.com/avenford/workflow-backend/internal/domain/submission"
	"github.com/avenford/workflow-backend/pkg/utils"
)

// CreateSubmissionRequest is the payload of a new submission
type CreateSubmissionRequest struct {
	Name    string
	Email   string
	Subject string
	Message string
	Files   []submission.FileRef
}

// SubmissionService manages the submission lifecycle outside of reviewer
// transitions
type SubmissionService interface {
	// Create validates and persists a new submission with status pending
	Create(ctx context.Context, req CreateSubmissionRequest) (*submission.Submission, error)

	// List retrieves submissions matching the filter, newest first
	List(ctx context.Context, filter submission.Filter) ([]*submission.Submission, error)

	// Delete removes a submission and best-effort removes its uploaded
	// files. When ownerEmail is non-empty it must match the stored
	// submitter email exactly.
	Delete(ctx context.Context, id, ownerEmail string) error
}

type submissionServiceImpl struct {
	repo   port.SubmissionRepository
	store  port.ObjectStore
	now    func() time.Time
	logger Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(repo port.SubmissionRepository, store port.ObjectStore, logger Logger) SubmissionService {
	return &submissionServiceImpl{
		repo:   repo,
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Create validates and persists a new submission
func (s *submissionServiceImpl) Create(ctx context.Context, req CreateSubmissionRequest) (*submission.Submission, error) {
	for field, value := range map[string]string{
		"name":    req.Name,
		"email":   req.Email,
		"subject": req.Subject,
		"message": req.Message,
	} {
		if value == "" {
			return nil, fmt.Errorf("%w: %s", submission.ErrMissingField, field)
		}
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("%w: %s", submission.ErrInvalidEmail, req.Email)
	}

	files := req.Files
	if files == nil {
		files = []submission.FileRef{}
	}

	sub := &submission.Submission{
		ID:        uuid.NewString(),
		Name:      utils.SanitizeString(req.Name),
		Email:     req.Email,
		Subject:   utils.SanitizeString(req.Subject),
		Message:   utils.SanitizeString(req.Message),
		Files:     files,
		Status:    submission.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	sub.UpdatedAt = sub.CreatedAt

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.logger.Info("Submission created",
		"submission_id", sub.ID,
		"email", sub.Email,
		"files", len(sub.Files),
	)

	return sub, nil
}

// List retrieves submissions matching the filter
func (s *submissionServiceImpl) List(ctx context.Context, filter submission.Filter) ([]*submission.Submission, error) {
	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// Delete removes a submission record and its uploaded file objects
func (s *submissionServiceImpl) Delete(ctx context.Context, id, ownerEmail string) error {
	if id == "" {
		return fmt.Errorf("%w: id", submission.ErrMissingField)
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return fmt.Errorf("%w: %s", submission.ErrNotFound, id)
	}

	if ownerEmail != "" && ownerEmail != sub.Email {
		return fmt.Errorf("%w: %s", submission.ErrForbidden, id)
	}

	// Object cleanup is best effort: each failure is logged and the loop
	// continues, and the record deletion below is unconditional.
	for _, file := range sub.Files {
		key, err := s.store.KeyFromURL(file.FileURL)
		if err != nil {
			s.logger.Error("Failed to derive storage key",
				"error", err,
				"submission_id", id,
				"file_url", file.FileURL,
			)
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Error("Failed to remove file object",
				"error", err,
				"submission_id", id,
				"key", key,
			)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	s.logger.Info("Submission deleted",
		"submission_id", id,
		"files", len(sub.Files),
	)

	return nil
}
