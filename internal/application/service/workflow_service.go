package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avenford/workflow-backend/internal/application/port"
	"github.com/avenford/workflow-backend/internal/domain/submission"
)

// TransitionRequest is a reviewer's status-change request for a submission
type TransitionRequest struct {
	ID                 string
	Status             submission.Status
	Reviewer           submission.Reviewer
	Comment            string
	SubmitterSignature string
	FounderSignature   string
}

// WorkflowService applies reviewer transitions to submissions
type WorkflowService interface {
	// Transition validates the request, persists the decision, and hands
	// any resulting notification off for asynchronous delivery. The
	// returned record reflects the applied decision.
	Transition(ctx context.Context, req TransitionRequest) (*submission.Submission, error)
}

type workflowServiceImpl struct {
	repo       port.SubmissionRepository
	txMgr      port.TransactionManager
	dispatcher NotificationDispatcher
	strict     bool
	now        func() time.Time
	logger     Logger
}

// NewWorkflowService creates a new WorkflowService. When strict is true
// the engine rejects transitions whose requested status is not reachable
// from the record's current status; the default deployment runs
// permissive for parity with the admin UI's expectations.
func NewWorkflowService(
	repo port.SubmissionRepository,
	txMgr port.TransactionManager,
	dispatcher NotificationDispatcher,
	strict bool,
	logger Logger,
) WorkflowService {
	return &workflowServiceImpl{
		repo:       repo,
		txMgr:      txMgr,
		dispatcher: dispatcher,
		strict:     strict,
		now:        time.Now,
		logger:     logger,
	}
}

// Transition applies a reviewer decision to a submission
func (s *workflowServiceImpl) Transition(ctx context.Context, req TransitionRequest) (*submission.Submission, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("%w: id", submission.ErrMissingField)
	}
	if req.Status == "" {
		return nil, fmt.Errorf("%w: status", submission.ErrMissingField)
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", submission.ErrInvalidStatus, req.Status)
	}

	// The read and the write share one transaction so the decision lands
	// on the row version the reachability check saw, and the notification
	// contact fields come from that same version.
	var current *submission.Submission
	err := s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		current, err = s.repo.GetByID(txCtx, req.ID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}
		if current == nil {
			return fmt.Errorf("%w: %s", submission.ErrNotFound, req.ID)
		}

		if s.strict && !current.Status.CanTransitionTo(req.Status) {
			return fmt.Errorf("%w: %s -> %s", submission.ErrInvalidTransition, current.Status, req.Status)
		}

		decision := submission.NewDecision(
			req.Status,
			req.Reviewer,
			req.Comment,
			req.SubmitterSignature,
			req.FounderSignature,
			s.now(),
		)

		if err := s.repo.ApplyDecision(txCtx, req.ID, decision); err != nil {
			return fmt.Errorf("apply decision: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Submission transitioned",
		"submission_id", req.ID,
		"status", req.Status.String(),
		"reviewer", req.Reviewer.String(),
	)

	// The transition is committed; notification delivery happens off the
	// request path and cannot undo or fail it.
	if kind, ok := Decide(req.Status, req.Reviewer); ok {
		s.dispatcher.Dispatch(Notification{
			Kind:         kind,
			SubmissionID: current.ID,
			To:           current.Email,
			Name:         current.Name,
			Subject:      current.Subject,
			Reviewer:     req.Reviewer,
			Comment:      req.Comment,
		})
	}

	updated, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("reload submission: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", submission.ErrNotFound, req.ID)
	}

	return updated, nil
}
