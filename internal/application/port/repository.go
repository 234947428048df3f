package port

import (
	"context"

	"github.com/avenford/workflow-backend/internal/domain/submission"
)

// SubmissionRepository defines persistence operations for Submission
type SubmissionRepository interface {
	// Create persists a new submission
	Create(ctx context.Context, sub *submission.Submission) error

	// GetByID retrieves a submission by its ID, or (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*submission.Submission, error)

	// List retrieves submissions matching the filter, newest first
	List(ctx context.Context, filter submission.Filter) ([]*submission.Submission, error)

	// ApplyDecision updates the status and the decision's stage fields in
	// a single write
	ApplyDecision(ctx context.Context, id string, decision submission.Decision) error

	// Delete removes a submission record
	Delete(ctx context.Context, id string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
