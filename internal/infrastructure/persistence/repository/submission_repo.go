package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avenford/workflow-backend/internal/application/port"
	"github.com/avenford/workflow-backend/internal/domain/submission"
	"github.com/avenford/workflow-backend/internal/infrastructure/persistence/sqlite"
)

// SubmissionRepository implements port.SubmissionRepository on sqlite
type SubmissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB, logger *zap.Logger) port.SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

const submissionColumns = `
	id, name, email, subject, message, files, status,
	finance_comment, finance_reviewed_at,
	cofounder_comment, cofounder_reviewed_at,
	founder_comment, founder_reviewed_at,
	submitter_signature, founder_signature,
	created_at, updated_at
`

// Create persists a new submission
func (r *SubmissionRepository) Create(ctx context.Context, sub *submission.Submission) error {
	files, err := json.Marshal(sub.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	query := `
		INSERT INTO submissions (id, name, email, subject, message, files, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.getExecutor(ctx).ExecContext(ctx, query,
		sub.ID,
		sub.Name,
		sub.Email,
		sub.Subject,
		sub.Message,
		string(files),
		sub.Status.String(),
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create submission", zap.Error(err))
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetByID retrieves a submission by ID, or (nil, nil) when absent
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`

	row := r.getExecutor(ctx).QueryRowContext(ctx, query, id)
	sub, err := scanSubmission(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get submission", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// List retrieves submissions matching the filter, newest first
func (r *SubmissionRepository) List(ctx context.Context, filter submission.Filter) ([]*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`

	var conditions []string
	var args []interface{}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status.String())
	}
	if filter.Email != "" {
		conditions = append(conditions, "email = ?")
		args = append(args, filter.Email)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list submissions", zap.Error(err))
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]*submission.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// ApplyDecision updates the status and the decision's stage fields in a
// single write. The set of columns is fixed by the decision's stage; no
// other column can be touched by a transition.
func (r *SubmissionRepository) ApplyDecision(ctx context.Context, id string, decision submission.Decision) error {
	sets := []string{"status = ?", "updated_at = ?"}
	args := []interface{}{decision.Status.String(), time.Now().UTC()}

	if decision.HasStage() {
		prefix := decision.Stage.String()
		sets = append(sets, prefix+"_reviewed_at = ?")
		args = append(args, decision.ReviewedAt)
		if decision.Comment != "" {
			sets = append(sets, prefix+"_comment = ?")
			args = append(args, decision.Comment)
		}
	}
	if decision.SubmitterSignature != "" {
		sets = append(sets, "submitter_signature = ?")
		args = append(args, decision.SubmitterSignature)
	}
	if decision.FounderSignature != "" {
		sets = append(sets, "founder_signature = ?")
		args = append(args, decision.FounderSignature)
	}

	query := "UPDATE submissions SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to apply decision", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to apply decision: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", submission.ErrNotFound, id)
	}

	return nil
}

// Delete removes a submission record
func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, "DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete submission", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", submission.ErrNotFound, id)
	}

	return nil
}

// scanSubmission reads one submission row via the given scan function
func scanSubmission(scan func(dest ...interface{}) error) (*submission.Submission, error) {
	var sub submission.Submission
	var files string
	var status string
	var financeComment, cofounderComment, founderComment sql.NullString
	var financeReviewedAt, cofounderReviewedAt, founderReviewedAt sql.NullTime
	var submitterSignature, founderSignature sql.NullString

	err := scan(
		&sub.ID,
		&sub.Name,
		&sub.Email,
		&sub.Subject,
		&sub.Message,
		&files,
		&status,
		&financeComment,
		&financeReviewedAt,
		&cofounderComment,
		&cofounderReviewedAt,
		&founderComment,
		&founderReviewedAt,
		&submitterSignature,
		&founderSignature,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Status = submission.Status(status)
	if err := json.Unmarshal([]byte(files), &sub.Files); err != nil {
		return nil, fmt.Errorf("unmarshal files: %w", err)
	}

	sub.FinanceComment = financeComment.String
	sub.CofounderComment = cofounderComment.String
	sub.FounderComment = founderComment.String
	sub.SubmitterSignature = submitterSignature.String
	sub.FounderSignature = founderSignature.String

	if financeReviewedAt.Valid {
		sub.FinanceReviewedAt = &financeReviewedAt.Time
	}
	if cofounderReviewedAt.Valid {
		sub.CofounderReviewedAt = &cofounderReviewedAt.Time
	}
	if founderReviewedAt.Valid {
		sub.FounderReviewedAt = &founderReviewedAt.Time
	}

	return &sub, nil
}

// getExecutor returns the appropriate executor based on context
func (r *SubmissionRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
