package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/avenford/workflow-backend/internal/application/port"
	"github.com/avenford/workflow-backend/internal/domain/submission"
)

// ExportService renders submission listings to spreadsheets for the
// admin dashboard's download
type ExportService interface {
	Export(ctx context.Context, filter submission.Filter) ([]byte, error)
}

type exportServiceImpl struct {
	repo   port.SubmissionRepository
	logger Logger
}

// NewExportService creates a new ExportService
func NewExportService(repo port.SubmissionRepository, logger Logger) ExportService {
	return &exportServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

var exportHeaders = []string{
	"ID", "Name", "Email", "Subject", "Status",
	"Finance Comment", "Finance Reviewed",
	"Cofounder Comment", "Cofounder Reviewed",
	"Founder Comment", "Founder Reviewed",
	"Files", "Created",
}

// Export renders the filtered submissions into an xlsx workbook
func (s *exportServiceImpl) Export(ctx context.Context, filter submission.Filter) ([]byte, error) {
	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header cell: %w", err)
		}
	}

	for row, sub := range subs {
		values := []interface{}{
			sub.ID,
			sub.Name,
			sub.Email,
			sub.Subject,
			sub.Status.String(),
			sub.FinanceComment,
			formatReviewTime(sub.FinanceReviewedAt),
			sub.CofounderComment,
			formatReviewTime(sub.CofounderReviewedAt),
			sub.FounderComment,
			formatReviewTime(sub.FounderReviewedAt),
			len(sub.Files),
			sub.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Submissions exported",
		"count", len(subs),
		"bytes", buf.Len(),
	)

	return buf.Bytes(), nil
}

func formatReviewTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
