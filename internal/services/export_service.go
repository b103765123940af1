package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService renders all submissions of a survey as downloadable files.
type ExportService interface {
	ExportResultsCSV(ctx context.Context, surveyID uint) ([]byte, error)
	ExportResultsExcel(ctx context.Context, surveyID uint) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// rsvpColumns precede the per-question columns; they stay empty for
// standalone survey submissions.
var rsvpColumns = []string{"Submitted At", "Name", "Response", "Attendees", "Email", "Phone", "Comment"}

func (s *exportService) ExportResultsCSV(ctx context.Context, surveyID uint) ([]byte, error) {
	header, rows, err := s.buildRows(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.Info("Exported results to CSV", "survey_id", surveyID, "rows", len(rows))
	return buf.Bytes(), nil
}

func (s *exportService) ExportResultsExcel(ctx context.Context, surveyID uint) ([]byte, error) {
	header, rows, err := s.buildRows(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	writeRow := func(rowIdx int, values []string) error {
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Exported results to Excel", "survey_id", surveyID, "rows", len(rows))
	return buf.Bytes(), nil
}

// buildRows assembles the export table: fixed RSVP columns followed by one
// column per question in display order, answers rendered human-readable.
func (s *exportService) buildRows(ctx context.Context, surveyID uint) ([]string, [][]string, error) {
	survey, err := s.repo.Survey().GetByID(ctx, surveyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrSurveyNotFound
		}
		return nil, nil, err
	}

	submissions, err := s.repo.Submission().ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}

	header := append([]string{}, rsvpColumns...)
	for _, q := range survey.Questions {
		header = append(header, q.Text)
	}

	rows := make([][]string, 0, len(submissions))
	for _, sub := range submissions {
		byQuestion := make(map[uint][]byte, len(sub.Answers))
		for _, a := range sub.Answers {
			byQuestion[a.QuestionID] = a.Answer
		}

		row := []string{
			sub.SubmittedAt.Format(time.RFC3339),
			derefString(sub.Identity),
			rsvpLabel(sub.RSVPResponse),
			attendeesLabel(sub),
			derefString(sub.Email),
			derefString(sub.Phone),
			derefString(sub.Comment),
		}
		for _, q := range survey.Questions {
			raw, ok := byQuestion[q.ID]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, answers.FormatRaw(q, raw))
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func rsvpLabel(r *models.RSVPResponse) string {
	if r == nil {
		return ""
	}
	return string(*r)
}

func attendeesLabel(sub *models.SurveySubmission) string {
	if sub.RSVPResponse == nil || *sub.RSVPResponse == models.RSVPNo {
		return ""
	}
	if sub.NumAttendees == nil {
		return ""
	}
	return fmt.Sprintf("%d", *sub.NumAttendees)
}
