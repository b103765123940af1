package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedExportData(t *testing.T) (*fakeRepo, uint) {
	t.Helper()
	repo := newFakeRepo()
	event := repo.seedEvent(
		models.Event{Title: "Party", InvitationToken: "inv-1"},
		models.Question{Type: models.QuestionText, Text: "Dietary needs?", Order: 1},
	)
	qID := event.Survey.Questions[0].ID

	yes := models.RSVPYes
	no := models.RSVPNo
	two := 2
	require.NoError(t, repo.Submission().Create(context.Background(), &models.SurveySubmission{
		SurveyID:     event.SurveyID,
		SubmittedAt:  time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Identity:     strPtr("Ada"),
		RSVPResponse: &yes,
		NumAttendees: &two,
		Answers: []models.QuestionResponse{
			{QuestionID: qID, Answer: []byte(`"vegetarian"`)},
		},
	}))
	require.NoError(t, repo.Submission().Create(context.Background(), &models.SurveySubmission{
		SurveyID:     event.SurveyID,
		SubmittedAt:  time.Date(2026, 6, 2, 9, 30, 0, 0, time.UTC),
		Identity:     strPtr("Ben"),
		RSVPResponse: &no,
	}))
	return repo, event.SurveyID
}

func TestExportResultsCSV(t *testing.T) {
	repo, surveyID := seedExportData(t)
	svc := NewExportService(repo, testLogger())

	data, err := svc.ExportResultsCSV(context.Background(), surveyID)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Submitted At", header[0])
	assert.Equal(t, "Name", header[1])
	assert.Equal(t, "Dietary needs?", header[len(header)-1])

	assert.Equal(t, "Ada", records[1][1])
	assert.Equal(t, "yes", records[1][2])
	assert.Equal(t, "2", records[1][3])
	assert.Equal(t, "vegetarian", records[1][len(header)-1])

	assert.Equal(t, "Ben", records[2][1])
	assert.Equal(t, "no", records[2][2])
	assert.Equal(t, "", records[2][3], "declines have no attendee count")
	assert.Equal(t, "", records[2][len(header)-1])
}

func TestExportResultsExcel(t *testing.T) {
	repo, surveyID := seedExportData(t)
	svc := NewExportService(repo, testLogger())

	data, err := svc.ExportResultsExcel(context.Background(), surveyID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Ada", rows[1][1])
	assert.Equal(t, "Ben", rows[2][1])
}

func TestExportUnknownSurvey(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExportService(repo, testLogger())

	_, err := svc.ExportResultsCSV(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}
