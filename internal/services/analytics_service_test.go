package services

import (
	"context"
	"testing"
	"time"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAnswer(t *testing.T, repo *fakeRepo, surveyID, questionID uint, raw string) {
	t.Helper()
	require.NoError(t, repo.Submission().Create(context.Background(), &models.SurveySubmission{
		SurveyID:    surveyID,
		SubmittedAt: time.Now(),
		Answers: []models.QuestionResponse{
			{QuestionID: questionID, Answer: []byte(raw)},
		},
	}))
}

func TestGetSurveyResultsAggregates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAnalyticsService(repo, nil, testLogger())

	survey := repo.seedSurvey(
		models.Survey{Title: "Feedback", SurveyToken: "sv-1"},
		models.Question{Type: models.QuestionYesNo, Text: "Enjoyed it?", Order: 1},
	)
	qID := survey.Questions[0].ID

	seedAnswer(t, repo, survey.ID, qID, `true`)
	seedAnswer(t, repo, survey.ID, qID, `true`)
	seedAnswer(t, repo, survey.ID, qID, `false`)

	results, err := svc.GetSurveyResults(context.Background(), survey.ID)
	require.NoError(t, err)

	assert.Equal(t, survey.ID, results.SurveyID)
	assert.Equal(t, "Feedback", results.Title)
	assert.Equal(t, int64(3), results.SubmissionCount)
	require.Len(t, results.Questions, 1)

	rows := results.Questions[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, answers.Row{Label: answers.LabelYes, Count: 2}, rows[0])
	assert.Equal(t, answers.Row{Label: answers.LabelNo, Count: 1}, rows[1])
}

func TestGetSurveyResultsUnknownSurvey(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAnalyticsService(repo, nil, testLogger())

	_, err := svc.GetSurveyResults(context.Background(), 99)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestGetQuestionResultsCountsSkipped(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAnalyticsService(repo, nil, testLogger())

	survey := repo.seedSurvey(
		models.Survey{Title: "Feedback", SurveyToken: "sv-1"},
		models.Question{Type: models.QuestionText, Text: "Anything else?", Order: 1},
	)
	qID := survey.Questions[0].ID

	seedAnswer(t, repo, survey.ID, qID, `"great venue"`)
	seedAnswer(t, repo, survey.ID, qID, `""`)
	seedAnswer(t, repo, survey.ID, qID, `"great venue"`)

	result, err := svc.GetQuestionResults(context.Background(), qID)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, answers.Row{Label: "Answered", Count: 2}, result.Rows[0])
	assert.Equal(t, answers.Row{Label: answers.LabelSkipped, Count: 1}, result.Rows[1])
}

func TestGetSurveyResultsCountsMissingAnswersAsSkipped(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAnalyticsService(repo, nil, testLogger())

	survey := repo.seedSurvey(
		models.Survey{Title: "Feedback", SurveyToken: "sv-1"},
		models.Question{Type: models.QuestionYesNo, Text: "Enjoyed it?", Order: 1},
	)
	qID := survey.Questions[0].ID

	seedAnswer(t, repo, survey.ID, qID, `true`)
	seedAnswer(t, repo, survey.ID, qID, `false`)
	// One respondent left the optional question unanswered, so no row was
	// stored for it at all.
	require.NoError(t, repo.Submission().Create(context.Background(), &models.SurveySubmission{
		SurveyID:    survey.ID,
		SubmittedAt: time.Now(),
	}))
	seedAnswer(t, repo, survey.ID, qID, `true`)

	results, err := svc.GetSurveyResults(context.Background(), survey.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), results.SubmissionCount)
	require.Len(t, results.Questions, 1)

	rows := results.Questions[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, answers.Row{Label: answers.LabelYes, Count: 2}, rows[0])
	assert.Equal(t, answers.Row{Label: answers.LabelNo, Count: 1}, rows[1])
	assert.Equal(t, answers.Row{Label: answers.LabelSkipped, Count: 1}, rows[2])
}

func TestGetQuestionResultsCountsMissingAnswersAsSkipped(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAnalyticsService(repo, nil, testLogger())

	survey := repo.seedSurvey(
		models.Survey{Title: "Feedback", SurveyToken: "sv-1"},
		models.Question{Type: models.QuestionMultipleChoice, Text: "Best part?", Order: 1, Options: []byte(`["food","music"]`)},
	)
	qID := survey.Questions[0].ID

	seedAnswer(t, repo, survey.ID, qID, `"food"`)
	require.NoError(t, repo.Submission().Create(context.Background(), &models.SurveySubmission{
		SurveyID:    survey.ID,
		SubmittedAt: time.Now(),
	}))

	result, err := svc.GetQuestionResults(context.Background(), qID)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, answers.Row{Label: "food", Count: 1}, result.Rows[0])
	assert.Equal(t, answers.Row{Label: answers.LabelSkipped, Count: 1}, result.Rows[1])
}

func TestGetQuestionResultsUnknownQuestion(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAnalyticsService(repo, nil, testLogger())

	_, err := svc.GetQuestionResults(context.Background(), 99)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}
