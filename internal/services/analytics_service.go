package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/cache"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
)

// AnalyticsService computes per-question frequency tables over all stored
// submissions. Results are cached and invalidated on every new submission.
type AnalyticsService interface {
	GetSurveyResults(ctx context.Context, surveyID uint) (*SurveyResults, error)
	GetQuestionResults(ctx context.Context, questionID uint) (*QuestionResult, error)
}

type SurveyResults struct {
	SurveyID        uint             `json:"survey_id"`
	Title           string           `json:"title"`
	SubmissionCount int64            `json:"submission_count"`
	Questions       []QuestionResult `json:"questions"`
}

type QuestionResult struct {
	QuestionID uint                `json:"question_id"`
	Text       string              `json:"question_text"`
	Type       models.QuestionType `json:"question_type"`
	Rows       []answers.Row       `json:"rows"`
}

const resultsCacheTTL = 5 * time.Minute

type analyticsService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *analyticsService) GetSurveyResults(ctx context.Context, surveyID uint) (*SurveyResults, error) {
	cacheKey := fmt.Sprintf("results:survey:%d:all", surveyID)
	if s.cache != nil {
		var cached SurveyResults
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Results cache read failed", "survey_id", surveyID, "error", err)
		}
	}

	survey, err := s.repo.Survey().GetByID(ctx, surveyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	count, err := s.repo.Submission().CountBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	results := &SurveyResults{
		SurveyID:        survey.ID,
		Title:           survey.Title,
		SubmissionCount: count,
		Questions:       make([]QuestionResult, 0, len(survey.Questions)),
	}

	for _, q := range survey.Questions {
		result, err := s.aggregateQuestion(ctx, q, count)
		if err != nil {
			return nil, err
		}
		results.Questions = append(results.Questions, *result)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, results, resultsCacheTTL); err != nil {
			s.logger.Warn("Results cache write failed", "survey_id", surveyID, "error", err)
		}
	}

	return results, nil
}

func (s *analyticsService) GetQuestionResults(ctx context.Context, questionID uint) (*QuestionResult, error) {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	count, err := s.repo.Submission().CountBySurvey(ctx, question.SurveyID)
	if err != nil {
		return nil, err
	}
	return s.aggregateQuestion(ctx, *question, count)
}

func (s *analyticsService) aggregateQuestion(ctx context.Context, question models.Question, submissionCount int64) (*QuestionResult, error) {
	stored, err := s.repo.Submission().ListAnswersByQuestion(ctx, question.ID)
	if err != nil {
		return nil, err
	}

	// The aggregation universe is the submission set, not the stored rows:
	// a submission without a row for this question counts as skipped.
	raws := make([]json.RawMessage, 0, submissionCount)
	for _, row := range stored {
		raws = append(raws, json.RawMessage(row.Answer))
	}
	for int64(len(raws)) < submissionCount {
		raws = append(raws, json.RawMessage("null"))
	}

	return &QuestionResult{
		QuestionID: question.ID,
		Text:       question.Text,
		Type:       question.Type,
		Rows:       answers.Aggregate(question.Type, raws),
	}, nil
}
