package services

import (
	"context"
	"sort"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository used by the service tests.
type fakeRepo struct {
	nextID      uint
	events      map[uint]*models.Event
	surveys     map[uint]*models.Survey
	questions   map[uint]*models.Question
	submissions map[uint]*models.SurveySubmission
	admins      map[uint]*models.Admin
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:      1,
		events:      make(map[uint]*models.Event),
		surveys:     make(map[uint]*models.Survey),
		questions:   make(map[uint]*models.Question),
		submissions: make(map[uint]*models.SurveySubmission),
		admins:      make(map[uint]*models.Admin),
	}
}

func (r *fakeRepo) id() uint {
	id := r.nextID
	r.nextID++
	return id
}

func (r *fakeRepo) Event() repositories.EventRepository           { return (*fakeEventRepo)(r) }
func (r *fakeRepo) Survey() repositories.SurveyRepository         { return (*fakeSurveyRepo)(r) }
func (r *fakeRepo) Question() repositories.QuestionRepository     { return (*fakeQuestionRepo)(r) }
func (r *fakeRepo) Submission() repositories.SubmissionRepository { return (*fakeSubmissionRepo)(r) }
func (r *fakeRepo) Admin() repositories.AdminRepository           { return (*fakeAdminRepo)(r) }

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

// seedEvent installs an event with its owned survey and questions.
func (r *fakeRepo) seedEvent(event models.Event, questions ...models.Question) *models.Event {
	survey := models.Survey{ID: r.id(), Title: event.Title, SurveyToken: "svtok-" + event.InvitationToken}
	for i := range questions {
		questions[i].ID = r.id()
		questions[i].SurveyID = survey.ID
		r.questions[questions[i].ID] = &questions[i]
		survey.Questions = append(survey.Questions, questions[i])
	}
	event.ID = r.id()
	event.SurveyID = survey.ID
	survey.EventID = &event.ID
	event.Survey = survey
	r.surveys[survey.ID] = &survey
	r.events[event.ID] = &event
	return r.events[event.ID]
}

func (r *fakeRepo) seedSurvey(survey models.Survey, questions ...models.Question) *models.Survey {
	survey.ID = r.id()
	for i := range questions {
		questions[i].ID = r.id()
		questions[i].SurveyID = survey.ID
		r.questions[questions[i].ID] = &questions[i]
		survey.Questions = append(survey.Questions, questions[i])
	}
	r.surveys[survey.ID] = &survey
	return r.surveys[survey.ID]
}

// ===== EVENT =====

type fakeEventRepo fakeRepo

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = (*fakeRepo)(r).id()
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.attachSurvey(event)
	return event, nil
}

func (r *fakeEventRepo) GetByInvitationToken(ctx context.Context, token string) (*models.Event, error) {
	for _, event := range r.events {
		if event.InvitationToken == token {
			r.attachSurvey(event)
			return event, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEventRepo) attachSurvey(event *models.Event) {
	if survey, ok := r.surveys[event.SurveyID]; ok {
		event.Survey = *survey
	}
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uint) error {
	event, ok := r.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.surveys, event.SurveyID)
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	var out []*models.Event
	for _, event := range r.events {
		if filters.CreatedBy != nil && event.CreatedBy != *filters.CreatedBy {
			continue
		}
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) ExistsByInvitationToken(ctx context.Context, token string) (bool, error) {
	_, err := r.GetByInvitationToken(ctx, token)
	return err == nil, nil
}

// ===== SURVEY =====

type fakeSurveyRepo fakeRepo

func (r *fakeSurveyRepo) Create(ctx context.Context, survey *models.Survey) error {
	survey.ID = (*fakeRepo)(r).id()
	r.surveys[survey.ID] = survey
	return nil
}

func (r *fakeSurveyRepo) GetByID(ctx context.Context, id uint) (*models.Survey, error) {
	survey, ok := r.surveys[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return survey, nil
}

func (r *fakeSurveyRepo) GetByToken(ctx context.Context, token string) (*models.Survey, error) {
	for _, survey := range r.surveys {
		if survey.SurveyToken == token {
			return survey, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSurveyRepo) Update(ctx context.Context, survey *models.Survey) error {
	r.surveys[survey.ID] = survey
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.surveys[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.surveys, id)
	return nil
}

func (r *fakeSurveyRepo) List(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	var out []*models.Survey
	for _, survey := range r.surveys {
		if filters.Standalone != nil && *filters.Standalone != (survey.EventID == nil) {
			continue
		}
		out = append(out, survey)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeSurveyRepo) ExistsByToken(ctx context.Context, token string) (bool, error) {
	_, err := r.GetByToken(ctx, token)
	return err == nil, nil
}

// ===== QUESTION =====

type fakeQuestionRepo fakeRepo

func (r *fakeQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	question.ID = (*fakeRepo)(r).id()
	r.questions[question.ID] = question
	if survey, ok := r.surveys[question.SurveyID]; ok {
		survey.Questions = append(survey.Questions, *question)
	}
	return nil
}

func (r *fakeQuestionRepo) CreateBatch(ctx context.Context, questions []*models.Question) error {
	for _, q := range questions {
		if err := r.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	question, ok := r.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (r *fakeQuestionRepo) ListBySurvey(ctx context.Context, surveyID uint) ([]models.Question, error) {
	var out []models.Question
	for _, q := range r.questions {
		if q.SurveyID == surveyID {
			out = append(out, *q)
		}
	}
	models.SortQuestions(out)
	return out, nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	r.questions[question.ID] = question
	return nil
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id uint) error {
	delete(r.questions, id)
	return nil
}

func (r *fakeQuestionRepo) Reorder(ctx context.Context, surveyID uint, orderedIDs []uint) error {
	for position, id := range orderedIDs {
		if q, ok := r.questions[id]; ok && q.SurveyID == surveyID {
			q.Order = position + 1
		}
	}
	return nil
}

// ===== SUBMISSION =====

type fakeSubmissionRepo fakeRepo

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *models.SurveySubmission) error {
	submission.ID = (*fakeRepo)(r).id()
	for i := range submission.Answers {
		submission.Answers[i].ID = (*fakeRepo)(r).id()
		submission.Answers[i].SubmissionID = submission.ID
	}
	r.submissions[submission.ID] = submission
	return nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (*models.SurveySubmission, error) {
	submission, ok := r.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (r *fakeSubmissionRepo) Update(ctx context.Context, submission *models.SurveySubmission) error {
	r.submissions[submission.ID] = submission
	return nil
}

func (r *fakeSubmissionRepo) Delete(ctx context.Context, id uint) error {
	delete(r.submissions, id)
	return nil
}

func (r *fakeSubmissionRepo) ListBySurvey(ctx context.Context, surveyID uint) ([]*models.SurveySubmission, error) {
	var out []*models.SurveySubmission
	for _, sub := range r.submissions {
		if sub.SurveyID == surveyID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSubmissionRepo) CountBySurvey(ctx context.Context, surveyID uint) (int64, error) {
	subs, _ := r.ListBySurvey(ctx, surveyID)
	return int64(len(subs)), nil
}

func (r *fakeSubmissionRepo) ReplaceAnswers(ctx context.Context, submissionID uint, answers []models.QuestionResponse) error {
	submission, ok := r.submissions[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range answers {
		answers[i].SubmissionID = submissionID
	}
	submission.Answers = answers
	return nil
}

func (r *fakeSubmissionRepo) ListAnswersByQuestion(ctx context.Context, questionID uint) ([]models.QuestionResponse, error) {
	ids := make([]uint, 0, len(r.submissions))
	for id := range r.submissions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.QuestionResponse
	for _, id := range ids {
		for _, a := range r.submissions[id].Answers {
			if a.QuestionID == questionID {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// ===== ADMIN =====

type fakeAdminRepo fakeRepo

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = (*fakeRepo)(r).id()
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	admin, ok := r.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func (r *fakeAdminRepo) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	for _, admin := range r.admins {
		if admin.Username == username {
			return admin, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
