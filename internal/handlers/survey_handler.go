package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/services"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// SurveyHandler serves standalone surveys, question authoring, results and
// exports.
type SurveyHandler struct {
	BaseHandler
	surveyService     services.SurveyService
	submissionService services.SubmissionService
	analyticsService  services.AnalyticsService
	exportService     services.ExportService
}

func NewSurveyHandler(
	surveyService services.SurveyService,
	submissionService services.SubmissionService,
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler:       NewBaseHandler(logger),
		surveyService:     surveyService,
		submissionService: submissionService,
		analyticsService:  analyticsService,
		exportService:     exportService,
	}
}

// ===== PUBLIC ENDPOINTS =====

// GetSurvey returns the public survey view for a survey token.
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	survey, err := h.surveyService.GetByToken(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

type submitResponseRequest struct {
	Answers map[uint]json.RawMessage `json:"answers"`
}

// SubmitResponse records an anonymous response to a standalone survey.
func (h *SurveyHandler) SubmitResponse(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	var req submitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.submissionService.SubmitSurveyResponse(c.Request.Context(), token, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ===== ADMIN ENDPOINTS =====

// CreateSurvey creates a standalone survey.
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req services.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	survey, err := h.surveyService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, survey)
}

// GetSurveyByID returns a survey for the admin dashboard.
func (h *SurveyHandler) GetSurveyByID(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	survey, err := h.surveyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

// ListSurveys returns surveys with pagination. The standalone query parameter
// filters to surveys not owned by an event.
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 20)

	filters := repositories.SurveyFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v := c.Query("standalone"); v != "" {
		standalone := v == "true"
		filters.Standalone = &standalone
	}

	surveys, total, err := h.surveyService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"surveys": surveys,
		"total":   total,
		"page":    page,
		"size":    size,
	})
}

// UpdateSurvey applies a partial update to a survey.
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	survey, err := h.surveyService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

// DeleteSurvey removes a survey and everything beneath it.
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.surveyService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Survey deleted"})
}

// ===== QUESTION AUTHORING =====

// AddQuestion appends a question to a survey.
func (h *SurveyHandler) AddQuestion(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	created, err := h.surveyService.AddQuestion(c.Request.Context(), id, &question)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateQuestion replaces a question's definition.
func (h *SurveyHandler) UpdateQuestion(c *gin.Context) {
	questionID := ParseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.surveyService.UpdateQuestion(c.Request.Context(), questionID, &question)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteQuestion removes a question from its survey.
func (h *SurveyHandler) DeleteQuestion(c *gin.Context) {
	questionID := ParseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	if err := h.surveyService.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}

type reorderQuestionsRequest struct {
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
}

// ReorderQuestions applies a new display order to a survey's questions.
func (h *SurveyHandler) ReorderQuestions(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req reorderQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.surveyService.ReorderQuestions(c.Request.Context(), id, req.QuestionIDs); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Questions reordered"})
}

// ListSubmissions returns every submission of a survey for the admin
// dashboard.
func (h *SurveyHandler) ListSubmissions(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	submissions, err := h.submissionService.ListSubmissions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// ===== RESULTS AND EXPORT =====

// GetResults returns the aggregated results for all questions of a survey.
func (h *SurveyHandler) GetResults(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	results, err := h.analyticsService.GetSurveyResults(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetQuestionResults returns the aggregated results for a single question.
func (h *SurveyHandler) GetQuestionResults(c *gin.Context) {
	questionID := ParseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	result, err := h.analyticsService.GetQuestionResults(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportCSV streams all submissions of a survey as a CSV file.
func (h *SurveyHandler) ExportCSV(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	data, err := h.exportService.ExportResultsCSV(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("survey-%d-results.csv", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportExcel streams all submissions of a survey as an Excel workbook.
func (h *SurveyHandler) ExportExcel(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	data, err := h.exportService.ExportResultsExcel(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("survey-%d-results.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
