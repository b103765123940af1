package handlers

import (
	"net/http"

	"github.com/gatherline/rsvp-service/internal/services"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	eventHandler  *EventHandler
	surveyHandler *SurveyHandler
	authHandler   *AuthHandler
	authService   services.AuthService
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		eventHandler: NewEventHandler(
			serviceManager.Event(),
			serviceManager.Submission(),
			logger,
		),
		surveyHandler: NewSurveyHandler(
			serviceManager.Survey(),
			serviceManager.Submission(),
			serviceManager.Analytics(),
			serviceManager.Export(),
			logger,
		),
		authHandler: NewAuthHandler(serviceManager.Auth(), logger),
		authService: serviceManager.Auth(),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "rsvp-service",
		})
	})

	api := router.Group("/api")
	{
		// Public invitation routes, addressed by invitation token
		events := api.Group("/events/:token")
		{
			events.GET("", hm.eventHandler.GetEvent)
			events.POST("/verify-access-code", hm.eventHandler.VerifyAccessCode)
			events.GET("/stats", hm.eventHandler.GetStats)
			events.POST("/rsvp", hm.eventHandler.SubmitRSVP)
			events.PUT("/rsvp", hm.eventHandler.UpdateRSVP)
			events.GET("/my-rsvp", hm.eventHandler.GetMyRSVP)
		}

		// Public survey routes, addressed by survey token
		surveys := api.Group("/surveys/:token")
		{
			surveys.GET("", hm.surveyHandler.GetSurvey)
			surveys.POST("/responses", hm.surveyHandler.SubmitResponse)
		}

		api.POST("/auth/login", hm.authHandler.Login)

		// Admin routes behind token auth
		admin := api.Group("/admin", AuthMiddleware(hm.authService))
		{
			adminEvents := admin.Group("/events")
			{
				adminEvents.POST("", hm.eventHandler.CreateEvent)
				adminEvents.GET("", hm.eventHandler.ListEvents)
				adminEvents.GET("/:id", hm.eventHandler.GetEventByID)
				adminEvents.PUT("/:id", hm.eventHandler.UpdateEvent)
				adminEvents.DELETE("/:id", hm.eventHandler.DeleteEvent)
			}

			adminSurveys := admin.Group("/surveys")
			{
				adminSurveys.POST("", hm.surveyHandler.CreateSurvey)
				adminSurveys.GET("", hm.surveyHandler.ListSurveys)
				adminSurveys.GET("/:id", hm.surveyHandler.GetSurveyByID)
				adminSurveys.PUT("/:id", hm.surveyHandler.UpdateSurvey)
				adminSurveys.DELETE("/:id", hm.surveyHandler.DeleteSurvey)

				// Question authoring
				adminSurveys.POST("/:id/questions", hm.surveyHandler.AddQuestion)
				adminSurveys.PUT("/:id/questions/reorder", hm.surveyHandler.ReorderQuestions)

				// Results and export
				adminSurveys.GET("/:id/submissions", hm.surveyHandler.ListSubmissions)
				adminSurveys.GET("/:id/results", hm.surveyHandler.GetResults)
				adminSurveys.GET("/:id/export/csv", hm.surveyHandler.ExportCSV)
				adminSurveys.GET("/:id/export/xlsx", hm.surveyHandler.ExportExcel)
			}

			adminQuestions := admin.Group("/questions")
			{
				adminQuestions.PUT("/:question_id", hm.surveyHandler.UpdateQuestion)
				adminQuestions.DELETE("/:question_id", hm.surveyHandler.DeleteQuestion)
				adminQuestions.GET("/:question_id/results", hm.surveyHandler.GetQuestionResults)
			}
		}
	}
}
