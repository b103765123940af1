package services

import (
	"log/slog"

	"github.com/gatherline/rsvp-service/internal/cache"
	"github.com/gatherline/rsvp-service/internal/events"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/validator"
)

// ServiceManager wires all services with their shared dependencies.
type ServiceManager interface {
	Event() EventService
	Survey() SurveyService
	Submission() SubmissionService
	Analytics() AnalyticsService
	Auth() AuthService
	Export() ExportService
	Notification() NotificationService
}

type serviceManager struct {
	event        EventService
	survey       SurveyService
	submission   SubmissionService
	analytics    AnalyticsService
	auth         AuthService
	export       ExportService
	notification NotificationService
}

// ManagerConfig carries the shared dependencies for all services.
type ManagerConfig struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Sender    EmailSender
	JWTSecret string
	BaseURL   string
	Logger    *slog.Logger
	Validator *validator.Validator
}

func NewServiceManager(cfg ManagerConfig) ServiceManager {
	if cfg.Sender == nil {
		cfg.Sender = &LogEmailSender{Logger: cfg.Logger}
	}

	eventService := NewEventService(cfg.Repo, cfg.Logger, cfg.Validator)
	notificationService := NewNotificationService(cfg.Sender, cfg.Logger)

	return &serviceManager{
		event:        eventService,
		survey:       NewSurveyService(cfg.Repo, cfg.Cache, cfg.Logger, cfg.Validator),
		submission:   NewSubmissionService(cfg.Repo, eventService, cfg.Publisher, cfg.Cache, notificationService, cfg.BaseURL, cfg.Logger),
		analytics:    NewAnalyticsService(cfg.Repo, cfg.Cache, cfg.Logger),
		auth:         NewAuthService(cfg.Repo, cfg.Cache, cfg.JWTSecret, cfg.Logger),
		export:       NewExportService(cfg.Repo, cfg.Logger),
		notification: notificationService,
	}
}

func (m *serviceManager) Event() EventService               { return m.event }
func (m *serviceManager) Survey() SurveyService             { return m.survey }
func (m *serviceManager) Submission() SubmissionService     { return m.submission }
func (m *serviceManager) Analytics() AnalyticsService       { return m.analytics }
func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) Export() ExportService             { return m.export }
func (m *serviceManager) Notification() NotificationService { return m.notification }
