package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gatherline/rsvp-service/internal/models"
)

// NotificationService sends RSVP confirmations to respondents who left an
// email address.
type NotificationService interface {
	SendRSVPConfirmation(ctx context.Context, event *models.Event, submission *models.SurveySubmission, editURL string) error
}

// EmailSender abstracts the outgoing mail transport.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type notificationService struct {
	sender EmailSender
	logger *slog.Logger
}

func NewNotificationService(sender EmailSender, logger *slog.Logger) NotificationService {
	return &notificationService{
		sender: sender,
		logger: logger,
	}
}

func (s *notificationService) SendRSVPConfirmation(ctx context.Context, event *models.Event, submission *models.SurveySubmission, editURL string) error {
	if submission.Email == nil || *submission.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("RSVP received for %s", event.Title)
	body := s.buildConfirmationBody(event, submission, editURL)

	if err := s.sender.Send(ctx, *submission.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}

	s.logger.Info("RSVP confirmation sent",
		"event_id", event.ID,
		"submission_id", submission.ID)
	return nil
}

func (s *notificationService) buildConfirmationBody(event *models.Event, submission *models.SurveySubmission, editURL string) string {
	response := ""
	if submission.RSVPResponse != nil {
		switch *submission.RSVPResponse {
		case models.RSVPYes:
			response = fmt.Sprintf("You are attending with %d in your party.", submission.AttendeeCount())
		case models.RSVPNo:
			response = "You have declined."
		case models.RSVPMaybe:
			response = "You answered maybe."
		}
	}

	body := fmt.Sprintf(
		"Your RSVP for %s on %s has been recorded.\n\n%s\n",
		event.Title,
		event.Date.Format("Monday, January 2, 2006 at 15:04"),
		response,
	)
	if editURL != "" {
		body += fmt.Sprintf("\nYou can change your response later using this link:\n%s\n", editURL)
	}
	return body
}

// LogEmailSender writes outgoing mail to the log instead of a mail server,
// the default until SMTP is configured.
type LogEmailSender struct {
	Logger *slog.Logger
}

func (l *LogEmailSender) Send(ctx context.Context, to, subject, body string) error {
	l.Logger.Info("Outgoing email",
		"to", to,
		"subject", subject,
		"body", body)
	return nil
}
