package config

import (
	"log/slog"
	"strings"

	"github.com/gatherline/rsvp-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled         bool
	Publisher       string // kafka or channel
	KafkaBrokers    string
	SubmissionTopic string
}

// LoadEventConfig reads event publishing settings from the environment.
func LoadEventConfig() EventConfig {
	return EventConfig{
		Enabled:         getEnv("EVENTS_ENABLED", "true") == "true",
		Publisher:       getEnv("EVENTS_PUBLISHER", "channel"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		SubmissionTopic: getEnv("SUBMISSION_TOPIC", "submissions"),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using no-op publisher")
		return events.NewNopEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.SubmissionTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.SubmissionTopic,
			Logger:       logger,
		})
	case "channel":
		logger.Info("Creating in-process event publisher", "topic", c.SubmissionTopic)
		return events.NewChannelEventPublisher(c.SubmissionTopic, logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to no-op", "publisher", c.Publisher)
		return events.NewNopEventPublisher(logger), nil
	}
}
