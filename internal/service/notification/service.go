package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwalitptl/care-portal-api/internal/email"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/pkg/logger"
	"github.com/jwalitptl/care-portal-api/pkg/messaging"
)

// Service turns outbox events into applicant emails
type Service struct {
	emailSvc email.Service
	broker   messaging.Broker
	logger   *logger.Logger
}

func NewService(emailSvc email.Service, broker messaging.Broker, log *logger.Logger) *Service {
	return &Service{
		emailSvc: emailSvc,
		broker:   broker,
		logger:   log,
	}
}

// Run consumes channel until ctx is done
func (s *Service) Run(ctx context.Context, channel string) error {
	msgs, err := s.broker.Subscribe(ctx, channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.logger.Info("Notification subscriber started", "channel", channel)
	for raw := range msgs {
		if err := s.Handle(ctx, raw); err != nil {
			s.logger.Error(err, "Failed to handle notification")
		}
	}
	return nil
}

// Handle sends the email for a single broker message. Unknown event types are ignored.
func (s *Service) Handle(ctx context.Context, raw []byte) error {
	var msg messaging.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	var evt model.ApplicationEvent
	switch msg.Type {
	case model.EventApplicationSubmitted, model.EventApplicationReviewed, model.EventProviderProvisioned:
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("invalid %s payload: %w", msg.Type, err)
		}
	default:
		return nil
	}

	if evt.Email == "" {
		return nil
	}

	subject, body := compose(msg.Type, &evt)
	if subject == "" {
		return nil
	}
	if err := s.emailSvc.Send(ctx, evt.Email, subject, body); err != nil {
		return fmt.Errorf("failed to notify %s: %w", evt.ApplicationID, err)
	}
	return nil
}

func compose(eventType string, evt *model.ApplicationEvent) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", evt.ContactPerson)

	switch eventType {
	case model.EventApplicationSubmitted:
		fmt.Fprintf(&b, "We received your %s application. Our team will review it shortly.\n", evt.ProviderType)
		return "Application received", b.String()

	case model.EventProviderProvisioned:
		b.WriteString("Your provider account is now active. Sign in to complete your profile.\n")
		return "Welcome aboard", b.String()

	case model.EventApplicationReviewed:
		switch evt.Status {
		case model.ApplicationRejected:
			b.WriteString("Unfortunately your application was not approved.\n")
		case model.ApplicationNeedsRevision:
			b.WriteString("Your application needs a few changes before we can approve it.\n")
		default:
			return "", ""
		}
		if evt.Feedback != "" {
			fmt.Fprintf(&b, "\nReviewer feedback:\n%s\n", evt.Feedback)
		}
		return "Update on your application", b.String()
	}
	return "", ""
}
