package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Event types written to the outbox
const (
	EventApplicationSubmitted   = "application.submitted"
	EventApplicationReviewed    = "application.reviewed"
	EventApplicationResubmitted = "application.resubmitted"
	EventProviderProvisioned    = "provider.provisioned"
	EventProviderVerified       = "provider.verified"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// ApplicationEvent is the payload of application.* events
type ApplicationEvent struct {
	ApplicationID uuid.UUID         `json:"application_id"`
	ProviderType  ProviderType      `json:"provider_type"`
	Status        ApplicationStatus `json:"status"`
	ContactPerson string            `json:"contact_person"`
	Email         string            `json:"email"`
	Feedback      string            `json:"feedback,omitempty"`
	ActorID       uuid.UUID         `json:"actor_id"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
