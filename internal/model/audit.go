package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ActorID    uuid.UUID       `json:"actor_id" db:"actor_id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id" db:"entity_id"`
	Changes    json.RawMessage `json:"changes" db:"changes"`
	Metadata   json.RawMessage `json:"metadata" db:"metadata"`
	IPAddress  string          `json:"ip_address" db:"ip_address"`
	UserAgent  string          `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	// Action types
	AuditActionSubmit     = "submit"
	AuditActionReview     = "review"
	AuditActionResubmit   = "resubmit"
	AuditActionProvision  = "provision"
	AuditActionVerify     = "verify"
	AuditActionRoleChange = "role_change"
	AuditActionPlanChange = "plan_change"
	AuditActionRegister   = "register"
	AuditActionLogin      = "login"
	AuditActionLogout     = "logout"

	// Entity types
	AuditEntityApplication     = "provider_application"
	AuditEntityProviderProfile = "provider_profile"
	AuditEntityProfile         = "profile"
)
