package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProviderProfile is the activated provider record derived from an approved
// application. ApplicationID is immutable once created.
type ProviderProfile struct {
	Base
	UserID           uuid.UUID      `json:"user_id" db:"user_id"`
	ApplicationID    uuid.UUID      `json:"application_id" db:"application_id"`
	ProviderType     ProviderType   `json:"provider_type" db:"provider_type"`
	DisplayName      string         `json:"display_name" db:"display_name"`
	Email            string         `json:"email" db:"email"`
	Phone            string         `json:"phone" db:"phone"`
	OrganizationName *string        `json:"organization_name,omitempty" db:"organization_name"`
	Specialization   *string        `json:"specialization,omitempty" db:"specialization"`
	ServicesOffered  pq.StringArray `json:"services_offered,omitempty" db:"services_offered"`
	IsVerified       bool           `json:"is_verified" db:"is_verified"`
}

// NewProviderProfile derives the provider record for an approved application
func NewProviderProfile(app *ProviderApplication, userID uuid.UUID) *ProviderProfile {
	display := app.ContactPerson
	if app.OrganizationName != nil && *app.OrganizationName != "" && app.ProviderType != ProviderDoctor {
		display = *app.OrganizationName
	}

	profile := &ProviderProfile{
		UserID:           userID,
		ApplicationID:    app.ID,
		ProviderType:     app.ProviderType,
		DisplayName:      display,
		Email:            app.Email,
		Phone:            app.Phone,
		OrganizationName: app.OrganizationName,
	}

	// Specialization only applies to doctors; services to the other provider types.
	switch app.ProviderType {
	case ProviderDoctor:
		profile.Specialization = app.Specialization
	default:
		profile.ServicesOffered = app.ServicesOffered
	}
	return profile
}

type ProviderFilter struct {
	ProviderType ProviderType
	Verified     *bool
}
