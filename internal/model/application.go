package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProviderType is the kind of provider asking to join the platform
type ProviderType string

const (
	ProviderDoctor     ProviderType = "doctor"
	ProviderPharmacy   ProviderType = "pharmacy"
	ProviderDiagnostic ProviderType = "diagnostic"
	ProviderAmbulance  ProviderType = "ambulance"
)

var ProviderTypes = []ProviderType{ProviderDoctor, ProviderPharmacy, ProviderDiagnostic, ProviderAmbulance}

func (t ProviderType) Valid() bool {
	switch t {
	case ProviderDoctor, ProviderPharmacy, ProviderDiagnostic, ProviderAmbulance:
		return true
	}
	return false
}

// Role returns the profile role granted once an application of this type is approved
func (t ProviderType) Role() (Role, bool) {
	switch t {
	case ProviderDoctor:
		return RoleDoctor, true
	case ProviderPharmacy:
		return RolePharmacy, true
	case ProviderDiagnostic:
		return RoleDiagnostics, true
	case ProviderAmbulance:
		return RoleAmbulance, true
	}
	return "", false
}

// ApplicationStatus is the review state of a provider application
type ApplicationStatus string

const (
	ApplicationPending       ApplicationStatus = "pending"
	ApplicationApproved      ApplicationStatus = "approved"
	ApplicationRejected      ApplicationStatus = "rejected"
	ApplicationNeedsRevision ApplicationStatus = "needs_revision"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationNeedsRevision:
		return true
	}
	return false
}

// Terminal statuses never change again
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// Reviewable reports whether an admin may decide on the application
func (s ApplicationStatus) Reviewable() bool {
	return s == ApplicationPending || s == ApplicationNeedsRevision
}

// ProviderApplication is a provider's onboarding request. Rows are kept as an
// audit record and never deleted.
type ProviderApplication struct {
	ID                 uuid.UUID         `json:"id" db:"id"`
	ApplicantUserID    *uuid.UUID        `json:"applicant_user_id,omitempty" db:"applicant_user_id"`
	ProviderType       ProviderType      `json:"provider_type" db:"provider_type"`
	ContactPerson      string            `json:"contact_person" db:"contact_person"`
	Email              string            `json:"email" db:"email"`
	Phone              string            `json:"phone" db:"phone"`
	OrganizationName   *string           `json:"organization_name,omitempty" db:"organization_name"`
	LicenseNumber      *string           `json:"license_number,omitempty" db:"license_number"`
	LicenseDocumentURL *string           `json:"license_document_url,omitempty" db:"license_document_url"`
	Specialization     *string           `json:"specialization,omitempty" db:"specialization"`
	ServicesOffered    pq.StringArray    `json:"services_offered,omitempty" db:"services_offered"`
	Status             ApplicationStatus `json:"status" db:"status"`
	RejectionReason    *string           `json:"rejection_reason,omitempty" db:"rejection_reason"`
	Feedback           *string           `json:"feedback,omitempty" db:"feedback"`
	SubmittedAt        time.Time         `json:"submitted_at" db:"submitted_at"`
	ReviewedAt         *time.Time        `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewerID         *uuid.UUID        `json:"reviewer_id,omitempty" db:"reviewer_id"`
	UpdatedAt          time.Time         `json:"updated_at" db:"updated_at"`
}

// SubmitApplicationRequest carries the applicant-provided fields
type SubmitApplicationRequest struct {
	ProviderType       string   `json:"provider_type" validate:"required,oneof=doctor pharmacy diagnostic ambulance"`
	ContactPerson      string   `json:"contact_person" validate:"required"`
	Email              string   `json:"email" validate:"required,email"`
	Phone              string   `json:"phone" validate:"required"`
	OrganizationName   string   `json:"organization_name"`
	LicenseNumber      string   `json:"license_number"`
	LicenseDocumentURL string   `json:"license_document_url" validate:"omitempty,url"`
	Specialization     string   `json:"specialization"`
	ServicesOffered    []string `json:"services_offered"`
}

// ReviewDecision is an admin's verdict on an application
type ReviewDecision string

const (
	DecisionApprove       ReviewDecision = "approved"
	DecisionReject        ReviewDecision = "rejected"
	DecisionNeedsRevision ReviewDecision = "needs_revision"
)

func (d ReviewDecision) Status() (ApplicationStatus, bool) {
	switch d {
	case DecisionApprove:
		return ApplicationApproved, true
	case DecisionReject:
		return ApplicationRejected, true
	case DecisionNeedsRevision:
		return ApplicationNeedsRevision, true
	}
	return "", false
}

type ReviewApplicationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected needs_revision"`
	Feedback string `json:"feedback"`
}

// ApplicationFilter narrows application listings
type ApplicationFilter struct {
	Status       ApplicationStatus
	ProviderType ProviderType
	Pagination
}

// ResubmitApplicationRequest carries corrected fields. Empty fields keep their current value.
type ResubmitApplicationRequest struct {
	ContactPerson      string   `json:"contact_person"`
	Email              string   `json:"email" validate:"omitempty,email"`
	Phone              string   `json:"phone"`
	OrganizationName   string   `json:"organization_name"`
	LicenseNumber      string   `json:"license_number"`
	LicenseDocumentURL string   `json:"license_document_url" validate:"omitempty,url"`
	Specialization     string   `json:"specialization"`
	ServicesOffered    []string `json:"services_offered"`
}
