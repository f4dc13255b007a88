package model

import (
	"fmt"
	"strings"
)

// Role is the portal role stored on a profile
type Role string

const (
	RolePatient             Role = "patient"
	RoleDoctor              Role = "doctor"
	RolePharmacy            Role = "pharmacy"
	RoleDiagnostics         Role = "diagnostics"
	RoleAdmin               Role = "admin"
	RoleAmbulance           Role = "ambulance"
	RoleCustomerCare        Role = "customer_care"
	RoleFinancialController Role = "financial_controller"
)

// Roles lists every role in display order
var Roles = []Role{
	RolePatient,
	RoleDoctor,
	RolePharmacy,
	RoleDiagnostics,
	RoleAdmin,
	RoleAmbulance,
	RoleCustomerCare,
	RoleFinancialController,
}

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RolePharmacy, RoleDiagnostics, RoleAdmin,
		RoleAmbulance, RoleCustomerCare, RoleFinancialController:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// IsProvider reports whether the role belongs to an onboarded provider
func (r Role) IsProvider() bool {
	switch r {
	case RoleDoctor, RolePharmacy, RoleDiagnostics, RoleAmbulance:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// PlanTier is a patient's subscription level
type PlanTier string

const (
	PlanBasic     PlanTier = "basic"
	PlanClassic   PlanTier = "classic"
	PlanPremium   PlanTier = "premium"
	PlanExecutive PlanTier = "executive"
)

const DefaultPlanTier = PlanBasic

func (p PlanTier) Valid() bool {
	switch p {
	case PlanBasic, PlanClassic, PlanPremium, PlanExecutive:
		return true
	}
	return false
}

func ParsePlanTier(s string) (PlanTier, error) {
	p := PlanTier(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown plan tier %q", s)
	}
	return p, nil
}

// Profile is the portal identity record
type Profile struct {
	Base
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Role         Role     `json:"role" db:"role"`
	PlanTier     PlanTier `json:"plan_tier" db:"plan_tier"`
	FirstName    string   `json:"first_name" db:"first_name"`
	LastName     string   `json:"last_name" db:"last_name"`
	DisplayName  string   `json:"display_name" db:"display_name"`
}

// FullName prefers the display name
func (p *Profile) FullName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" validate:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72" validate:"required,min=8,max=72"`
	FirstName   string `json:"first_name" binding:"required" validate:"required"`
	LastName    string `json:"last_name" validate:"omitempty"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePlanRequest struct {
	PlanTier string `json:"plan_tier" binding:"required,oneof=basic classic premium executive"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=patient doctor pharmacy diagnostics admin ambulance customer_care financial_controller"`
}
