package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/care-portal-api/internal/model"
)

func sessionWithRole(role model.Role) *model.Session {
	return &model.Session{
		User:    &model.AuthUser{ID: uuid.New(), Email: "user@example.com"},
		Profile: &model.Profile{Role: role, PlanTier: model.PlanBasic},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		required model.Role
		session  *model.Session
		want     Outcome
	}{
		{"matching role", model.RoleDoctor, sessionWithRole(model.RoleDoctor), Allow},
		{"role mismatch", model.RoleDoctor, sessionWithRole(model.RolePatient), Redirect},
		{"no session", model.RoleAdmin, nil, Redirect},
		{"anonymous", model.RoleAdmin, &model.Session{}, Redirect},
		{"profile missing", model.RoleAdmin, &model.Session{User: &model.AuthUser{ID: uuid.New()}}, Redirect},
		{"unknown profile role", model.Role("superuser"), sessionWithRole(model.Role("superuser")), Redirect},
		{"unknown required role", model.Role("nurse"), sessionWithRole(model.RolePatient), Redirect},
		{"loading with mismatch", model.RoleDoctor, &model.Session{Loading: true, Profile: &model.Profile{Role: model.RolePatient}}, Pending},
		{"loading anonymous", model.RoleAdmin, &model.Session{Loading: true}, Pending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.required, tt.session)
			assert.Equal(t, tt.want, got.Outcome)
			if tt.want == Redirect {
				assert.Equal(t, DefaultLoginRoute, got.Target)
			} else {
				assert.Empty(t, got.Target)
			}
		})
	}
}

func TestGate_CustomLoginRoute(t *testing.T) {
	g := NewGate("/auth/sign-in")

	got := g.Evaluate(model.RoleAdmin, sessionWithRole(model.RolePharmacy))
	assert.Equal(t, Decision{Outcome: Redirect, Target: "/auth/sign-in"}, got)
}

func TestGate_EvaluateAny(t *testing.T) {
	g := NewGate("")

	providerRoles := []model.Role{model.RoleDoctor, model.RolePharmacy, model.RoleDiagnostics, model.RoleAmbulance}

	assert.True(t, g.EvaluateAny(sessionWithRole(model.RolePharmacy), providerRoles...).Allowed())
	assert.Equal(t, Redirect, g.EvaluateAny(sessionWithRole(model.RolePatient), providerRoles...).Outcome)
	assert.Equal(t, Pending, g.EvaluateAny(&model.Session{Loading: true}, providerRoles...).Outcome)
	assert.Equal(t, Redirect, g.EvaluateAny(sessionWithRole(model.RoleAdmin)).Outcome)
}
