// Package access decides whether a session may reach a role-restricted view.
package access

import (
	"github.com/jwalitptl/care-portal-api/internal/model"
)

// Outcome of a gate evaluation
type Outcome string

const (
	Allow    Outcome = "allow"
	Redirect Outcome = "redirect"
	Pending  Outcome = "pending"
)

// DefaultLoginRoute is where rejected sessions are sent
const DefaultLoginRoute = "/login"

// Decision is the result of evaluating the gate
type Decision struct {
	Outcome Outcome `json:"decision"`
	Target  string  `json:"redirect,omitempty"`
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Gate evaluates role requirements against session snapshots
type Gate struct {
	loginRoute string
}

func NewGate(loginRoute string) *Gate {
	if loginRoute == "" {
		loginRoute = DefaultLoginRoute
	}
	return &Gate{loginRoute: loginRoute}
}

// LoginRoute returns the redirect target for rejected sessions
func (g *Gate) LoginRoute() string {
	return g.loginRoute
}

// Evaluate is pure: the same snapshot always yields the same decision.
func (g *Gate) Evaluate(required model.Role, session *model.Session) Decision {
	if session != nil && session.Loading {
		return Decision{Outcome: Pending}
	}
	if !session.Authenticated() || session.Profile == nil {
		return g.redirect()
	}

	// Roles outside the enum never match, even if both sides carry the same string.
	if !required.Valid() || !session.Profile.Role.Valid() {
		return g.redirect()
	}
	if session.Profile.Role != required {
		return g.redirect()
	}
	return Decision{Outcome: Allow}
}

// EvaluateAny allows the session when any of the roles is allowed
func (g *Gate) EvaluateAny(session *model.Session, roles ...model.Role) Decision {
	decision := g.redirect()
	for _, role := range roles {
		d := g.Evaluate(role, session)
		if d.Outcome != Redirect {
			return d
		}
	}
	return decision
}

func (g *Gate) redirect() Decision {
	return Decision{Outcome: Redirect, Target: g.loginRoute}
}

// Evaluate uses the default login route
func Evaluate(required model.Role, session *model.Session) Decision {
	return NewGate(DefaultLoginRoute).Evaluate(required, session)
}
