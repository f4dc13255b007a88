package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/cache"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
	"github.com/jwalitptl/care-portal-api/internal/service/audit"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
)

type ProfileServicer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	ChangePlan(ctx context.Context, session *model.Session, tier string) (*model.Profile, error)
	ChangeRole(ctx context.Context, adminID, targetID uuid.UUID, role string) (*model.Profile, error)
}

type Service struct {
	profiles repository.ProfileRepository
	tx       repository.Transactor
	auditor  *audit.Service
	cache    cache.ProfileCache
}

func NewService(profiles repository.ProfileRepository, tx repository.Transactor, auditor *audit.Service, profileCache cache.ProfileCache) *Service {
	return &Service{
		profiles: profiles,
		tx:       tx,
		auditor:  auditor,
		cache:    profileCache,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.profiles.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("profile", err)
	}
	if err != nil {
		return nil, apperrors.Infrastructure("load profile", err)
	}
	return profile, nil
}

// ChangePlan switches the caller's subscription tier
func (s *Service) ChangePlan(ctx context.Context, session *model.Session, tier string) (*model.Profile, error) {
	if !session.Authenticated() {
		return nil, apperrors.Unauthorized(errors.New("sign in to change plan"))
	}
	plan, err := model.ParsePlanTier(tier)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	id := session.ActorID()
	var updated *model.Profile
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.PlanTier == plan {
			updated = current
			return nil
		}
		if err := s.profiles.UpdatePlan(ctx, id, plan); err != nil {
			return apperrors.Infrastructure("update plan", err)
		}
		if err := s.auditor.Log(ctx, id, model.AuditActionPlanChange, model.AuditEntityProfile, id, &audit.LogOptions{
			Changes: map[string]string{"from": string(current.PlanTier), "to": string(plan)},
		}); err != nil {
			return apperrors.Infrastructure("audit plan change", err)
		}
		current.PlanTier = plan
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(id)
	return updated, nil
}

// ChangeRole assigns a new role to another profile. Admins cannot demote
// themselves.
func (s *Service) ChangeRole(ctx context.Context, adminID, targetID uuid.UUID, role string) (*model.Profile, error) {
	next, err := model.ParseRole(role)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if adminID == targetID && next != model.RoleAdmin {
		return nil, apperrors.State("admins cannot remove their own admin role")
	}

	var updated *model.Profile
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.Get(ctx, targetID)
		if err != nil {
			return err
		}
		if current.Role == next {
			updated = current
			return nil
		}
		if err := s.profiles.UpdateRole(ctx, targetID, next); err != nil {
			return apperrors.Infrastructure("update role", err)
		}
		if err := s.auditor.Log(ctx, adminID, model.AuditActionRoleChange, model.AuditEntityProfile, targetID, &audit.LogOptions{
			Changes: map[string]string{"from": string(current.Role), "to": string(next)},
		}); err != nil {
			return apperrors.Infrastructure("audit role change", err)
		}
		current.Role = next
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(targetID)
	return updated, nil
}
