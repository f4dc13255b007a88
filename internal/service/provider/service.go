package provider

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
	"github.com/jwalitptl/care-portal-api/internal/service/audit"
	"github.com/jwalitptl/care-portal-api/internal/service/event"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
)

type ProviderServicer interface {
	List(ctx context.Context, filter *model.ProviderFilter) ([]*model.ProviderProfile, error)
	ForUser(ctx context.Context, userID uuid.UUID) (*model.ProviderProfile, error)
	Verify(ctx context.Context, id uuid.UUID, verified bool, adminID uuid.UUID) (*model.ProviderProfile, error)
}

// VerificationEvent is the payload of provider.verified
type VerificationEvent struct {
	ProviderID    uuid.UUID          `json:"provider_id"`
	ApplicationID uuid.UUID          `json:"application_id"`
	ProviderType  model.ProviderType `json:"provider_type"`
	Email         string             `json:"email"`
	Verified      bool               `json:"verified"`
	ActorID       uuid.UUID          `json:"actor_id"`
}

type Service struct {
	providers repository.ProviderProfileRepository
	tx        repository.Transactor
	auditor   *audit.Service
	events    event.Emitter
}

func NewService(providers repository.ProviderProfileRepository, tx repository.Transactor, auditor *audit.Service, events event.Emitter) *Service {
	return &Service{
		providers: providers,
		tx:        tx,
		auditor:   auditor,
		events:    events,
	}
}

func (s *Service) List(ctx context.Context, filter *model.ProviderFilter) ([]*model.ProviderProfile, error) {
	if filter != nil && filter.ProviderType != "" && !filter.ProviderType.Valid() {
		return nil, apperrors.Validationf("unknown provider type %q", filter.ProviderType)
	}
	profiles, err := s.providers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Infrastructure("list provider profiles", err)
	}
	return profiles, nil
}

// ForUser returns the provider profile owned by userID
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) (*model.ProviderProfile, error) {
	profile, err := s.providers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err)
	}
	return profile, nil
}

func (s *Service) Verify(ctx context.Context, id uuid.UUID, verified bool, adminID uuid.UUID) (*model.ProviderProfile, error) {
	var profile *model.ProviderProfile
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if profile, err = s.providers.Get(ctx, id); err != nil {
			return lookupError(err)
		}
		if profile.IsVerified == verified {
			return nil
		}
		if err := s.providers.SetVerified(ctx, id, verified); err != nil {
			return apperrors.Infrastructure("update verification", err)
		}
		profile.IsVerified = verified

		if err := s.auditor.Log(ctx, adminID, model.AuditActionVerify, model.AuditEntityProviderProfile, id, &audit.LogOptions{
			Changes: map[string]bool{"is_verified": verified},
		}); err != nil {
			return apperrors.Infrastructure("audit verification", err)
		}
		if err := s.events.Emit(ctx, model.EventProviderVerified, VerificationEvent{
			ProviderID:    profile.ID,
			ApplicationID: profile.ApplicationID,
			ProviderType:  profile.ProviderType,
			Email:         profile.Email,
			Verified:      verified,
			ActorID:       adminID,
		}); err != nil {
			return apperrors.Infrastructure("emit verification event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("provider profile", err)
	}
	return apperrors.Infrastructure("load provider profile", err)
}
