package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
)

const providerColumns = `id, user_id, application_id, provider_type, display_name, email, phone,
	organization_name, specialization, services_offered, is_verified, created_at, updated_at`

type providerProfileRepository struct {
	BaseRepository
}

func NewProviderProfileRepository(db *sqlx.DB) repository.ProviderProfileRepository {
	return &providerProfileRepository{NewBaseRepository(db)}
}

func (r *providerProfileRepository) Create(ctx context.Context, profile *model.ProviderProfile) error {
	query := `
		INSERT INTO provider_profiles (
			id, user_id, application_id, provider_type, display_name, email, phone,
			organization_name, specialization, services_offered, is_verified,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.conn(ctx).ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.ApplicationID,
		profile.ProviderType,
		profile.DisplayName,
		profile.Email,
		profile.Phone,
		profile.OrganizationName,
		profile.Specialization,
		profile.ServicesOffered,
		profile.IsVerified,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create provider profile: %w", err)
	}
	return nil
}

func (r *providerProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.ProviderProfile, error) {
	var profile model.ProviderProfile
	query := `SELECT ` + providerColumns + ` FROM provider_profiles WHERE id = $1`
	if err := r.get(ctx, &profile, query, id); err != nil {
		return nil, fmt.Errorf("failed to get provider profile: %w", err)
	}
	return &profile, nil
}

func (r *providerProfileRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.ProviderProfile, error) {
	var profile model.ProviderProfile
	query := `SELECT ` + providerColumns + ` FROM provider_profiles WHERE application_id = $1`
	if err := r.get(ctx, &profile, query, applicationID); err != nil {
		return nil, fmt.Errorf("failed to get provider profile by application: %w", err)
	}
	return &profile, nil
}

func (r *providerProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.ProviderProfile, error) {
	var profile model.ProviderProfile
	query := `SELECT ` + providerColumns + ` FROM provider_profiles WHERE user_id = $1`
	if err := r.get(ctx, &profile, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get provider profile by user: %w", err)
	}
	return &profile, nil
}

func (r *providerProfileRepository) List(ctx context.Context, filter *model.ProviderFilter) ([]*model.ProviderProfile, error) {
	if filter == nil {
		filter = &model.ProviderFilter{}
	}
	query := `SELECT ` + providerColumns + ` FROM provider_profiles
		WHERE (COALESCE($1, '') = '' OR provider_type = $1)
		AND ($2::boolean IS NULL OR is_verified = $2)
		ORDER BY created_at DESC
	`
	profiles := []*model.ProviderProfile{}
	if err := r.selectAll(ctx, &profiles, query, string(filter.ProviderType), filter.Verified); err != nil {
		return nil, fmt.Errorf("failed to list provider profiles: %w", err)
	}
	return profiles, nil
}

func (r *providerProfileRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	query := `UPDATE provider_profiles SET is_verified = $1, updated_at = $2 WHERE id = $3`
	if err := r.execOne(ctx, query, verified, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to update provider verification: %w", err)
	}
	return nil
}
