package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
)

const profileColumns = `id, email, password_hash, role, plan_tier, first_name, last_name,
	display_name, created_at, updated_at`

type profileRepository struct {
	BaseRepository
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{NewBaseRepository(db)}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (
			id, email, password_hash, role, plan_tier, first_name, last_name,
			display_name, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.PlanTier == "" {
		profile.PlanTier = model.DefaultPlanTier
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.conn(ctx).ExecContext(ctx, query,
		profile.ID,
		strings.ToLower(profile.Email),
		profile.PasswordHash,
		profile.Role,
		profile.PlanTier,
		profile.FirstName,
		profile.LastName,
		profile.DisplayName,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", uniqueViolation(err))
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	if err := r.get(ctx, &profile, query, id); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	if err := r.get(ctx, &profile, query, strings.ToLower(email)); err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1)`
	if err := r.get(ctx, &exists, query, strings.ToLower(email)); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	query := `UPDATE profiles SET role = $1, updated_at = $2 WHERE id = $3`
	if err := r.execOne(ctx, query, role, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to update profile role: %w", err)
	}
	return nil
}

func (r *profileRepository) UpdatePlan(ctx context.Context, id uuid.UUID, tier model.PlanTier) error {
	query := `UPDATE profiles SET plan_tier = $1, updated_at = $2 WHERE id = $3`
	if err := r.execOne(ctx, query, tier, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to update profile plan: %w", err)
	}
	return nil
}
