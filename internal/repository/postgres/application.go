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

const applicationColumns = `id, applicant_user_id, provider_type, contact_person, email, phone,
	organization_name, license_number, license_document_url, specialization, services_offered,
	status, rejection_reason, feedback, submitted_at, reviewed_at, reviewer_id, updated_at`

type applicationRepository struct {
	BaseRepository
}

func NewApplicationRepository(db *sqlx.DB) repository.ApplicationRepository {
	return &applicationRepository{NewBaseRepository(db)}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.ProviderApplication) error {
	query := `
		INSERT INTO provider_applications (
			id, applicant_user_id, provider_type, contact_person, email, phone,
			organization_name, license_number, license_document_url, specialization,
			services_offered, status, submitted_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	app.UpdatedAt = app.SubmittedAt

	_, err := r.conn(ctx).ExecContext(ctx, query,
		app.ID,
		app.ApplicantUserID,
		app.ProviderType,
		app.ContactPerson,
		app.Email,
		app.Phone,
		app.OrganizationName,
		app.LicenseNumber,
		app.LicenseDocumentURL,
		app.Specialization,
		app.ServicesOffered,
		app.Status,
		app.SubmittedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error) {
	var app model.ProviderApplication
	query := `SELECT ` + applicationColumns + ` FROM provider_applications WHERE id = $1`
	if err := r.get(ctx, &app, query, id); err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error) {
	var app model.ProviderApplication
	query := `SELECT ` + applicationColumns + ` FROM provider_applications WHERE id = $1 FOR UPDATE`
	if err := r.get(ctx, &app, query, id); err != nil {
		return nil, fmt.Errorf("failed to lock application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context, filter *model.ApplicationFilter) ([]*model.ProviderApplication, int, error) {
	if filter == nil {
		filter = &model.ApplicationFilter{}
	}
	page := filter.Pagination.Normalize()

	where := `
		WHERE (COALESCE($1, '') = '' OR status = $1)
		AND (COALESCE($2, '') = '' OR provider_type = $2)
	`
	var total int
	if err := r.get(ctx, &total, `SELECT COUNT(*) FROM provider_applications`+where,
		string(filter.Status), string(filter.ProviderType)); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `SELECT ` + applicationColumns + ` FROM provider_applications` + where + `
		ORDER BY submitted_at DESC
		LIMIT $3 OFFSET $4
	`
	apps := []*model.ProviderApplication{}
	if err := r.selectAll(ctx, &apps, query,
		string(filter.Status), string(filter.ProviderType), page.PageSize, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, total, nil
}

func (r *applicationRepository) ListAll(ctx context.Context) ([]*model.ProviderApplication, error) {
	apps := []*model.ProviderApplication{}
	query := `SELECT ` + applicationColumns + ` FROM provider_applications`
	if err := r.selectAll(ctx, &apps, query); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Update writes the mutable review fields. Concurrent updates on the same row
// are last-write-wins unless the caller holds the row lock.
func (r *applicationRepository) Update(ctx context.Context, app *model.ProviderApplication) error {
	query := `
		UPDATE provider_applications
		SET contact_person = $1, email = $2, phone = $3, organization_name = $4,
			license_number = $5, license_document_url = $6, specialization = $7,
			services_offered = $8, status = $9, rejection_reason = $10, feedback = $11,
			reviewed_at = $12, reviewer_id = $13, updated_at = $14
		WHERE id = $15
	`
	app.UpdatedAt = time.Now().UTC()

	err := r.execOne(ctx, query,
		app.ContactPerson,
		app.Email,
		app.Phone,
		app.OrganizationName,
		app.LicenseNumber,
		app.LicenseDocumentURL,
		app.Specialization,
		app.ServicesOffered,
		app.Status,
		app.RejectionReason,
		app.Feedback,
		app.ReviewedAt,
		app.ReviewerID,
		app.UpdatedAt,
		app.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return nil
}
