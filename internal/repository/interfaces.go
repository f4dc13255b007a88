package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("record already exists")

// All repository interfaces in one file
type (
	// Transactor runs fn inside a database transaction. Repositories called
	// with the ctx passed to fn take part in that transaction.
	Transactor interface {
		WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	}

	ProfileRepository interface {
		Create(ctx context.Context, profile *model.Profile) error
		Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
		GetByEmail(ctx context.Context, email string) (*model.Profile, error)
		EmailExists(ctx context.Context, email string) (bool, error)
		UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
		UpdatePlan(ctx context.Context, id uuid.UUID, tier model.PlanTier) error
	}

	ApplicationRepository interface {
		Create(ctx context.Context, app *model.ProviderApplication) error
		Get(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error)
		// GetForUpdate locks the row until the surrounding transaction ends
		GetForUpdate(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error)
		List(ctx context.Context, filter *model.ApplicationFilter) ([]*model.ProviderApplication, int, error)
		ListAll(ctx context.Context) ([]*model.ProviderApplication, error)
		Update(ctx context.Context, app *model.ProviderApplication) error
	}

	ProviderProfileRepository interface {
		Create(ctx context.Context, profile *model.ProviderProfile) error
		Get(ctx context.Context, id uuid.UUID) (*model.ProviderProfile, error)
		GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.ProviderProfile, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.ProviderProfile, error)
		List(ctx context.Context, filter *model.ProviderFilter) ([]*model.ProviderProfile, error)
		SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	}

	MedicineRepository interface {
		List(ctx context.Context, search string) ([]*model.Medicine, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Medicine, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
