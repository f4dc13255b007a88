// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
)

var (
	_ repository.Transactor                = (*Transactor)(nil)
	_ repository.ProfileRepository         = (*ProfileRepository)(nil)
	_ repository.ApplicationRepository     = (*ApplicationRepository)(nil)
	_ repository.ProviderProfileRepository = (*ProviderProfileRepository)(nil)
	_ repository.MedicineRepository        = (*MedicineRepository)(nil)
	_ repository.AuditRepository           = (*AuditRepository)(nil)
	_ repository.OutboxRepository          = (*OutboxRepository)(nil)
)

// Transactor runs fn inline and records commits and rollbacks
type Transactor struct {
	Commits   int
	Rollbacks int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *ProfileRepository) UpdatePlan(ctx context.Context, id uuid.UUID, tier model.PlanTier) error {
	args := m.Called(ctx, id, tier)
	return args.Error(0)
}

type ApplicationRepository struct {
	mock.Mock
}

func (m *ApplicationRepository) Create(ctx context.Context, app *model.ProviderApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *ApplicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderApplication), args.Error(1)
}

func (m *ApplicationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderApplication), args.Error(1)
}

func (m *ApplicationRepository) List(ctx context.Context, filter *model.ApplicationFilter) ([]*model.ProviderApplication, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.ProviderApplication), args.Int(1), args.Error(2)
}

func (m *ApplicationRepository) ListAll(ctx context.Context) ([]*model.ProviderApplication, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ProviderApplication), args.Error(1)
}

func (m *ApplicationRepository) Update(ctx context.Context, app *model.ProviderApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

type ProviderProfileRepository struct {
	mock.Mock
}

func (m *ProviderProfileRepository) Create(ctx context.Context, profile *model.ProviderProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProviderProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.ProviderProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderProfile), args.Error(1)
}

func (m *ProviderProfileRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.ProviderProfile, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderProfile), args.Error(1)
}

func (m *ProviderProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.ProviderProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderProfile), args.Error(1)
}

func (m *ProviderProfileRepository) List(ctx context.Context, filter *model.ProviderFilter) ([]*model.ProviderProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ProviderProfile), args.Error(1)
}

func (m *ProviderProfileRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

type MedicineRepository struct {
	mock.Mock
}

func (m *MedicineRepository) List(ctx context.Context, search string) ([]*model.Medicine, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Medicine), args.Error(1)
}

func (m *MedicineRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Medicine, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Medicine), args.Error(1)
}

type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AuditLog), args.Error(1)
}

type OutboxRepository struct {
	mock.Mock
}

func (m *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *OutboxRepository) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OutboxEvent), args.Error(1)
}

func (m *OutboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

func (m *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
