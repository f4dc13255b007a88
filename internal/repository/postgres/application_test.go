package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
)

var applicationRowColumns = []string{
	"id", "applicant_user_id", "provider_type", "contact_person", "email", "phone",
	"organization_name", "license_number", "license_document_url", "specialization", "services_offered",
	"status", "rejection_reason", "feedback", "submitted_at", "reviewed_at", "reviewer_id", "updated_at",
}

func applicationRow(rows *sqlmock.Rows, id uuid.UUID, status model.ApplicationStatus) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(
		id.String(), nil, "pharmacy", "Asha Rao", "asha@example.com", "+91-9000000000",
		"Rao Pharmacy", nil, nil, nil, "{delivery,compounding}",
		string(status), nil, nil, now, nil, nil, now,
	)
}

func TestApplicationRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	app := &model.ProviderApplication{
		ProviderType:  model.ProviderDoctor,
		ContactPerson: "Dr. Mehta",
		Email:         "mehta@example.com",
		Phone:         "555-0100",
		Status:        model.ApplicationPending,
		SubmittedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO provider_applications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), app))
	assert.NotEqual(t, uuid.Nil, app.ID)
	assert.Equal(t, app.SubmittedAt, app.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM provider_applications WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(applicationRow(sqlmock.NewRows(applicationRowColumns), id, model.ApplicationPending))

	app, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, app.ID)
	assert.Equal(t, model.ProviderPharmacy, app.ProviderType)
	assert.Equal(t, []string{"delivery", "compounding"}, []string(app.ServicesOffered))
	assert.Nil(t, app.ReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_GetNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM provider_applications`).
		WillReturnRows(sqlmock.NewRows(applicationRowColumns))

	_, err := repo.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestApplicationRepository_GetForUpdateLocksRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM provider_applications WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(applicationRow(sqlmock.NewRows(applicationRowColumns), id, model.ApplicationNeedsRevision))

	app, err := repo.GetForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationNeedsRevision, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	filter := &model.ApplicationFilter{
		Status:     model.ApplicationPending,
		Pagination: model.Pagination{Page: 2, PageSize: 10},
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM provider_applications`).
		WithArgs("pending", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(`SELECT (.+) FROM provider_applications`).
		WithArgs("pending", "", 10, 10).
		WillReturnRows(applicationRow(sqlmock.NewRows(applicationRowColumns), uuid.New(), model.ApplicationPending))

	apps, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	assert.Len(t, apps, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_UpdateMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec("UPDATE provider_applications").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.ProviderApplication{ID: uuid.New()})
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestTransactor_CommitsAndJoinsNestedCalls(t *testing.T) {
	db, mock := setupMockDB(t)
	tx := NewTransactor(db)
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE provider_applications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			return repo.Update(ctx, &model.ProviderApplication{ID: uuid.New()})
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
