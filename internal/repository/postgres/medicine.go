package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
)

const medicineColumns = `id, name, manufacturer, unit_price, stock, requires_prescription, created_at, updated_at`

type medicineRepository struct {
	BaseRepository
}

func NewMedicineRepository(db *sqlx.DB) repository.MedicineRepository {
	return &medicineRepository{NewBaseRepository(db)}
}

func (r *medicineRepository) List(ctx context.Context, search string) ([]*model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE (COALESCE($1, '') = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
	`
	medicines := []*model.Medicine{}
	if err := r.selectAll(ctx, &medicines, query, search); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, nil
}

func (r *medicineRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Medicine, error) {
	medicines := []*model.Medicine{}
	if len(ids) == 0 {
		return medicines, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = ANY($1::uuid[])`
	if err := r.selectAll(ctx, &medicines, query, pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("failed to get medicines: %w", err)
	}
	return medicines, nil
}
