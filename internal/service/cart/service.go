package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
	"github.com/jwalitptl/care-portal-api/pkg/metrics"
)

type CartServicer interface {
	Medicines(ctx context.Context, search string) ([]*model.Medicine, error)
	Quote(ctx context.Context, req *model.QuoteRequest, tier model.PlanTier) (*model.Quote, error)
}

type Service struct {
	medicines repository.MedicineRepository
	metrics   *metrics.Metrics
}

func NewService(medicines repository.MedicineRepository, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Service{medicines: medicines, metrics: m}
}

func (s *Service) Medicines(ctx context.Context, search string) ([]*model.Medicine, error) {
	medicines, err := s.medicines.List(ctx, search)
	if err != nil {
		return nil, apperrors.Infrastructure("list medicines", err)
	}
	return medicines, nil
}

// Quote prices the requested items with catalog prices and stock. Repeated
// medicine ids are merged into one line.
func (s *Service) Quote(ctx context.Context, req *model.QuoteRequest, tier model.PlanTier) (*model.Quote, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}

	quantities := make(map[uuid.UUID]int, len(req.Items))
	order := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := uuid.Parse(item.MedicineID)
		if err != nil {
			return nil, apperrors.Validationf("invalid medicine id %q", item.MedicineID)
		}
		// checked per line, before merging
		if item.Quantity < 1 {
			return nil, apperrors.Validationf("quantity for medicine %s must be at least 1", id)
		}
		if _, seen := quantities[id]; !seen {
			order = append(order, id)
		}
		quantities[id] += item.Quantity
	}

	found, err := s.medicines.GetMany(ctx, order)
	if err != nil {
		return nil, apperrors.Infrastructure("load medicines", err)
	}
	byID := make(map[uuid.UUID]*model.Medicine, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	items := make([]model.CartItem, 0, len(order))
	for _, id := range order {
		m, ok := byID[id]
		if !ok {
			return nil, apperrors.Validationf("medicine %s not found", id)
		}
		items = append(items, model.CartItem{
			MedicineID: m.ID,
			Name:       m.Name,
			UnitPrice:  m.UnitPrice,
			Quantity:   quantities[id],
			Stock:      m.Stock,
		})
	}

	quote, err := Calculate(items, tier)
	if err != nil {
		return nil, err
	}
	s.metrics.CartQuotes.WithLabelValues(string(tier)).Inc()
	return quote, nil
}
