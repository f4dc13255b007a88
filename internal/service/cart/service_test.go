package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository/mocks"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
)

func medicine(price string, stock int) *model.Medicine {
	return &model.Medicine{
		Base:      model.Base{ID: uuid.New()},
		Name:      "Amoxicillin 250mg",
		UnitPrice: decimal.RequireFromString(price),
		Stock:     stock,
	}
}

func TestQuote_UsesCatalogPricesAndMergesDuplicates(t *testing.T) {
	repo := &mocks.MedicineRepository{}
	svc := NewService(repo, nil)
	m := medicine("100", 10)

	repo.On("GetMany", mock.Anything, []uuid.UUID{m.ID}).Return([]*model.Medicine{m}, nil)

	quote, err := svc.Quote(context.Background(), &model.QuoteRequest{Items: []model.QuoteItemRequest{
		{MedicineID: m.ID.String(), Quantity: 3},
		{MedicineID: m.ID.String(), Quantity: 2},
	}}, model.PlanClassic)
	require.NoError(t, err)

	require.Len(t, quote.Lines, 1)
	assert.Equal(t, 5, quote.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(450).Equal(quote.Total))
}

func TestQuote_UnknownMedicine(t *testing.T) {
	repo := &mocks.MedicineRepository{}
	svc := NewService(repo, nil)

	repo.On("GetMany", mock.Anything, mock.Anything).Return([]*model.Medicine{}, nil)

	_, err := svc.Quote(context.Background(), &model.QuoteRequest{Items: []model.QuoteItemRequest{
		{MedicineID: uuid.NewString(), Quantity: 1},
	}}, model.PlanBasic)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestQuote_OverStock(t *testing.T) {
	repo := &mocks.MedicineRepository{}
	svc := NewService(repo, nil)
	m := medicine("20", 2)

	repo.On("GetMany", mock.Anything, mock.Anything).Return([]*model.Medicine{m}, nil)

	_, err := svc.Quote(context.Background(), &model.QuoteRequest{Items: []model.QuoteItemRequest{
		{MedicineID: m.ID.String(), Quantity: 3},
	}}, model.PlanBasic)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestQuote_RepositoryFailure(t *testing.T) {
	repo := &mocks.MedicineRepository{}
	svc := NewService(repo, nil)

	repo.On("GetMany", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := svc.Quote(context.Background(), &model.QuoteRequest{Items: []model.QuoteItemRequest{
		{MedicineID: uuid.NewString(), Quantity: 1},
	}}, model.PlanBasic)
	assert.True(t, apperrors.Is(err, apperrors.KindInfrastructure))
}

func TestQuote_InvalidID(t *testing.T) {
	svc := NewService(&mocks.MedicineRepository{}, nil)
	_, err := svc.Quote(context.Background(), &model.QuoteRequest{Items: []model.QuoteItemRequest{
		{MedicineID: "abc", Quantity: 1},
	}}, model.PlanBasic)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestQuote_NonPositiveLineIsRejectedBeforeMerging(t *testing.T) {
	for _, qty := range []int{0, -5} {
		repo := &mocks.MedicineRepository{}
		svc := NewService(repo, nil)
		m := medicine("10", 100)

		_, err := svc.Quote(context.Background(), &model.QuoteRequest{Items: []model.QuoteItemRequest{
			{MedicineID: m.ID.String(), Quantity: qty},
			{MedicineID: m.ID.String(), Quantity: 6},
		}}, model.PlanBasic)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation), "quantity %d", qty)
		repo.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	}
}
