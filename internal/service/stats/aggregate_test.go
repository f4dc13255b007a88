package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/care-portal-api/internal/model"
)

func app(t model.ProviderType, s model.ApplicationStatus) *model.ProviderApplication {
	return &model.ProviderApplication{ProviderType: t, Status: s}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, nil)

	assert.Zero(t, got.Total)
	assert.Zero(t, got.Pending)
	assert.Len(t, got.ByType, 4)
	for _, n := range got.ByType {
		assert.Zero(t, n)
	}
	assert.Zero(t, got.Providers.Total)
}

func TestAggregate_Counts(t *testing.T) {
	apps := []*model.ProviderApplication{
		app(model.ProviderDoctor, model.ApplicationPending),
		app(model.ProviderDoctor, model.ApplicationApproved),
		app(model.ProviderPharmacy, model.ApplicationRejected),
		app(model.ProviderDiagnostic, model.ApplicationNeedsRevision),
		app(model.ProviderAmbulance, model.ApplicationPending),
	}
	profiles := []*model.ProviderProfile{
		{ProviderType: model.ProviderDoctor, IsVerified: true},
		{ProviderType: model.ProviderPharmacy},
	}

	got := Aggregate(apps, profiles)

	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 2, got.Pending)
	assert.Equal(t, 1, got.Approved)
	assert.Equal(t, 1, got.Rejected)
	assert.Equal(t, 1, got.NeedsRevision)
	assert.Equal(t, 2, got.ByType[model.ProviderDoctor])
	assert.Equal(t, 1, got.ByType[model.ProviderPharmacy])
	assert.Equal(t, 1, got.ByType[model.ProviderDiagnostic])
	assert.Equal(t, 1, got.ByType[model.ProviderAmbulance])

	assert.Equal(t, 2, got.Providers.Total)
	assert.Equal(t, 1, got.Providers.Verified)
	assert.Equal(t, 1, got.Providers.ByType[model.ProviderDoctor])
}

func TestAggregate_UnknownTypeCountedInTotalOnly(t *testing.T) {
	got := Aggregate([]*model.ProviderApplication{
		app("veterinary", model.ApplicationPending),
		app(model.ProviderDoctor, model.ApplicationPending),
	}, nil)

	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 2, got.Pending)

	sum := 0
	for _, n := range got.ByType {
		sum += n
	}
	assert.Equal(t, 1, sum)
	assert.NotContains(t, got.ByType, model.ProviderType("veterinary"))
}

func TestAggregate_StatusSumEqualsTotal(t *testing.T) {
	got := Aggregate([]*model.ProviderApplication{
		app(model.ProviderDoctor, "archived"),
		app(model.ProviderDoctor, model.ApplicationApproved),
		nil,
	}, nil)

	assert.Equal(t, 1, got.Total)
	assert.Equal(t, got.Total, got.Pending+got.Approved+got.Rejected+got.NeedsRevision)
}
