package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository/mocks"
)

func TestLog_RecordsClientInfoAndChanges(t *testing.T) {
	repo := &mocks.AuditRepository{}
	svc := NewService(repo)

	actor, entity := uuid.New(), uuid.New()
	var saved *model.AuditLog
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.AuditLog) }).
		Return(nil)

	ctx := WithClientInfo(context.Background(), "10.0.0.1", "curl/8")
	err := svc.Log(ctx, actor, model.AuditActionReview, model.AuditEntityApplication, entity, &LogOptions{
		Changes: map[string]string{"status": "approved"},
	})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, actor, saved.ActorID)
	assert.Equal(t, entity, saved.EntityID)
	assert.Equal(t, "10.0.0.1", saved.IPAddress)
	assert.Equal(t, "curl/8", saved.UserAgent)
	assert.Nil(t, saved.Metadata)

	var changes map[string]string
	require.NoError(t, json.Unmarshal(saved.Changes, &changes))
	assert.Equal(t, "approved", changes["status"])
}

func TestLog_NilOptions(t *testing.T) {
	repo := &mocks.AuditRepository{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := NewService(repo).Log(context.Background(), uuid.New(), model.AuditActionVerify,
		model.AuditEntityProviderProfile, uuid.New(), nil)
	assert.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Create", 1)
}
