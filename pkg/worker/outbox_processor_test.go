package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository/mocks"
	"github.com/jwalitptl/care-portal-api/pkg/logger"
	"github.com/jwalitptl/care-portal-api/pkg/messaging"
	"github.com/jwalitptl/care-portal-api/pkg/metrics"
)

type fakeBroker struct {
	published []messaging.Message
	err       error
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, message.(messaging.Message))
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *fakeBroker) Close() error { return nil }

func newProcessor(t *testing.T, repo *mocks.OutboxRepository, broker *fakeBroker) (*OutboxProcessor, *metrics.Metrics) {
	m := metrics.NewNop()
	p, err := NewOutboxProcessor(repo, &mocks.Transactor{}, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 3,
		Channel:       "events",
	}, logger.Nop(), m)
	require.NoError(t, err)
	return p, m
}

func pendingEvent(retries int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  model.EventApplicationReviewed,
		Payload:    json.RawMessage(`{"status":"approved"}`),
		Status:     model.OutboxStatusPending,
		RetryCount: retries,
	}
}

func TestProcessBatch_PublishesAndMarksProcessed(t *testing.T) {
	repo := &mocks.OutboxRepository{}
	broker := &fakeBroker{}
	p, m := newProcessor(t, repo, broker)

	evt := pendingEvent(0)
	repo.On("GetPendingEventsWithLock", mock.Anything, 10).Return([]*model.OutboxEvent{evt}, nil)
	repo.On("UpdateStatus", mock.Anything, evt.ID, model.OutboxStatusProcessed, (*string)(nil)).Return(nil)

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, broker.published, 1)
	assert.Equal(t, evt.ID.String(), broker.published[0].ID)
	assert.Equal(t, model.EventApplicationReviewed, broker.published[0].Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEventsProcessed))
	repo.AssertExpectations(t)
}

func TestProcessBatch_PublishFailureKeepsEventPending(t *testing.T) {
	repo := &mocks.OutboxRepository{}
	p, _ := newProcessor(t, repo, &fakeBroker{err: errors.New("redis down")})

	evt := pendingEvent(0)
	repo.On("GetPendingEventsWithLock", mock.Anything, 10).Return([]*model.OutboxEvent{evt}, nil)
	repo.On("UpdateStatus", mock.Anything, evt.ID, model.OutboxStatusPending, mock.AnythingOfType("*string")).Return(nil)

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	repo.AssertExpectations(t)
}

func TestProcessBatch_ExhaustedRetriesMarkFailed(t *testing.T) {
	repo := &mocks.OutboxRepository{}
	p, m := newProcessor(t, repo, &fakeBroker{err: errors.New("redis down")})

	evt := pendingEvent(2)
	repo.On("GetPendingEventsWithLock", mock.Anything, 10).Return([]*model.OutboxEvent{evt}, nil)
	repo.On("UpdateStatus", mock.Anything, evt.ID, model.OutboxStatusFailed, mock.AnythingOfType("*string")).Return(nil)

	_, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEventsFailed))
	repo.AssertExpectations(t)
}

func TestProcessBatch_LoadError(t *testing.T) {
	repo := &mocks.OutboxRepository{}
	p, _ := newProcessor(t, repo, &fakeBroker{})

	repo.On("GetPendingEventsWithLock", mock.Anything, 10).Return(nil, errors.New("db gone"))

	_, err := p.ProcessBatch(context.Background())
	assert.Error(t, err)
}

func TestNewOutboxProcessor_InvalidConfig(t *testing.T) {
	_, err := NewOutboxProcessor(&mocks.OutboxRepository{}, &mocks.Transactor{}, &fakeBroker{},
		OutboxProcessorConfig{}, logger.Nop(), metrics.NewNop())
	assert.Error(t, err)
}
