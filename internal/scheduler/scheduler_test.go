package scheduler

import (
	"context"
	"errors"
	"testing"

	"restaurant-dashboard/internal/dataset"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRefresher is a mock implementation of Refresher.
type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context) (*dataset.Tables, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataset.Tables), args.Error(1)
}

func TestScheduler_Refresh(t *testing.T) {
	refresher := new(MockRefresher)
	refresher.On("Refresh", mock.Anything).Return(&dataset.Tables{ID: uuid.New()}, nil).Once()

	s := NewScheduler("@every 1h", refresher, zerolog.Nop())
	s.refresh()

	refresher.AssertExpectations(t)
}

func TestScheduler_RefreshFailure(t *testing.T) {
	refresher := new(MockRefresher)
	refresher.On("Refresh", mock.Anything).Return(nil, errors.New("source unavailable")).Once()

	s := NewScheduler("@every 1h", refresher, zerolog.Nop())

	assert.NotPanics(t, s.refresh)
	refresher.AssertExpectations(t)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler("*/5 * * * *", new(MockRefresher), zerolog.Nop())

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler("not a schedule", new(MockRefresher), zerolog.Nop())
	assert.Error(t, s.Start())
}
