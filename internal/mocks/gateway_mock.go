package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"calchat/internal/gcal"
)

// MockCalendarGateway is a mock implementation of the chat.CalendarGateway
// interface.
type MockCalendarGateway struct {
	mock.Mock
}

func (m *MockCalendarGateway) ListUpcoming(ctx context.Context, maxResults int64) ([]gcal.Event, error) {
	args := m.Called(ctx, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gcal.Event), args.Error(1)
}

func (m *MockCalendarGateway) CreateEvent(ctx context.Context, input gcal.EventInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarGateway) DeleteEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
