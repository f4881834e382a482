package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"calchat/internal/openai"
)

// MockExtractor is a mock implementation of the chat.Extractor interface.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractEvent(ctx context.Context, message string, partial any) (*openai.Extraction, error) {
	args := m.Called(ctx, message, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.Extraction), args.Error(1)
}
