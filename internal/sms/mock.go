package sms

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// MockProvider logs messages instead of sending them, for local development.
type MockProvider struct {
	logger *zap.Logger
	seq    atomic.Int64
}

// NewMockProvider creates a new mock SMS provider.
func NewMockProvider(logger *zap.Logger) *MockProvider {
	return &MockProvider{logger: logger}
}

// Send logs the message and returns a fake message ID.
func (m *MockProvider) Send(ctx context.Context, to, body string) (string, error) {
	id := fmt.Sprintf("mock-%d", m.seq.Add(1))
	m.logger.Info("MOCK SMS",
		zap.String("id", id),
		zap.String("to", to),
		zap.Int("body_length", len(body)))
	return id, nil
}
