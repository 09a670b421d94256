// Package sms sends text messages through a pluggable provider.
package sms

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when provider credentials are missing
var ErrNotConfigured = errors.New("sms provider not configured")

// Provider defines the interface for SMS sending implementations.
type Provider interface {
	// Send delivers body to the E.164 number to and returns the provider's message ID.
	Send(ctx context.Context, to, body string) (string, error)
}

// ProviderError is a rejection reported by the provider
type ProviderError struct {
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("sms provider rejected message (HTTP %d, code %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("sms provider rejected message (HTTP %d): %s", e.Status, e.Message)
}
