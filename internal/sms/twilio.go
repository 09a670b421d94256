package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TwilioProvider sends messages through Twilio's Messages API.
// Sends are never retried here; the dispatch layer reports a failure once.
type TwilioProvider struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
	logger     *zap.Logger
}

// NewTwilioProvider creates a new Twilio provider
func NewTwilioProvider(baseURL, accountSID, authToken, from string, logger *zap.Logger) *TwilioProvider {
	return &TwilioProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// Send posts one message
func (p *TwilioProvider) Send(ctx context.Context, to, body string) (string, error) {
	if p.accountSID == "" || p.authToken == "" || p.from == "" {
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", p.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.baseURL, url.PathEscape(p.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(p.accountSID, p.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send sms: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			p.logger.Warn("failed to close response body", zap.Error(closeErr))
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := &ProviderError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, perr); jsonErr != nil || perr.Message == "" {
			perr.Message = http.StatusText(resp.StatusCode)
		}
		perr.Status = resp.StatusCode
		return "", perr
	}

	var msg twilioMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	p.logger.Debug("sms accepted",
		zap.String("sid", msg.SID),
		zap.String("status", msg.Status),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	return msg.SID, nil
}
