// Package identity talks to the identity provider's admin API.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPageSize is the page size used when listing users
const DefaultPageSize = 1000

// DefaultMaxPages caps how many pages ListUsers walks in one call
const DefaultMaxPages = 100

var (
	// ErrNotConfigured is returned when the admin URL or service key is missing
	ErrNotConfigured = errors.New("identity provider not configured")
	// ErrPageLimit is returned when listing users does not finish within the page cap
	ErrPageLimit = errors.New("identity user listing exceeded page limit")
)

// User is the subset of an identity record this service reads
type User struct {
	ID    uuid.UUID `json:"id"`
	Phone string    `json:"phone"`
}

// Client is an identity provider admin API client
type Client struct {
	baseURL    string
	serviceKey string
	pageSize   int
	maxPages   int
	client     *http.Client
	logger     *zap.Logger
}

// NewClient creates a new identity provider client
func NewClient(baseURL, serviceKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		pageSize:   DefaultPageSize,
		maxPages:   DefaultMaxPages,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type listUsersResponse struct {
	Users []User `json:"users"`
}

// ListUsers returns every user known to the provider. The provider has no per-ID phone lookup,
// so this walks all pages. A page that starts with the same user as the one before it means
// the provider ignored the paging parameters, and the walk ends there.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	if c.baseURL == "" || c.serviceKey == "" {
		return nil, ErrNotConfigured
	}

	var all []User
	var lastFirst uuid.UUID
	for page := 1; ; page++ {
		if page > c.maxPages {
			return nil, fmt.Errorf("%w: %d pages", ErrPageLimit, c.maxPages)
		}
		users, err := c.listPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("list users page %d: %w", page, err)
		}
		if len(users) > 0 && page > 1 && users[0].ID == lastFirst {
			c.logger.Warn("identity provider repeated a page, stopping",
				zap.Int("page", page),
			)
			break
		}
		for i := range users {
			users[i].Phone = NormalizePhone(users[i].Phone)
		}
		all = append(all, users...)
		if len(users) < c.pageSize {
			break
		}
		lastFirst = users[0].ID
	}

	c.logger.Debug("identity users listed", zap.Int("count", len(all)))
	return all, nil
}

func (c *Client) listPage(ctx context.Context, page int) ([]User, error) {
	var users []User
	endpoint := fmt.Sprintf("%s/auth/v1/admin/users?page=%d&per_page=%d", c.baseURL, page, c.pageSize)

	err := retry.Do(
		func() error {
			req, err := c.newRequest(ctx, http.MethodGet, endpoint)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					c.logger.Warn("failed to close response body", zap.Error(closeErr))
				}
			}()

			if err := checkStatus(resp); err != nil {
				return err
			}

			var body listUsersResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			users = body.Users
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(10*time.Second),
		retry.MaxJitter(time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying identity user listing", zap.Uint("attempt", n), zap.Int("page", page), zap.Error(err))
		}),
	)
	return users, err
}

// DeleteUser removes the user from the identity provider
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if c.baseURL == "" || c.serviceKey == "" {
		return ErrNotConfigured
	}

	req, err := c.newRequest(ctx, http.MethodDelete, c.baseURL+"/auth/v1/admin/users/"+id.String())
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete user: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// checkStatus maps non-2xx responses to errors; 4xx are not worth retrying
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := fmt.Errorf("HTTP %d", resp.StatusCode)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return retry.Unrecoverable(err)
	}
	return err
}

// NormalizePhone trims whitespace and prefixes "+" to bare digit strings, which is how
// the provider stores E.164 numbers. Empty input stays empty.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return phone
		}
	}
	return "+" + phone
}
