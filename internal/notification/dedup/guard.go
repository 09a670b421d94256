// Package dedup guarantees at most one daily artifact per (kind, scope, local date).
package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/checkin/internal/localtime"
	"github.com/fkhayef/checkin/internal/metrics"
)

// Kind names the job an artifact belongs to
type Kind string

const (
	KindDailyQuestion Kind = "daily_question"
	KindDailyReminder Kind = "daily_reminder"
)

// ErrArtifactNotFound is returned by Get when no artifact exists
var ErrArtifactNotFound = errors.New("daily artifact not found")

// Artifact records that a daily job already handled a scope on a date
type Artifact struct {
	ID        uuid.UUID      `json:"id"`
	Kind      Kind           `json:"kind"`
	ScopeID   uuid.UUID      `json:"scope_id"`
	Date      localtime.Date `json:"-"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store persists artifacts. Insert must be atomic: of any number of concurrent inserts for the
// same key exactly one returns true.
type Store interface {
	Exists(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (bool, error)
	Insert(ctx context.Context, a *Artifact) (bool, error)
	Get(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (*Artifact, error)
}

// Guard answers "has this already run today" in a fixed timezone
type Guard struct {
	store    Store
	location *time.Location
}

// NewGuard creates a guard over store whose calendar days are taken in loc
func NewGuard(store Store, loc *time.Location) *Guard {
	if loc == nil {
		loc = time.UTC
	}
	return &Guard{store: store, location: loc}
}

// Location returns the timezone the guard's dates are in
func (g *Guard) Location() *time.Location {
	return g.location
}

// DateOf converts an instant to the guard's local calendar date
func (g *Guard) DateOf(t time.Time) localtime.Date {
	return localtime.DateOf(t, g.location)
}

// ShouldRun reports whether no artifact exists yet for the key.
// It is advisory only: use Claim to take the slot.
func (g *Guard) ShouldRun(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (bool, error) {
	exists, err := g.store.Exists(ctx, kind, scopeID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check daily artifact: %w", err)
	}
	return !exists, nil
}

// Claim atomically records the artifact and reports whether this caller won the slot.
// A false result with nil error means another run already handled (kind, scope, date).
func (g *Guard) Claim(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date, content string) (bool, error) {
	a := &Artifact{
		ID:      uuid.New(),
		Kind:    kind,
		ScopeID: scopeID,
		Date:    date,
		Content: content,
	}
	ok, err := g.store.Insert(ctx, a)
	switch {
	case err != nil:
		metrics.RecordClaim(string(kind), "error")
		return false, fmt.Errorf("failed to claim daily artifact: %w", err)
	case !ok:
		metrics.RecordClaim(string(kind), "conflict")
	default:
		metrics.RecordClaim(string(kind), "claimed")
	}
	return ok, nil
}

// MarkDone records the artifact, treating an existing one as success
func (g *Guard) MarkDone(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date, content string) error {
	_, err := g.Claim(ctx, kind, scopeID, date, content)
	return err
}

// Get returns the artifact for the key or ErrArtifactNotFound
func (g *Guard) Get(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (*Artifact, error) {
	return g.store.Get(ctx, kind, scopeID, date)
}
