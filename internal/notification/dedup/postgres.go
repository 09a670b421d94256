package dedup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/checkin/internal/localtime"
)

// PostgresStore keeps artifacts in daily_artifacts, relying on its unique (kind, scope_id, artifact_date)
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres artifact store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Exists reports whether an artifact row exists
func (s *PostgresStore) Exists(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM daily_artifacts
			WHERE kind = $1 AND scope_id = $2 AND artifact_date = $3
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, string(kind), scopeID, date.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check daily artifact: %w", err)
	}
	return exists, nil
}

// Insert adds the artifact unless one exists; the conflict outcome is the "already ran" signal
func (s *PostgresStore) Insert(ctx context.Context, a *Artifact) (bool, error) {
	query := `
		INSERT INTO daily_artifacts (id, kind, scope_id, artifact_date, content)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (kind, scope_id, artifact_date) DO NOTHING
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query, a.ID, string(a.Kind), a.ScopeID, a.Date.String(), a.Content).Scan(&a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert daily artifact: %w", err)
	}
	return true, nil
}

// Get retrieves an artifact
func (s *PostgresStore) Get(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (*Artifact, error) {
	query := `
		SELECT id, kind, scope_id, artifact_date, content, created_at
		FROM daily_artifacts
		WHERE kind = $1 AND scope_id = $2 AND artifact_date = $3
	`

	a := &Artifact{}
	var k string
	var day time.Time
	err := s.db.QueryRowContext(ctx, query, string(kind), scopeID, date.String()).Scan(
		&a.ID,
		&k,
		&a.ScopeID,
		&day,
		&a.Content,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to get daily artifact: %w", err)
	}
	a.Kind = Kind(k)
	a.Date = localtime.Date{Year: day.Year(), Month: day.Month(), Day: day.Day()}
	return a, nil
}
