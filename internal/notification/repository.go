package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkhayef/checkin/internal/database"
	"github.com/fkhayef/checkin/internal/notification/eligibility"
)

// Repository loads notification audiences
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListGroups retrieves every group, oldest first
func (r *Repository) ListGroups(ctx context.Context) ([]GroupInfo, error) {
	query := `SELECT id, name, COALESCE(daily_prompt, '') FROM groups ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []GroupInfo
	for rows.Next() {
		var g GroupInfo
		if err := rows.Scan(&g.ID, &g.Name, &g.Prompt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// LoadAudience loads the groups, their memberships, the members' profiles and their settings
// for those groups. Unknown group IDs are absent from the result.
func (r *Repository) LoadAudience(ctx context.Context, groupIDs []uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{
		Groups:   map[uuid.UUID]GroupInfo{},
		Profiles: map[uuid.UUID]ProfileInfo{},
		Audience: &eligibility.Audience{
			Muted:    map[uuid.UUID]bool{},
			Settings: map[eligibility.Pair]eligibility.Setting{},
		},
	}
	if len(groupIDs) == 0 {
		return snap, nil
	}

	if err := r.loadGroups(ctx, groupIDs, snap); err != nil {
		return nil, err
	}
	if err := r.loadMemberships(ctx, groupIDs, snap); err != nil {
		return nil, err
	}

	userIDs := snap.Audience.UserIDs()
	if len(userIDs) == 0 {
		return snap, nil
	}
	if err := r.loadProfiles(ctx, userIDs, snap); err != nil {
		return nil, err
	}
	if err := r.loadSettings(ctx, groupIDs, userIDs, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *Repository) loadGroups(ctx context.Context, groupIDs []uuid.UUID, snap *Snapshot) error {
	query := `SELECT id, name, COALESCE(daily_prompt, '') FROM groups WHERE id = ANY($1::uuid[])`

	rows, err := r.db.QueryContext(ctx, query, database.UUIDArray(groupIDs))
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g GroupInfo
		if err := rows.Scan(&g.ID, &g.Name, &g.Prompt); err != nil {
			return fmt.Errorf("failed to scan group: %w", err)
		}
		snap.Groups[g.ID] = g
	}
	return rows.Err()
}

func (r *Repository) loadMemberships(ctx context.Context, groupIDs []uuid.UUID, snap *Snapshot) error {
	query := `
		SELECT group_id, user_id
		FROM group_members
		WHERE group_id = ANY($1::uuid[])
		ORDER BY joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, database.UUIDArray(groupIDs))
	if err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m eligibility.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID); err != nil {
			return fmt.Errorf("failed to scan membership: %w", err)
		}
		snap.Audience.Memberships = append(snap.Audience.Memberships, m)
	}
	return rows.Err()
}

func (r *Repository) loadProfiles(ctx context.Context, userIDs []uuid.UUID, snap *Snapshot) error {
	query := `
		SELECT id, display_name, COALESCE(phone_number, ''), notifications_muted
		FROM profiles
		WHERE id = ANY($1::uuid[])
	`

	rows, err := r.db.QueryContext(ctx, query, database.UUIDArray(userIDs))
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			p     ProfileInfo
			muted bool
		)
		if err := rows.Scan(&id, &p.DisplayName, &p.Phone, &muted); err != nil {
			return fmt.Errorf("failed to scan profile: %w", err)
		}
		snap.Profiles[id] = p
		if muted {
			snap.Audience.Muted[id] = true
		}
	}
	return rows.Err()
}

func (r *Repository) loadSettings(ctx context.Context, groupIDs, userIDs []uuid.UUID, snap *Snapshot) error {
	query := `
		SELECT user_id, group_id, daily_question_sms, message_sms
		FROM notification_settings
		WHERE group_id = ANY($1::uuid[]) AND user_id = ANY($2::uuid[])
	`

	rows, err := r.db.QueryContext(ctx, query, database.UUIDArray(groupIDs), database.UUIDArray(userIDs))
	if err != nil {
		return fmt.Errorf("failed to load notification settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p eligibility.Pair
			s eligibility.Setting
		)
		if err := rows.Scan(&p.UserID, &p.GroupID, &s.DailyQuestionSMS, &s.MessageSMS); err != nil {
			return fmt.Errorf("failed to scan notification settings: %w", err)
		}
		snap.Audience.Settings[p] = s
	}
	return rows.Err()
}
