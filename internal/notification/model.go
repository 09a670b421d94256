package notification

import (
	"github.com/google/uuid"

	"github.com/fkhayef/checkin/internal/notification/dispatch"
	"github.com/fkhayef/checkin/internal/notification/eligibility"
)

// Reasons reported when nothing was sent
const (
	ReasonNoEligibleUsers = "no_eligible_users"
	ReasonOutsideWindow   = "outside_window"
	ReasonAlreadyRan      = "already_ran"
)

// Skip reasons added on top of the resolver's
const (
	SkipNoPhone        = "no_phone"
	SkipDuplicatePhone = "duplicate_phone"
	SkipAlreadyRan     = "already_ran"
)

// GroupInfo is the part of a group notifications need
type GroupInfo struct {
	ID     uuid.UUID
	Name   string
	Prompt string
}

// ProfileInfo is the part of a profile notifications need
type ProfileInfo struct {
	DisplayName string
	Phone       string
}

// Snapshot is everything loaded from storage for one trigger
type Snapshot struct {
	Groups   map[uuid.UUID]GroupInfo
	Profiles map[uuid.UUID]ProfileInfo
	Audience *eligibility.Audience
}

// Phones returns the profile phone numbers keyed by user
func (s *Snapshot) Phones() map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(s.Profiles))
	for id, p := range s.Profiles {
		if p.Phone != "" {
			out[id] = p.Phone
		}
	}
	return out
}

// DisplayName returns the user's name or a neutral placeholder
func (s *Snapshot) DisplayName(userID uuid.UUID) string {
	if p, ok := s.Profiles[userID]; ok && p.DisplayName != "" {
		return p.DisplayName
	}
	return "Someone"
}

// IsMember reports whether the user belongs to the group
func (s *Snapshot) IsMember(groupID, userID uuid.UUID) bool {
	for _, m := range s.Audience.Memberships {
		if m.GroupID == groupID && m.UserID == userID {
			return true
		}
	}
	return false
}

// Summary reports what one trigger did. Partial success is always visible.
type Summary struct {
	Event    string             `json:"event"`
	Eligible int                `json:"eligible"`
	Sent     int                `json:"sent"`
	Failed   int                `json:"failed"`
	Skipped  map[string]int     `json:"skipped"`
	Failures []dispatch.Failure `json:"failures"`
	Reason   string             `json:"reason,omitempty"`
}

func newSummary(event eligibility.EventType) *Summary {
	return &Summary{
		Event:    string(event),
		Skipped:  map[string]int{},
		Failures: []dispatch.Failure{},
	}
}

// add folds another summary's counts into s
func (s *Summary) add(o *Summary) {
	s.Eligible += o.Eligible
	s.Sent += o.Sent
	s.Failed += o.Failed
	for k, v := range o.Skipped {
		s.Skipped[k] += v
	}
	s.Failures = append(s.Failures, o.Failures...)
}

// UnitError records a daily-job unit of work that failed
type UnitError struct {
	ScopeID uuid.UUID `json:"scope_id"`
	Error   string    `json:"error"`
}

// JobSummary reports a daily job run
type JobSummary struct {
	Summary
	Date      string      `json:"date"`
	Processed int         `json:"processed"`
	Errors    []UnitError `json:"errors"`
}
