package eligibility

import "github.com/google/uuid"

// Flag names a per-(user, group) notification toggle
type Flag string

const (
	FlagDailyQuestionSMS Flag = "daily_question_sms"
	FlagMessageSMS       Flag = "message_sms"
)

// EventType identifies what triggered a notification
type EventType string

const (
	EventNewAnswer          EventType = "NEW_ANSWER"
	EventNewCheckIn         EventType = "NEW_CHECK_IN"
	EventNewMessage         EventType = "NEW_MESSAGE"
	EventDailyQuestionReady EventType = "DAILY_QUESTION_READY"
	EventDailyReminderDue   EventType = "DAILY_REMINDER_DUE"
)

// SkipReason explains why a member was left out of the eligible set
type SkipReason string

const (
	SkipActor    SkipReason = "actor"
	SkipMuted    SkipReason = "muted"
	SkipOptedOut SkipReason = "opted_out"
)

// Membership relates one user to one group
type Membership struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// Pair keys a notification setting
type Pair struct {
	UserID  uuid.UUID
	GroupID uuid.UUID
}

// Setting holds the stored flags for one (user, group) pair
type Setting struct {
	DailyQuestionSMS bool
	MessageSMS       bool
}

// Enabled reports the value of flag f. Unknown flags are treated as enabled.
func (s Setting) Enabled(f Flag) bool {
	switch f {
	case FlagDailyQuestionSMS:
		return s.DailyQuestionSMS
	case FlagMessageSMS:
		return s.MessageSMS
	default:
		return true
	}
}

// Audience is the data the resolver works over. Callers load it; the resolver never queries storage.
type Audience struct {
	Memberships []Membership
	Muted       map[uuid.UUID]bool
	Settings    map[Pair]Setting
}

// FlagEnabled applies the default-on rule: a missing row means enabled
func (a *Audience) FlagEnabled(userID, groupID uuid.UUID, f Flag) bool {
	if a == nil || a.Settings == nil {
		return true
	}
	s, ok := a.Settings[Pair{UserID: userID, GroupID: groupID}]
	if !ok {
		return true
	}
	return s.Enabled(f)
}

// UserIDs returns every distinct member of the audience in first-seen order
func (a *Audience) UserIDs() []uuid.UUID {
	if a == nil {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(a.Memberships))
	ids := make([]uuid.UUID, 0, len(a.Memberships))
	for _, m := range a.Memberships {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		ids = append(ids, m.UserID)
	}
	return ids
}

// Result is the resolver output
type Result struct {
	Eligible []uuid.UUID
	Skipped  map[SkipReason]int
}
