package eligibility

import (
	"fmt"

	"github.com/google/uuid"
)

// Mode names an opt-out combination rule
type Mode string

const (
	ModeSingleGroup Mode = "SINGLE_GROUP"
	ModeFanIn       Mode = "FAN_IN"
)

// Strategy decides whether a member's per-group flags suppress a notification
type Strategy interface {
	// Suppressed reports whether the member is opted out, given the event's groups the member belongs to
	Suppressed(a *Audience, userID uuid.UUID, shared []uuid.UUID, f Flag) bool

	// Mode returns the identifier for this strategy
	Mode() Mode
}

// SingleGroupStrategy suppresses a member who has the flag off for any group the event targets.
// With a single group this is the plain per-pair check.
type SingleGroupStrategy struct{}

// Mode returns ModeSingleGroup
func (s *SingleGroupStrategy) Mode() Mode {
	return ModeSingleGroup
}

// Suppressed is true if any shared group has the flag disabled
func (s *SingleGroupStrategy) Suppressed(a *Audience, userID uuid.UUID, shared []uuid.UUID, f Flag) bool {
	for _, g := range shared {
		if !a.FlagEnabled(userID, g, f) {
			return true
		}
	}
	return false
}

// FanInStrategy suppresses a member only when every shared group has the flag disabled.
// Opting out of one group does not silence an event that also reaches the member through another.
type FanInStrategy struct{}

// Mode returns ModeFanIn
func (s *FanInStrategy) Mode() Mode {
	return ModeFanIn
}

// Suppressed is true only if no shared group has the flag enabled
func (s *FanInStrategy) Suppressed(a *Audience, userID uuid.UUID, shared []uuid.UUID, f Flag) bool {
	if len(shared) == 0 {
		return true
	}
	for _, g := range shared {
		if a.FlagEnabled(userID, g, f) {
			return false
		}
	}
	return true
}

// Rule binds an event type to the flag that governs it and the strategy that combines that flag
type Rule struct {
	Event    EventType
	Flag     Flag
	Strategy Strategy
}

// Factory returns the rule for each event type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// RuleFor returns the rule for the event type
func (f *Factory) RuleFor(event EventType) (Rule, error) {
	switch event {
	case EventNewAnswer, EventNewMessage:
		return Rule{Event: event, Flag: FlagMessageSMS, Strategy: &SingleGroupStrategy{}}, nil
	case EventNewCheckIn:
		return Rule{Event: event, Flag: FlagMessageSMS, Strategy: &FanInStrategy{}}, nil
	case EventDailyQuestionReady:
		return Rule{Event: event, Flag: FlagDailyQuestionSMS, Strategy: &SingleGroupStrategy{}}, nil
	case EventDailyReminderDue:
		return Rule{Event: event, Flag: FlagDailyQuestionSMS, Strategy: &FanInStrategy{}}, nil
	default:
		return Rule{}, fmt.Errorf("unknown event type: %s", event)
	}
}
