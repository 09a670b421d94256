// Package eligibility decides which group members should be notified about an event.
package eligibility

import "github.com/google/uuid"

// Resolver computes eligible recipients for events
type Resolver struct {
	factory *Factory
}

// NewResolver creates a resolver using the given rule factory
func NewResolver(factory *Factory) *Resolver {
	if factory == nil {
		factory = NewFactory()
	}
	return &Resolver{factory: factory}
}

// ResolveEvent applies the rule registered for the event type
func (r *Resolver) ResolveEvent(event EventType, groupIDs []uuid.UUID, actor uuid.UUID, a *Audience) (Result, error) {
	rule, err := r.factory.RuleFor(event)
	if err != nil {
		return Result{}, err
	}
	return Resolve(groupIDs, actor, rule.Flag, rule.Strategy, a), nil
}

// Resolve returns the members of groupIDs who should be notified.
//
// A member is eligible when they are not the actor, not globally muted, and not suppressed by
// the strategy for flag f. Members of groups outside groupIDs are ignored. An empty group set or
// missing settings never fail; a missing setting is an opt-in. Pass uuid.Nil as actor when no user
// caused the event.
func Resolve(groupIDs []uuid.UUID, actor uuid.UUID, f Flag, strategy Strategy, a *Audience) Result {
	res := Result{Eligible: []uuid.UUID{}, Skipped: map[SkipReason]int{}}
	if len(groupIDs) == 0 || a == nil {
		return res
	}

	inScope := make(map[uuid.UUID]struct{}, len(groupIDs))
	for _, g := range groupIDs {
		inScope[g] = struct{}{}
	}

	// shared groups per member, first-seen order for deterministic output
	var order []uuid.UUID
	shared := make(map[uuid.UUID][]uuid.UUID)
	seenPair := make(map[Pair]struct{})
	for _, m := range a.Memberships {
		if _, ok := inScope[m.GroupID]; !ok {
			continue
		}
		p := Pair{UserID: m.UserID, GroupID: m.GroupID}
		if _, dup := seenPair[p]; dup {
			continue
		}
		seenPair[p] = struct{}{}
		if _, ok := shared[m.UserID]; !ok {
			order = append(order, m.UserID)
		}
		shared[m.UserID] = append(shared[m.UserID], m.GroupID)
	}

	for _, userID := range order {
		switch {
		case actor != uuid.Nil && userID == actor:
			res.Skipped[SkipActor]++
		case a.Muted[userID]:
			res.Skipped[SkipMuted]++
		case strategy.Suppressed(a, userID, shared[userID], f):
			res.Skipped[SkipOptedOut]++
		default:
			res.Eligible = append(res.Eligible, userID)
		}
	}

	return res
}
