// Package contact maps user IDs to the phone numbers notifications should go to.
package contact

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fkhayef/checkin/internal/identity"
	"github.com/fkhayef/checkin/internal/metrics"
)

// IdentityLister lists every identity record. No per-ID lookup is assumed.
type IdentityLister interface {
	ListUsers(ctx context.Context) ([]identity.User, error)
}

// Contacts maps a user to a phone number. Users with no number are absent.
type Contacts map[uuid.UUID]string

// Phone returns the number for the user, if any
func (c Contacts) Phone(userID uuid.UUID) (string, bool) {
	p, ok := c[userID]
	return p, ok
}

// Resolver prefers the profile phone number and falls back to the identity record
type Resolver struct {
	identities IdentityLister
	logger     *zap.Logger
}

// NewResolver creates a contact resolver. identities may be nil for profile-only resolution.
func NewResolver(identities IdentityLister, logger *zap.Logger) *Resolver {
	return &Resolver{identities: identities, logger: logger}
}

// Resolve returns a phone number for every user it can find one for.
//
// profilePhones holds numbers stored on profiles. The identity provider is listed at most once per
// call and only when some user lacks a profile number. If that listing fails the result degrades to
// profile numbers only.
func (r *Resolver) Resolve(ctx context.Context, userIDs []uuid.UUID, profilePhones map[uuid.UUID]string) Contacts {
	contacts := make(Contacts, len(userIDs))
	var missing []uuid.UUID

	for _, id := range userIDs {
		if p := identity.NormalizePhone(profilePhones[id]); p != "" {
			contacts[id] = p
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 || r.identities == nil {
		return contacts
	}

	records, err := r.identities.ListUsers(ctx)
	if err != nil {
		metrics.RecordIdentityLookupFailure()
		r.logger.Warn("identity lookup failed, using profile phone numbers only",
			zap.Int("unresolved", len(missing)),
			zap.Error(err))
		return contacts
	}

	byID := make(map[uuid.UUID]string, len(records))
	for _, rec := range records {
		if p := identity.NormalizePhone(rec.Phone); p != "" {
			byID[rec.ID] = p
		}
	}
	for _, id := range missing {
		if p, ok := byID[id]; ok {
			contacts[id] = p
		}
	}

	return contacts
}
