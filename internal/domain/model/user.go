package model

import (
	"time"

	"meditation-premium-service/internal/domain"
)

// DefaultUserName is assigned when a user record is created implicitly
// by a redemption for a never-before-seen user id.
const DefaultUserName = "New User"

// User is a domain entity representing an account in our system.
// The user id is externally assigned and never regenerated.
//
// PremiumExpiresAt is always a UTC instant. IsPremium is a stored hint
// only; HasActivePremium is the authoritative entitlement check.
type User struct {
	ID                     string
	Name                   string
	IsPremium              bool
	PremiumExpiresAt       *time.Time // Pointer to allow for NULL
	LastPlayedMeditationID *int64     // Pointer to allow for NULL
}

func NewUser(id, name string) (*User, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	if name == "" {
		name = DefaultUserName
	}
	return &User{ID: id, Name: name}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// HasActivePremium is the single source of truth for entitlement.
// The stored IsPremium flag can be stale after expiry; only the
// combined check decides access.
func (u *User) HasActivePremium(now time.Time) bool {
	return u != nil && u.IsPremium && u.PremiumExpiresAt != nil && u.PremiumExpiresAt.UTC().After(now.UTC())
}

// ExtendPremium stacks durationDays of entitlement on top of whatever
// remains: the base is the later of now and the current expiry, so an
// already-premium user keeps their remaining time. Returns the new expiry.
func (u *User) ExtendPremium(now time.Time, durationDays int) time.Time {
	base := now.UTC()
	if u.PremiumExpiresAt != nil {
		if exp := u.PremiumExpiresAt.UTC(); exp.After(base) {
			base = exp
		}
	}
	until := base.Add(time.Duration(durationDays) * 24 * time.Hour)
	u.IsPremium = true
	u.PremiumExpiresAt = &until
	return until
}
