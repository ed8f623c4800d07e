package model

import (
	"time"
)

// ActivationCode represents a single-use code that can be redeemed for
// time-bounded premium entitlement. Only the digest of the raw code is
// ever stored; the raw code exists solely in the issuance response.
//
// IsUsed, ActivatedAt and RedeemedByUserID change together, in one
// transaction, or not at all. A code is never deleted or re-armed.
type ActivationCode struct {
	ID               string
	CodeHash         string // sha-256 hex digest, unique across all records
	DurationDays     int
	IsUsed           bool
	ActivatedAt      *time.Time // Pointer to allow for NULL
	RedeemedByUserID *string    // Pointer to allow for NULL
	CreatedAt        time.Time
}
