package repository

import (
	"context"
	"time"

	"meditation-premium-service/internal/domain/model"
)

// ActivationCodeRepository is the port for managing activation codes.
type ActivationCodeRepository interface {
	// Save inserts a freshly issued, unused code record.
	Save(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// FindByDigest returns the record for a digest regardless of its
	// redemption state.
	FindByDigest(ctx context.Context, tx Tx, digest string) (*model.ActivationCode, error)
	// Redeem atomically transitions the code from unused to used. It is a
	// compare-and-set on the is_used flag: when another redemption already
	// claimed the code it returns domain.ErrCodeAlreadyUsed.
	Redeem(ctx context.Context, tx Tx, digest, userID string, at time.Time) error
	// FindByUser lists a user's codes, most-recent activation first.
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.ActivationCode, error)
}
