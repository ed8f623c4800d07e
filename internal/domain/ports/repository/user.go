package repository

import (
	"context"

	"meditation-premium-service/internal/domain/model"
)

// UserRepository is the port for the user entitlement store.
type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.User, error)
	// Insert creates a user and fails with domain.ErrAlreadyExists when the
	// id is taken. Used by explicit registration.
	Insert(ctx context.Context, tx Tx, u *model.User) error
	// CreateIfAbsent creates a user unless one already exists; concurrent
	// first-references resolve first-writer-wins and the loser reads back
	// the winner's record via FindByID.
	CreateIfAbsent(ctx context.Context, tx Tx, u *model.User) error
	// Save upserts the full record, including entitlement fields.
	Save(ctx context.Context, tx Tx, u *model.User) error
	Delete(ctx context.Context, tx Tx, id string) error
	SetLastPlayed(ctx context.Context, tx Tx, userID string, meditationID int64) error
}
