package repository

import (
	"context"

	"meditation-premium-service/internal/domain/model"
)

// MeditationRepository is the port for the content catalog.
type MeditationRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Meditation, error)
	// List returns the catalog, optionally filtered by category.
	List(ctx context.Context, tx Tx, category string) ([]*model.Meditation, error)
	Count(ctx context.Context, tx Tx) (int, error)
	Save(ctx context.Context, tx Tx, m *model.Meditation) error
}
