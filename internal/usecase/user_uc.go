package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
	"meditation-premium-service/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes profile operations plus the entitlement check
// consumed by content-serving collaborators.
type UserUseCase interface {
	Register(ctx context.Context, id, name string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
	Rename(ctx context.Context, id, name string) (*model.User, error)
	Delete(ctx context.Context, id string) error
	IsActive(ctx context.Context, id string) (bool, error)
	SetLastPlayed(ctx context.Context, userID string, meditationID int64) error
	LastPlayed(ctx context.Context, userID string) (*model.Meditation, error)
}

type userUC struct {
	users       repository.UserRepository
	meditations repository.MeditationRepository
	log         *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, meditations repository.MeditationRepository, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, meditations: meditations, log: logger}
}

// Register creates a user explicitly; a taken id is the caller's error.
func (u *userUC) Register(ctx context.Context, id, name string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	user, err := model.NewUser(id, name)
	if err != nil {
		return nil, err
	}
	if err := u.users.Insert(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Get")()
	return u.users.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.List")()
	return u.users.List(ctx, repository.NoTX, offset, limit)
}

func (u *userUC) Rename(ctx context.Context, id, name string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Rename")()

	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := u.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "UserUC.Delete")()
	return u.users.Delete(ctx, repository.NoTX, id)
}

// IsActive answers the entitlement question through the single
// authoritative evaluator on the user model. Unknown users are simply
// not entitled.
func (u *userUC) IsActive(ctx context.Context, id string) (bool, error) {
	defer logging.TraceDuration(u.log, "UserUC.IsActive")()

	user, err := u.users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.HasActivePremium(time.Now().UTC()), nil
}

func (u *userUC) SetLastPlayed(ctx context.Context, userID string, meditationID int64) error {
	defer logging.TraceDuration(u.log, "UserUC.SetLastPlayed")()

	if _, err := u.meditations.FindByID(ctx, repository.NoTX, meditationID); err != nil {
		return err
	}
	return u.users.SetLastPlayed(ctx, repository.NoTX, userID, meditationID)
}

// LastPlayed returns nil without error when the user has not played
// anything yet, or when the referenced item has since left the catalog.
func (u *userUC) LastPlayed(ctx context.Context, userID string) (*model.Meditation, error) {
	defer logging.TraceDuration(u.log, "UserUC.LastPlayed")()

	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if user.LastPlayedMeditationID == nil {
		return nil, nil
	}
	med, err := u.meditations.FindByID(ctx, repository.NoTX, *user.LastPlayedMeditationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return med, nil
}
