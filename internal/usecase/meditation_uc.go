package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
	"meditation-premium-service/internal/infra/logging"
	"meditation-premium-service/internal/infra/metrics"
)

// Compile-time check
var _ MeditationUseCase = (*meditationUC)(nil)

// MeditationView decorates a catalog item with per-requester state.
type MeditationView struct {
	model.Meditation
	LastPlayed bool
}

// MeditationUseCase is the access gate over the catalog: premium items
// are filtered from listings and refused on fetch unless the requester
// has active entitlement. An empty userID is an anonymous request.
type MeditationUseCase interface {
	List(ctx context.Context, userID, category string) ([]*MeditationView, error)
	Get(ctx context.Context, id int64, userID string) (*MeditationView, error)
	Seed(ctx context.Context) error
}

type meditationUC struct {
	meditations repository.MeditationRepository
	users       repository.UserRepository
	log         *zerolog.Logger
}

func NewMeditationUseCase(meditations repository.MeditationRepository, users repository.UserRepository, logger *zerolog.Logger) *meditationUC {
	return &meditationUC{meditations: meditations, users: users, log: logger}
}

// requesterState resolves entitlement and last-played for a request.
// Anonymous and unknown requesters are both treated as non-premium.
func (uc *meditationUC) requesterState(ctx context.Context, userID string) (entitled bool, lastPlayedID int64) {
	if userID == "" {
		return false, 0
	}
	user, err := uc.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return false, 0
	}
	if user.LastPlayedMeditationID != nil {
		lastPlayedID = *user.LastPlayedMeditationID
	}
	return user.HasActivePremium(time.Now().UTC()), lastPlayedID
}

func (uc *meditationUC) List(ctx context.Context, userID, category string) ([]*MeditationView, error) {
	defer logging.TraceDuration(uc.log, "MeditationUC.List")()

	items, err := uc.meditations.List(ctx, repository.NoTX, category)
	if err != nil {
		return nil, err
	}
	entitled, lastPlayedID := uc.requesterState(ctx, userID)

	out := make([]*MeditationView, 0, len(items))
	for _, m := range items {
		if m.IsPremium && !entitled {
			continue
		}
		out = append(out, &MeditationView{Meditation: *m, LastPlayed: m.ID == lastPlayedID})
	}
	return out, nil
}

func (uc *meditationUC) Get(ctx context.Context, id int64, userID string) (*MeditationView, error) {
	defer logging.TraceDuration(uc.log, "MeditationUC.Get")()

	m, err := uc.meditations.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	entitled, lastPlayedID := uc.requesterState(ctx, userID)
	if m.IsPremium && !entitled {
		metrics.IncGateDenied("fetch")
		return nil, domain.ErrPremiumRequired
	}
	return &MeditationView{Meditation: *m, LastPlayed: m.ID == lastPlayedID}, nil
}

// Seed loads the sample catalog once; a non-empty catalog is refused.
func (uc *meditationUC) Seed(ctx context.Context) error {
	defer logging.TraceDuration(uc.log, "MeditationUC.Seed")()

	n, err := uc.meditations.Count(ctx, repository.NoTX)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrAlreadyExists
	}
	for _, m := range SampleMeditations() {
		if err := uc.meditations.Save(ctx, repository.NoTX, m); err != nil {
			return err
		}
	}
	uc.log.Info().Int("count", len(SampleMeditations())).Msg("meditation catalog seeded")
	return nil
}

// SampleMeditations is the built-in starter catalog.
func SampleMeditations() []*model.Meditation {
	return []*model.Meditation{
		{Title: "Расслабляющий вечер", Description: "Для снятия стресса", DurationSeconds: 300, AudioURL: "url1", IsPremium: false, Category: "Снятие стресса"},
		{Title: "Фокус и концентрация", Description: "Для работы и учебы", DurationSeconds: 400, AudioURL: "url2", IsPremium: false, Category: "Фокус"},
		{Title: "Глубокий сон", Description: "Помогает уснуть", DurationSeconds: 500, AudioURL: "url3", IsPremium: true, Category: "Сон"},
		{Title: "Энергия и бодрость", Description: "Заряд на день", DurationSeconds: 350, AudioURL: "url4", IsPremium: true, Category: "Энергия"},
		{Title: "Медитация для дыхания", Description: "Успокаивает", DurationSeconds: 200, AudioURL: "url5", IsPremium: false, Category: "Снятие стресса"},
		{Title: "Вечерняя релаксация", Description: "Подготовка ко сну", DurationSeconds: 450, AudioURL: "url6", IsPremium: false, Category: "Сон"},
	}
}
