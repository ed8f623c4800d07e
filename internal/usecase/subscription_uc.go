// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
	"meditation-premium-service/internal/infra/logging"
	"meditation-premium-service/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// IssuedCode is the one moment a raw code exists outside the caller's
// possession; only the digest is retained by the store.
type IssuedCode struct {
	RawCode      string
	Digest       string
	DurationDays int
}

// CodeStatus is the read-only verdict of Check.
type CodeStatus struct {
	Used         bool
	DurationDays int // zero when Used
}

// SubscriptionUseCase is the redemption engine: it orchestrates code
// issuance, status checks, the transactional activate protocol, and
// per-user redemption history.
type SubscriptionUseCase interface {
	Issue(ctx context.Context, durationDays int) (*IssuedCode, error)
	Check(ctx context.Context, rawCode string) (*CodeStatus, error)
	Activate(ctx context.Context, rawCode, userID string) (time.Time, error)
	History(ctx context.Context, userID string) ([]*model.ActivationCode, error)
}

type subscriptionUC struct {
	codes repository.ActivationCodeRepository
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewSubscriptionUseCase(
	codes repository.ActivationCodeRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *subscriptionUC {
	return &subscriptionUC{
		codes: codes,
		users: users,
		tm:    tm,
		log:   logger,
	}
}

func (uc *subscriptionUC) Issue(ctx context.Context, durationDays int) (*IssuedCode, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.Issue")()

	if durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	raw, err := generateActivationCode()
	if err != nil {
		return nil, err
	}
	digest := HashCode(raw)

	record := &model.ActivationCode{
		CodeHash:     digest,
		DurationDays: durationDays,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.codes.Save(ctx, repository.NoTX, record); err != nil {
		return nil, err
	}

	metrics.IncCodeIssued()
	uc.log.Info().Str("digest", digest).Int("duration_days", durationDays).Msg("activation code issued")
	return &IssuedCode{RawCode: raw, Digest: digest, DurationDays: durationDays}, nil
}

// Check never mutates state and never reveals who redeemed a used code.
func (uc *subscriptionUC) Check(ctx context.Context, rawCode string) (*CodeStatus, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.Check")()

	code, err := uc.codes.FindByDigest(ctx, repository.NoTX, HashCode(rawCode))
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			metrics.IncCodeCheck("not_found")
		}
		return nil, err
	}
	if code.IsUsed {
		metrics.IncCodeCheck("used")
		return &CodeStatus{Used: true}, nil
	}
	metrics.IncCodeCheck("valid")
	return &CodeStatus{Used: false, DurationDays: code.DurationDays}, nil
}

// Activate runs the whole redemption protocol in one transaction: the
// compare-and-set on the code row guarantees a single winner per digest,
// and a failure anywhere rolls back both the code and the user record.
func (uc *subscriptionUC) Activate(ctx context.Context, rawCode, userID string) (time.Time, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.Activate")()

	if userID == "" {
		return time.Time{}, domain.ErrInvalidArgument
	}
	digest := HashCode(rawCode)

	var until time.Time
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		code, err := uc.codes.FindByDigest(ctx, tx, digest)
		if err != nil {
			return err
		}
		if code.IsUsed {
			return domain.ErrCodeAlreadyUsed
		}

		now := time.Now().UTC()
		// The conditional update is the race arbiter: a concurrent
		// activation that committed between the read above and here
		// surfaces as ErrCodeAlreadyUsed, not as a lost update.
		if err := uc.codes.Redeem(ctx, tx, digest, userID, now); err != nil {
			return err
		}

		user, err := uc.users.FindByID(ctx, tx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			fresh, nerr := model.NewUser(userID, model.DefaultUserName)
			if nerr != nil {
				return nerr
			}
			if nerr := uc.users.CreateIfAbsent(ctx, tx, fresh); nerr != nil {
				return nerr
			}
			// Read back: a concurrent creation may have won.
			user, err = uc.users.FindByID(ctx, tx, userID)
		}
		if err != nil {
			return err
		}

		until = user.ExtendPremium(now, code.DurationDays)
		return uc.users.Save(ctx, tx, user)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeAlreadyUsed):
			metrics.IncRedemption("already_used")
		case errors.Is(err, domain.ErrCodeNotFound):
			metrics.IncRedemption("not_found")
		default:
			metrics.IncRedemption("error")
			logging.With(ctx, uc.log).Error().Err(err).Str("digest", digest).Msg("activation failed")
		}
		return time.Time{}, err
	}

	metrics.IncRedemption("activated")
	logging.With(ctx, uc.log).Info().
		Str("digest", digest).
		Str("user_id", userID).
		Time("premium_until", until).
		Msg("activation code redeemed")
	return until, nil
}

// History distinguishes an unknown user (ErrNotFound) from a known user
// with zero redemptions (ErrNoActivationHistory).
func (uc *subscriptionUC) History(ctx context.Context, userID string) ([]*model.ActivationCode, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.History")()

	if _, err := uc.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, err
	}
	codes, err := uc.codes.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, domain.ErrNoActivationHistory
	}
	return codes, nil
}
