package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

// Save inserts a freshly issued code. The UNIQUE constraint on code_hash
// turns a duplicate digest into ErrAlreadyExists instead of a silent
// overwrite; issued rows are never updated through this path.
func (r *activationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}

	const q = `
INSERT INTO activation_codes (id, code_hash, duration_days, is_used, activated_at, redeemed_by_user_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.ID, code.CodeHash, code.DurationDays, code.IsUsed, code.ActivatedAt, code.RedeemedByUserID, code.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *activationCodeRepo) FindByDigest(ctx context.Context, tx repository.Tx, digest string) (*model.ActivationCode, error) {
	const q = `
SELECT id, code_hash, duration_days, is_used, activated_at, redeemed_by_user_id, created_at
  FROM activation_codes
 WHERE code_hash = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, digest)
	if err != nil {
		return nil, err
	}

	var ac model.ActivationCode
	err = row.Scan(
		&ac.ID, &ac.CodeHash, &ac.DurationDays, &ac.IsUsed, &ac.ActivatedAt, &ac.RedeemedByUserID, &ac.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}

// Redeem is the single-winner compare-and-set: the WHERE clause only
// matches while the code is still unused, so of any number of concurrent
// redemptions exactly one sees a row affected and the rest observe
// ErrCodeAlreadyUsed.
func (r *activationCodeRepo) Redeem(ctx context.Context, tx repository.Tx, digest, userID string, at time.Time) error {
	const q = `
UPDATE activation_codes
   SET is_used = TRUE, activated_at = $2, redeemed_by_user_id = $3
 WHERE code_hash = $1 AND is_used = FALSE;
`
	tag, err := execSQL(ctx, r.pool, tx, q, digest, at.UTC(), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeAlreadyUsed
	}
	return nil
}

func (r *activationCodeRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.ActivationCode, error) {
	const q = `
SELECT id, code_hash, duration_days, is_used, activated_at, redeemed_by_user_id, created_at
  FROM activation_codes
 WHERE redeemed_by_user_id = $1
 ORDER BY activated_at DESC NULLS LAST, created_at DESC;
`
	rows, err := pickRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ActivationCode
	for rows.Next() {
		var ac model.ActivationCode
		if err := rows.Scan(&ac.ID, &ac.CodeHash, &ac.DurationDays, &ac.IsUsed, &ac.ActivatedAt, &ac.RedeemedByUserID, &ac.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &ac)
	}
	return out, rows.Err()
}
