package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, name, is_premium, premium_expires_at, last_played_meditation_id`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.IsPremium, &u.PremiumExpiresAt, &u.LastPlayedMeditationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if u.PremiumExpiresAt != nil {
		utc := u.PremiumExpiresAt.UTC()
		u.PremiumExpiresAt = &utc
	}
	return &u, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := pickRows(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2;`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.IsPremium, &u.PremiumExpiresAt, &u.LastPlayedMeditationID); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if u.PremiumExpiresAt != nil {
			utc := u.PremiumExpiresAt.UTC()
			u.PremiumExpiresAt = &utc
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepo) Insert(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (id, name, is_premium, premium_expires_at, last_played_meditation_id)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Name, u.IsPremium, u.PremiumExpiresAt, u.LastPlayedMeditationID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the user unless the id is already taken.
// ON CONFLICT DO NOTHING makes concurrent first-references first-writer-wins;
// the loser simply affects zero rows and reads back the winner's record.
func (r *PostgresUserRepo) CreateIfAbsent(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (id, name, is_premium, premium_expires_at, last_played_meditation_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING;
`
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Name, u.IsPremium, u.PremiumExpiresAt, u.LastPlayedMeditationID)
	if err != nil {
		return fmt.Errorf("create user if absent: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (id, name, is_premium, premium_expires_at, last_played_meditation_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  is_premium = EXCLUDED.is_premium,
  premium_expires_at = EXCLUDED.premium_expires_at,
  last_played_meditation_id = EXCLUDED.last_played_meditation_id;
`
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Name, u.IsPremium, u.PremiumExpiresAt, u.LastPlayedMeditationID)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) SetLastPlayed(ctx context.Context, tx repository.Tx, userID string, meditationID int64) error {
	tag, err := execSQL(ctx, r.pool, tx, `UPDATE users SET last_played_meditation_id = $2 WHERE id = $1;`, userID, meditationID)
	if err != nil {
		return fmt.Errorf("set last played: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
