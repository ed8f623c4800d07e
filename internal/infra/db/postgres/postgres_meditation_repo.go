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

var _ repository.MeditationRepository = (*meditationRepo)(nil)

type meditationRepo struct {
	pool *pgxpool.Pool
}

func NewMeditationRepo(pool *pgxpool.Pool) repository.MeditationRepository {
	return &meditationRepo{pool: pool}
}

const meditationColumns = `id, title, description, duration_seconds, audio_url, is_premium, category`

func (r *meditationRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Meditation, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+meditationColumns+` FROM meditations WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	var m model.Meditation
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.DurationSeconds, &m.AudioURL, &m.IsPremium, &m.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &m, nil
}

func (r *meditationRepo) List(ctx context.Context, tx repository.Tx, category string) ([]*model.Meditation, error) {
	q := `SELECT ` + meditationColumns + ` FROM meditations ORDER BY id;`
	args := []interface{}{}
	if category != "" {
		q = `SELECT ` + meditationColumns + ` FROM meditations WHERE category = $1 ORDER BY id;`
		args = append(args, category)
	}

	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Meditation
	for rows.Next() {
		var m model.Meditation
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationSeconds, &m.AudioURL, &m.IsPremium, &m.Category); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *meditationRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM meditations;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count meditations: %w", err)
	}
	return n, nil
}

func (r *meditationRepo) Save(ctx context.Context, tx repository.Tx, m *model.Meditation) error {
	if m.ID == 0 {
		const q = `
INSERT INTO meditations (title, description, duration_seconds, audio_url, is_premium, category)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`
		row, err := pickRow(ctx, r.pool, tx, q, m.Title, m.Description, m.DurationSeconds, m.AudioURL, m.IsPremium, m.Category)
		if err != nil {
			return err
		}
		return row.Scan(&m.ID)
	}

	const q = `
UPDATE meditations
   SET title = $2, description = $3, duration_seconds = $4, audio_url = $5, is_premium = $6, category = $7
 WHERE id = $1;
`
	tag, err := execSQL(ctx, r.pool, tx, q, m.ID, m.Title, m.Description, m.DurationSeconds, m.AudioURL, m.IsPremium, m.Category)
	if err != nil {
		return fmt.Errorf("save meditation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
