package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// schemaDDL is idempotent. The UNIQUE constraint on code_hash backs the
// data-integrity requirement that a digest is issued at most once, and
// every timestamp column is timestamptz so only UTC-aware instants are
// ever stored or compared.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    id                        TEXT PRIMARY KEY,
    name                      TEXT NOT NULL DEFAULT 'User',
    is_premium                BOOLEAN NOT NULL DEFAULT FALSE,
    premium_expires_at        TIMESTAMPTZ,
    last_played_meditation_id BIGINT
);

CREATE TABLE IF NOT EXISTS meditations (
    id               BIGSERIAL PRIMARY KEY,
    title            TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    duration_seconds INT NOT NULL,
    audio_url        TEXT NOT NULL,
    is_premium       BOOLEAN NOT NULL DEFAULT FALSE,
    category         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_meditations_category ON meditations (category);

CREATE TABLE IF NOT EXISTS activation_codes (
    id                  TEXT PRIMARY KEY,
    code_hash           TEXT NOT NULL UNIQUE,
    duration_days       INT NOT NULL,
    is_used             BOOLEAN NOT NULL DEFAULT FALSE,
    activated_at        TIMESTAMPTZ,
    redeemed_by_user_id TEXT,
    created_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activation_codes_user ON activation_codes (redeemed_by_user_id);
`

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaDDL)
	return err
}
