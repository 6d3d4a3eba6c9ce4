package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNaturalKeyIndex is returned when a natural-key unique index cannot be built,
// usually because a shared table already holds duplicate keys. The repositories
// still work without the indexes, falling back to check-then-create.
var ErrNaturalKeyIndex = errors.New("natural key index unavailable")

// schemaStatements creates the tables the ingestion job writes to when they are
// missing. Existing tables are left untouched.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS marketplace_sources (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       TEXT NOT NULL,
		base_url   TEXT NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS funko_pops (
		id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name            TEXT NOT NULL,
		series          TEXT NOT NULL,
		number          TEXT,
		category        TEXT NOT NULL,
		fandom          TEXT,
		genre           TEXT,
		description     TEXT,
		estimated_value NUMERIC(10, 2),
		is_vaulted      BOOLEAN NOT NULL DEFAULT FALSE,
		release_date    DATE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS marketplace_prices (
		id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		funko_pop_id          UUID NOT NULL REFERENCES funko_pops (id) ON DELETE CASCADE,
		marketplace_source_id UUID NOT NULL REFERENCES marketplace_sources (id),
		title                 TEXT NOT NULL,
		price                 NUMERIC(10, 2) NOT NULL,
		condition             TEXT,
		listing_url           TEXT,
		images                TEXT[] NOT NULL DEFAULT '{}',
		location              TEXT,
		seller_info           JSONB,
		is_auction            BOOLEAN NOT NULL DEFAULT FALSE,
		is_buy_now            BOOLEAN NOT NULL DEFAULT TRUE,
		shipping_cost         NUMERIC(10, 2) NOT NULL DEFAULT 0,
		last_updated          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		stickers              JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS marketplace_prices_funko_pop_id_idx ON marketplace_prices (funko_pop_id)`,
}

var naturalKeyIndexes = map[string]string{
	"marketplace_sources_name_key": `CREATE UNIQUE INDEX IF NOT EXISTS marketplace_sources_name_key ON marketplace_sources (name)`,
	"funko_pops_natural_key":       `CREATE UNIQUE INDEX IF NOT EXISTS funko_pops_natural_key ON funko_pops (name, series, category)`,
}

// EnsureSchema applies schemaStatements in order, then tries every natural-key
// index. Index failures are joined and wrapped in ErrNaturalKeyIndex; any other
// error means the schema is unusable.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	var indexErrs []error
	for name, stmt := range naturalKeyIndexes {
		if _, err := db.Exec(ctx, stmt); err != nil {
			indexErrs = append(indexErrs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(indexErrs) > 0 {
		return fmt.Errorf("%w: %w", ErrNaturalKeyIndex, errors.Join(indexErrs...))
	}
	return nil
}
