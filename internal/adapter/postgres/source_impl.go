package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/popguide/ingest-service/internal/entity"
)

// SourceRepoImpl implements repository.SourceRepository on the marketplace_sources table.
type SourceRepoImpl struct {
	db *pgxpool.Pool
}

func NewSourceRepo(db *pgxpool.Pool) *SourceRepoImpl {
	return &SourceRepoImpl{db: db}
}

// GetOrCreate inserts the source unless one with the same name exists, then
// reads back the oldest row with that name. It does not rely on a unique index
// on name, so it also works on tables that already hold duplicates.
func (r *SourceRepoImpl) GetOrCreate(ctx context.Context, name, baseURL string) (*entity.MarketplaceSource, error) {
	insert := `
		INSERT INTO marketplace_sources (name, base_url, is_active)
		SELECT $1::text, $2::text, TRUE
		WHERE NOT EXISTS (SELECT 1 FROM marketplace_sources WHERE name = $1::text)
		ON CONFLICT DO NOTHING;
	`
	if _, err := r.db.Exec(ctx, insert, name, baseURL); err != nil {
		return nil, fmt.Errorf("marketplace source %q: %w", name, err)
	}

	query := `
		SELECT id, name, base_url, is_active
		FROM marketplace_sources
		WHERE name = $1
		ORDER BY created_at, id
		LIMIT 1;
	`
	var s entity.MarketplaceSource
	if err := r.db.QueryRow(ctx, query, name).Scan(&s.ID, &s.Name, &s.BaseURL, &s.IsActive); err != nil {
		return nil, fmt.Errorf("marketplace source %q: %w", name, err)
	}
	return &s, nil
}
