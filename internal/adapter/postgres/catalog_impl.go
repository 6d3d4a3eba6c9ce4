package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
)

// CatalogRepoImpl implements repository.CatalogRepository on the funko_pops table.
type CatalogRepoImpl struct {
	db *pgxpool.Pool
}

func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepoImpl {
	return &CatalogRepoImpl{db: db}
}

// FindByKey matches on exact (name, series, category) and returns the oldest
// match. Rows written by other services may carry NULLs in the descriptive columns.
func (r *CatalogRepoImpl) FindByKey(ctx context.Context, name, series, category string) (*entity.CatalogEntry, error) {
	query := `
		SELECT id, name, series, COALESCE(number, ''), category, COALESCE(fandom, ''), COALESCE(genre, ''),
			COALESCE(description, ''), COALESCE(estimated_value, 0)::float8, is_vaulted,
			COALESCE(release_date, created_at::date), created_at
		FROM funko_pops
		WHERE name = $1 AND series = $2 AND category = $3
		ORDER BY created_at, id
		LIMIT 1;
	`
	var e entity.CatalogEntry
	err := r.db.QueryRow(ctx, query, name, series, category).Scan(
		&e.ID,
		&e.Name,
		&e.Series,
		&e.Number,
		&e.Category,
		&e.Fandom,
		&e.Genre,
		&e.Description,
		&e.EstimatedValue,
		&e.IsVaulted,
		&e.ReleaseDate,
		&e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts entry unless its natural key already exists. On conflict the
// stored row wins and its ID is copied into entry. Without the natural-key index
// the insert always succeeds and callers rely on FindByKey first.
func (r *CatalogRepoImpl) Create(ctx context.Context, entry *entity.CatalogEntry) (bool, error) {
	query := `
		INSERT INTO funko_pops (name, series, number, category, fandom, genre, description, estimated_value, is_vaulted, release_date, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT DO NOTHING
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		entry.Name,
		entry.Series,
		entry.Number,
		entry.Category,
		entry.Fandom,
		entry.Genre,
		entry.Description,
		entry.EstimatedValue,
		entry.IsVaulted,
		entry.ReleaseDate,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	existing, err := r.FindByKey(ctx, entry.Name, entry.Series, entry.Category)
	if err != nil {
		return false, err
	}
	entry.ID = existing.ID
	return false, nil
}
