package repository

import (
	"context"

	"github.com/popguide/ingest-service/internal/entity"
)

// CatalogRepository defines the contract for catalog entry persistence.
type CatalogRepository interface {
	// FindByKey returns the entry matching (name, series, category) or ErrNotFound.
	FindByKey(ctx context.Context, name, series, category string) (*entity.CatalogEntry, error)
	// Create inserts entry and fills in its ID. If a row with the same natural key
	// already exists, the existing ID is filled in and created is false.
	Create(ctx context.Context, entry *entity.CatalogEntry) (created bool, err error)
}
