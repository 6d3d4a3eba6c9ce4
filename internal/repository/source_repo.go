package repository

import (
	"context"

	"github.com/popguide/ingest-service/internal/entity"
)

// SourceRepository defines the interface for marketplace sources.
type SourceRepository interface {
	// GetOrCreate returns the source with the given name, creating it if missing.
	GetOrCreate(ctx context.Context, name, baseURL string) (*entity.MarketplaceSource, error)
}
