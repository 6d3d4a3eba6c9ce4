package repository

import (
	"context"

	"github.com/popguide/ingest-service/internal/entity"
)

// ListingExtractor turns a marketplace search page into raw listings.
type ListingExtractor interface {
	// Extract fetches searchURL and returns the listings found on it.
	// An empty page yields an empty slice and a nil error.
	Extract(ctx context.Context, searchURL string) ([]entity.RawListing, error)
	// Name identifies the extractor in logs and metrics.
	Name() string
}
