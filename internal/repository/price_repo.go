package repository

import (
	"context"

	"github.com/popguide/ingest-service/internal/entity"
)

// PriceRepository defines the interface for the append-only price history.
type PriceRepository interface {
	// Insert appends one observation and fills in its ID.
	Insert(ctx context.Context, obs *entity.PriceObservation) error
}
