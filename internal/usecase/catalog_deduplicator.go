package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
	"github.com/popguide/ingest-service/pkg/metrics"
)

// CatalogDeduplicator finds or creates the canonical catalog entry for a parsed listing.
type CatalogDeduplicator struct {
	catalogRepo repository.CatalogRepository
	now         func() time.Time
}

func NewCatalogDeduplicator(catalogRepo repository.CatalogRepository) *CatalogDeduplicator {
	return &CatalogDeduplicator{catalogRepo: catalogRepo, now: time.Now}
}

// Resolve returns the ID of the entry keyed by (name, series, category).
// Existing entries are reused as stored; no field is updated.
func (d *CatalogDeduplicator) Resolve(ctx context.Context, parsed *entity.ParsedListing, category string) (uuid.UUID, bool, error) {
	existing, err := d.catalogRepo.FindByKey(ctx, parsed.Name, parsed.Series, category)
	if err == nil {
		metrics.CatalogEntriesTotal.WithLabelValues(categoryLabel(category), "existing").Inc()
		return existing.ID, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		metrics.CatalogEntriesTotal.WithLabelValues(categoryLabel(category), "error").Inc()
		return uuid.Nil, false, fmt.Errorf("%w: lookup %q: %w", ErrPersistence, parsed.Name, err)
	}

	now := d.now()
	entry := &entity.CatalogEntry{
		Name:           parsed.Name,
		Series:         parsed.Series,
		Number:         parsed.Number,
		Category:       category,
		Fandom:         parsed.Fandom,
		Genre:          parsed.Genre,
		Description:    parsed.Description,
		EstimatedValue: parsed.Price,
		IsVaulted:      false,
		ReleaseDate:    now.UTC().Truncate(24 * time.Hour),
		CreatedAt:      now,
	}
	created, err := d.catalogRepo.Create(ctx, entry)
	if err != nil {
		metrics.CatalogEntriesTotal.WithLabelValues(categoryLabel(category), "error").Inc()
		return uuid.Nil, false, fmt.Errorf("%w: create %q: %w", ErrPersistence, parsed.Name, err)
	}

	// A concurrent run may have inserted the same key between lookup and insert.
	if !created {
		metrics.CatalogEntriesTotal.WithLabelValues(categoryLabel(category), "existing").Inc()
		return entry.ID, false, nil
	}
	metrics.CatalogEntriesTotal.WithLabelValues(categoryLabel(category), "created").Inc()
	return entry.ID, true, nil
}
