package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
	"github.com/popguide/ingest-service/pkg/metrics"
	"github.com/popguide/ingest-service/pkg/utils"
)

// ListingFetcher queries the marketplace for sold listings one search term at a time.
type ListingFetcher struct {
	extractor   repository.ListingExtractor
	marketplace string
	delay       time.Duration
	logger      *zap.Logger
}

// NewListingFetcher creates a fetcher that searches marketplaceURL and pauses
// delay between consecutive terms.
func NewListingFetcher(extractor repository.ListingExtractor, marketplaceURL string, delay time.Duration, logger *zap.Logger) *ListingFetcher {
	return &ListingFetcher{
		extractor:   extractor,
		marketplace: marketplaceURL,
		delay:       delay,
		logger:      logger,
	}
}

// Walk fetches at most MaxSearchTerms terms in order and calls fn with the
// listings of every term that was fetched successfully. A failed term is logged
// and skipped; it is never retried. Walk only returns early when ctx is done.
func (f *ListingFetcher) Walk(ctx context.Context, category string, terms []string, fn func(entity.TermListings)) error {
	for i, term := range termsToFetch(terms) {
		if i > 0 {
			if err := f.pause(ctx); err != nil {
				return err
			}
		}

		result, err := f.Fetch(ctx, term)
		if err != nil {
			metrics.SearchTermsTotal.WithLabelValues(categoryLabel(category), "failure").Inc()
			f.logger.Warn("search term failed, skipping",
				zap.String("category", category),
				zap.String("term", term),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		metrics.SearchTermsTotal.WithLabelValues(categoryLabel(category), "success").Inc()
		f.logger.Info("listings found",
			zap.String("category", category),
			zap.String("term", term),
			zap.Int("count", len(result.Listings)),
		)
		fn(result)
	}
	return nil
}

// Fetch runs a single sold-listings search for term.
func (f *ListingFetcher) Fetch(ctx context.Context, term string) (entity.TermListings, error) {
	searchURL := utils.SoldListingsURL(f.marketplace, term)

	start := time.Now()
	listings, err := f.extractor.Extract(ctx, searchURL)
	metrics.ExtractDuration.WithLabelValues(f.extractor.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return entity.TermListings{}, fmt.Errorf("%w: term %q: %w", ErrFetch, term, err)
	}
	if listings == nil {
		listings = []entity.RawListing{}
	}
	return entity.TermListings{Term: term, SearchURL: searchURL, Listings: listings}, nil
}

func (f *ListingFetcher) pause(ctx context.Context) error {
	if f.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(f.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
