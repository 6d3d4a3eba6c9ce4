package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
	"github.com/popguide/ingest-service/pkg/config"
	"github.com/popguide/ingest-service/pkg/metrics"
	"github.com/popguide/ingest-service/pkg/utils"
)

const (
	fallbackMaxItems = 20
	minItemsPerTerm  = 2
	runLockKeyPrefix = "ingest:lock:"
)

// RunRequest is one invocation of the category ingestion job.
type RunRequest struct {
	Category  string
	MaxItems  int
	AuthToken string
}

// IngestRunner runs the category ingestion pipeline.
type IngestRunner interface {
	// Run executes one ingestion batch synchronously. On failure no statistics are returned.
	Run(ctx context.Context, req RunRequest) (*entity.RunStatistics, error)
}

type ingestUseCase struct {
	cfg        *config.Config
	sourceRepo repository.SourceRepository
	runLock    repository.RunLockRepository
	fetcher    *ListingFetcher
	dedup      *CatalogDeduplicator
	recorder   *PriceRecorder
	notifier   *NotificationDispatcher
	logger     *zap.Logger
}

// NewIngestUseCase creates the run orchestrator. runLock may be nil, in which case
// runs for the same category are not serialised.
func NewIngestUseCase(
	cfg *config.Config,
	sourceRepo repository.SourceRepository,
	runLock repository.RunLockRepository,
	fetcher *ListingFetcher,
	dedup *CatalogDeduplicator,
	recorder *PriceRecorder,
	notifier *NotificationDispatcher,
	logger *zap.Logger,
) IngestRunner {
	return &ingestUseCase{
		cfg:        cfg,
		sourceRepo: sourceRepo,
		runLock:    runLock,
		fetcher:    fetcher,
		dedup:      dedup,
		recorder:   recorder,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *ingestUseCase) Run(ctx context.Context, req RunRequest) (result *entity.RunStatistics, err error) {
	stats := &entity.RunStatistics{
		RunID:     uuid.NewString(),
		Category:  req.Category,
		StartedAt: time.Now(),
		Outcome:   entity.RunPending,
	}
	logger := uc.logger.With(zap.String("run_id", stats.RunID), zap.String("category", req.Category))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ingestion run panicked: %v", r)
		}
		if err == nil {
			return
		}
		result = nil
		if errors.Is(err, ErrRunInProgress) {
			logger.Warn("ingestion run rejected", zap.Error(err))
			return
		}
		stats.Duration = time.Since(stats.StartedAt)
		stats.Outcome = entity.RunFailed
		stats.Err = err
		metrics.RunDuration.WithLabelValues(categoryLabel(req.Category), string(entity.RunFailed)).Observe(stats.Duration.Seconds())
		logger.Error("ingestion run failed", zap.Error(err))

		// The caller's context may already be cancelled; the failure report still goes out.
		uc.notifier.Failure(context.WithoutCancel(ctx), stats, err)
	}()

	if err := uc.validate(req); err != nil {
		return nil, err
	}

	release, err := uc.acquireLock(ctx, req.Category, logger)
	if err != nil {
		return nil, err
	}
	defer release()

	source, err := uc.sourceRepo.GetOrCreate(ctx, uc.cfg.MarketplaceName, uc.cfg.MarketplaceBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create marketplace source: %w", err)
	}

	allTerms := SearchTerms(req.Category)
	stats.SearchTerms = termsToFetch(allTerms)
	share := itemsPerTerm(uc.maxItems(req.MaxItems), len(allTerms))
	logger.Info("starting ingestion run",
		zap.Strings("search_terms", stats.SearchTerms),
		zap.Int("items_per_term", share),
	)

	err = uc.fetcher.Walk(ctx, req.Category, allTerms, func(tl entity.TermListings) {
		stats.Found += len(tl.Listings)
		listings := tl.Listings
		if len(listings) > share {
			listings = listings[:share]
		}
		for _, raw := range listings {
			uc.processListing(ctx, logger, stats, raw, source.ID, tl.SearchURL)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("ingestion run interrupted: %w", err)
	}

	stats.Duration = time.Since(stats.StartedAt)
	stats.Outcome = entity.RunCompleted
	metrics.RunDuration.WithLabelValues(categoryLabel(req.Category), string(entity.RunCompleted)).Observe(stats.Duration.Seconds())
	logger.Info("ingestion run completed",
		zap.Int("found", stats.Found),
		zap.Int("created", stats.Created),
		zap.Int("existing", stats.Existing),
		zap.Int("prices_collected", stats.PricesCollected),
		zap.Duration("duration", stats.Duration),
	)

	uc.notifier.Success(ctx, stats)
	return stats, nil
}

// processListing drives one listing through parse, dedupe and record. Failures
// only reduce the counters.
func (uc *ingestUseCase) processListing(ctx context.Context, logger *zap.Logger, stats *entity.RunStatistics, raw entity.RawListing, sourceID uuid.UUID, searchURL string) {
	parsed, ok := ParseListing(raw, stats.Category)
	if !ok {
		metrics.ListingsTotal.WithLabelValues(categoryLabel(stats.Category), "rejected").Inc()
		logger.Debug("listing rejected", zap.String("title", string(raw.Title)), zap.String("price", string(raw.Price)))
		return
	}
	metrics.ListingsTotal.WithLabelValues(categoryLabel(stats.Category), "parsed").Inc()

	entryID, created, err := uc.dedup.Resolve(ctx, parsed, stats.Category)
	if err != nil {
		logger.Error("failed to resolve catalog entry, skipping listing", zap.String("name", parsed.Name), zap.Error(err))
		return
	}
	if created {
		stats.Created++
		logger.Info("created catalog entry", zap.String("name", parsed.Name), zap.String("series", parsed.Series))
	} else {
		stats.Existing++
		logger.Debug("found existing catalog entry", zap.String("name", parsed.Name))
	}

	recorded, err := uc.recorder.Record(ctx, raw, PriceTarget{
		CatalogEntryID: entryID,
		EntryName:      parsed.Name,
		Category:       stats.Category,
		SourceID:       sourceID,
		SearchURL:      searchURL,
	})
	if err != nil {
		logger.Error("failed to store price observation", zap.String("name", parsed.Name), zap.Error(err))
		return
	}
	if recorded {
		stats.PricesCollected++
	}
}

func (uc *ingestUseCase) validate(req RunRequest) error {
	if strings.TrimSpace(req.AuthToken) == "" {
		return &ConfigurationError{Field: "Authorization", Reason: "no authorization header"}
	}
	if uc.cfg.RequiresAPIKey() && strings.TrimSpace(uc.cfg.FirecrawlAPIKey) == "" {
		return &ConfigurationError{Field: "FIRECRAWL_API_KEY", Reason: "environment variable not set"}
	}
	return nil
}

// acquireLock serialises runs per category. A lock backend outage is logged and
// the run proceeds unlocked.
func (uc *ingestUseCase) acquireLock(ctx context.Context, category string, logger *zap.Logger) (func(), error) {
	noop := func() {}
	if uc.runLock == nil {
		return noop, nil
	}

	key := runLockKeyPrefix + utils.HashKey(category)
	token, err := uc.runLock.Acquire(ctx, key, uc.cfg.RunLockTTL)
	if errors.Is(err, repository.ErrLockHeld) {
		return noop, ErrRunInProgress
	}
	if err != nil {
		logger.Warn("run lock unavailable, continuing without it", zap.Error(err))
		return noop, nil
	}
	return func() {
		if err := uc.runLock.Release(context.WithoutCancel(ctx), key, token); err != nil {
			logger.Warn("failed to release run lock", zap.Error(err))
		}
	}, nil
}

func (uc *ingestUseCase) maxItems(requested int) int {
	if requested > 0 {
		return requested
	}
	if uc.cfg.DefaultMaxItems > 0 {
		return uc.cfg.DefaultMaxItems
	}
	return fallbackMaxItems
}

// itemsPerTerm splits maxItems across the full curated term list, not just the
// fetched prefix, with a floor of two listings per term.
func itemsPerTerm(maxItems, termCount int) int {
	if termCount <= 0 {
		return minItemsPerTerm
	}
	return max(minItemsPerTerm, maxItems/termCount)
}
