package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
	"github.com/popguide/ingest-service/pkg/metrics"
)

const (
	defaultCondition = "Used"
	defaultLocation  = "UK"
	unknownSeller    = "Unknown"
)

var (
	sdccRegex      = regexp.MustCompile(`sdcc|san diego comic con`)
	nyccRegex      = regexp.MustCompile(`nycc|new york comic con`)
	exclusiveRegex = regexp.MustCompile(`exclusive|limited|convention|chase`)
)

// DetectVariants scans a listing title for special-release keywords.
// It returns nil when nothing matched.
func DetectVariants(title string) *entity.VariantFlags {
	lower := strings.ToLower(title)
	flags := entity.VariantFlags{
		SDCC:      sdccRegex.MatchString(lower),
		NYCC:      nyccRegex.MatchString(lower),
		Exclusive: exclusiveRegex.MatchString(lower),
	}
	if !flags.Any() {
		return nil
	}
	return &flags
}

// PriceRecorder appends price observations for catalog entries.
type PriceRecorder struct {
	priceRepo repository.PriceRepository
	now       func() time.Time
}

func NewPriceRecorder(priceRepo repository.PriceRepository) *PriceRecorder {
	return &PriceRecorder{priceRepo: priceRepo, now: time.Now}
}

// PriceTarget identifies what a listing's price is recorded against.
type PriceTarget struct {
	CatalogEntryID uuid.UUID
	EntryName      string
	Category       string
	SourceID       uuid.UUID
	SearchURL      string
}

// Record stores one observation for raw. It reports false without error when the
// listing price does not parse.
func (r *PriceRecorder) Record(ctx context.Context, raw entity.RawListing, target PriceTarget) (bool, error) {
	// Parsed independently of ParseListing so this step stands on its own input.
	price, ok := ParsePrice(string(raw.Price))
	if !ok {
		return false, nil
	}

	obs := &entity.PriceObservation{
		CatalogEntryID: target.CatalogEntryID,
		SourceID:       target.SourceID,
		Title:          orDefault(string(raw.Title), target.EntryName+" "+target.Category),
		Price:          price,
		Condition:      orDefault(string(raw.Condition), defaultCondition),
		ListingURL:     orDefault(string(raw.ListingURL), target.SearchURL),
		Images:         []string{},
		Location:       orDefault(string(raw.Location), defaultLocation),
		Seller:         entity.SellerInfo{Name: orDefault(string(raw.SellerInfo), unknownSeller)},
		IsAuction:      false,
		IsBuyNow:       true,
		ShippingCost:   0,
		LastUpdated:    r.now(),
		Variants:       DetectVariants(string(raw.Title)),
	}
	if img := strings.TrimSpace(string(raw.ImageURL)); img != "" {
		obs.Images = []string{img}
	}

	if err := r.priceRepo.Insert(ctx, obs); err != nil {
		metrics.PriceObservationsTotal.WithLabelValues(categoryLabel(target.Category), "failure").Inc()
		return false, fmt.Errorf("%w: price for %s: %w", ErrPersistence, target.CatalogEntryID, err)
	}
	metrics.PriceObservationsTotal.WithLabelValues(categoryLabel(target.Category), "success").Inc()
	return true, nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
