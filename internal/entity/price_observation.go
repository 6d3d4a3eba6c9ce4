package entity

import (
	"time"

	"github.com/google/uuid"
)

// VariantFlags marks special releases detected from listing titles.
type VariantFlags struct {
	SDCC      bool `json:"sdcc"`
	NYCC      bool `json:"nycc"`
	Exclusive bool `json:"exclusive"`
}

// Any reports whether at least one flag is set.
func (v VariantFlags) Any() bool {
	return v.SDCC || v.NYCC || v.Exclusive
}

// SellerInfo is stored as JSONB.
type SellerInfo struct {
	Name string `json:"name"`
}

// PriceObservation mirrors the `marketplace_prices` PostgreSQL table schema.
// Rows are append-only.
type PriceObservation struct {
	ID             uuid.UUID
	CatalogEntryID uuid.UUID
	SourceID       uuid.UUID
	Title          string
	Price          float64
	Condition      string
	ListingURL     string
	Images         []string
	Location       string
	Seller         SellerInfo
	IsAuction      bool
	IsBuyNow       bool
	ShippingCost   float64
	LastUpdated    time.Time
	Variants       *VariantFlags // nil when no variant keyword matched
}
