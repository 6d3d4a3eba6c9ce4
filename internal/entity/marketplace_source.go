package entity

import "github.com/google/uuid"

// MarketplaceSource mirrors the `marketplace_sources` PostgreSQL table schema.
type MarketplaceSource struct {
	ID       uuid.UUID
	Name     string
	BaseURL  string
	IsActive bool
}
