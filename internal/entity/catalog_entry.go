package entity

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEntry mirrors the `funko_pops` PostgreSQL table schema.
// (Name, Series, Category) is the natural key.
type CatalogEntry struct {
	ID             uuid.UUID
	Name           string
	Series         string
	Number         string
	Category       string
	Fandom         string
	Genre          string
	Description    string
	EstimatedValue float64 // first-seen price, never refreshed by ingestion
	IsVaulted      bool
	ReleaseDate    time.Time
	CreatedAt      time.Time
}
