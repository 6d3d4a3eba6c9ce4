package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/popguide/ingest-service/internal/entity"
)

func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	return dsn
}

// isolatedPool returns a pool whose search_path points at a fresh schema that
// is dropped when the test ends.
func isolatedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := testDSN(t)
	ctx := context.Background()

	admin, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(admin.Close)

	schema := "ingest_test_" + uuid.NewString()[:8]
	if _, err := admin.Exec(ctx, `CREATE SCHEMA `+schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), `DROP SCHEMA `+schema+` CASCADE`)
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatal(err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema + ",public"
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// testPool connects to TEST_POSTGRES_DSN and applies the schema. Tests skip when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := testDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return pool
}

func TestRepositories_RoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	// A second call must be a no-op.
	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema twice: %v", err)
	}

	sources := NewSourceRepo(pool)
	sourceName := "Test Market " + uuid.NewString()
	src, err := sources.GetOrCreate(ctx, sourceName, "https://market.example")
	if err != nil {
		t.Fatal(err)
	}
	again, err := sources.GetOrCreate(ctx, sourceName, "https://market.example")
	if err != nil || again.ID != src.ID {
		t.Fatalf("GetOrCreate not idempotent: %v, %v vs %v", err, again, src)
	}

	catalog := NewCatalogRepo(pool)
	entry := &entity.CatalogEntry{
		Name:           "Darth Vader " + uuid.NewString(),
		Series:         "Star Wars Vinyl Soda",
		Category:       "Vinyl Soda",
		Fandom:         "Star Wars",
		Genre:          "Movies & TV",
		Description:    "Vinyl Soda featuring Darth Vader",
		EstimatedValue: 25,
		ReleaseDate:    time.Now().UTC().Truncate(24 * time.Hour),
		CreatedAt:      time.Now(),
	}
	created, err := catalog.Create(ctx, entry)
	if err != nil || !created {
		t.Fatalf("Create = %v, %v", created, err)
	}

	dup := *entry
	dup.ID = uuid.Nil
	created, err = catalog.Create(ctx, &dup)
	if err != nil || created || dup.ID != entry.ID {
		t.Fatalf("duplicate Create = %v, %v, id %s want %s", created, err, dup.ID, entry.ID)
	}

	found, err := catalog.FindByKey(ctx, entry.Name, entry.Series, entry.Category)
	if err != nil {
		t.Fatal(err)
	}
	if found.EstimatedValue != 25 || found.Number != "" {
		t.Errorf("FindByKey = %+v", found)
	}

	prices := NewPriceRepo(pool)
	obs := &entity.PriceObservation{
		CatalogEntryID: entry.ID,
		SourceID:       src.ID,
		Title:          "SDCC Darth Vader Vinyl Soda",
		Price:          25,
		Condition:      "Used",
		Location:       "UK",
		Seller:         entity.SellerInfo{Name: "Unknown"},
		IsBuyNow:       true,
		LastUpdated:    time.Now(),
		Variants:       &entity.VariantFlags{SDCC: true},
	}
	if err := prices.Insert(ctx, obs); err != nil {
		t.Fatal(err)
	}
	if obs.ID == uuid.Nil {
		t.Error("Insert did not fill the ID")
	}

	var stickers map[string]bool
	if err := pool.QueryRow(ctx, `SELECT stickers FROM marketplace_prices WHERE id = $1`, obs.ID).Scan(&stickers); err != nil {
		t.Fatal(err)
	}
	if !stickers["sdcc"] || stickers["nycc"] {
		t.Errorf("stickers = %v", stickers)
	}
}

func TestEnsureSchema_DuplicateKeysDoNotBlockStartup(t *testing.T) {
	pool := isolatedPool(t)
	ctx := context.Background()

	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema on empty schema: %v", err)
	}

	// Simulate tables filled by an older pipeline that never enforced the keys.
	for _, stmt := range []string{
		`DROP INDEX funko_pops_natural_key`,
		`DROP INDEX marketplace_sources_name_key`,
		`INSERT INTO marketplace_sources (name, base_url, created_at) VALUES
			('eBay UK', 'https://www.ebay.co.uk', NOW() - INTERVAL '2 days'),
			('eBay UK', 'https://www.ebay.co.uk', NOW())`,
		`INSERT INTO funko_pops (name, series, category, created_at) VALUES
			('Batman', 'DC Vinyl Soda', 'Vinyl Soda', NOW() - INTERVAL '2 days'),
			('Batman', 'DC Vinyl Soda', 'Vinyl Soda', NOW())`,
	} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	err := EnsureSchema(ctx, pool)
	if !errors.Is(err, ErrNaturalKeyIndex) {
		t.Fatalf("EnsureSchema = %v, want ErrNaturalKeyIndex", err)
	}

	var oldestSource, oldestPop uuid.UUID
	if err := pool.QueryRow(ctx, `SELECT id FROM marketplace_sources ORDER BY created_at LIMIT 1`).Scan(&oldestSource); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx, `SELECT id FROM funko_pops ORDER BY created_at LIMIT 1`).Scan(&oldestPop); err != nil {
		t.Fatal(err)
	}

	src, err := NewSourceRepo(pool).GetOrCreate(ctx, "eBay UK", "https://www.ebay.co.uk")
	if err != nil {
		t.Fatalf("GetOrCreate without index: %v", err)
	}
	if src.ID != oldestSource {
		t.Errorf("source = %s, want oldest %s", src.ID, oldestSource)
	}

	catalog := NewCatalogRepo(pool)
	found, err := catalog.FindByKey(ctx, "Batman", "DC Vinyl Soda", "Vinyl Soda")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != oldestPop {
		t.Errorf("FindByKey = %s, want oldest %s", found.ID, oldestPop)
	}

	created, err := catalog.Create(ctx, &entity.CatalogEntry{
		Name:        "Joker",
		Series:      "DC Vinyl Soda",
		Category:    "Vinyl Soda",
		ReleaseDate: time.Now().UTC().Truncate(24 * time.Hour),
		CreatedAt:   time.Now(),
	})
	if err != nil || !created {
		t.Errorf("Create without index = %v, %v", created, err)
	}
}
