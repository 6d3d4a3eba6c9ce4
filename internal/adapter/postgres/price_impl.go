package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/popguide/ingest-service/internal/entity"
)

// PriceRepoImpl implements repository.PriceRepository on the marketplace_prices table.
type PriceRepoImpl struct {
	db *pgxpool.Pool
}

func NewPriceRepo(db *pgxpool.Pool) *PriceRepoImpl {
	return &PriceRepoImpl{db: db}
}

// Insert appends one observation. Price history is never updated in place.
func (r *PriceRepoImpl) Insert(ctx context.Context, obs *entity.PriceObservation) error {
	sellerJSON, err := json.Marshal(obs.Seller)
	if err != nil {
		return err
	}

	// stickers stays NULL when no variant keyword matched.
	var stickersJSON []byte
	if obs.Variants != nil {
		if stickersJSON, err = json.Marshal(obs.Variants); err != nil {
			return err
		}
	}

	images := obs.Images
	if images == nil {
		images = []string{}
	}

	query := `
		INSERT INTO marketplace_prices (funko_pop_id, marketplace_source_id, title, price, condition, listing_url, images,
			location, seller_info, is_auction, is_buy_now, shipping_cost, last_updated, stickers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;
	`
	return r.db.QueryRow(ctx, query,
		obs.CatalogEntryID,
		obs.SourceID,
		obs.Title,
		obs.Price,
		obs.Condition,
		obs.ListingURL,
		images,
		obs.Location,
		sellerJSON,
		obs.IsAuction,
		obs.IsBuyNow,
		obs.ShippingCost,
		obs.LastUpdated,
		stickersJSON,
	).Scan(&obs.ID)
}
