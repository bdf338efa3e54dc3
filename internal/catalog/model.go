package catalog

import "github.com/shopspring/decimal"

// Event is an occasion a bouquet can be tagged with (birthday, wedding...).
type Event struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Bouquet struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	Photo         string          `json:"photo" db:"photo"`
	Price         decimal.Decimal `json:"price" db:"price"`
	HeightCm      int             `json:"height_cm" db:"height_cm"`
	WidthCm       int             `json:"width_cm" db:"width_cm"`
	IsRecommended bool            `json:"is_recommended" db:"is_recommended"`
}

// BouquetItem is a component (flower, ribbon, wrap) usable in bouquets.
type BouquetItem struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// BouquetItemInBouquet links an item into a bouquet with a quantity.
// The (bouquet, item) pair is unique.
type BouquetItemInBouquet struct {
	ID        int64 `json:"id" db:"id"`
	BouquetID int64 `json:"bouquet_id" db:"bouquet_id"`
	ItemID    int64 `json:"item_id" db:"item_id"`
	Count     int   `json:"count" db:"count"`
}

type FlowerShop struct {
	ID      int64  `json:"id" db:"id"`
	Address string `json:"address" db:"address"`
	Phone   string `json:"phone,omitempty" db:"phone"`
}

// CatalogItem is the per-shop stock flag for a bouquet, unique per
// (shop, bouquet) pair. The availability view reads these rows only.
type CatalogItem struct {
	ID           int64 `json:"id" db:"id"`
	FlowerShopID int64 `json:"flower_shop_id" db:"flower_shop_id"`
	BouquetID    int64 `json:"bouquet_id" db:"bouquet_id"`
	Availability bool  `json:"availability" db:"availability"`
}
