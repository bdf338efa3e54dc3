package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBouquetNotFound = errors.New("bouquet not found")

type Repository interface {
	ListShopsByAddress(ctx context.Context) ([]FlowerShop, error)
	ListBouquetsByName(ctx context.Context) ([]Bouquet, error)
	ListCatalogItems(ctx context.Context) ([]CatalogItem, error)
	GetBouquetByID(ctx context.Context, id int64) (*Bouquet, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListShopsByAddress(ctx context.Context) ([]FlowerShop, error) {
	query := `
		SELECT id, address, phone
		FROM flower_shops
		ORDER BY address ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query flower shops: %w", err)
	}
	defer rows.Close()

	shops := make([]FlowerShop, 0)
	for rows.Next() {
		var shop FlowerShop
		if err := rows.Scan(&shop.ID, &shop.Address, &shop.Phone); err != nil {
			return nil, fmt.Errorf("repository: failed to scan flower shop: %w", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating flower shops: %w", err)
	}

	return shops, nil
}

func (r *postgresRepository) ListBouquetsByName(ctx context.Context) ([]Bouquet, error) {
	query := `
		SELECT id, name, description, photo, price, height_cm, width_cm, is_recommended
		FROM bouquets
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query bouquets: %w", err)
	}
	defer rows.Close()

	bouquets := make([]Bouquet, 0)
	for rows.Next() {
		var b Bouquet
		err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.Description,
			&b.Photo,
			&b.Price,
			&b.HeightCm,
			&b.WidthCm,
			&b.IsRecommended,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan bouquet: %w", err)
		}
		bouquets = append(bouquets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating bouquets: %w", err)
	}

	return bouquets, nil
}

func (r *postgresRepository) ListCatalogItems(ctx context.Context) ([]CatalogItem, error) {
	query := `
		SELECT id, flower_shop_id, bouquet_id, availability
		FROM flower_shop_catalog_items
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]CatalogItem, 0)
	for rows.Next() {
		var item CatalogItem
		if err := rows.Scan(&item.ID, &item.FlowerShopID, &item.BouquetID, &item.Availability); err != nil {
			return nil, fmt.Errorf("repository: failed to scan catalog item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating catalog items: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) GetBouquetByID(ctx context.Context, id int64) (*Bouquet, error) {
	query := `
		SELECT id, name, description, photo, price, height_cm, width_cm, is_recommended
		FROM bouquets
		WHERE id = $1
	`

	var b Bouquet
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.Photo,
		&b.Price,
		&b.HeightCm,
		&b.WidthCm,
		&b.IsRecommended,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBouquetNotFound
		}

		return nil, fmt.Errorf("repository: failed to select bouquet by id %d: %w", id, err)
	}

	return &b, nil
}
