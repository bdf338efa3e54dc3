package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// ShopLabel is a shop column header on the availability view.
type ShopLabel struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// BouquetAvailability is one matrix row: the bouquet plus one stock flag per
// shop, positionally aligned with the shop sequence.
type BouquetAvailability struct {
	Bouquet   Bouquet `json:"bouquet"`
	Available []bool  `json:"available"`
}

type AvailabilityMatrix struct {
	Shops []ShopLabel           `json:"shops"`
	Rows  []BouquetAvailability `json:"rows"`
}

type Service interface {
	AvailabilityMatrix(ctx context.Context) (*AvailabilityMatrix, error)
	ListBouquets(ctx context.Context) ([]Bouquet, error)
	GetBouquetByID(ctx context.Context, id int64) (*Bouquet, error)
}

type service struct {
	repo       Repository
	cityPrefix string
}

func NewService(repo Repository, cityPrefix string) Service {
	return &service{repo: repo, cityPrefix: cityPrefix}
}

// shopLabel strips the configured city prefix from an address. The match is
// exact and case-sensitive; anything else passes through verbatim.
func shopLabel(address, prefix string) string {
	if prefix != "" && strings.HasPrefix(address, prefix) {
		return strings.TrimSpace(address[len(prefix):])
	}
	return address
}

func (s *service) AvailabilityMatrix(ctx context.Context) (*AvailabilityMatrix, error) {
	shops, err := s.repo.ListShopsByAddress(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch flower shops")
		return nil, fmt.Errorf("service: failed to fetch flower shops: %w", err)
	}

	bouquets, err := s.repo.ListBouquetsByName(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch bouquets")
		return nil, fmt.Errorf("service: failed to fetch bouquets: %w", err)
	}

	items, err := s.repo.ListCatalogItems(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch catalog items")
		return nil, fmt.Errorf("service: failed to fetch catalog items: %w", err)
	}

	// Group catalog rows by bouquet, keyed by shop id, so each matrix cell
	// is a map lookup instead of a scan over all rows.
	byBouquet := make(map[int64]map[int64]bool, len(bouquets))
	for _, item := range items {
		shopFlags, ok := byBouquet[item.BouquetID]
		if !ok {
			shopFlags = make(map[int64]bool)
			byBouquet[item.BouquetID] = shopFlags
		}
		shopFlags[item.FlowerShopID] = item.Availability
	}

	labels := make([]ShopLabel, 0, len(shops))
	for _, shop := range shops {
		labels = append(labels, ShopLabel{ID: shop.ID, Label: shopLabel(shop.Address, s.cityPrefix)})
	}

	rows := make([]BouquetAvailability, 0, len(bouquets))
	for _, b := range bouquets {
		available := make([]bool, 0, len(shops))
		for _, shop := range shops {
			// Missing (shop, bouquet) row means not stocked.
			available = append(available, byBouquet[b.ID][shop.ID])
		}
		rows = append(rows, BouquetAvailability{Bouquet: b, Available: available})
	}

	return &AvailabilityMatrix{Shops: labels, Rows: rows}, nil
}

func (s *service) ListBouquets(ctx context.Context) ([]Bouquet, error) {
	bouquets, err := s.repo.ListBouquetsByName(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch bouquets")
		return nil, fmt.Errorf("service: failed to fetch bouquets: %w", err)
	}

	// Recommended bouquets surface first; name order holds within each group.
	sort.SliceStable(bouquets, func(i, j int) bool {
		return bouquets[i].IsRecommended && !bouquets[j].IsRecommended
	})

	return bouquets, nil
}

func (s *service) GetBouquetByID(ctx context.Context, id int64) (*Bouquet, error) {
	b, err := s.repo.GetBouquetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBouquetNotFound) {
			log.Warn().Err(err).Int64("bouquet_id", id).Msg("service: bouquet not found by id")
			return nil, ErrBouquetNotFound
		}

		log.Error().Err(err).Int64("bouquet_id", id).Msg("service: failed to fetch bouquet by id")
		return nil, fmt.Errorf("service: failed to fetch bouquet by id: %w", err)
	}

	return b, nil
}
