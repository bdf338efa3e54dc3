package order_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexashvetsoff/FlowerShop/internal/order"
)

// Repository tests run against a real database, pointed at by
// TEST_DATABASE_DSN. Without it they are skipped.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn != "" {
		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			os.Exit(1)
		}
		testPool = pool
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func setup(t *testing.T) order.Repository {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	ctx := context.Background()
	truncate := func() {
		_, err := testPool.Exec(ctx, "TRUNCATE TABLE orders, delivery_windows, bouquets RESTART IDENTITY CASCADE")
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(truncate)

	return order.NewRepository(testPool)
}

func seedBouquet(t *testing.T, name, price string) int64 {
	t.Helper()

	var id int64
	err := testPool.QueryRow(context.Background(), `
		INSERT INTO bouquets (name, description, photo, price, height_cm, width_cm)
		VALUES ($1, '', '', $2, 40, 30)
		RETURNING id
	`, name, price).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedOrder(t *testing.T, repo order.Repository, bouquetID int64, status order.Status) int64 {
	t.Helper()

	id, err := repo.Create(context.Background(), &order.Order{
		BouquetID:       bouquetID,
		Price:           decimal.RequireFromString("1500.00"),
		ClientName:      "Анна",
		Phone:           "+79990001122",
		DeliveryAddress: "Ленина 1",
		Status:          status,
	})
	require.NoError(t, err)

	return id
}

func TestPostgresRepository_CreateAndGetByID(t *testing.T) {
	repo := setup(t)
	bouquetID := seedBouquet(t, "Классика", "1500.00")

	id := seedOrder(t, repo, bouquetID, order.StatusCreated)

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, order.StatusCreated, got.Status)
	assert.Equal(t, bouquetID, got.BouquetID)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1500.00")))
	assert.Nil(t, got.ComposedAt)
	assert.Nil(t, got.DeliveredAt)
	assert.Nil(t, got.DeliveryWindowID)
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	repo := setup(t)

	_, err := repo.GetByID(context.Background(), 123456)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestPostgresRepository_UpdateStatusFrom(t *testing.T) {
	repo := setup(t)
	bouquetID := seedBouquet(t, "Классика", "1500.00")
	id := seedOrder(t, repo, bouquetID, order.StatusCreated)

	ctx := context.Background()

	err := repo.UpdateStatusFrom(ctx, id, order.StatusCreated, order.StatusComposing)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.StatusComposing, got.Status)

	// The expected-status guard must reject a stale writer.
	err = repo.UpdateStatusFrom(ctx, id, order.StatusCreated, order.StatusComposing)
	assert.ErrorIs(t, err, order.ErrStatusConflict)

	err = repo.UpdateStatusFrom(ctx, 123456, order.StatusCreated, order.StatusComposing)
	assert.ErrorIs(t, err, order.ErrStatusConflict)
}

func TestPostgresRepository_ListActiveSummaries(t *testing.T) {
	repo := setup(t)
	bouquetID := seedBouquet(t, "Классика", "1500.00")

	statuses := []order.Status{
		order.StatusCreated,
		order.StatusComposing,
		order.StatusComposed,
		order.StatusDelivering,
		order.StatusDelivered,
		order.StatusCancelled,
	}
	ids := make(map[order.Status]int64, len(statuses))
	for _, s := range statuses {
		ids[s] = seedOrder(t, repo, bouquetID, s)
	}

	summaries, err := repo.ListActiveSummaries(context.Background())
	require.NoError(t, err)

	require.Len(t, summaries, 3)
	got := make(map[int64]order.Summary, len(summaries))
	for _, s := range summaries {
		got[s.ID] = s
		assert.Equal(t, "Классика", s.BouquetName)
		assert.Nil(t, s.DeliveryWindow)
	}
	assert.Contains(t, got, ids[order.StatusCreated])
	assert.Contains(t, got, ids[order.StatusComposing])
	assert.Contains(t, got, ids[order.StatusComposed])
}
