package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusConflict means the conditional status update matched no row
	// because another request changed the status first.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

type Repository interface {
	Create(ctx context.Context, o *Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListActiveSummaries(ctx context.Context) ([]Summary, error)
	ListDeliveryWindows(ctx context.Context) ([]DeliveryWindow, error)
	// UpdateStatusFrom persists only the status column, and only if the row
	// still holds the expected current status.
	UpdateStatusFrom(ctx context.Context, id int64, from, to Status) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) (int64, error) {
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO orders (bouquet_id, price, client_name, phone, delivery_address,
			delivery_window_id, email, paid, comment, created_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		o.BouquetID,
		o.Price,
		o.ClientName,
		o.Phone,
		o.DeliveryAddress,
		o.DeliveryWindowID,
		o.Email,
		o.Paid,
		o.Comment,
		createdAt,
		string(o.Status),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	o.ID = id
	o.CreatedAt = createdAt

	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, bouquet_id, price, client_name, phone, delivery_address,
			delivery_window_id, email, paid, comment, created_at, composed_at,
			delivered_at, status, florist_id, courier_id
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.BouquetID,
		&o.Price,
		&o.ClientName,
		&o.Phone,
		&o.DeliveryAddress,
		&o.DeliveryWindowID,
		&o.Email,
		&o.Paid,
		&o.Comment,
		&o.CreatedAt,
		&o.ComposedAt,
		&o.DeliveredAt,
		&o.Status,
		&o.FloristID,
		&o.CourierID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}

	return &o, nil
}

// ListActiveSummaries fetches the florist queue in one query: the bouquet
// name and delivery window label are joined in, never resolved per order.
func (r *postgresRepository) ListActiveSummaries(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT o.id, o.status, b.name, o.client_name, o.phone, o.delivery_address,
			dw.name, o.comment, o.price
		FROM orders o
		JOIN bouquets b ON b.id = o.bouquet_id
		LEFT JOIN delivery_windows dw ON dw.id = o.delivery_window_id
		WHERE o.status = ANY($1)
	`

	active := make([]string, 0, len(activeStatuses))
	for _, s := range activeStatuses {
		active = append(active, string(s))
	}

	rows, err := r.db.Query(ctx, query, active)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query active orders: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		err := rows.Scan(
			&s.ID,
			&s.Status,
			&s.BouquetName,
			&s.ClientName,
			&s.Phone,
			&s.DeliveryAddress,
			&s.DeliveryWindow,
			&s.Comment,
			&s.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating active orders: %w", err)
	}

	return summaries, nil
}

func (r *postgresRepository) ListDeliveryWindows(ctx context.Context) ([]DeliveryWindow, error) {
	query := `
		SELECT id, name, from_hour, to_hour
		FROM delivery_windows
		ORDER BY from_hour NULLS FIRST, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query delivery windows: %w", err)
	}
	defer rows.Close()

	windows := make([]DeliveryWindow, 0)
	for rows.Next() {
		var w DeliveryWindow
		if err := rows.Scan(&w.ID, &w.Name, &w.FromHour, &w.ToHour); err != nil {
			return nil, fmt.Errorf("repository: failed to scan delivery window: %w", err)
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating delivery windows: %w", err)
	}

	return windows, nil
}

func (r *postgresRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to Status) error {
	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, string(to), id, string(from))
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Str("new_status", string(to)).Msg("repository: failed to update order status")
		return fmt.Errorf("repository: failed to update order status for id %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrStatusConflict
	}

	return nil
}
