package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusCreated    Status = "created"
	StatusComposing  Status = "composing"
	StatusComposed   Status = "composed"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// Event is a workflow trigger applied to an order status.
type Event string

const (
	// EventAdvance moves an order one step along the florist workflow.
	EventAdvance Event = "advance"
	// EventCancel aborts an order that has not been delivered yet.
	EventCancel Event = "cancel"
)

// Next is the total transition function of the order workflow. Every
// (status, event) pair maps to a successor; pairs with no forward edge map
// to the current status, so no-ops are explicit rather than fallthrough.
func (s Status) Next(e Event) Status {
	switch e {
	case EventAdvance:
		switch s {
		case StatusCreated:
			return StatusComposing
		case StatusComposing:
			return StatusComposed
		default:
			return s
		}
	case EventCancel:
		switch s {
		case StatusDelivered, StatusCancelled:
			return s
		default:
			return StatusCancelled
		}
	default:
		return s
	}
}

// activeStatuses is the florist queue, in workflow order. Its index is the
// primary sort key of the active listing.
var activeStatuses = []Status{StatusCreated, StatusComposing, StatusComposed}

func stageIndex(s Status) int {
	for i, st := range activeStatuses {
		if st == s {
			return i
		}
	}
	return len(activeStatuses)
}

// DeliveryWindow is a named delivery time range. A nil window on an order
// means "as soon as possible".
type DeliveryWindow struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	FromHour *int   `json:"from_hour,omitempty" db:"from_hour"`
	ToHour   *int   `json:"to_hour,omitempty" db:"to_hour"`
}

type Order struct {
	ID               int64           `json:"id" db:"id"`
	BouquetID        int64           `json:"bouquet_id" db:"bouquet_id"`
	Price            decimal.Decimal `json:"price" db:"price"` // copied from the bouquet at intake
	ClientName       string          `json:"client_name" db:"client_name"`
	Phone            string          `json:"phone" db:"phone"`
	DeliveryAddress  string          `json:"delivery_address" db:"delivery_address"`
	DeliveryWindowID *int64          `json:"delivery_window_id,omitempty" db:"delivery_window_id"`
	Email            string          `json:"email,omitempty" db:"email"`
	Paid             bool            `json:"paid" db:"paid"`
	Comment          string          `json:"comment,omitempty" db:"comment"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	ComposedAt       *time.Time      `json:"composed_at,omitempty" db:"composed_at"`
	DeliveredAt      *time.Time      `json:"delivered_at,omitempty" db:"delivered_at"`
	Status           Status          `json:"status" db:"status"`
	FloristID        *int64          `json:"florist_id,omitempty" db:"florist_id"`
	CourierID        *int64          `json:"courier_id,omitempty" db:"courier_id"`
}

// Summary is the projection of an order shown on the florist queue. Staff
// assignments, timestamps, email and the paid flag stay out of this view.
type Summary struct {
	ID              int64           `json:"id"`
	Status          Status          `json:"status"`
	BouquetName     string          `json:"bouquet_name"`
	ClientName      string          `json:"client_name"`
	Phone           string          `json:"phone"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryWindow  *string         `json:"delivery_window"` // nil means ASAP
	Comment         string          `json:"comment"`
	Price           decimal.Decimal `json:"price"`
}
