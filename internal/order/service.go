package order

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/lexashvetsoff/FlowerShop/internal/catalog"
)

// advanceAttempts bounds the read/compare-and-swap loop in Advance. Losing
// the race twice means someone else already advanced the order.
const advanceAttempts = 2

// BouquetSource resolves the bouquet an intake order references.
// catalog.Repository satisfies it.
type BouquetSource interface {
	GetBouquetByID(ctx context.Context, id int64) (*catalog.Bouquet, error)
}

// CreateInput is the public order-intake form.
type CreateInput struct {
	BouquetID        int64  `json:"bouquet_id" validate:"required"`
	ClientName       string `json:"client_name" validate:"required"`
	Phone            string `json:"phone" validate:"required"`
	DeliveryAddress  string `json:"delivery_address" validate:"required"`
	DeliveryWindowID *int64 `json:"delivery_window_id"`
	Email            string `json:"email" validate:"omitempty,email"`
	Paid             bool   `json:"paid"`
	Comment          string `json:"comment"`
}

// validate reports field names by their json tag so intake responses match
// the form the client submitted.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var ErrInvalidInput = errors.New("invalid order input")

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Order, error)
	ListActive(ctx context.Context) ([]Summary, error)
	Advance(ctx context.Context, id int64) ([]Summary, error)
	DeliveryWindows(ctx context.Context) ([]DeliveryWindow, error)
}

type service struct {
	orderRepo Repository
	bouquets  BouquetSource
}

func NewService(orderRepo Repository, bouquets BouquetSource) Service {
	return &service{
		orderRepo: orderRepo,
		bouquets:  bouquets,
	}
}

// Create records a public intake order. The bouquet's current price is
// copied onto the order, so later price changes leave it untouched.
func (s *service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	bouquet, err := s.bouquets.GetBouquetByID(ctx, in.BouquetID)
	if err != nil {
		if errors.Is(err, catalog.ErrBouquetNotFound) {
			log.Warn().Int64("bouquet_id", in.BouquetID).Msg("service: intake references unknown bouquet")
			return nil, catalog.ErrBouquetNotFound
		}

		log.Error().Err(err).Int64("bouquet_id", in.BouquetID).Msg("service: failed to resolve bouquet for intake")
		return nil, fmt.Errorf("service: failed to resolve bouquet: %w", err)
	}

	o := &Order{
		BouquetID:        bouquet.ID,
		Price:            bouquet.Price,
		ClientName:       in.ClientName,
		Phone:            in.Phone,
		DeliveryAddress:  in.DeliveryAddress,
		DeliveryWindowID: in.DeliveryWindowID,
		Email:            in.Email,
		Paid:             in.Paid,
		Comment:          in.Comment,
		Status:           StatusCreated,
	}

	if _, err := s.orderRepo.Create(ctx, o); err != nil {
		log.Error().Err(err).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Int64("order_id", o.ID).Int64("bouquet_id", o.BouquetID).Msg("service: order created")

	return o, nil
}

// ListActive returns the florist queue: orders still in the created,
// composing or composed stage, earliest workflow stage first, id ascending
// within a stage.
func (s *service) ListActive(ctx context.Context) ([]Summary, error) {
	summaries, err := s.orderRepo.ListActiveSummaries(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch active orders")
		return nil, fmt.Errorf("service: failed to fetch active orders: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		si, sj := stageIndex(summaries[i].Status), stageIndex(summaries[j].Status)
		if si != sj {
			return si < sj
		}
		return summaries[i].ID < summaries[j].ID
	})

	return summaries, nil
}

// DeliveryWindows lists the window choices shown on the public order form.
func (s *service) DeliveryWindows(ctx context.Context) ([]DeliveryWindow, error) {
	windows, err := s.orderRepo.ListDeliveryWindows(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch delivery windows")
		return nil, fmt.Errorf("service: failed to fetch delivery windows: %w", err)
	}

	return windows, nil
}

// Advance applies the advance event to one order and returns the refreshed
// queue. Only the status column is written, and only through a conditional
// update keyed on the status the decision was made against.
func (s *service) Advance(ctx context.Context, id int64) ([]Summary, error) {
	for attempt := 0; attempt < advanceAttempts; attempt++ {
		o, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				log.Warn().Int64("order_id", id).Msg("service: order not found, cannot advance")
				return nil, ErrOrderNotFound
			}

			log.Error().Err(err).Int64("order_id", id).Msg("service: failed to get order for advance")
			return nil, fmt.Errorf("service: failed to get order for advance: %w", err)
		}

		next := o.Status.Next(EventAdvance)
		if next == o.Status {
			// Deliberate no-op: composed and every later state stay put.
			log.Info().Int64("order_id", id).Stringer("status", o.Status).Msg("service: order status unchanged by advance")
			break
		}

		err = s.orderRepo.UpdateStatusFrom(ctx, id, o.Status, next)
		if err == nil {
			log.Info().Int64("order_id", id).Stringer("old_status", o.Status).Stringer("new_status", next).Msg("service: order advanced")
			break
		}
		if errors.Is(err, ErrStatusConflict) {
			// Lost the race to a concurrent advance; re-read and re-decide.
			log.Warn().Int64("order_id", id).Stringer("expected_status", o.Status).Msg("service: concurrent status change, retrying advance")
			continue
		}

		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to advance order")
		return nil, fmt.Errorf("service: failed to advance order: %w", err)
	}

	return s.ListActive(ctx)
}
