package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lexashvetsoff/FlowerShop/internal/catalog"
	"github.com/lexashvetsoff/FlowerShop/internal/order"
)

// StaffHandler serves the three florist views: the availability matrix, the
// active-order queue and the status-advance action.
type StaffHandler struct {
	catalogSvc catalog.Service
	orderSvc   order.Service
}

func NewStaffHandler(catalogSvc catalog.Service, orderSvc order.Service) *StaffHandler {
	return &StaffHandler{
		catalogSvc: catalogSvc,
		orderSvc:   orderSvc,
	}
}

// Availability renders the shop×bouquet stock matrix.
func (h *StaffHandler) Availability(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.catalogSvc.AvailabilityMatrix(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to build availability matrix")
		respondError(w, http.StatusInternalServerError, "failed to build availability matrix")
		return
	}

	respondJSON(w, http.StatusOK, matrix)
}

// Orders renders the active-order queue.
func (h *StaffHandler) Orders(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.orderSvc.ListActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list active orders")
		respondError(w, http.StatusInternalServerError, "failed to list active orders")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": summaries})
}

// Advance moves one order a step forward and re-renders the queue.
func (h *StaffHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	summaries, err := h.orderSvc.Advance(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}

		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to advance order")
		respondError(w, http.StatusInternalServerError, "failed to advance order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": summaries})
}
