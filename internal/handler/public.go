package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lexashvetsoff/FlowerShop/internal/catalog"
	"github.com/lexashvetsoff/FlowerShop/internal/consultation"
	"github.com/lexashvetsoff/FlowerShop/internal/order"
)

// PublicHandler serves the client-facing intake surface: the bouquet
// catalog, order placement and consultation requests.
type PublicHandler struct {
	catalogSvc      catalog.Service
	orderSvc        order.Service
	consultationSvc consultation.Service
}

func NewPublicHandler(catalogSvc catalog.Service, orderSvc order.Service, consultationSvc consultation.Service) *PublicHandler {
	return &PublicHandler{
		catalogSvc:      catalogSvc,
		orderSvc:        orderSvc,
		consultationSvc: consultationSvc,
	}
}

// Catalog lists all bouquets, recommended ones first.
func (h *PublicHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	bouquets, err := h.catalogSvc.ListBouquets(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list bouquets")
		respondError(w, http.StatusInternalServerError, "failed to list bouquets")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"bouquets": bouquets})
}

// DeliveryWindows lists the delivery window choices for the order form.
// An order placed without one is delivered as soon as possible.
func (h *PublicHandler) DeliveryWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := h.orderSvc.DeliveryWindows(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list delivery windows")
		respondError(w, http.StatusInternalServerError, "failed to list delivery windows")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"delivery_windows": windows})
}

// CreateOrder records a client order for a bouquet.
func (h *PublicHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in order.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orderSvc.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, order.ErrInvalidInput) {
			respondInvalidInput(w, err)
			return
		}
		if errors.Is(err, catalog.ErrBouquetNotFound) {
			respondError(w, http.StatusNotFound, "bouquet not found")
			return
		}

		log.Error().Err(err).Msg("handler: failed to create order")
		respondError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

// CreateConsultation records a consultation request.
func (h *PublicHandler) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	var in consultation.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.consultationSvc.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, consultation.ErrInvalidInput) {
			respondInvalidInput(w, err)
			return
		}

		log.Error().Err(err).Msg("handler: failed to create consultation")
		respondError(w, http.StatusInternalServerError, "failed to create consultation")
		return
	}

	respondJSON(w, http.StatusCreated, c)
}
