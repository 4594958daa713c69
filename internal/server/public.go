package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/autocentru/dealer/internal/store"
	"github.com/autocentru/dealer/pkg/finance"
	"github.com/autocentru/dealer/pkg/format"
	"go.uber.org/zap"
)

func (h *handler) handleStockList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseStockFilter(r.URL.Query())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := "stock:list:" + r.URL.Query().Encode()
	if cached, ok := h.cache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(cached)); err != nil {
			h.logger.Error("failed to write cached listing",
				zap.String("op", "server.handleStockList"),
				zap.Error(err),
			)
		}
		return
	}

	vehicles, err := h.store.ListStock(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list stock",
			zap.String("op", "server.handleStockList"),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to list stock")
		return
	}
	if vehicles == nil {
		vehicles = []store.StockVehicle{}
	}

	body, err := encodeForCache(vehicles)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to encode stock")
		return
	}
	if err := h.cache.Set(r.Context(), cacheKey, body, h.cacheTTL); err != nil {
		h.logger.Warn("failed to cache stock listing",
			zap.String("op", "server.handleStockList"),
			zap.Error(err),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("failed to write listing",
			zap.String("op", "server.handleStockList"),
			zap.Error(err),
		)
	}
}

func encodeForCache(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func parseStockFilter(query url.Values) (store.StockFilter, error) {
	filter := store.StockFilter{
		Brand:  query.Get("marca"),
		Fuel:   query.Get("combustibil"),
		Body:   query.Get("caroserie"),
		Status: query.Get("status"),
		Sort:   query.Get("sort"),
	}
	if !store.ValidSort(filter.Sort) {
		return store.StockFilter{}, fmt.Errorf("unsupported sort: %s", filter.Sort)
	}
	if raw := query.Get("maxPret"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			return store.StockFilter{}, fmt.Errorf("invalid maxPret: %s", raw)
		}
		filter.MaxPrice = maxPrice
	}
	return filter, nil
}

func (h *handler) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	vehicle, err := h.store.GetVehicle(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load vehicle",
			zap.String("op", "server.handleStockDetail"),
			zap.String("id", id),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to load vehicle")
		return
	}
	h.respondJSON(w, http.StatusOK, vehicle)
}

type quoteResponse struct {
	finance.Quote
	MonthlyPaymentDisplay string `json:"monthlyPaymentDisplay"`
	TotalAmountDisplay    string `json:"totalAmountDisplay"`
}

func (h *handler) handleFinanceQuote(w http.ResponseWriter, r *http.Request) {
	var req finance.QuoteRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := finance.Calculate(req, h.zeroRate)
	if errors.Is(err, finance.ErrInvalidArgument) {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to compute quote")
		return
	}
	if !quote.Finite() {
		// Only reachable under the divide zero-rate policy.
		h.respondError(w, http.StatusUnprocessableEntity, "quote is not representable for a zero rate")
		return
	}

	h.respondJSON(w, http.StatusOK, quoteResponse{
		Quote:                 quote,
		MonthlyPaymentDisplay: format.Euro(quote.MonthlyPayment),
		TotalAmountDisplay:    format.Euro(quote.TotalAmount),
	})
}

type leadRequest struct {
	Name    string            `json:"name"`
	Phone   string            `json:"phone"`
	Email   string            `json:"email"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func (h *handler) handleLeadCreate(w http.ResponseWriter, r *http.Request) {
	kind := store.LeadKind(r.PathValue("kind"))
	if !store.ValidLeadKind(kind) {
		h.respondError(w, http.StatusNotFound, "unknown lead kind")
		return
	}

	var req leadRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || (req.Phone == "" && req.Email == "") {
		h.respondError(w, http.StatusBadRequest, "name and a phone or email are required")
		return
	}

	lead := store.Lead{
		Kind:    kind,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Message: req.Message,
		Details: req.Details,
	}
	if err := h.store.CreateLead(r.Context(), &lead); err != nil {
		h.logger.Error("failed to create lead",
			zap.String("op", "server.handleLeadCreate"),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to save lead")
		return
	}
	h.respondJSON(w, http.StatusCreated, lead)
}

func (h *handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Message == "" {
		h.respondError(w, http.StatusBadRequest, "name and message are required")
		return
	}

	msg := store.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := h.store.CreateContactMessage(r.Context(), &msg); err != nil {
		h.logger.Error("failed to create contact message",
			zap.String("op", "server.handleContact"),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to save message")
		return
	}
	h.respondJSON(w, http.StatusCreated, msg)
}

func (h *handler) handleOptionsGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	values, err := h.store.ListFormOptions(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "unknown option key")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load options")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"key": key, "values": values})
}
