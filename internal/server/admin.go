package server

import (
	"errors"
	"net/http"

	"github.com/autocentru/dealer/internal/store"
	"github.com/autocentru/dealer/pkg/constants"
	"go.uber.org/zap"
)

func (h *handler) handleStockCreate(w http.ResponseWriter, r *http.Request) {
	var vehicle store.StockVehicle
	if err := h.decodeJSON(w, r, &vehicle); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if vehicle.Marca == "" || vehicle.Model == "" {
		h.respondError(w, http.StatusBadRequest, "marca and model are required")
		return
	}
	if vehicle.Pret <= 0 {
		h.respondError(w, http.StatusBadRequest, "pret must be positive")
		return
	}

	if err := h.store.CreateVehicle(r.Context(), &vehicle); err != nil {
		h.logger.Error("failed to create vehicle",
			zap.String("op", "server.handleStockCreate"),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to create vehicle")
		return
	}
	h.respondJSON(w, http.StatusCreated, vehicle)
}

func (h *handler) handleStockUpdate(w http.ResponseWriter, r *http.Request) {
	var vehicle store.StockVehicle
	if err := h.decodeJSON(w, r, &vehicle); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vehicle.ID = r.PathValue("id")

	err := h.store.UpdateVehicle(r.Context(), &vehicle)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update vehicle",
			zap.String("op", "server.handleStockUpdate"),
			zap.String("id", vehicle.ID),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to update vehicle")
		return
	}
	h.respondJSON(w, http.StatusOK, vehicle)
}

func (h *handler) handleStockDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.store.DeleteVehicle(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to delete vehicle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleLeadList(w http.ResponseWriter, r *http.Request) {
	kind := store.LeadKind(r.PathValue("kind"))
	if !store.ValidLeadKind(kind) {
		h.respondError(w, http.StatusNotFound, "unknown lead kind")
		return
	}
	status := r.URL.Query().Get("status")
	if !validLeadStatus(status, true) {
		h.respondError(w, http.StatusBadRequest, "unsupported status filter")
		return
	}

	leads, err := h.store.ListLeads(r.Context(), kind, status)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if leads == nil {
		leads = []store.Lead{}
	}
	h.respondJSON(w, http.StatusOK, leads)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *handler) handleLeadStatus(w http.ResponseWriter, r *http.Request) {
	kind := store.LeadKind(r.PathValue("kind"))
	if !store.ValidLeadKind(kind) {
		h.respondError(w, http.StatusNotFound, "unknown lead kind")
		return
	}

	var req statusRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validLeadStatus(req.Status, false) {
		h.respondError(w, http.StatusBadRequest, "unsupported status")
		return
	}

	id := r.PathValue("id")
	err := h.store.UpdateLeadStatus(r.Context(), kind, id, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to update lead")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func (h *handler) handleMessageList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if !validLeadStatus(status, true) {
		h.respondError(w, http.StatusBadRequest, "unsupported status filter")
		return
	}

	msgs, err := h.store.ListContactMessages(r.Context(), status)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []store.ContactMessage{}
	}
	h.respondJSON(w, http.StatusOK, msgs)
}

func (h *handler) handleMessageStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validLeadStatus(req.Status, false) {
		h.respondError(w, http.StatusBadRequest, "unsupported status")
		return
	}

	id := r.PathValue("id")
	err := h.store.UpdateContactStatus(r.Context(), id, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "message not found")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to update message")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

type optionsRequest struct {
	Values []string `json:"values"`
}

func (h *handler) handleOptionsPut(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Values) == 0 {
		h.respondError(w, http.StatusBadRequest, "values must not be empty")
		return
	}

	key := r.PathValue("key")
	if err := h.store.PutFormOptions(r.Context(), key, req.Values); err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to save options")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"key": key, "values": req.Values})
}

// validLeadStatus accepts the writable statuses plus, for filters only, the
// informal "archived" value the admin UI references.
func validLeadStatus(status string, filter bool) bool {
	switch status {
	case constants.StatusNew, constants.StatusProcessed:
		return true
	case "":
		return filter
	case constants.StatusArchived:
		return filter
	}
	return false
}
