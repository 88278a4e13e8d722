package handler

import (
	"encoding/json"
	"net/http"

	"evreg/internal/app/service"
	"evreg/internal/common"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	eventService *service.EventService
	auditService *service.AuditService
}

func NewEventHandler(eventService *service.EventService, auditService *service.AuditService) *EventHandler {
	return &EventHandler{eventService: eventService, auditService: auditService}
}

// RegisterRoutes mounts event CRUD plus the audits nested under an event.
// The whole surface is admin-scoped; the caller wraps it in the auth
// middleware chain.
func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listEvents)
	r.Post("/", h.createEvent)
	r.Get("/{eventID}", h.showEvent)
	r.Put("/{eventID}", h.updateEvent)
	r.Delete("/{eventID}", h.deleteEvent)

	r.Post("/{eventID}/audits", h.createAudit)
	r.Put("/{eventID}/audits/{auditID}", h.updateAudit)
	r.Delete("/{eventID}/audits/{auditID}", h.deleteAudit)
}

func (h *EventHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.eventService.Dashboard(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, dashboard)
}

func (h *EventHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req service.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	event, err := h.eventService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) showEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	detail, err := h.eventService.Get(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *EventHandler) updateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	var req service.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	event, err := h.eventService.Update(r.Context(), eventID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *EventHandler) createAudit(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	var req service.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	audit, err := h.auditService.Create(r.Context(), eventID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, audit)
}

func (h *EventHandler) updateAudit(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	auditID, err := urlID(r, "auditID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid audit id")
		return
	}
	var req service.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	audit, err := h.auditService.Update(r.Context(), eventID, auditID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, audit)
}

func (h *EventHandler) deleteAudit(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	auditID, err := urlID(r, "auditID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid audit id")
		return
	}
	if err := h.auditService.Delete(r.Context(), eventID, auditID); err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
