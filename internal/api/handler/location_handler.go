package handler

import (
	"encoding/json"
	"net/http"

	"evreg/internal/app/service"
	"evreg/internal/common"

	"github.com/go-chi/chi/v5"
)

type LocationHandler struct {
	locationService *service.LocationService
}

func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listLocations)
	r.Post("/", h.createLocation)
	r.Get("/{locationID}", h.showLocation)
	r.Put("/{locationID}", h.updateLocation)
}

// Countries serves the static country reference data used by the address
// forms. Mounted publicly since the registration form needs it too.
func (h *LocationHandler) Countries(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, h.locationService.Countries())
}

func (h *LocationHandler) listLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, locations)
}

func (h *LocationHandler) createLocation(w http.ResponseWriter, r *http.Request) {
	var req service.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	location, err := h.locationService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, location)
}

func (h *LocationHandler) showLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := urlID(r, "locationID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid location id")
		return
	}
	location, err := h.locationService.Get(r.Context(), locationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, location)
}

func (h *LocationHandler) updateLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := urlID(r, "locationID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid location id")
		return
	}
	var req service.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	location, err := h.locationService.Update(r.Context(), locationID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, location)
}
