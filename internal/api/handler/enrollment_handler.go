package handler

import (
	"encoding/json"
	"net/http"

	"evreg/internal/api/middleware"
	"evreg/internal/app/service"
	"evreg/internal/common"

	"github.com/go-chi/chi/v5"
)

type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// RegisterEventRoutes mounts the enrollment endpoints scoped to an event.
func (h *EnrollmentHandler) RegisterEventRoutes(r chi.Router) {
	r.Get("/{eventID}/enrollment-options", h.enrollmentOptions)
	r.Post("/{eventID}/enrollments", h.enroll)
}

// RegisterRoutes mounts the endpoints addressing an enrollment directly.
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router) {
	r.Delete("/{enrollmentID}", h.cancel)
}

func (h *EnrollmentHandler) enrollmentOptions(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	options, err := h.enrollmentService.EnrollmentOptions(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, options)
}

func (h *EnrollmentHandler) enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	eventID, err := urlID(r, "eventID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	var req service.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), userID, eventID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(r.Context())
	enrollmentID, err := urlID(r, "enrollmentID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid enrollment id")
		return
	}

	principal := service.Principal{UserID: userID, Role: role}
	if err := h.enrollmentService.Cancel(r.Context(), principal, enrollmentID); err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
