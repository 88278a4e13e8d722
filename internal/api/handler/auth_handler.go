package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"evreg/internal/app/service"
	"evreg/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService         *service.AuthService
	registrationService *service.RegistrationService
}

func NewAuthHandler(authService *service.AuthService, registrationService *service.RegistrationService) *AuthHandler {
	return &AuthHandler{authService: authService, registrationService: registrationService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Get("/activate/{key}", h.activate)
	r.Post("/login", h.login)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		req.IPAddress = host
	} else {
		req.IPAddress = r.RemoteAddr
	}

	profile, err := h.registrationService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "registered",
		"message": "Registration completed. We've sent you an E-Mail with your activation key.",
		"profile": profile,
	})
}

func (h *AuthHandler) activate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	user, err := h.registrationService.Activate(r.Context(), key)
	if err != nil {
		// Already-activated and expired are terminal lifecycle states, not
		// faults; give them distinct payloads.
		switch {
		case errors.Is(err, common.ErrAlreadyActivated):
			common.RespondWithJSON(w, http.StatusConflict, map[string]string{
				"status":  "already_activated",
				"message": "This profile has already been activated.",
			})
		case errors.Is(err, common.ErrActivationExpired):
			common.RespondWithJSON(w, http.StatusGone, map[string]string{
				"status":  "expired",
				"message": "This activation key has expired.",
			})
		case errors.Is(err, common.ErrNotFound):
			common.RespondWithError(w, http.StatusNotFound, "Activation failed.")
		default:
			respondServiceError(w, err)
		}
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "activated",
		"message": "Your account has been activated. You may login now.",
		"user":    user,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// One message for unknown user and wrong password alike.
			common.RespondWithError(w, http.StatusUnauthorized, "Could not log in.")
			return
		}
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
