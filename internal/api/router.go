package api

import (
	"net/http"
	"time"

	"evreg/internal/api/handler"
	custommw "evreg/internal/api/middleware"
	"evreg/internal/app/service"
	"evreg/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authService *service.AuthService,
	registrationService *service.RegistrationService,
	profileService *service.ProfileService,
	enrollmentService *service.EnrollmentService,
	eventService *service.EventService,
	auditService *service.AuditService,
	locationService *service.LocationService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// JWT Auth Middleware Setup
	// Verifies a token from "Authorization: Bearer T" and puts the claims in
	// context. Routes that require a login add custommw.Authenticator on top.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	authHandler := handler.NewAuthHandler(authService, registrationService)
	profileHandler := handler.NewProfileHandler(profileService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	eventHandler := handler.NewEventHandler(eventService, auditService)
	locationHandler := handler.NewLocationHandler(locationService)

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public): register, activate, login
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Country reference data (public, the registration form needs it)
		v1.Get("/countries", locationHandler.Countries)

		// Events: enrollment endpoints for any logged-in user, CRUD for admins
		v1.Route("/events", func(events chi.Router) {
			events.Use(custommw.Authenticator)
			enrollmentHandler.RegisterEventRoutes(events)

			events.Group(func(admin chi.Router) {
				admin.Use(custommw.AdminOnly)
				eventHandler.RegisterRoutes(admin)
			})
		})

		// Enrollment routes (authenticated, ownership checked in the service)
		v1.Route("/enrollments", func(enrollments chi.Router) {
			enrollments.Use(custommw.Authenticator)
			enrollmentHandler.RegisterRoutes(enrollments)
		})

		// Profile routes (authenticated)
		v1.Route("/profile", func(profile chi.Router) {
			profile.Use(custommw.Authenticator)
			profileHandler.RegisterRoutes(profile)
		})

		// Admin-only surfaces
		v1.Group(func(admin chi.Router) {
			admin.Use(custommw.Authenticator)
			admin.Use(custommw.AdminOnly)
			admin.Get("/dashboard", eventHandler.Dashboard)
			admin.Route("/locations", locationHandler.RegisterRoutes)
		})
	})

	return r
}
