package http

import (
	"net/http"

	"jrcts-claim-tracker/internal/delivery/http/handler"
	"jrcts-claim-tracker/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	registrationHandler *handler.RegistrationHandler
	trackingHandler     *handler.TrackingHandler
	adminHandler        *handler.AdminHandler
	dashboardHandler    *handler.DashboardHandler
	healthHandler       *handler.HealthHandler
	loggingMiddleware   *middleware.LoggingMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	registrationHandler *handler.RegistrationHandler,
	trackingHandler *handler.TrackingHandler,
	adminHandler *handler.AdminHandler,
	dashboardHandler *handler.DashboardHandler,
	healthHandler *handler.HealthHandler,
	loggingMiddleware *middleware.LoggingMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		registrationHandler: registrationHandler,
		trackingHandler:     trackingHandler,
		adminHandler:        adminHandler,
		dashboardHandler:    dashboardHandler,
		healthHandler:       healthHandler,
		loggingMiddleware:   loggingMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check
	r.router.HandleFunc("/health", r.healthHandler.Check).Methods(http.MethodGet)

	// Public registration and tracking
	r.router.HandleFunc("/registrasi", r.registrationHandler.Form).Methods(http.MethodGet)
	r.router.HandleFunc("/registrasi", r.registrationHandler.Register).Methods(http.MethodPost)
	r.router.HandleFunc("/", r.trackingHandler.Track).Methods(http.MethodGet)
	r.router.HandleFunc("/tracking", r.trackingHandler.Track).Methods(http.MethodGet)

	// Admin console. /admin/delete must be registered before the
	// /admin/{nomor_resi} routes.
	r.router.HandleFunc("/admin", r.adminHandler.ListClaims).Methods(http.MethodGet)
	admin := r.router.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/delete", r.adminHandler.DeleteClaim).Methods(http.MethodPost)
	admin.HandleFunc("/{nomor_resi}", r.adminHandler.GetClaim).Methods(http.MethodGet)
	admin.HandleFunc("/{nomor_resi}", r.adminHandler.AdvanceStep).Methods(http.MethodPost)
	admin.HandleFunc("/{nomor_resi}/reset", r.adminHandler.ResetClaim).Methods(http.MethodPost)

	// Dashboard
	r.router.HandleFunc("/dashboard", r.dashboardHandler.GetDashboard).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}
