package http

import (
	"net/http"

	"pulseride/internal/delivery/http/handler"
	"pulseride/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	hospitalHandler  *handler.HospitalHandler
	ambulanceHandler *handler.AmbulanceHandler
	bookingHandler   *handler.BookingHandler
	auditLogHandler  *handler.AuditLogHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	hospitalHandler *handler.HospitalHandler,
	ambulanceHandler *handler.AmbulanceHandler,
	bookingHandler *handler.BookingHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		authHandler:      authHandler,
		userHandler:      userHandler,
		hospitalHandler:  hospitalHandler,
		ambulanceHandler: ambulanceHandler,
		bookingHandler:   bookingHandler,
		auditLogHandler:  auditLogHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
	}
}

// Setup wires the route table. Paths mirror what the web client calls, so
// they stay stable even where a flat layout would be cleaner.
func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// User routes (protected)
	user := api.PathPrefix("/user").Subrouter()
	user.Use(r.authMiddleware.Authenticate)
	user.HandleFunc("/profile", r.userHandler.GetProfile).Methods(http.MethodGet)
	user.HandleFunc("/profile", r.userHandler.UpdateProfile).Methods(http.MethodPut)
	user.HandleFunc("/booking/history", r.bookingHandler.History).Methods(http.MethodGet)

	// Hospital and ambulance discovery (protected)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/hospitals/nearest", r.hospitalHandler.Nearest).Methods(http.MethodGet)
	protected.HandleFunc("/hospitals/all", r.hospitalHandler.GetAll).Methods(http.MethodGet)
	protected.HandleFunc("/ambulances/available", r.ambulanceHandler.Available).Methods(http.MethodGet)
	protected.HandleFunc("/ambulances/available/all", r.ambulanceHandler.AvailableAll).Methods(http.MethodGet)
	protected.HandleFunc("/booking/book", r.bookingHandler.Book).Methods(http.MethodPost)
	protected.HandleFunc("/booking/history", r.bookingHandler.History).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/hospitals/add", r.hospitalHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/hospitals/remove", r.hospitalHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/ambulances/all", r.ambulanceHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/ambulances/add", r.ambulanceHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/ambulances/remove", r.ambulanceHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/ambulance/status", r.ambulanceHandler.ChangeStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/all", r.bookingHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/all/paged", r.bookingHandler.GetAllPaged).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/status", r.bookingHandler.ChangeStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/audit/all", r.auditLogHandler.GetAll).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
