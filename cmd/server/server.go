// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pitchside/fieldbook/internal/api"
	"github.com/pitchside/fieldbook/internal/api/clubs"
	"github.com/pitchside/fieldbook/internal/api/fields"
	"github.com/pitchside/fieldbook/internal/api/reports"
	"github.com/pitchside/fieldbook/internal/api/reservations"
	"github.com/pitchside/fieldbook/internal/booking"
	"github.com/pitchside/fieldbook/internal/config"
	appdb "github.com/pitchside/fieldbook/internal/db"
)

func newServer(
	cfg *config.Config,
	database *appdb.DB,
	service *booking.Service,
	redisClient *redis.Client,
	forecast booking.WeatherLookup,
) *http.Server {
	reservations.InitHandlers(database, service)
	fields.InitHandlers(database, redisClient, forecast)
	clubs.InitHandlers(database)
	reports.InitHandlers(database)

	router := http.NewServeMux()
	registerRoutes(router)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth(cfg.App.SecretKey),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Everything under /api/v1/admin/ goes through the admin gate.
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return api.WithAdminAuth(h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Reservation routes
	mux.HandleFunc("POST /api/v1/reservations", reservations.HandleReservationCreate)
	mux.HandleFunc("GET /api/v1/reservations/{id}", reservations.HandleReservationGet)
	mux.HandleFunc("PUT /api/v1/reservations/{id}", reservations.HandleReservationReschedule)
	mux.HandleFunc("DELETE /api/v1/reservations/{id}", reservations.HandleReservationCancel)
	mux.HandleFunc("POST /api/v1/reservations/{id}/waitlist", reservations.HandleWaitlistJoin)
	mux.HandleFunc("GET /api/v1/reservations/{id}/waitlist", reservations.HandleWaitlistList)

	// Current-user reservation views
	mux.HandleFunc("GET /api/v1/me/reservations", reservations.HandleMyReservations)
	mux.HandleFunc("GET /api/v1/me/reservations/upcoming", reservations.HandleMyUpcomingReservations)
	mux.HandleFunc("GET /api/v1/me/reservations/history", reservations.HandleMyReservationHistory)
	mux.HandleFunc("GET /api/v1/me/reservations/cancelled", reservations.HandleMyCancelledReservations)

	// Field routes
	mux.HandleFunc("GET /api/v1/fields", fields.HandleFieldList)
	mux.HandleFunc("GET /api/v1/fields/nearby", fields.HandleFieldsNearby)
	mux.HandleFunc("GET /api/v1/fields/{id}", fields.HandleFieldGet)
	mux.Handle("POST /api/v1/admin/fields", adminOnly(fields.HandleFieldCreate))
	mux.Handle("PUT /api/v1/admin/fields/{id}", adminOnly(fields.HandleFieldUpdate))
	mux.Handle("DELETE /api/v1/admin/fields/{id}", adminOnly(fields.HandleFieldDelete))

	// Club routes
	mux.HandleFunc("GET /api/v1/clubs", clubs.HandleClubList)
	mux.HandleFunc("GET /api/v1/clubs/{id}", clubs.HandleClubGet)
	mux.Handle("POST /api/v1/admin/clubs", adminOnly(clubs.HandleClubCreate))
	mux.Handle("PUT /api/v1/admin/clubs/{id}", adminOnly(clubs.HandleClubUpdate))
	mux.Handle("DELETE /api/v1/admin/clubs/{id}", adminOnly(clubs.HandleClubDelete))

	// Admin reports
	mux.Handle("GET /api/v1/admin/reports/occupancy", adminOnly(reports.HandleOccupancyReport))
	mux.Handle("GET /api/v1/admin/reports/reservations", adminOnly(reports.HandleReservationReport))
}
