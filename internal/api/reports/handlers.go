// internal/api/reports/handlers.go
package reports

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pitchside/fieldbook/internal/api/apiutil"
	appdb "github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
)

const reportQueryTimeout = 10 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
	})
}

type occupancyReport struct {
	AsOf            string  `json:"as_of"`
	TotalFields     int64   `json:"total_fields"`
	OccupiedFields  int64   `json:"occupied_fields"`
	OccupancyRate   float64 `json:"occupancy_rate"`
	OccupancyRatePc string  `json:"occupancy_rate_pct"`
}

// GET /api/v1/admin/reports/occupancy
// Optional as_of query parameter; defaults to now.
func HandleOccupancyReport(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, ok := apiutil.RequireUser(w, r); !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := apiutil.ParseTimeField(raw, "as_of")
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		asOf = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportQueryTimeout)
	defer cancel()

	totalFields, err := q.CountFields(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count fields")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to build occupancy report")
		return
	}
	occupied, err := q.CountReservationsCovering(ctx, asOf)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count active reservations")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to build occupancy report")
		return
	}

	report := occupancyReport{
		AsOf:           asOf.Format(time.RFC3339),
		TotalFields:    totalFields,
		OccupiedFields: occupied,
	}
	if totalFields > 0 {
		report.OccupancyRate = float64(occupied) / float64(totalFields)
	}
	report.OccupancyRatePc = apiutil.FormatPercent(report.OccupancyRate)

	_ = apiutil.WriteJSON(w, http.StatusOK, report)
}

type reservationCounts struct {
	Total     int64 `json:"total"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Pending   int64 `json:"pending"`
}

// GET /api/v1/admin/reports/reservations
func HandleReservationReport(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, ok := apiutil.RequireUser(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportQueryTimeout)
	defer cancel()

	var counts reservationCounts
	var err error
	if counts.Total, err = q.CountReservations(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to count reservations")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to build reservation report")
		return
	}
	for status, dst := range map[string]*int64{
		"confirmed": &counts.Confirmed,
		"cancelled": &counts.Cancelled,
		"pending":   &counts.Pending,
	} {
		if *dst, err = q.CountReservationsByStatus(ctx, status); err != nil {
			logger.Error().Err(err).Str("status", status).Msg("Failed to count reservations by status")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to build reservation report")
			return
		}
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, counts)
}

func loadQueries() *dbgen.Queries {
	return queries
}
