// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pitchside/fieldbook/internal/api/apiutil"
	"github.com/pitchside/fieldbook/internal/booking"
	appdb "github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
)

var (
	queries     *dbgen.Queries
	service     *booking.Service
	queriesOnce sync.Once
)

const reservationQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, svc *booking.Service) {
	if database == nil || svc == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		service = svc
	})
}

type reservationRequest struct {
	FieldID        int64  `json:"field_id"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	PriceCents     int64  `json:"price_cents"`
	RecurrenceRule string `json:"recurrence_rule,omitempty"`
}

type rescheduleRequest struct {
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	RecurrenceRule string `json:"recurrence_rule,omitempty"`
}

type reservationView struct {
	ID                int64  `json:"id"`
	FieldID           int64  `json:"field_id"`
	UserID            int64  `json:"user_id"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	Status            string `json:"status"`
	PriceCents        int64  `json:"price_cents"`
	Price             string `json:"price"`
	RecurrenceRule    string `json:"recurrence_rule,omitempty"`
	RescheduledFromID int64  `json:"rescheduled_from_id,omitempty"`
}

func newReservationView(r dbgen.Reservation) reservationView {
	view := reservationView{
		ID:         r.ID,
		FieldID:    r.FieldID,
		UserID:     r.UserID,
		StartTime:  r.StartTime.UTC().Format(time.RFC3339),
		EndTime:    r.EndTime.UTC().Format(time.RFC3339),
		Status:     r.Status,
		PriceCents: r.PriceCents,
		Price:      apiutil.FormatPriceCents(r.PriceCents),
	}
	if r.RecurrenceRule.Valid {
		view.RecurrenceRule = r.RecurrenceRule.String
	}
	if r.RescheduledFromID.Valid {
		view.RescheduledFromID = r.RescheduledFromID.Int64
	}
	return view
}

func newReservationViews(rows []dbgen.Reservation) []reservationView {
	views := make([]reservationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, newReservationView(row))
	}
	return views
}

// POST /api/v1/reservations
func HandleReservationCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Reservation service not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	var req reservationRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.FieldID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "field_id must be greater than 0")
		return
	}
	startTime, endTime, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	created, err := svc.Create(ctx, booking.CreateParams{
		FieldID:        req.FieldID,
		UserID:         user.ID,
		StartTime:      startTime,
		EndTime:        endTime,
		PriceCents:     req.PriceCents,
		RecurrenceRule: strings.TrimSpace(req.RecurrenceRule),
	})
	if err != nil {
		writeBookingError(w, r, err, "Failed to create reservation")
		return
	}

	logger.Info().
		Int64("reservation_id", created.ID).
		Int64("field_id", created.FieldID).
		Int64("user_id", user.ID).
		Msg("Reservation created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, newReservationView(created))
}

// GET /api/v1/reservations/{id}
func HandleReservationGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservation, err := q.GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Reservation not found")
			return
		}
		logger.Error().Err(err).Int64("reservation_id", id).Msg("Failed to load reservation")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load reservation")
		return
	}

	if reservation.UserID != user.ID {
		apiutil.WriteError(w, http.StatusForbidden, "Forbidden")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, newReservationView(reservation))
}

// PUT /api/v1/reservations/{id}
func HandleReservationReschedule(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Reservation service not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req rescheduleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	startTime, endTime, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	replacement, err := svc.Reschedule(ctx, booking.RescheduleParams{
		ReservationID:  id,
		UserID:         user.ID,
		StartTime:      startTime,
		EndTime:        endTime,
		RecurrenceRule: strings.TrimSpace(req.RecurrenceRule),
	})
	if err != nil {
		writeBookingError(w, r, err, "Failed to reschedule reservation")
		return
	}

	logger.Info().
		Int64("reservation_id", id).
		Int64("replacement_id", replacement.ID).
		Int64("user_id", user.ID).
		Msg("Reservation rescheduled")
	_ = apiutil.WriteJSON(w, http.StatusOK, newReservationView(replacement))
}

// DELETE /api/v1/reservations/{id}
func HandleReservationCancel(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Reservation service not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	cancelled, err := svc.Cancel(ctx, id, user.ID)
	if err != nil {
		writeBookingError(w, r, err, "Failed to cancel reservation")
		return
	}

	logger.Info().
		Int64("reservation_id", cancelled.ID).
		Int64("user_id", user.ID).
		Msg("Reservation cancelled")
	_ = apiutil.WriteJSON(w, http.StatusOK, newReservationView(cancelled))
}

type waitlistJoinView struct {
	ID            int64 `json:"id"`
	ReservationID int64 `json:"reservation_id"`
	UserID        int64 `json:"user_id"`
	Position      int64 `json:"position"`
}

// POST /api/v1/reservations/{id}/waitlist
func HandleWaitlistJoin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Reservation service not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	entry, err := svc.JoinWaitlist(ctx, id, user.ID)
	if err != nil {
		writeBookingError(w, r, err, "Failed to join waitlist")
		return
	}

	logger.Info().
		Int64("reservation_id", id).
		Int64("user_id", user.ID).
		Int64("position", entry.Position).
		Msg("Joined reservation waitlist")
	_ = apiutil.WriteJSON(w, http.StatusCreated, waitlistJoinView{
		ID:            entry.ID,
		ReservationID: entry.ReservationID,
		UserID:        entry.UserID,
		Position:      entry.Position,
	})
}

// GET /api/v1/reservations/{id}/waitlist
func HandleWaitlistList(w http.ResponseWriter, r *http.Request) {
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

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	entries, err := q.ListWaitlistEntries(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("reservation_id", id).Msg("Failed to list waitlist entries")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list waitlist entries")
		return
	}

	views := make([]waitlistJoinView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, waitlistJoinView{
			ID:            entry.ID,
			ReservationID: entry.ReservationID,
			UserID:        entry.UserID,
			Position:      entry.Position,
		})
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/v1/me/reservations
func HandleMyReservations(w http.ResponseWriter, r *http.Request) {
	listForUser(w, r, func(ctx context.Context, q *dbgen.Queries, userID int64) ([]dbgen.Reservation, error) {
		return q.ListReservationsByUser(ctx, userID)
	})
}

// GET /api/v1/me/reservations/upcoming
func HandleMyUpcomingReservations(w http.ResponseWriter, r *http.Request) {
	listForUser(w, r, func(ctx context.Context, q *dbgen.Queries, userID int64) ([]dbgen.Reservation, error) {
		return q.ListUpcomingReservationsByUser(ctx, dbgen.ListUpcomingReservationsByUserParams{
			UserID: userID,
			After:  time.Now().UTC(),
		})
	})
}

// GET /api/v1/me/reservations/history
func HandleMyReservationHistory(w http.ResponseWriter, r *http.Request) {
	listForUser(w, r, func(ctx context.Context, q *dbgen.Queries, userID int64) ([]dbgen.Reservation, error) {
		return q.ListReservationHistoryByUser(ctx, dbgen.ListReservationHistoryByUserParams{
			UserID: userID,
			Before: time.Now().UTC(),
		})
	})
}

// GET /api/v1/me/reservations/cancelled
func HandleMyCancelledReservations(w http.ResponseWriter, r *http.Request) {
	listForUser(w, r, func(ctx context.Context, q *dbgen.Queries, userID int64) ([]dbgen.Reservation, error) {
		return q.ListCancelledReservationsByUser(ctx, userID)
	})
}

func listForUser(
	w http.ResponseWriter,
	r *http.Request,
	list func(context.Context, *dbgen.Queries, int64) ([]dbgen.Reservation, error),
) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	rows, err := list(ctx, q, user.ID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to list reservations")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, newReservationViews(rows))
}

func parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	startTime, err := apiutil.ParseTimeField(rawStart, "start_time")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endTime, err := apiutil.ParseTimeField(rawEnd, "end_time")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startTime, endTime, nil
}

func writeBookingError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	logger := log.Ctx(r.Context())

	var conflict booking.SlotConflictError
	switch {
	case errors.Is(err, booking.ErrInvalidRange), errors.Is(err, booking.ErrInvalidPrice):
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrForbidden):
		apiutil.WriteError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, booking.ErrNotFound):
		apiutil.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, booking.ErrNotConfirmed):
		apiutil.WriteError(w, http.StatusConflict, err.Error())
	case errors.As(err, &conflict):
		apiutil.WriteError(w, http.StatusConflict, conflict.Error())
	default:
		logger.Error().Err(err).Msg(fallback)
		apiutil.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

func loadQueries() *dbgen.Queries {
	return queries
}

func loadService() *booking.Service {
	return service
}
