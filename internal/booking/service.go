// internal/booking/service.go

// Package booking owns the reservation lifecycle for a (field, time-range)
// pair: creation with overlap rejection, cancellation, reschedule with
// lineage, and waitlist admission. Every check-then-write runs inside a
// single immediate transaction so concurrent requests for the same slot
// cannot both succeed.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	appdb "github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
	"github.com/pitchside/fieldbook/internal/events"
	"github.com/pitchside/fieldbook/internal/notify"
	"github.com/pitchside/fieldbook/internal/weather"
)

// Reservation status values. Reservations enter at confirmed; cancelled is
// terminal. Pending exists for rows owned by other subsystems (e.g. manual
// payment flows) and never counts toward slot conflicts.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reminders go out one hour before the reservation starts.
const reminderLead = time.Hour

// WeatherLookup returns current conditions for a coordinate pair.
type WeatherLookup interface {
	Current(ctx context.Context, lat, lng float64) (weather.Conditions, error)
}

// Service coordinates reservation state transitions against shared storage.
// Dispatcher, weather and publisher are optional collaborators; a nil value
// disables the corresponding side effect.
type Service struct {
	store      *appdb.DB
	dispatcher notify.Dispatcher
	weather    WeatherLookup
	publisher  events.Publisher
}

func NewService(store *appdb.DB, dispatcher notify.Dispatcher, lookup WeatherLookup, publisher events.Publisher) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		weather:    lookup,
		publisher:  publisher,
	}
}

type CreateParams struct {
	FieldID        int64
	UserID         int64
	StartTime      time.Time
	EndTime        time.Time
	PriceCents     int64
	RecurrenceRule string
}

// Create books a field for [StartTime, EndTime). It fails with
// SlotConflictError when any confirmed reservation on the field overlaps the
// requested half-open range; the conflict check and the insert share one
// write transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (dbgen.Reservation, error) {
	if !params.EndTime.After(params.StartTime) {
		return dbgen.Reservation{}, ErrInvalidRange
	}
	if params.PriceCents < 0 {
		return dbgen.Reservation{}, ErrInvalidPrice
	}

	exists, err := s.store.Queries.FieldExists(ctx, params.FieldID)
	if err != nil {
		return dbgen.Reservation{}, fmt.Errorf("check field: %w", err)
	}
	if exists == 0 {
		return dbgen.Reservation{}, fmt.Errorf("field %d: %w", params.FieldID, ErrNotFound)
	}

	var created dbgen.Reservation
	err = s.store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		conflicts, err := qtx.CountConflictingReservations(ctx, dbgen.CountConflictingReservationsParams{
			FieldID:   params.FieldID,
			ExcludeID: 0,
			StartTime: params.StartTime,
			EndTime:   params.EndTime,
		})
		if err != nil {
			return fmt.Errorf("check conflicts: %w", err)
		}
		if conflicts > 0 {
			return SlotConflictError{
				FieldID:   params.FieldID,
				StartTime: params.StartTime,
				EndTime:   params.EndTime,
			}
		}

		created, err = qtx.CreateReservation(ctx, dbgen.CreateReservationParams{
			FieldID:        params.FieldID,
			UserID:         params.UserID,
			StartTime:      params.StartTime,
			EndTime:        params.EndTime,
			Status:         StatusConfirmed,
			PriceCents:     params.PriceCents,
			RecurrenceRule: toNullString(params.RecurrenceRule),
		})
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbgen.Reservation{}, err
	}

	s.afterConfirm(ctx, created)
	s.publish(ctx, events.RouteReservationConfirmed, created)
	return created, nil
}

// Cancel sets the reservation to cancelled. Only the owning user may cancel;
// cancelling an already-cancelled reservation is a no-op success.
func (s *Service) Cancel(ctx context.Context, reservationID, requesterID int64) (dbgen.Reservation, error) {
	reservation, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return dbgen.Reservation{}, err
	}
	if reservation.UserID != requesterID {
		return dbgen.Reservation{}, ErrForbidden
	}
	if reservation.Status == StatusCancelled {
		return reservation, nil
	}

	cancelled, err := s.store.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
		ID:     reservation.ID,
		Status: StatusCancelled,
	})
	if err != nil {
		return dbgen.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
	}

	s.publish(ctx, events.RouteReservationCancelled, cancelled)
	return cancelled, nil
}

type RescheduleParams struct {
	ReservationID  int64
	UserID         int64
	StartTime      time.Time
	EndTime        time.Time
	RecurrenceRule string
}

// Reschedule moves a reservation to a new range by spawning a replacement row
// linked back to the original and cancelling the original, both inside one
// transaction. The ownership and status checks run inside that same
// transaction, so a concurrent reschedule or cancel of the original cannot
// slip between the read and the write. The conflict check excludes the
// reservation being moved, so a range that only overlaps itself is allowed.
// On conflict the original is left untouched.
func (s *Service) Reschedule(ctx context.Context, params RescheduleParams) (dbgen.Reservation, error) {
	if !params.EndTime.After(params.StartTime) {
		return dbgen.Reservation{}, ErrInvalidRange
	}

	var replacement dbgen.Reservation
	err := s.store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		original, err := qtx.GetReservationByID(ctx, params.ReservationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("reservation %d: %w", params.ReservationID, ErrNotFound)
			}
			return fmt.Errorf("load reservation: %w", err)
		}
		if original.UserID != params.UserID {
			return ErrForbidden
		}
		if original.Status != StatusConfirmed {
			return fmt.Errorf("reservation %d: %w", original.ID, ErrNotConfirmed)
		}

		recurrence := original.RecurrenceRule
		if params.RecurrenceRule != "" {
			recurrence = toNullString(params.RecurrenceRule)
		}

		conflicts, err := qtx.CountConflictingReservations(ctx, dbgen.CountConflictingReservationsParams{
			FieldID:   original.FieldID,
			ExcludeID: original.ID,
			StartTime: params.StartTime,
			EndTime:   params.EndTime,
		})
		if err != nil {
			return fmt.Errorf("check conflicts: %w", err)
		}
		if conflicts > 0 {
			return SlotConflictError{
				FieldID:   original.FieldID,
				StartTime: params.StartTime,
				EndTime:   params.EndTime,
			}
		}

		replacement, err = qtx.CreateReservation(ctx, dbgen.CreateReservationParams{
			FieldID:           original.FieldID,
			UserID:            original.UserID,
			StartTime:         params.StartTime,
			EndTime:           params.EndTime,
			Status:            StatusConfirmed,
			PriceCents:        original.PriceCents,
			RecurrenceRule:    recurrence,
			RescheduledFromID: sql.NullInt64{Int64: original.ID, Valid: true},
		})
		if err != nil {
			return fmt.Errorf("insert replacement reservation: %w", err)
		}

		if _, err := qtx.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
			ID:     original.ID,
			Status: StatusCancelled,
		}); err != nil {
			return fmt.Errorf("cancel original reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbgen.Reservation{}, err
	}

	s.afterConfirm(ctx, replacement)
	s.publish(ctx, events.RouteReservationRescheduled, replacement)
	return replacement, nil
}

// JoinWaitlist appends the user to the queue for an occupied slot. The
// max-position read and the insert share a write transaction, and the unique
// (reservation_id, position) index backstops the gap-free sequence.
func (s *Service) JoinWaitlist(ctx context.Context, reservationID, userID int64) (dbgen.WaitlistEntry, error) {
	if _, err := s.getReservation(ctx, reservationID); err != nil {
		return dbgen.WaitlistEntry{}, err
	}

	var entry dbgen.WaitlistEntry
	err := s.store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		position, err := qtx.MaxWaitlistPosition(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("read waitlist position: %w", err)
		}

		entry, err = qtx.CreateWaitlistEntry(ctx, dbgen.CreateWaitlistEntryParams{
			ReservationID: reservationID,
			UserID:        userID,
			Position:      position + 1,
		})
		if err != nil {
			return fmt.Errorf("insert waitlist entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbgen.WaitlistEntry{}, err
	}

	return entry, nil
}

func (s *Service) getReservation(ctx context.Context, id int64) (dbgen.Reservation, error) {
	reservation, err := s.store.Queries.GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Reservation{}, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
		}
		return dbgen.Reservation{}, fmt.Errorf("load reservation: %w", err)
	}
	return reservation, nil
}

// afterConfirm schedules the reminder and, when club coordinates and a
// weather client are available, the weather advisory. All of it is
// best-effort: a confirmed reservation is never rolled back because a
// side effect failed.
func (s *Service) afterConfirm(ctx context.Context, reservation dbgen.Reservation) {
	if s.dispatcher == nil {
		return
	}
	logger := log.Ctx(ctx)

	location, err := s.store.Queries.GetFieldLocation(ctx, reservation.FieldID)
	if err != nil {
		logger.Error().Err(err).
			Int64("reservation_id", reservation.ID).
			Int64("field_id", reservation.FieldID).
			Msg("Failed to load field location for notifications")
		return
	}
	field, err := s.store.Queries.GetFieldByID(ctx, reservation.FieldID)
	if err != nil {
		logger.Error().Err(err).Int64("field_id", reservation.FieldID).Msg("Failed to load field for notifications")
		return
	}

	deliverAt := reservation.StartTime.Add(-reminderLead)

	subject, body := notify.BuildReminder(field.Name, location.ClubName, reservation.StartTime, reservation.EndTime)
	if err := s.dispatcher.Schedule(ctx, notify.Message{
		UserID:        reservation.UserID,
		ReservationID: reservation.ID,
		Kind:          notify.KindReminder,
		Subject:       subject,
		Body:          body,
		DeliverAt:     deliverAt,
	}); err != nil {
		logger.Error().Err(err).Int64("reservation_id", reservation.ID).Msg("Failed to schedule reservation reminder")
	}

	if s.weather == nil || !location.Lat.Valid || !location.Lng.Valid {
		return
	}

	// Conditions are captured now, not re-fetched at send time.
	cond, err := s.weather.Current(ctx, location.Lat.Float64, location.Lng.Float64)
	if err != nil {
		logger.Warn().Err(err).Int64("reservation_id", reservation.ID).Msg("Weather lookup failed, skipping advisory")
		return
	}

	subject, body = notify.BuildWeatherAdvisory(field.Name, reservation.StartTime, cond)
	if err := s.dispatcher.Schedule(ctx, notify.Message{
		UserID:        reservation.UserID,
		ReservationID: reservation.ID,
		Kind:          notify.KindWeatherAdvisory,
		Subject:       subject,
		Body:          body,
		DeliverAt:     deliverAt,
	}); err != nil {
		logger.Error().Err(err).Int64("reservation_id", reservation.ID).Msg("Failed to schedule weather advisory")
	}
}

func (s *Service) publish(ctx context.Context, routingKey string, reservation dbgen.Reservation) {
	if s.publisher == nil {
		return
	}

	event := events.ReservationEvent{
		ReservationID: reservation.ID,
		FieldID:       reservation.FieldID,
		UserID:        reservation.UserID,
		StartTime:     reservation.StartTime.UTC().Format(time.RFC3339),
		EndTime:       reservation.EndTime.UTC().Format(time.RFC3339),
		Status:        reservation.Status,
		PriceCents:    reservation.PriceCents,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if reservation.RescheduledFromID.Valid {
		event.RescheduledFromID = reservation.RescheduledFromID.Int64
	}

	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("routing_key", routingKey).
			Int64("reservation_id", reservation.ID).
			Msg("Failed to publish reservation event")
	}
}

func toNullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
