package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
	"github.com/pitchside/fieldbook/internal/testutil"
)

type fixture struct {
	service *Service
	field   dbgen.Field
	owner   dbgen.User
	other   dbgen.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	club := testutil.SeedClub(t, database)
	field := testutil.SeedField(t, database, club.ID)
	owner := testutil.SeedUser(t, database, "owner@example.com", "user")
	other := testutil.SeedUser(t, database, "other@example.com", "user")

	return fixture{
		service: NewService(database, nil, nil, nil),
		field:   field,
		owner:   owner,
		other:   other,
	}
}

func (f fixture) create(t *testing.T, userID int64, start, end time.Time) dbgen.Reservation {
	t.Helper()

	created, err := f.service.Create(context.Background(), CreateParams{
		FieldID:    f.field.ID,
		UserID:     userID,
		StartTime:  start,
		EndTime:    end,
		PriceCents: 4500,
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return created
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)

	created := f.create(t, f.owner.ID, start, end)

	if created.Status != StatusConfirmed {
		t.Errorf("status = %q, want %q", created.Status, StatusConfirmed)
	}
	if created.FieldID != f.field.ID || created.UserID != f.owner.ID {
		t.Errorf("unexpected ownership: field=%d user=%d", created.FieldID, created.UserID)
	}
	if !created.StartTime.Equal(start) || !created.EndTime.Equal(end) {
		t.Errorf("range = [%v, %v), want [%v, %v)", created.StartTime, created.EndTime, start, end)
	}
	if created.RescheduledFromID.Valid {
		t.Error("fresh reservation must not carry a reschedule lineage")
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(2, 2) // [10:00, 12:00)
	f.create(t, f.owner.ID, start, end)

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"identical range", start, end},
		{"contained within", start.Add(30 * time.Minute), end.Add(-30 * time.Minute)},
		{"overlaps start", start.Add(-time.Hour), start.Add(time.Hour)},
		{"overlaps end", end.Add(-time.Hour), end.Add(time.Hour)},
		{"covers entirely", start.Add(-time.Hour), end.Add(time.Hour)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), CreateParams{
				FieldID:   f.field.ID,
				UserID:    f.other.ID,
				StartTime: tc.start,
				EndTime:   tc.end,
			})
			var conflict SlotConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("Create() error = %v, want SlotConflictError", err)
			}
			if conflict.FieldID != f.field.ID {
				t.Errorf("conflict field = %d, want %d", conflict.FieldID, f.field.ID)
			}
		})
	}
}

// A reservation ending exactly when another starts does not conflict.
func TestCreateAllowsTouchingRanges(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(2, 1) // [10:00, 11:00)
	f.create(t, f.owner.ID, start, end)

	if _, err := f.service.Create(context.Background(), CreateParams{
		FieldID:   f.field.ID,
		UserID:    f.other.ID,
		StartTime: end, // starts at 11:00
		EndTime:   end.Add(time.Hour),
	}); err != nil {
		t.Fatalf("back-to-back reservation rejected: %v", err)
	}

	if _, err := f.service.Create(context.Background(), CreateParams{
		FieldID:   f.field.ID,
		UserID:    f.other.ID,
		StartTime: start.Add(-time.Hour),
		EndTime:   start, // ends at 10:00
	}); err != nil {
		t.Fatalf("preceding back-to-back reservation rejected: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 1)

	_, err := f.service.Create(context.Background(), CreateParams{
		FieldID: f.field.ID, UserID: f.owner.ID, StartTime: end, EndTime: start,
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidRange", err)
	}

	_, err = f.service.Create(context.Background(), CreateParams{
		FieldID: f.field.ID, UserID: f.owner.ID, StartTime: start, EndTime: start,
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("empty range error = %v, want ErrInvalidRange", err)
	}

	_, err = f.service.Create(context.Background(), CreateParams{
		FieldID: f.field.ID, UserID: f.owner.ID, StartTime: start, EndTime: end, PriceCents: -1,
	})
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative price error = %v, want ErrInvalidPrice", err)
	}

	_, err = f.service.Create(context.Background(), CreateParams{
		FieldID: 9999, UserID: f.owner.ID, StartTime: start, EndTime: end,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing field error = %v, want ErrNotFound", err)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	created := f.create(t, f.owner.ID, start, end)

	if _, err := f.service.Cancel(context.Background(), created.ID, f.other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner cancel error = %v, want ErrForbidden", err)
	}

	cancelled, err := f.service.Cancel(context.Background(), created.ID, f.owner.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("status = %q, want %q", cancelled.Status, StatusCancelled)
	}

	// Cancelling again is a no-op success.
	again, err := f.service.Cancel(context.Background(), created.ID, f.owner.ID)
	if err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if again.Status != StatusCancelled {
		t.Fatalf("repeat cancel status = %q, want %q", again.Status, StatusCancelled)
	}

	if _, err := f.service.Cancel(context.Background(), 9999, f.owner.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing reservation cancel error = %v, want ErrNotFound", err)
	}
}

// Cancelling releases the slot for other users.
func TestCancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	created := f.create(t, f.owner.ID, start, end)

	if _, err := f.service.Cancel(context.Background(), created.ID, f.owner.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	rebooked := f.create(t, f.other.ID, start, end)
	if rebooked.UserID != f.other.ID {
		t.Fatalf("rebooked user = %d, want %d", rebooked.UserID, f.other.ID)
	}
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	original := f.create(t, f.owner.ID, start, end)

	newStart, newEnd := testutil.Slot(4, 2)
	replacement, err := f.service.Reschedule(context.Background(), RescheduleParams{
		ReservationID: original.ID,
		UserID:        f.owner.ID,
		StartTime:     newStart,
		EndTime:       newEnd,
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	if replacement.ID == original.ID {
		t.Fatal("reschedule must create a new reservation row")
	}
	if !replacement.RescheduledFromID.Valid || replacement.RescheduledFromID.Int64 != original.ID {
		t.Errorf("lineage = %+v, want link to %d", replacement.RescheduledFromID, original.ID)
	}
	if replacement.Status != StatusConfirmed {
		t.Errorf("replacement status = %q, want %q", replacement.Status, StatusConfirmed)
	}
	if replacement.PriceCents != original.PriceCents {
		t.Errorf("replacement price = %d, want %d", replacement.PriceCents, original.PriceCents)
	}

	reloaded, err := f.service.getReservation(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("reload original: %v", err)
	}
	if reloaded.Status != StatusCancelled {
		t.Errorf("original status = %q, want %q", reloaded.Status, StatusCancelled)
	}
}

// Moving a reservation within its own current range is allowed: the conflict
// check excludes the reservation being moved.
func TestRescheduleOverlappingSelf(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	original := f.create(t, f.owner.ID, start, end)

	replacement, err := f.service.Reschedule(context.Background(), RescheduleParams{
		ReservationID: original.ID,
		UserID:        f.owner.ID,
		StartTime:     start.Add(30 * time.Minute),
		EndTime:       end.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("self-overlapping reschedule rejected: %v", err)
	}
	if replacement.RescheduledFromID.Int64 != original.ID {
		t.Fatalf("lineage = %+v, want %d", replacement.RescheduledFromID, original.ID)
	}
}

// A failed reschedule leaves the original untouched and creates nothing.
func TestRescheduleConflictKeepsOriginal(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	original := f.create(t, f.owner.ID, start, end)

	blockStart, blockEnd := testutil.Slot(4, 2)
	f.create(t, f.other.ID, blockStart, blockEnd)

	_, err := f.service.Reschedule(context.Background(), RescheduleParams{
		ReservationID: original.ID,
		UserID:        f.owner.ID,
		StartTime:     blockStart,
		EndTime:       blockEnd,
	})
	var conflict SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Reschedule() error = %v, want SlotConflictError", err)
	}

	reloaded, err := f.service.getReservation(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("reload original: %v", err)
	}
	if reloaded.Status != StatusConfirmed {
		t.Fatalf("original status after failed reschedule = %q, want %q", reloaded.Status, StatusConfirmed)
	}

	// The original range must still be protected, so a third party cannot
	// book it.
	if _, err := f.service.Create(context.Background(), CreateParams{
		FieldID: f.field.ID, UserID: f.other.ID, StartTime: start, EndTime: end,
	}); !errors.As(err, &conflict) {
		t.Fatalf("original slot no longer protected: %v", err)
	}
}

func TestRescheduleGuards(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	original := f.create(t, f.owner.ID, start, end)
	newStart, newEnd := testutil.Slot(4, 2)

	_, err := f.service.Reschedule(context.Background(), RescheduleParams{
		ReservationID: original.ID, UserID: f.other.ID, StartTime: newStart, EndTime: newEnd,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner reschedule error = %v, want ErrForbidden", err)
	}

	_, err = f.service.Reschedule(context.Background(), RescheduleParams{
		ReservationID: 9999, UserID: f.owner.ID, StartTime: newStart, EndTime: newEnd,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing reservation reschedule error = %v, want ErrNotFound", err)
	}

	if _, err := f.service.Cancel(context.Background(), original.ID, f.owner.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = f.service.Reschedule(context.Background(), RescheduleParams{
		ReservationID: original.ID, UserID: f.owner.ID, StartTime: newStart, EndTime: newEnd,
	})
	if !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("cancelled reschedule error = %v, want ErrNotConfirmed", err)
	}
}

func TestJoinWaitlistOrdering(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	reservation := f.create(t, f.owner.ID, start, end)

	first, err := f.service.JoinWaitlist(context.Background(), reservation.ID, f.other.ID)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if first.Position != 1 {
		t.Errorf("first position = %d, want 1", first.Position)
	}

	second, err := f.service.JoinWaitlist(context.Background(), reservation.ID, f.owner.ID)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if second.Position != 2 {
		t.Errorf("second position = %d, want 2", second.Position)
	}

	if _, err := f.service.JoinWaitlist(context.Background(), 9999, f.other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing reservation join error = %v, want ErrNotFound", err)
	}
}

func TestJoinWaitlistConcurrent(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	reservation := f.create(t, f.owner.ID, start, end)

	const joiners = 8
	var wg sync.WaitGroup
	positions := make([]int64, joiners)
	errs := make([]error, joiners)

	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := f.service.JoinWaitlist(context.Background(), reservation.ID, f.other.ID)
			if err != nil {
				errs[i] = err
				return
			}
			positions[i] = entry.Position
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, joiners)
	for i := 0; i < joiners; i++ {
		if errs[i] != nil {
			t.Fatalf("join %d: %v", i, errs[i])
		}
		if seen[positions[i]] {
			t.Fatalf("duplicate waitlist position %d", positions[i])
		}
		seen[positions[i]] = true
	}
	for p := int64(1); p <= joiners; p++ {
		if !seen[p] {
			t.Fatalf("waitlist positions have a gap at %d", p)
		}
	}
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Create(context.Background(), CreateParams{
				FieldID:   f.field.ID,
				UserID:    f.owner.ID,
				StartTime: start,
				EndTime:   end,
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		default:
			var conflict SlotConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("attempt %d failed with unexpected error: %v", i, err)
			}
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

// Concurrent reschedules of one reservation to disjoint ranges must elect a
// single winner: one confirmed -> cancelled transition spawns exactly one
// replacement row.
func TestConcurrentRescheduleSingleWinner(t *testing.T) {
	f := newFixture(t)
	start, end := testutil.Slot(0, 2)
	original := f.create(t, f.owner.ID, start, end)

	const attempts = 6
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			newStart, newEnd := testutil.Slot(4+4*i, 2)
			_, errs[i] = f.service.Reschedule(context.Background(), RescheduleParams{
				ReservationID: original.ID,
				UserID:        f.owner.ID,
				StartTime:     newStart,
				EndTime:       newEnd,
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrNotConfirmed):
		default:
			t.Fatalf("attempt %d failed with unexpected error: %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	reloaded, err := f.service.getReservation(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("reload original: %v", err)
	}
	if reloaded.Status != StatusCancelled {
		t.Fatalf("original status = %q, want %q", reloaded.Status, StatusCancelled)
	}

	rows, err := f.service.store.Queries.ListReservationsByUser(context.Background(), f.owner.ID)
	if err != nil {
		t.Fatalf("list reservations: %v", err)
	}
	replacements := 0
	for _, row := range rows {
		if row.RescheduledFromID.Valid && row.RescheduledFromID.Int64 == original.ID {
			replacements++
		}
	}
	if replacements != 1 {
		t.Fatalf("replacement rows linked to %d = %d, want exactly 1", original.ID, replacements)
	}
}

// Full lifecycle: book, rival is pushed to the waitlist, the booking moves,
// the vacated slot is taken by someone else, and the moved booking is
// finally cancelled.
func TestReservationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day1Start, day1End := testutil.Slot(0, 2)
	booking := f.create(t, f.owner.ID, day1Start, day1End)

	// A rival wants the same slot, gets a conflict, and queues up.
	_, err := f.service.Create(ctx, CreateParams{
		FieldID: f.field.ID, UserID: f.other.ID, StartTime: day1Start, EndTime: day1End,
	})
	var conflict SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("rival create error = %v, want SlotConflictError", err)
	}
	entry, err := f.service.JoinWaitlist(ctx, booking.ID, f.other.ID)
	if err != nil {
		t.Fatalf("rival join waitlist: %v", err)
	}
	if entry.Position != 1 {
		t.Fatalf("rival position = %d, want 1", entry.Position)
	}

	// The owner moves the booking to the next day.
	day2Start, day2End := testutil.Slot(24, 2)
	moved, err := f.service.Reschedule(ctx, RescheduleParams{
		ReservationID: booking.ID, UserID: f.owner.ID, StartTime: day2Start, EndTime: day2End,
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	// The vacated day-1 slot is free again.
	if _, err := f.service.Create(ctx, CreateParams{
		FieldID: f.field.ID, UserID: f.other.ID, StartTime: day1Start, EndTime: day1End,
	}); err != nil {
		t.Fatalf("vacated slot still blocked: %v", err)
	}

	// And the moved booking can be cancelled by its owner.
	cancelled, err := f.service.Cancel(ctx, moved.ID, f.owner.ID)
	if err != nil {
		t.Fatalf("cancel moved booking: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("moved booking status = %q, want %q", cancelled.Status, StatusCancelled)
	}
}
