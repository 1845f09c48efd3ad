package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
	"github.com/pitchside/fieldbook/internal/testutil"
	"github.com/pitchside/fieldbook/internal/weather"
)

func TestQueueDispatcherSchedule(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := testutil.SeedUser(t, database, "player@example.com", "user")
	dispatcher := NewQueueDispatcher(database)

	deliverAt := time.Date(2026, time.September, 14, 9, 0, 0, 0, time.UTC)
	if err := dispatcher.Schedule(context.Background(), Message{
		UserID:    user.ID,
		Kind:      KindReminder,
		Subject:   "Reservation Reminder",
		Body:      "See you soon",
		DeliverAt: deliverAt,
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	due, err := database.Queries.ListDueNotifications(context.Background(), dbgen.ListDueNotificationsParams{
		DeliverAt: deliverAt,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("queued %d notifications, want 1", len(due))
	}
	row := due[0]
	if row.UserID != user.ID || row.Kind != KindReminder || row.Status != "pending" {
		t.Fatalf("unexpected notification row: %+v", row)
	}
	if !row.DeliverAt.Equal(deliverAt) {
		t.Fatalf("deliver_at = %v, want %v", row.DeliverAt, deliverAt)
	}
}

func TestQueueDispatcherRejectsInvalidMessages(t *testing.T) {
	database := testutil.NewTestDB(t)
	dispatcher := NewQueueDispatcher(database)

	if err := dispatcher.Schedule(context.Background(), Message{
		Kind: KindReminder, Subject: "s", Body: "b", DeliverAt: time.Now(),
	}); err == nil {
		t.Error("message without recipient accepted")
	}
	if err := dispatcher.Schedule(context.Background(), Message{
		UserID: 1, Kind: KindReminder, DeliverAt: time.Now(),
	}); err == nil {
		t.Error("message without subject/body accepted")
	}
}

func TestBuildReminder(t *testing.T) {
	start := time.Date(2026, time.September, 14, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	subject, body := BuildReminder("Pitch 1", "Riverside Sports Club", start, end)
	if subject != "Reservation Reminder" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Pitch 1", "Riverside Sports Club", "Monday, Sep 14, 2026", "10:00 AM - 12:00 PM"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildWeatherAdvisory(t *testing.T) {
	start := time.Date(2026, time.September, 14, 10, 0, 0, 0, time.UTC)
	cond := weather.Conditions{Description: "light rain", TempC: 14.3, WindSpeed: 5.2}

	subject, body := BuildWeatherAdvisory("Pitch 1", start, cond)
	if subject != "Weather Advisory" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Pitch 1", "light rain", "14.3", "5.2"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}
