// internal/notify/dispatcher.go

// Package notify owns outbound notifications: a store-backed queue of
// (recipient, deliver-at, payload) rows and the job that delivers them when
// due. Delivery transport is pluggable through Sender.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	appdb "github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
)

const (
	KindReminder        = "reservation_reminder"
	KindWeatherAdvisory = "weather_advisory"
)

// Message is a notification scheduled for later delivery.
type Message struct {
	UserID        int64
	ReservationID int64
	Kind          string
	Subject       string
	Body          string
	DeliverAt     time.Time
}

// Dispatcher accepts notifications for later delivery.
type Dispatcher interface {
	Schedule(ctx context.Context, msg Message) error
}

// Sender provides a testable abstraction over email delivery.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// QueueDispatcher persists messages to the notifications table. The dispatch
// job picks them up once deliver-at has passed.
type QueueDispatcher struct {
	store *appdb.DB
}

func NewQueueDispatcher(store *appdb.DB) *QueueDispatcher {
	return &QueueDispatcher{store: store}
}

func (d *QueueDispatcher) Schedule(ctx context.Context, msg Message) error {
	if d == nil || d.store == nil {
		return fmt.Errorf("notification dispatcher is not initialized")
	}
	if msg.UserID <= 0 {
		return fmt.Errorf("notification recipient is required")
	}
	if msg.Subject == "" || msg.Body == "" {
		return fmt.Errorf("notification subject and body are required")
	}

	reservationID := sql.NullInt64{}
	if msg.ReservationID > 0 {
		reservationID = sql.NullInt64{Int64: msg.ReservationID, Valid: true}
	}

	if _, err := d.store.Queries.CreateNotification(ctx, dbgen.CreateNotificationParams{
		UserID:        msg.UserID,
		ReservationID: reservationID,
		Kind:          msg.Kind,
		Subject:       msg.Subject,
		Body:          msg.Body,
		DeliverAt:     msg.DeliverAt.UTC(),
	}); err != nil {
		return fmt.Errorf("queue notification: %w", err)
	}
	return nil
}
