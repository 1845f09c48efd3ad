// internal/scheduler/notifications.go
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
	"github.com/pitchside/fieldbook/internal/notify"
)

const (
	notificationBatchSize   int64 = 100
	notificationJobTimeout        = 2 * time.Minute
	notificationStatusSent        = "sent"
	notificationStatusFailed      = "failed"
)

// RegisterNotificationJob registers the periodic task that delivers due
// notifications through the configured sender.
func RegisterNotificationJob(database *db.DB, sender notify.Sender, cronExpr string) error {
	if database == nil {
		return fmt.Errorf("notification job requires database")
	}

	jobName := "notification_dispatch"
	jobLogger := log.With().
		Str("component", "notification_dispatch_job").
		Str("job_name", jobName).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if sender == nil {
			jobLogger.Debug().Msg("Notification job skipped: sender not configured")
			return
		}

		if err := DispatchDueNotifications(ctx, database, sender, time.Now().UTC()); err != nil {
			jobLogger.Error().Err(err).Msg("Notification dispatch run failed")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add notification dispatch job: %w", err)
	}

	jobLogger.Info().Msg("Notification dispatch job registered")
	return nil
}

// DispatchDueNotifications sends every pending notification whose deliver-at
// has passed and records the outcome per row. A failed send marks only that
// row failed; the run continues.
func DispatchDueNotifications(ctx context.Context, database *db.DB, sender notify.Sender, now time.Time) error {
	if database == nil {
		return fmt.Errorf("notification dispatch requires database")
	}

	due, err := database.Queries.ListDueNotifications(ctx, dbgen.ListDueNotificationsParams{
		DeliverAt: now,
		Limit:     notificationBatchSize,
	})
	if err != nil {
		return fmt.Errorf("list due notifications: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	logger := log.Ctx(ctx)
	for _, notification := range due {
		status := notificationStatusSent
		if err := sendNotification(ctx, database, sender, notification); err != nil {
			logger.Error().Err(err).
				Int64("notification_id", notification.ID).
				Int64("user_id", notification.UserID).
				Msg("Failed to deliver notification")
			status = notificationStatusFailed
		}

		if err := database.Queries.UpdateNotificationStatus(ctx, dbgen.UpdateNotificationStatusParams{
			ID:     notification.ID,
			Status: status,
		}); err != nil {
			return fmt.Errorf("update notification %d status: %w", notification.ID, err)
		}
	}

	logger.Debug().Int("delivered", len(due)).Msg("Notification dispatch run completed")
	return nil
}

func sendNotification(ctx context.Context, database *db.DB, sender notify.Sender, notification dbgen.Notification) error {
	user, err := database.Queries.GetUserByID(ctx, notification.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !user.Email.Valid {
		return fmt.Errorf("user %d has no email address", user.ID)
	}
	recipient := strings.TrimSpace(user.Email.String)
	if recipient == "" {
		return fmt.Errorf("user %d has no email address", user.ID)
	}

	return sender.Send(ctx, recipient, notification.Subject, notification.Body)
}
