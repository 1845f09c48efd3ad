// internal/scheduler/waitlist.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/pitchside/fieldbook/internal/db"
)

const waitlistCleanupTimeout = time.Minute

// RegisterWaitlistCleanupJob registers the periodic task that removes
// waitlist entries attached to reservations whose slot has already ended.
func RegisterWaitlistCleanupJob(database *db.DB, cronExpr string) error {
	if database == nil {
		return fmt.Errorf("waitlist cleanup job requires database")
	}

	jobName := "waitlist_cleanup"
	jobLogger := log.With().
		Str("component", "waitlist_cleanup_job").
		Str("job_name", jobName).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitlistCleanupTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		removed, err := CleanupPastWaitlists(ctx, database, time.Now().UTC())
		if err != nil {
			jobLogger.Error().Err(err).Msg("Waitlist cleanup run failed")
			return
		}
		if removed > 0 {
			jobLogger.Info().Int64("removed", removed).Msg("Removed stale waitlist entries")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add waitlist cleanup job: %w", err)
	}

	jobLogger.Info().Msg("Waitlist cleanup job registered")
	return nil
}

// CleanupPastWaitlists deletes waitlist entries whose reservation ended
// before the given time and returns how many rows were removed.
func CleanupPastWaitlists(ctx context.Context, database *db.DB, before time.Time) (int64, error) {
	removed, err := database.Queries.DeletePastWaitlistEntries(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("delete past waitlist entries: %w", err)
	}
	return removed, nil
}
