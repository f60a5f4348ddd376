package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// scanTimeout bounds one whole scan cycle; a stuck Telegram send must not
// hold the next cycle hostage.
const scanTimeout = 5 * time.Minute

// newReminderScanTask creates the scheduled task that runs one reminder
// scan cycle: expired-task cleanup followed by due-task notifications.
func newReminderScanTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "reminder_scan")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled reminder scan...")
		startTime := time.Now()

		timeoutCtx, cancel := context.WithTimeout(ctx, scanTimeout)
		defer cancel()

		stats, err := deps.Reminder.RunCycle(timeoutCtx, time.Now().UTC())
		duration := time.Since(startTime)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			log.WarnContext(ctx, "Reminder scan timed out or was cancelled", "error", err, "duration", duration)
			return fmt.Errorf("reminder scan timed out or was cancelled: %w", err)
		}
		if err != nil {
			log.ErrorContext(ctx, "Reminder scan failed", "error", err, "duration", duration)
			return fmt.Errorf("reminder scan failed: %w", err)
		}

		if stats.Expired == 0 && stats.Notified == 0 && stats.Failures == 0 {
			log.InfoContext(ctx, "Reminder scan completed - nothing to do", "duration", duration)
		} else {
			log.InfoContext(ctx, "Reminder scan completed",
				"expired", stats.Expired,
				"notified", stats.Notified,
				"failures", stats.Failures,
				"duration", duration)
		}

		return nil
	}
}
