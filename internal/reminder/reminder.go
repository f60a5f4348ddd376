// Package reminder implements the periodic scan that delivers task
// reminders and removes tasks past their due date. It coordinates the task
// store and a delivery collaborator; it knows nothing about Telegram.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// Notifier delivers scan-cycle events to task owners. Implementations may
// fail transiently; the scan treats delivery as fire-and-forget per task.
type Notifier interface {
	// TaskReminder delivers one reminder for a due task.
	TaskReminder(ctx context.Context, ownerID int64, task database.Task) error

	// TaskExpired informs the owner that an overdue task was removed.
	TaskExpired(ctx context.Context, ownerID int64, task database.Task) error
}

// CycleStats summarizes one scan cycle.
type CycleStats struct {
	Expired  int // tasks removed by the expiry sweep
	Notified int // reminders handed off and marked
	Failures int // per-task errors that were logged and skipped
}

// Service runs reminder scan cycles over a task store.
type Service struct {
	store       database.Store
	notifier    Notifier
	gracePeriod time.Duration
	logger      *slog.Logger

	mu sync.Mutex // serializes cycles; overlapping ticks must not both emit
}

// NewService creates a scan service. gracePeriod is how long past its due
// date a task survives before removal.
func NewService(store database.Store, notifier Notifier, gracePeriod time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:       store,
		notifier:    notifier,
		gracePeriod: gracePeriod,
		logger:      logger.With("component", "reminder"),
	}
}

// RunCycle executes one scan at the given time: expiry sweep first, then
// due-task reminders. A per-task failure never aborts the cycle; only a
// failed store query does. No task is processed twice within one cycle,
// and cycles are mutually exclusive: a concurrent call blocks until the
// running cycle finishes, so the eligibility read and the notification
// mark of one cycle are never interleaved with another's.
func (s *Service) RunCycle(ctx context.Context, now time.Time) (CycleStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now = now.UTC()
	var stats CycleStats

	// Tasks touched this cycle, keyed by id. Expired tasks must not also
	// receive a reminder if a stale due query returns them.
	seen := make(map[int64]struct{})

	expired, err := s.store.FindExpired(ctx, now, s.gracePeriod)
	if err != nil {
		return stats, fmt.Errorf("expiry query failed: %w", err)
	}

	for _, task := range expired {
		if _, dup := seen[task.ID]; dup {
			continue
		}
		seen[task.ID] = struct{}{}

		if err := s.store.DeleteExpiredTask(ctx, task.ID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				// Owner deleted it between the query and the sweep.
				s.logger.DebugContext(ctx, "Expired task already gone", "task_id", task.ID)
				continue
			}
			s.logger.ErrorContext(ctx, "Failed to delete expired task",
				"task_id", task.ID, "owner_id", task.OwnerID, "error", err)
			stats.Failures++
			continue
		}
		stats.Expired++

		if err := s.notifier.TaskExpired(ctx, task.OwnerID, task); err != nil {
			// The task is gone either way; the notice is best-effort.
			s.logger.WarnContext(ctx, "Failed to deliver expiry notice",
				"task_id", task.ID, "owner_id", task.OwnerID, "error", err)
			stats.Failures++
		}
	}

	due, err := s.store.FindDueForNotification(ctx, now)
	if err != nil {
		return stats, fmt.Errorf("due-notification query failed: %w", err)
	}

	for _, task := range due {
		if _, dup := seen[task.ID]; dup {
			continue
		}
		seen[task.ID] = struct{}{}

		// Emission first: a failed hand-off must not advance the mark, so a
		// later cycle retries (at-least-once delivery).
		if err := s.notifier.TaskReminder(ctx, task.OwnerID, task); err != nil {
			s.logger.ErrorContext(ctx, "Failed to deliver reminder",
				"task_id", task.ID, "owner_id", task.OwnerID, "error", err)
			stats.Failures++
			continue
		}

		if err := s.store.MarkNotified(ctx, task.ID, now); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				s.logger.DebugContext(ctx, "Task deleted or already marked, reminder already sent", "task_id", task.ID)
				continue
			}
			s.logger.ErrorContext(ctx, "Failed to mark task notified",
				"task_id", task.ID, "error", err)
			stats.Failures++
			continue
		}
		stats.Notified++
	}

	s.logger.InfoContext(ctx, "Reminder scan cycle complete",
		"now", now, "expired", stats.Expired, "notified", stats.Notified, "failures", stats.Failures)
	return stats, nil
}
