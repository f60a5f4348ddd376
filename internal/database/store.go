package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access interface for tasks.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateTask validates and inserts a new task, setting its ID and
	// bookkeeping timestamps. Invalid input is reported as ErrValidation.
	CreateTask(ctx context.Context, task *Task) error

	// GetTasksByOwner retrieves all tasks owned by the given user,
	// ordered by due date ascending. Each call runs a fresh query.
	GetTasksByOwner(ctx context.Context, ownerID int64) ([]Task, error)

	// DeleteTask deletes a task on behalf of its owner. Returns ErrNotFound
	// if the task does not exist, ErrNotAuthorized if requestingOwnerID does
	// not own it.
	DeleteTask(ctx context.Context, taskID, requestingOwnerID int64) error

	// DeleteExpiredTask deletes a task without an ownership check. Used by
	// the reminder scheduler's expiry sweep; ErrNotFound signals a benign
	// race with an explicit user delete.
	DeleteExpiredTask(ctx context.Context, taskID int64) error

	// MarkNotified records that a reminder for the task was handed off to
	// delivery at the given time. Returns ErrNotFound when the task no
	// longer exists or already carries a mark at or after 'at'.
	MarkNotified(ctx context.Context, taskID int64, at time.Time) error

	// FindDueForNotification returns tasks eligible for a reminder at 'now':
	// never notified, or last notified at least one frequency interval ago.
	FindDueForNotification(ctx context.Context, now time.Time) ([]Task, error)

	// FindExpired returns tasks whose due date is more than gracePeriod in
	// the past at 'now'.
	FindExpired(ctx context.Context, now time.Time, gracePeriod time.Duration) ([]Task, error)

	// CountTasks returns the total number of stored tasks and the number of
	// distinct owners.
	CountTasks(ctx context.Context) (tasks int, owners int, err error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// validateTask checks the fields CreateTask requires. The due date must be
// today or later; date-only input means "today" is compared at day
// granularity in UTC.
func validateTask(task *Task, now time.Time) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrValidation)
	}
	if strings.TrimSpace(task.Description) == "" {
		return fmt.Errorf("%w: description is empty", ErrValidation)
	}
	if task.OwnerID == 0 {
		return fmt.Errorf("%w: owner_id is zero", ErrValidation)
	}
	if task.DueAt.IsZero() {
		return fmt.Errorf("%w: due date is not set", ErrValidation)
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if task.DueAt.Before(startOfToday) {
		return fmt.Errorf("%w: due date %s is in the past", ErrValidation, task.DueAt.Format("2006-01-02"))
	}

	if _, err := task.Frequency.Interval(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// CreateTask validates and inserts a new task record.
func (s *sqlxStore) CreateTask(ctx context.Context, task *Task) error {
	now := time.Now().UTC()
	if err := validateTask(task, now); err != nil {
		return err
	}

	task.CreatedAt = now
	task.UpdatedAt = now
	task.DueAt = task.DueAt.UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for creating task",
			"owner_id", task.OwnerID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	query := `
        INSERT INTO tasks (owner_id, description, category, due_at, frequency, last_notified_at, created_at, updated_at)
        VALUES (:owner_id, :description, :category, :due_at, :frequency, :last_notified_at, :created_at, :updated_at);
    `

	result, err := tx.NamedExecContext(ctx, query, task)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating task", "owner_id", task.OwnerID, "error", err)
		return fmt.Errorf("failed to create task for owner %d: %w", task.OwnerID, err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		task.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after creating task",
			"owner_id", task.OwnerID, "error", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"owner_id", task.OwnerID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Task created successfully",
		"owner_id", task.OwnerID, "task_id", task.ID, "due_at", task.DueAt, "frequency", task.Frequency)
	return nil
}

// GetTasksByOwner retrieves all tasks for the owner, ordered by due date.
func (s *sqlxStore) GetTasksByOwner(ctx context.Context, ownerID int64) ([]Task, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("owner_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var tasks []Task
	query := `
        SELECT id, owner_id, description, category, due_at, frequency, last_notified_at, created_at, updated_at
        FROM tasks
        WHERE owner_id = ?
        ORDER BY due_at ASC, id ASC;
    `

	err := s.db.SelectContext(ctx, &tasks, query, ownerID)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching tasks",
			"owner_id", ownerID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting tasks by owner", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get tasks for owner %d: %w", ownerID, err)
	}

	s.logger.DebugContext(ctx, "Fetched tasks by owner", "owner_id", ownerID, "count", len(tasks))
	return tasks, nil
}

// DeleteTask deletes a task after verifying ownership.
func (s *sqlxStore) DeleteTask(ctx context.Context, taskID, requestingOwnerID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for deleting task",
			"task_id", taskID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	var ownerID int64
	err = tx.GetContext(ctx, &ownerID, `SELECT owner_id FROM tasks WHERE id = ?`, taskID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	case err != nil:
		s.logger.ErrorContext(ctx, "Error looking up task owner", "task_id", taskID, "error", err)
		return fmt.Errorf("failed to look up task %d: %w", taskID, err)
	}

	if ownerID != requestingOwnerID {
		s.logger.WarnContext(ctx, "Delete refused, requesting user does not own task",
			"task_id", taskID, "owner_id", ownerID, "requesting_owner_id", requestingOwnerID)
		return fmt.Errorf("%w: task %d", ErrNotAuthorized, taskID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting task", "task_id", taskID, "error", err)
		return fmt.Errorf("failed to delete task %d: %w", taskID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "task_id", taskID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Task deleted successfully", "task_id", taskID, "owner_id", ownerID)
	return nil
}

// DeleteExpiredTask deletes a task without an ownership check.
func (s *sqlxStore) DeleteExpiredTask(ctx context.Context, taskID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting expired task", "task_id", taskID, "error", err)
		return fmt.Errorf("failed to delete expired task %d: %w", taskID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count after expired delete",
			"task_id", taskID, "error", err)
		return nil
	}
	if affected == 0 {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}

	s.logger.DebugContext(ctx, "Expired task deleted", "task_id", taskID)
	return nil
}

// MarkNotified sets last_notified_at for the task. The update is guarded so
// the mark never moves backwards; the affected-row count distinguishes a
// since-deleted or concurrently-marked task from a successful mark, which
// keeps competing writers benign.
func (s *sqlxStore) MarkNotified(ctx context.Context, taskID int64, at time.Time) error {
	at = at.UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET last_notified_at = ?, updated_at = ?
         WHERE id = ? AND (last_notified_at IS NULL OR last_notified_at < ?)`,
		at, at, taskID, at)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error marking task notified", "task_id", taskID, "error", err)
		return fmt.Errorf("failed to mark task %d notified: %w", taskID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count after marking task",
			"task_id", taskID, "error", err)
		return nil
	}
	if affected == 0 {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}

	s.logger.DebugContext(ctx, "Task marked notified", "task_id", taskID, "at", at)
	return nil
}

// FindDueForNotification returns tasks eligible for a reminder at 'now'.
// Candidates are narrowed in SQL; the per-task frequency window is evaluated
// in Go since named cadences map to intervals the schema doesn't store.
func (s *sqlxStore) FindDueForNotification(ctx context.Context, now time.Time) ([]Task, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	now = now.UTC()

	var candidates []Task
	query := `
        SELECT id, owner_id, description, category, due_at, frequency, last_notified_at, created_at, updated_at
        FROM tasks
        WHERE last_notified_at IS NULL OR last_notified_at <= ?
        ORDER BY due_at ASC, id ASC;
    `

	// Widest eligibility horizon is the minimum custom cadence.
	err := s.db.SelectContext(ctx, &candidates, query, now.Add(-minCustomInterval))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching due tasks", "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error fetching due-notification candidates", "error", err)
		return nil, fmt.Errorf("failed to fetch due-notification candidates: %w", err)
	}

	due := make([]Task, 0, len(candidates))
	for _, task := range candidates {
		if !task.LastNotifiedAt.Valid {
			due = append(due, task)
			continue
		}
		interval, err := task.Frequency.Interval()
		if err != nil {
			// Stored frequency no longer parses; skip rather than spam.
			s.logger.WarnContext(ctx, "Task has unparseable stored frequency, skipping",
				"task_id", task.ID, "frequency", task.Frequency)
			continue
		}
		if now.Sub(task.LastNotifiedAt.Time) >= interval {
			due = append(due, task)
		}
	}

	s.logger.DebugContext(ctx, "Computed due tasks", "candidates", len(candidates), "due", len(due))
	return due, nil
}

// FindExpired returns tasks past their due date by more than gracePeriod.
func (s *sqlxStore) FindExpired(ctx context.Context, now time.Time, gracePeriod time.Duration) ([]Task, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var tasks []Task
	query := `
        SELECT id, owner_id, description, category, due_at, frequency, last_notified_at, created_at, updated_at
        FROM tasks
        WHERE due_at < ?
        ORDER BY due_at ASC, id ASC;
    `

	cutoff := now.UTC().Add(-gracePeriod)
	err := s.db.SelectContext(ctx, &tasks, query, cutoff)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching expired tasks", "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error fetching expired tasks", "cutoff", cutoff, "error", err)
		return nil, fmt.Errorf("failed to fetch expired tasks: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched expired tasks", "count", len(tasks), "cutoff", cutoff)
	return tasks, nil
}

// CountTasks returns total task and distinct owner counts.
func (s *sqlxStore) CountTasks(ctx context.Context) (int, int, error) {
	var counts struct {
		Tasks  int `db:"tasks"`
		Owners int `db:"owners"`
	}
	query := `SELECT COUNT(*) AS tasks, COUNT(DISTINCT owner_id) AS owners FROM tasks`

	if err := s.db.GetContext(ctx, &counts, query); err != nil {
		s.logger.ErrorContext(ctx, "Error counting tasks", "error", err)
		return 0, 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return counts.Tasks, counts.Owners, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
