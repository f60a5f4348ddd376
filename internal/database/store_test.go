package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// newTestStore opens a fresh in-memory database with migrations applied.
// The raw handle is returned as well so tests can rewrite timestamps that
// CreateTask's validation would otherwise refuse (e.g. past due dates).
func newTestStore(t *testing.T) (database.Store, *sqlx.DB) {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil), db
}

func mustCreateTask(t *testing.T, store database.Store, ownerID int64, description string, dueAt time.Time, freq database.Frequency) *database.Task {
	t.Helper()

	task := &database.Task{
		OwnerID:     ownerID,
		Description: description,
		DueAt:       dueAt,
		Frequency:   freq,
	}
	if err := store.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("failed to create task %q: %v", description, err)
	}
	return task
}

// backdateDue rewrites a task's due date directly, bypassing the create-time
// validation, so expiry behavior can be exercised.
func backdateDue(t *testing.T, db *sqlx.DB, taskID int64, dueAt time.Time) {
	t.Helper()

	if _, err := db.Exec(`UPDATE tasks SET due_at = ? WHERE id = ?`, dueAt.UTC(), taskID); err != nil {
		t.Fatalf("failed to backdate task %d: %v", taskID, err)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	future := time.Now().UTC().Add(48 * time.Hour)

	tests := []struct {
		name string
		task *database.Task
	}{
		{
			name: "empty description",
			task: &database.Task{OwnerID: 1, Description: "   ", DueAt: future, Frequency: database.FrequencyDaily},
		},
		{
			name: "zero owner",
			task: &database.Task{Description: "pay rent", DueAt: future, Frequency: database.FrequencyDaily},
		},
		{
			name: "zero due date",
			task: &database.Task{OwnerID: 1, Description: "pay rent", Frequency: database.FrequencyDaily},
		},
		{
			name: "past due date",
			task: &database.Task{OwnerID: 1, Description: "pay rent", DueAt: time.Now().UTC().Add(-48 * time.Hour), Frequency: database.FrequencyDaily},
		},
		{
			name: "unknown frequency",
			task: &database.Task{OwnerID: 1, Description: "pay rent", DueAt: future, Frequency: "fortnightly"},
		},
		{
			name: "sub-minute frequency",
			task: &database.Task{OwnerID: 1, Description: "pay rent", DueAt: future, Frequency: "10s"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := store.CreateTask(context.Background(), tc.task)
			if !errors.Is(err, database.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateTaskSetsIDAndTimestamps(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	task := mustCreateTask(t, store, 1, "water plants", time.Now().UTC().Add(24*time.Hour), database.FrequencyDaily)

	if task.ID == 0 {
		t.Error("expected task ID to be set after create")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("expected bookkeeping timestamps to be set after create")
	}
	if task.LastNotifiedAt.Valid {
		t.Error("expected last_notified_at to be null for a new task")
	}
}

func TestGetTasksByOwnerOrdering(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	now := time.Now().UTC()

	mustCreateTask(t, store, 1, "later", now.Add(72*time.Hour), database.FrequencyDaily)
	mustCreateTask(t, store, 1, "sooner", now.Add(24*time.Hour), database.FrequencyDaily)
	mustCreateTask(t, store, 2, "other user", now.Add(24*time.Hour), database.FrequencyDaily)

	tasks, err := store.GetTasksByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTasksByOwner failed: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks for owner 1, got %d", len(tasks))
	}
	if tasks[0].Description != "sooner" || tasks[1].Description != "later" {
		t.Errorf("expected due-date ascending order, got %q then %q", tasks[0].Description, tasks[1].Description)
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	task := mustCreateTask(t, store, 1, "cancel subscription", time.Now().UTC().Add(24*time.Hour), database.FrequencyWeekly)

	if err := store.DeleteTask(context.Background(), task.ID, 99); !errors.Is(err, database.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for foreign owner, got %v", err)
	}

	if err := store.DeleteTask(context.Background(), task.ID, 1); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	if err := store.DeleteTask(context.Background(), task.ID, 1); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for already-deleted task, got %v", err)
	}

	tasks, err := store.GetTasksByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTasksByOwner failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks after delete, got %d", len(tasks))
	}
}

func TestDeletedTaskAbsentFromQueries(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	now := time.Now().UTC()
	task := mustCreateTask(t, store, 1, "stale", now.Add(24*time.Hour), database.FrequencyDaily)
	backdateDue(t, db, task.ID, now.Add(-10*24*time.Hour))

	if err := store.DeleteTask(context.Background(), task.ID, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	due, err := store.FindDueForNotification(context.Background(), now)
	if err != nil {
		t.Fatalf("FindDueForNotification failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("deleted task still returned as due: %+v", due)
	}

	expired, err := store.FindExpired(context.Background(), now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("FindExpired failed: %v", err)
	}
	if len(expired) != 0 {
		t.Errorf("deleted task still returned as expired: %+v", expired)
	}
}

func TestMarkNotified(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	task := mustCreateTask(t, store, 1, "file taxes", time.Now().UTC().Add(24*time.Hour), database.FrequencyDaily)

	at := time.Now().UTC()
	if err := store.MarkNotified(context.Background(), task.ID, at); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	tasks, err := store.GetTasksByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTasksByOwner failed: %v", err)
	}
	if !tasks[0].LastNotifiedAt.Valid {
		t.Fatal("expected last_notified_at to be set")
	}
	if diff := tasks[0].LastNotifiedAt.Time.Sub(at); diff < -time.Second || diff > time.Second {
		t.Errorf("stored last_notified_at drifted by %v", diff)
	}

	if err := store.MarkNotified(context.Background(), task.ID+100, at); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing task, got %v", err)
	}

	// The mark never moves backwards: repeating it at the same instant is
	// refused, a later mark goes through.
	if err := store.MarkNotified(context.Background(), task.ID, at); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated mark, got %v", err)
	}
	if err := store.MarkNotified(context.Background(), task.ID, at.Add(time.Hour)); err != nil {
		t.Fatalf("forward mark failed: %v", err)
	}
}

func TestFindDueForNotificationFrequencyWindow(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	now := time.Now().UTC()
	task := mustCreateTask(t, store, 1, "daily check", now.Add(72*time.Hour), database.FrequencyDaily)

	assertDue := func(t *testing.T, at time.Time, want bool) {
		t.Helper()
		due, err := store.FindDueForNotification(context.Background(), at)
		if err != nil {
			t.Fatalf("FindDueForNotification failed: %v", err)
		}
		got := false
		for _, d := range due {
			if d.ID == task.ID {
				got = true
			}
		}
		if got != want {
			t.Fatalf("at %v: due=%v, want %v", at, got, want)
		}
	}

	// Never notified: always eligible, even ahead of the due date.
	assertDue(t, now, true)

	if err := store.MarkNotified(context.Background(), task.ID, now); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	assertDue(t, now.Add(time.Hour), false)
	assertDue(t, now.Add(23*time.Hour), false)
	assertDue(t, now.Add(24*time.Hour), true)
}

func TestFindDueForNotificationCustomFrequency(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	now := time.Now().UTC()
	task := mustCreateTask(t, store, 1, "take medication", now.Add(72*time.Hour), "6h")

	if err := store.MarkNotified(context.Background(), task.ID, now); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	due, err := store.FindDueForNotification(context.Background(), now.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("FindDueForNotification failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected no due tasks before 6h elapsed, got %d", len(due))
	}

	due, err = store.FindDueForNotification(context.Background(), now.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("FindDueForNotification failed: %v", err)
	}
	if len(due) != 1 {
		t.Errorf("expected 1 due task after 6h elapsed, got %d", len(due))
	}
}

func TestFindExpiredGraceWindow(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	now := time.Now().UTC()
	grace := 7 * 24 * time.Hour

	old := mustCreateTask(t, store, 1, "long overdue", now.Add(24*time.Hour), database.FrequencyDaily)
	backdateDue(t, db, old.ID, now.Add(-10*24*time.Hour))

	recent := mustCreateTask(t, store, 1, "just overdue", now.Add(24*time.Hour), database.FrequencyDaily)
	backdateDue(t, db, recent.ID, now.Add(-3*24*time.Hour))

	mustCreateTask(t, store, 1, "not due yet", now.Add(24*time.Hour), database.FrequencyDaily)

	expired, err := store.FindExpired(context.Background(), now, grace)
	if err != nil {
		t.Fatalf("FindExpired failed: %v", err)
	}

	if len(expired) != 1 {
		t.Fatalf("expected exactly 1 expired task, got %d", len(expired))
	}
	if expired[0].ID != old.ID {
		t.Errorf("expected task %d to be expired, got %d", old.ID, expired[0].ID)
	}
}

func TestCountTasks(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	now := time.Now().UTC()

	mustCreateTask(t, store, 1, "a", now.Add(24*time.Hour), database.FrequencyDaily)
	mustCreateTask(t, store, 1, "b", now.Add(24*time.Hour), database.FrequencyDaily)
	mustCreateTask(t, store, 2, "c", now.Add(24*time.Hour), database.FrequencyDaily)

	taskCount, ownerCount, err := store.CountTasks(context.Background())
	if err != nil {
		t.Fatalf("CountTasks failed: %v", err)
	}
	if taskCount != 3 {
		t.Errorf("expected 3 tasks, got %d", taskCount)
	}
	if ownerCount != 2 {
		t.Errorf("expected 2 owners, got %d", ownerCount)
	}
}
