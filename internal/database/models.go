package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Frequency is a reminder cadence code. The named codes mirror the options
// the bot offers in /new; anything else is parsed as a Go duration so users
// can set arbitrary cadences like "6h" or "30m".
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"  // every 24 hours
	FrequencyAltDaily Frequency = "48h"    // every other day
	FrequencyWeekly   Frequency = "weekly" // every 168 hours
)

// minCustomInterval guards against cadences that would spam the owner on
// every scheduler tick.
const minCustomInterval = time.Minute

// Interval returns the duration that must elapse between reminders for this
// frequency. Unrecognized codes return an error so callers can surface
// ErrValidation before a task is stored.
func (f Frequency) Interval() (time.Duration, error) {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour, nil
	case FrequencyAltDaily:
		return 48 * time.Hour, nil
	case FrequencyWeekly:
		return 7 * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(string(f))
	if err != nil {
		return 0, fmt.Errorf("unrecognized frequency %q", string(f))
	}
	if d < minCustomInterval {
		return 0, fmt.Errorf("frequency %q is below the minimum of %s", string(f), minCustomInterval)
	}
	return d, nil
}

// IsValid reports whether f is a named cadence or a parseable custom
// duration at or above the minimum interval.
func (f Frequency) IsValid() bool {
	_, err := f.Interval()
	return err == nil
}

// Task represents a single due-dated item owned by a Telegram user.
// The scheduler is the only writer of LastNotifiedAt; DueAt is immutable
// after creation.
type Task struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	OwnerID     int64     `db:"owner_id"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	DueAt       time.Time `db:"due_at"`
	Frequency   Frequency `db:"frequency"`

	LastNotifiedAt sql.NullTime `db:"last_notified_at"` // null until the first reminder
}
