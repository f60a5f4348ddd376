// Package tasks implements the bot's scheduled background tasks: the
// reminder scan and periodic database maintenance.
package tasks

import (
	"log/slog"

	"github.com/Darveloper1/Task-Reminder-TB/internal/config"
	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
	"github.com/Darveloper1/Task-Reminder-TB/internal/reminder"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Reminder *reminder.Service
	Config   *config.Config
}
