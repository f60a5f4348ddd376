package handlers

import (
	"log/slog"

	"github.com/Darveloper1/Task-Reminder-TB/internal/config"
	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
}
