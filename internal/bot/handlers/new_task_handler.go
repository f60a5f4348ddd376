package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// NewNewTaskHandler returns a handler for the /new command.
func NewNewTaskHandler(deps HandlerDeps) bot.HandlerFunc {
	return newTaskHandler{deps}.Handle
}

// newTaskHandler processes the /new command: it parses the due date,
// optional frequency and category, and creates the task for the sender.
type newTaskHandler struct {
	deps HandlerDeps
}

func (h newTaskHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "new_task")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "New-task handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	ownerID := update.Message.From.ID
	msgs := h.deps.Config.Messages

	input, err := parseNewTaskArgs(commandArgs(update.Message.Text), database.Frequency(h.deps.Config.Reminder.DefaultFrequency))
	if err != nil {
		reply := msgs.NewUsage
		switch {
		case errors.Is(err, errBadDate):
			reply = msgs.InvalidDueDate
		case errors.Is(err, errBadFrequency):
			reply = msgs.InvalidFrequency
		}
		h.send(ctx, b, chatID, reply, log)
		return
	}

	task := &database.Task{
		OwnerID:     ownerID,
		Description: input.Description,
		Category:    input.Category,
		DueAt:       input.DueAt,
		Frequency:   input.Frequency,
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := h.deps.Store.CreateTask(timeoutCtx, task); err != nil {
		if errors.Is(err, database.ErrValidation) {
			log.InfoContext(ctx, "Task creation rejected", "owner_id", ownerID, "error", err)
			h.send(ctx, b, chatID, msgs.InvalidDueDate, log)
			return
		}
		log.ErrorContext(ctx, "Failed to create task", "owner_id", ownerID, "error", err)
		h.send(ctx, b, chatID, msgs.GeneralError, log)
		return
	}

	log.InfoContext(ctx, "Task created", "task_id", task.ID, "owner_id", ownerID,
		"due_at", task.DueAt, "frequency", task.Frequency)

	category := task.Category
	if category == "" {
		category = "-"
	}
	h.send(ctx, b, chatID,
		fmt.Sprintf(msgs.TaskCreated, task.Description, category, task.DueAt.Format("2006-01-02")), log)
}

func (h newTaskHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
