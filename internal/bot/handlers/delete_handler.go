package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// NewDeleteHandler returns a handler for the /delete command.
func NewDeleteHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteHandler{deps}.Handle
}

// deleteHandler processes the /delete command. Only the task's owner may
// delete it; foreign task ids are refused rather than revealed.
type deleteHandler struct {
	deps HandlerDeps
}

func (h deleteHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "delete")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Delete handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	ownerID := update.Message.From.ID
	msgs := h.deps.Config.Messages

	taskID, err := strconv.ParseInt(commandArgs(update.Message.Text), 10, 64)
	if err != nil || taskID <= 0 {
		h.send(ctx, b, chatID, msgs.DeleteUsage, log)
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	// Fetch the description first so the confirmation can echo it; the
	// store re-checks ownership on delete.
	var description string
	if tasks, err := h.deps.Store.GetTasksByOwner(timeoutCtx, ownerID); err == nil {
		for _, task := range tasks {
			if task.ID == taskID {
				description = task.Description
				break
			}
		}
	}

	err = h.deps.Store.DeleteTask(timeoutCtx, taskID, ownerID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		log.InfoContext(ctx, "Delete requested for missing task", "task_id", taskID, "owner_id", ownerID)
		h.send(ctx, b, chatID, msgs.TaskNotFound, log)
		return

	case errors.Is(err, database.ErrNotAuthorized):
		log.WarnContext(ctx, "Delete refused for foreign task", "task_id", taskID, "owner_id", ownerID)
		h.send(ctx, b, chatID, msgs.TaskNotOwned, log)
		return

	case err != nil:
		log.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "owner_id", ownerID, "error", err)
		h.send(ctx, b, chatID, msgs.GeneralError, log)
		return
	}

	log.InfoContext(ctx, "Task deleted by owner", "task_id", taskID, "owner_id", ownerID)

	if description == "" {
		description = fmt.Sprintf("task %d", taskID)
	}
	h.send(ctx, b, chatID, fmt.Sprintf(msgs.TaskDeleted, description), log)
}

func (h deleteHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
