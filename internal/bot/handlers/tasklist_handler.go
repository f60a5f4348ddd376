package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// NewTaskListHandler returns a handler for the /tasklist command.
func NewTaskListHandler(deps HandlerDeps) bot.HandlerFunc {
	return taskListHandler{deps}.Handle
}

// taskListHandler processes the /tasklist command, replying with the
// sender's tasks grouped by category.
type taskListHandler struct {
	deps HandlerDeps
}

func (h taskListHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "tasklist")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Task-list handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	ownerID := update.Message.From.ID
	msgs := h.deps.Config.Messages

	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	tasks, err := h.deps.Store.GetTasksByOwner(timeoutCtx, ownerID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch tasks for listing", "owner_id", ownerID, "error", err)
		h.send(ctx, b, chatID, msgs.GeneralError, log)
		return
	}

	if len(tasks) == 0 {
		h.send(ctx, b, chatID, msgs.NoTasks, log)
		return
	}

	h.send(ctx, b, chatID, formatTaskList(msgs.TaskListHeader, tasks), log)
	log.DebugContext(ctx, "Sent task list", "owner_id", ownerID, "count", len(tasks))
}

// formatTaskList renders tasks grouped by category, preserving the
// due-date ordering within each group. Uncategorized tasks come last.
func formatTaskList(header string, tasks []database.Task) string {
	grouped := make(map[string][]database.Task)
	var order []string
	for _, task := range tasks {
		if _, ok := grouped[task.Category]; !ok {
			order = append(order, task.Category)
		}
		grouped[task.Category] = append(grouped[task.Category], task)
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")

	writeGroup := func(category string) {
		label := category
		if label == "" {
			label = "Uncategorized"
		}
		sb.WriteString("📁 " + label + ":\n")
		for _, task := range grouped[category] {
			sb.WriteString("   • " + task.Description)
			sb.WriteString(" (Due: " + task.DueAt.Format("2006-01-02") + ")")
			sb.WriteString(" [id " + strconv.FormatInt(task.ID, 10) + "]\n")
		}
		sb.WriteString("\n")
	}

	for _, category := range order {
		if category == "" {
			continue
		}
		writeGroup(category)
	}
	if _, ok := grouped[""]; ok {
		writeGroup("")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (h taskListHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
