// Package notify delivers reminder-scan events to users over Telegram.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/Darveloper1/Task-Reminder-TB/internal/config"
	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// TelegramNotifier implements reminder.Notifier by sending direct messages
// to task owners. Telegram user IDs double as private chat IDs.
type TelegramNotifier struct {
	bot      *tgbot.Bot
	messages *config.MessagesConfig
	logger   *slog.Logger
}

// NewTelegramNotifier creates a notifier that sends through the given bot.
func NewTelegramNotifier(bot *tgbot.Bot, messages *config.MessagesConfig, logger *slog.Logger) *TelegramNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TelegramNotifier{
		bot:      bot,
		messages: messages,
		logger:   logger.With("component", "notifier"),
	}
}

// TaskReminder sends one reminder message for a due task.
func (n *TelegramNotifier) TaskReminder(ctx context.Context, ownerID int64, task database.Task) error {
	text := fmt.Sprintf("%s\n• %s (Due: %s)",
		n.messages.ReminderPrefix, task.Description, task.DueAt.Format("2006-01-02"))
	if task.Category != "" {
		text = fmt.Sprintf("%s\n📁 %s:\n   • %s (Due: %s)",
			n.messages.ReminderPrefix, task.Category, task.Description, task.DueAt.Format("2006-01-02"))
	}

	_, err := n.bot.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: ownerID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to send reminder for task %d: %w", task.ID, err)
	}

	n.logger.DebugContext(ctx, "Reminder delivered", "task_id", task.ID, "owner_id", ownerID)
	return nil
}

// TaskExpired informs the owner that an overdue task was removed.
func (n *TelegramNotifier) TaskExpired(ctx context.Context, ownerID int64, task database.Task) error {
	text := fmt.Sprintf(n.messages.ExpiredTaskRemoved, task.Description)

	_, err := n.bot.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: ownerID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to send expiry notice for task %d: %w", task.ID, err)
	}

	n.logger.DebugContext(ctx, "Expiry notice delivered", "task_id", task.ID, "owner_id", ownerID)
	return nil
}
