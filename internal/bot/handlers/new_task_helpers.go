package handlers

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

// commandArgs returns the text following the command token, handling the
// "/cmd@BotName args" form Telegram sends in group chats.
func commandArgs(text string) string {
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		return strings.TrimSpace(text[i:])
	}
	return ""
}

// Parse failures for /new input, mapped to distinct user-facing messages.
var (
	errUsage        = errors.New("missing arguments")
	errBadDate      = errors.New("bad due date")
	errBadFrequency = errors.New("bad frequency")
)

// newTaskInput is the parsed form of "/new <date> [frequency] <description> [#category]".
type newTaskInput struct {
	DueAt       time.Time
	Frequency   database.Frequency
	Description string
	Category    string
}

// parseNewTaskArgs parses the argument string following the /new command.
// The frequency token is optional; when the second field does not parse as a
// known cadence it is treated as the start of the description. A trailing
// "#word" token becomes the category.
func parseNewTaskArgs(args string, defaultFrequency database.Frequency) (newTaskInput, error) {
	var input newTaskInput

	fields := strings.Fields(args)
	if len(fields) < 2 {
		return input, errUsage
	}

	dueAt, err := time.ParseInLocation("2006-01-02", fields[0], time.UTC)
	if err != nil {
		return input, errBadDate
	}
	input.DueAt = dueAt

	rest := fields[1:]
	input.Frequency = defaultFrequency
	if len(rest) > 1 {
		freq := database.Frequency(rest[0])
		switch {
		case freq.IsValid():
			input.Frequency = freq
			rest = rest[1:]
		case isDuration(rest[0]):
			// Parses as a duration but fails the cadence rules, so the user
			// meant it as a frequency. Reject instead of folding it into the
			// description.
			return input, errBadFrequency
		}
	}

	if last := rest[len(rest)-1]; len(last) > 1 && strings.HasPrefix(last, "#") {
		input.Category = strings.TrimPrefix(last, "#")
		rest = rest[:len(rest)-1]
	}

	input.Description = strings.TrimSpace(strings.Join(rest, " "))
	if input.Description == "" {
		return input, errUsage
	}

	return input, nil
}

// isDuration reports whether the token parses as a Go duration at all,
// regardless of the minimum cadence.
func isDuration(token string) bool {
	_, err := time.ParseDuration(token)
	return err == nil
}
