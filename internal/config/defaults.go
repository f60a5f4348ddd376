package config

import "time"

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	// Database defaults
	DefaultDBPath = "tasks.db"

	// Reminder defaults. Tasks more than a day past due are removed unless
	// the grace period is raised.
	DefaultGracePeriod      = 24 * time.Hour
	DefaultReminderCadence  = "daily"
	DefaultReminderSchedule = "0 * * * *" // hourly scan
	DefaultMaintSchedule    = "0 4 * * 0" // weekly VACUUM, Sunday 04:00
)

// Default user-visible messages
var DefaultMessages = MessagesConfig{
	Welcome: "Welcome to your Personal Task Manager!\n\n" +
		"Available commands:\n" +
		"/new - Create a new task\n" +
		"/tasklist - List all your tasks\n" +
		"/delete - Delete a task\n" +
		"/help - Show usage details",
	Help: "Usage:\n" +
		"/new <YYYY-MM-DD> [daily|48h|weekly|<duration>] <description> [#category]\n" +
		"/tasklist - list your tasks grouped by category\n" +
		"/delete <task id> - delete one of your tasks\n\n" +
		"Reminders repeat at each task's frequency until the task is deleted\n" +
		"or expires past its due date.",
	Unauthorized:       "You are not authorized to use this command.",
	GeneralError:       "An error occurred. Please try again later.",
	NewUsage:           "Usage: /new <YYYY-MM-DD> [frequency] <description> [#category]",
	TaskCreated:        "Task created successfully!\nName: %s\nCategory: %s\nDue Date: %s",
	InvalidDueDate:     "Invalid date. Please use YYYY-MM-DD with today or a later date.",
	InvalidFrequency:   "Invalid frequency. Use daily, 48h, weekly, or a duration like 6h.",
	NoTasks:            "You have no tasks!",
	TaskListHeader:     "Your Tasks:",
	DeleteUsage:        "Usage: /delete <task id> (see /tasklist for ids)",
	TaskDeleted:        "Deleted task: %s",
	TaskNotFound:       "No such task. It may have already been deleted.",
	TaskNotOwned:       "That task belongs to another user.",
	ReminderPrefix:     "🔔 Reminder of your task:",
	ExpiredTaskRemoved: "Expired task has been automatically removed: %s",
}
