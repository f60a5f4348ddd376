// Package config manages application configuration from default values,
// an optional config.yaml, and BOT_* environment variables.
package config

import "time"

// Config defines the application configuration for all components of the
// task reminder bot.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls structured log output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and the admin user.
type TelegramConfig struct {
	Token       string `mapstructure:"token"    validate:"required"`
	AdminUserID int64  `mapstructure:"admin_id" validate:"required,gt=0"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TaskConfig enables and schedules one registered background task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task registry names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// ReminderConfig tunes the reminder scan cycle.
type ReminderConfig struct {
	// GracePeriod is how long past its due date a task survives before the
	// scheduler removes it.
	GracePeriod time.Duration `mapstructure:"grace_period" validate:"min=1h,max=720h"`

	// DefaultFrequency is the cadence applied when /new omits one.
	DefaultFrequency string `mapstructure:"default_frequency" validate:"required"`
}

// MessagesConfig holds all user-visible reply texts.
type MessagesConfig struct {
	Welcome            string `mapstructure:"welcome"             validate:"required"`
	Help               string `mapstructure:"help"                validate:"required"`
	Unauthorized       string `mapstructure:"unauthorized"        validate:"required"`
	GeneralError       string `mapstructure:"general_error"       validate:"required"`
	NewUsage           string `mapstructure:"new_usage"           validate:"required"`
	TaskCreated        string `mapstructure:"task_created"        validate:"required"`
	InvalidDueDate     string `mapstructure:"invalid_due_date"    validate:"required"`
	InvalidFrequency   string `mapstructure:"invalid_frequency"   validate:"required"`
	NoTasks            string `mapstructure:"no_tasks"            validate:"required"`
	TaskListHeader     string `mapstructure:"task_list_header"    validate:"required"`
	DeleteUsage        string `mapstructure:"delete_usage"        validate:"required"`
	TaskDeleted        string `mapstructure:"task_deleted"        validate:"required"`
	TaskNotFound       string `mapstructure:"task_not_found"      validate:"required"`
	TaskNotOwned       string `mapstructure:"task_not_owned"      validate:"required"`
	ReminderPrefix     string `mapstructure:"reminder_prefix"     validate:"required"`
	ExpiredTaskRemoved string `mapstructure:"expired_task_removed" validate:"required"`
}
