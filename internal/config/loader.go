package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file
// 3. BOT_* environment variables
func Load() (*Config, error) {
	setDefaults()

	if err := readConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// readConfig initializes and loads the configuration using viper.
// A missing config file is allowed; defaults and environment apply.
func readConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// setDefaults sets default values for optional configuration parameters.
func setDefaults() {
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.json", DefaultLogJSON)

	viper.SetDefault("database.path", DefaultDBPath)

	viper.SetDefault("reminder.grace_period", DefaultGracePeriod)
	viper.SetDefault("reminder.default_frequency", DefaultReminderCadence)

	viper.SetDefault("scheduler.tasks.reminder_scan.enabled", true)
	viper.SetDefault("scheduler.tasks.reminder_scan.schedule", DefaultReminderSchedule)
	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", DefaultMaintSchedule)

	viper.SetDefault("messages.welcome", DefaultMessages.Welcome)
	viper.SetDefault("messages.help", DefaultMessages.Help)
	viper.SetDefault("messages.unauthorized", DefaultMessages.Unauthorized)
	viper.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	viper.SetDefault("messages.new_usage", DefaultMessages.NewUsage)
	viper.SetDefault("messages.task_created", DefaultMessages.TaskCreated)
	viper.SetDefault("messages.invalid_due_date", DefaultMessages.InvalidDueDate)
	viper.SetDefault("messages.invalid_frequency", DefaultMessages.InvalidFrequency)
	viper.SetDefault("messages.no_tasks", DefaultMessages.NoTasks)
	viper.SetDefault("messages.task_list_header", DefaultMessages.TaskListHeader)
	viper.SetDefault("messages.delete_usage", DefaultMessages.DeleteUsage)
	viper.SetDefault("messages.task_deleted", DefaultMessages.TaskDeleted)
	viper.SetDefault("messages.task_not_found", DefaultMessages.TaskNotFound)
	viper.SetDefault("messages.task_not_owned", DefaultMessages.TaskNotOwned)
	viper.SetDefault("messages.reminder_prefix", DefaultMessages.ReminderPrefix)
	viper.SetDefault("messages.expired_task_removed", DefaultMessages.ExpiredTaskRemoved)
}
