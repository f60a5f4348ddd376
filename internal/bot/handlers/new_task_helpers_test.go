package handlers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Darveloper1/Task-Reminder-TB/internal/database"
)

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{text: "/new 2030-06-01 buy groceries", want: "2030-06-01 buy groceries"},
		{text: "/new@TaskBot 2030-06-01 buy groceries", want: "2030-06-01 buy groceries"},
		{text: "/delete 5", want: "5"},
		{text: "/delete@TaskBot 5", want: "5"},
		{text: "/tasklist", want: ""},
		{text: "/tasklist@TaskBot", want: ""},
	}

	for _, tc := range tests {
		if got := commandArgs(tc.text); got != tc.want {
			t.Errorf("commandArgs(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestParseNewTaskArgs(t *testing.T) {
	t.Parallel()

	defaultFreq := database.FrequencyDaily

	tests := []struct {
		name    string
		args    string
		want    newTaskInput
		wantErr error
	}{
		{
			name: "date and description",
			args: "2030-06-01 buy groceries",
			want: newTaskInput{
				DueAt:       time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
				Frequency:   database.FrequencyDaily,
				Description: "buy groceries",
			},
		},
		{
			name: "explicit frequency",
			args: "2030-06-01 weekly water the garden",
			want: newTaskInput{
				DueAt:       time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
				Frequency:   database.FrequencyWeekly,
				Description: "water the garden",
			},
		},
		{
			name: "custom duration frequency",
			args: "2030-06-01 6h take medication",
			want: newTaskInput{
				DueAt:       time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
				Frequency:   "6h",
				Description: "take medication",
			},
		},
		{
			name: "trailing category",
			args: "2030-06-01 48h renew passport #admin",
			want: newTaskInput{
				DueAt:       time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
				Frequency:   database.FrequencyAltDaily,
				Description: "renew passport",
				Category:    "admin",
			},
		},
		{
			name: "frequency-like word kept in description",
			args: "2030-06-01 daily", // single trailing token is the description
			want: newTaskInput{
				DueAt:       time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
				Frequency:   database.FrequencyDaily,
				Description: "daily",
			},
		},
		{name: "empty", args: "", wantErr: errUsage},
		{name: "frequency below minimum", args: "2030-06-01 30s take out trash", wantErr: errBadFrequency},
		{name: "date only", args: "2030-06-01", wantErr: errUsage},
		{name: "bad date", args: "June 1st buy groceries", wantErr: errBadDate},
		{name: "category only description", args: "2030-06-01 #admin", wantErr: errUsage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseNewTaskArgs(tc.args, defaultFreq)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("parsed input mismatch:\n got  %+v\n want %+v", got, tc.want)
			}
		})
	}
}

func TestFormatTaskList(t *testing.T) {
	t.Parallel()

	due := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []database.Task{
		{ID: 1, Description: "buy groceries", Category: "errands", DueAt: due},
		{ID: 2, Description: "renew passport", Category: "admin", DueAt: due.Add(24 * time.Hour)},
		{ID: 3, Description: "call plumber", Category: "errands", DueAt: due.Add(48 * time.Hour)},
		{ID: 4, Description: "misc note", DueAt: due.Add(72 * time.Hour)},
	}

	out := formatTaskList("Your Tasks:", tasks)

	if !strings.HasPrefix(out, "Your Tasks:") {
		t.Errorf("missing header:\n%s", out)
	}
	for _, want := range []string{
		"📁 errands:",
		"📁 admin:",
		"📁 Uncategorized:",
		"• buy groceries (Due: 2030-06-01) [id 1]",
		"• renew passport (Due: 2030-06-02) [id 2]",
		"• misc note (Due: 2030-06-04) [id 4]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Uncategorized tasks render after every named category.
	if strings.Index(out, "Uncategorized") < strings.Index(out, "admin") {
		t.Errorf("uncategorized group should come last:\n%s", out)
	}
}
