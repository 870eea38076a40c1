package config

import (
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFrom(map[string]string{})
		if err != nil {
			t.Fatalf("LoadFrom returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:calendar.db?_pragma=foreign_keys(1)" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SlotStartHour != 7 || cfg.SlotEndHour != 21 {
			t.Fatalf("unexpected default grid %d-%d", cfg.SlotStartHour, cfg.SlotEndHour)
		}
		if cfg.DaySlotWidthMinutes != 60 || cfg.WeekSlotWidthMinutes != 60 {
			t.Fatalf("unexpected default widths %d/%d", cfg.DaySlotWidthMinutes, cfg.WeekSlotWidthMinutes)
		}
		if cfg.VisibilityFloorPercent != 10 {
			t.Fatalf("unexpected visibility floor %v", cfg.VisibilityFloorPercent)
		}
		if cfg.MaxRecurrenceDays != 366 {
			t.Fatalf("unexpected max recurrence days %d", cfg.MaxRecurrenceDays)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFrom(map[string]string{
			"SCHEDULER_HTTP_PORT":                "9090",
			"SCHEDULER_SQLITE_DSN":               "file:/tmp/calendar.db",
			"SCHEDULER_DAY_SLOT_WIDTH_MINUTES":   "30",
			"SCHEDULER_WEEK_SLOT_WIDTH_MINUTES":  "120",
			"SCHEDULER_VISIBILITY_FLOOR_PERCENT": "12.5",
			"SCHEDULER_SHUTDOWN_TIMEOUT":         "3s",
		})
		if err != nil {
			t.Fatalf("LoadFrom returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 || cfg.SQLiteDSN != "file:/tmp/calendar.db" {
			t.Fatalf("unexpected overrides %+v", cfg)
		}
		if cfg.ShutdownTimeout != 3*time.Second {
			t.Fatalf("expected shutdown timeout 3s, got %s", cfg.ShutdownTimeout)
		}
		day, week := cfg.DayGrid(), cfg.WeekGrid()
		if day.SlotWidthMinutes != 30 || week.SlotWidthMinutes != 120 {
			t.Fatalf("unexpected grid widths %d/%d", day.SlotWidthMinutes, week.SlotWidthMinutes)
		}
		if day.VisibilityFloorPercent != 12.5 || day.SlotStartHour != 7 || week.SlotEndHour != 21 {
			t.Fatalf("unexpected grid %+v", day)
		}
	})

	t.Run("errors when values cannot be parsed", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(map[string]string{"SCHEDULER_HTTP_PORT": "eighty"})
		if err == nil {
			t.Fatalf("expected error for malformed port")
		}
		expected := "環境変数の値が不正です: SCHEDULER_HTTP_PORT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("errors when values are out of range", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(map[string]string{
			"SCHEDULER_SLOT_END_HOUR":            "6",
			"SCHEDULER_VISIBILITY_FLOOR_PERCENT": "150",
		})
		if err == nil {
			t.Fatalf("expected error for invalid grid")
		}
		expected := "環境変数の値が不正です: SCHEDULER_SLOT_END_HOUR, SCHEDULER_VISIBILITY_FLOOR_PERCENT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects widths that do not divide the grid", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(map[string]string{"SCHEDULER_WEEK_SLOT_WIDTH_MINUTES": "45"})
		if err == nil || err.Error() != "環境変数の値が不正です: SCHEDULER_WEEK_SLOT_WIDTH_MINUTES" {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("SCHEDULER_HTTP_PORT", "7070")
	t.Setenv("SCHEDULER_MAX_RECURRENCE_DAYS", "90")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 7070 || cfg.MaxRecurrenceDays != 90 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
