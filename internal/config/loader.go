package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/example/learning-center-scheduler/internal/calendar"
)

const prefix = "SCHEDULER_"

// Config captures environment driven configuration values for the scheduler service.
type Config struct {
	HTTPPort               int           `env:"HTTP_PORT" envDefault:"8080"`
	SQLiteDSN              string        `env:"SQLITE_DSN" envDefault:"file:calendar.db?_pragma=foreign_keys(1)"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"info"`
	SlotStartHour          int           `env:"SLOT_START_HOUR" envDefault:"7"`
	SlotEndHour            int           `env:"SLOT_END_HOUR" envDefault:"21"`
	DaySlotWidthMinutes    int           `env:"DAY_SLOT_WIDTH_MINUTES" envDefault:"60"`
	WeekSlotWidthMinutes   int           `env:"WEEK_SLOT_WIDTH_MINUTES" envDefault:"60"`
	VisibilityFloorPercent float64       `env:"VISIBILITY_FLOOR_PERCENT" envDefault:"10"`
	MaxRecurrenceDays      int           `env:"MAX_RECURRENCE_DAYS" envDefault:"366"`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses configuration values from the current process environment.
//
// Every field has a default. Values that fail to parse or fall outside their
// valid range are reported together with a localized message.
func Load() (Config, error) {
	return load(env.Options{Prefix: prefix})
}

// LoadFrom parses configuration from the given variables instead of the
// process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Prefix: prefix, Environment: environ})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(failedKeys(err), ", "))
	}

	if invalid := cfg.invalidKeys(); len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// DayGrid returns the slot configuration for the admin day view.
func (c Config) DayGrid() calendar.Config {
	return c.grid(c.DaySlotWidthMinutes)
}

// WeekGrid returns the slot configuration for the weekly views.
func (c Config) WeekGrid() calendar.Config {
	return c.grid(c.WeekSlotWidthMinutes)
}

func (c Config) grid(width int) calendar.Config {
	return calendar.Config{
		SlotStartHour:          c.SlotStartHour,
		SlotEndHour:            c.SlotEndHour,
		SlotWidthMinutes:       width,
		VisibilityFloorPercent: c.VisibilityFloorPercent,
	}
}

func (c Config) invalidKeys() []string {
	invalid := make([]string, 0, 2)
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, prefix+"HTTP_PORT")
	}
	if strings.TrimSpace(c.SQLiteDSN) == "" {
		invalid = append(invalid, prefix+"SQLITE_DSN")
	}
	if c.SlotStartHour < 0 || c.SlotStartHour > 23 {
		invalid = append(invalid, prefix+"SLOT_START_HOUR")
	}
	if c.SlotEndHour <= c.SlotStartHour || c.SlotEndHour > 24 {
		invalid = append(invalid, prefix+"SLOT_END_HOUR")
	}
	span := (c.SlotEndHour - c.SlotStartHour) * 60
	if c.DaySlotWidthMinutes <= 0 || (span > 0 && span%c.DaySlotWidthMinutes != 0) {
		invalid = append(invalid, prefix+"DAY_SLOT_WIDTH_MINUTES")
	}
	if c.WeekSlotWidthMinutes <= 0 || (span > 0 && span%c.WeekSlotWidthMinutes != 0) {
		invalid = append(invalid, prefix+"WEEK_SLOT_WIDTH_MINUTES")
	}
	if c.VisibilityFloorPercent < 0 || c.VisibilityFloorPercent > 100 {
		invalid = append(invalid, prefix+"VISIBILITY_FLOOR_PERCENT")
	}
	if c.MaxRecurrenceDays <= 0 {
		invalid = append(invalid, prefix+"MAX_RECURRENCE_DAYS")
	}
	if c.ShutdownTimeout <= 0 {
		invalid = append(invalid, prefix+"SHUTDOWN_TIMEOUT")
	}
	return invalid
}

// failedKeys names the variables behind a parse failure.
func failedKeys(err error) []string {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return []string{err.Error()}
	}

	keys := make([]string, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		var parseErr env.ParseError
		if errors.As(e, &parseErr) {
			keys = append(keys, keyForField(parseErr.Name))
			continue
		}
		keys = append(keys, e.Error())
	}
	return keys
}

func keyForField(name string) string {
	field, ok := reflect.TypeOf(Config{}).FieldByName(name)
	if !ok {
		return name
	}
	return prefix + field.Tag.Get("env")
}
