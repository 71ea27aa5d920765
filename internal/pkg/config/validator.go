package config

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// cronParser accepts the same five-field form the worker scheduler runs.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule parses "minute hour day month weekday",
// e.g. "0 6 * * 1-5" for weekdays at 06:00.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return errors.New("invalid cron schedule: empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone needs tzdata on the host for names such as "Europe/Berlin".
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return errors.New("invalid timezone: empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// inRange checks lo <= v <= hi under compare, which follows cmp.Compare.
func inRange[T any](v, lo, hi T, compare func(a, b T) int) error {
	switch {
	case compare(lo, hi) > 0:
		return fmt.Errorf("invalid range: min %v is greater than max %v", lo, hi)
	case compare(v, lo) < 0:
		return fmt.Errorf("%v is below minimum %v", v, lo)
	case compare(v, hi) > 0:
		return fmt.Errorf("%v exceeds maximum %v", v, hi)
	}
	return nil
}

func ValidateDuration(d, lo, hi time.Duration) error {
	return inRange(d, lo, hi, cmp.Compare[time.Duration])
}

func ValidateIntRange(v, lo, hi int) error { return inRange(v, lo, hi, cmp.Compare[int]) }

func ValidateDecimalRange(v, lo, hi decimal.Decimal) error {
	return inRange(v, lo, hi, decimal.Decimal.Cmp)
}

func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}
