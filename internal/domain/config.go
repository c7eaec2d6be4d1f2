package domain

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// RotationMode selects how the delay between rotations is computed.
type RotationMode string

const (
	ModeFixedInterval RotationMode = "fixed_interval"
	ModeRandomRange   RotationMode = "random_range"
)

// AddressSource selects where rotation targets come from.
type AddressSource string

const (
	SourceRandom     AddressSource = "random"
	SourceCustomList AddressSource = "custom_list"
)

// ScheduleConfig drives the rotation scheduler. It is a plain value:
// callers mutate a copy, validate it, then persist and swap it in.
type ScheduleConfig struct {
	Interface            string        `json:"interface"`
	Mode                 RotationMode  `json:"mode"`
	FixedIntervalMinutes int           `json:"fixed_interval_minutes"`
	RandomMinMinutes     int           `json:"random_min_minutes"`
	RandomMaxMinutes     int           `json:"random_max_minutes"`
	AddressSource        AddressSource `json:"address_source"`
	CustomAddresses      []MacAddress  `json:"custom_addresses,omitempty"`
	WindowStart          string        `json:"window_start"` // "HH:MM"
	WindowEnd            string        `json:"window_end"`   // "HH:MM"
	Enabled              bool          `json:"enabled"`
}

// DefaultScheduleConfig returns the documented defaults. Loading merges
// the persisted file over this value, so keys absent from the file keep
// these settings.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Interface:            "Wi-Fi",
		Mode:                 ModeRandomRange,
		FixedIntervalMinutes: 30,
		RandomMinMinutes:     15,
		RandomMaxMinutes:     60,
		AddressSource:        SourceRandom,
		WindowStart:          "00:00",
		WindowEnd:            "23:59",
		Enabled:              false,
	}
}

// ParseTime parses a clock time written as "HH:MM" or "H:MM" into its
// hour and minute components.
func ParseTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %s", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time: %s", s)
	}
	return hour, minute, nil
}

// Validate checks the invariants every persisted or edited config must
// hold. It returns a *ValidationError describing the first violation.
func (c ScheduleConfig) Validate() error {
	if c.Interface == "" {
		return &ValidationError{Field: "interface", Msg: "must not be empty"}
	}
	switch c.Mode {
	case ModeFixedInterval, ModeRandomRange:
	default:
		return &ValidationError{Field: "mode", Msg: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
	if c.FixedIntervalMinutes < 1 {
		return &ValidationError{Field: "fixed_interval_minutes", Msg: "must be at least 1"}
	}
	if c.RandomMinMinutes < 1 {
		return &ValidationError{Field: "random_min_minutes", Msg: "must be at least 1"}
	}
	if c.RandomMaxMinutes < c.RandomMinMinutes {
		return &ValidationError{
			Field: "random_max_minutes",
			Msg:   fmt.Sprintf("must be >= random_min_minutes (%d)", c.RandomMinMinutes),
		}
	}
	switch c.AddressSource {
	case SourceRandom:
	case SourceCustomList:
		if len(c.CustomAddresses) == 0 {
			return &ValidationError{Field: "custom_addresses", Msg: "must not be empty when address_source is custom_list"}
		}
		for _, addr := range c.CustomAddresses {
			if !ValidMac(string(addr)) {
				return &ValidationError{Field: "custom_addresses", Msg: fmt.Sprintf("invalid MAC address %q", addr)}
			}
		}
	default:
		return &ValidationError{Field: "address_source", Msg: fmt.Sprintf("unknown source %q", c.AddressSource)}
	}
	if _, _, err := ParseTime(c.WindowStart); err != nil {
		return &ValidationError{Field: "window_start", Msg: err.Error()}
	}
	if _, _, err := ParseTime(c.WindowEnd); err != nil {
		return &ValidationError{Field: "window_end", Msg: err.Error()}
	}
	return nil
}

// InWindow reports whether t falls within the active window, at minute
// granularity and inclusive on both ends. A window whose start is after
// its end wraps past midnight: 22:00-06:00 is active at 23:30 and at
// 05:00, inactive at 10:00. Unparseable window times count as active so
// the scheduler fails open; Validate rejects them up front.
func (c ScheduleConfig) InWindow(t time.Time) bool {
	sh, sm, err := ParseTime(c.WindowStart)
	if err != nil {
		return true
	}
	eh, em, err := ParseTime(c.WindowEnd)
	if err != nil {
		return true
	}
	start := sh*60 + sm
	end := eh*60 + em
	now := t.Hour()*60 + t.Minute()
	if start <= end {
		return now >= start && now <= end
	}
	return now >= start || now <= end
}

// NextInterval computes the delay before the next rotation attempt.
// Fixed mode returns the configured constant; random mode draws a uniform
// number of seconds in [min*60, max*60] inclusive.
func (c ScheduleConfig) NextInterval() time.Duration {
	if c.Mode == ModeFixedInterval {
		return time.Duration(c.FixedIntervalMinutes) * time.Minute
	}
	lo := c.RandomMinMinutes * 60
	hi := c.RandomMaxMinutes * 60
	return time.Duration(lo+rand.IntN(hi-lo+1)) * time.Second
}
