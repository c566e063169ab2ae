// Package timeutil provides wall-clock helpers shared by the budget and
// schedule engines: HH:MM parsing, minutes-since-midnight arithmetic, and
// human-readable duration formatting.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Clock is a time of day expressed as minutes since midnight, in [0, 1440).
type Clock int

// ParseClock parses "HH:MM" or "HH:MM:SS" (seconds are truncated).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM or HH:MM:SS", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}
	return Clock(h*60 + m), nil
}

// MustClock is a test/helper constructor that panics on a bad literal.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// Minutes returns the clock as minutes since midnight.
func (c Clock) Minutes() int { return int(c) }

// String renders the normalized "HH:MM" form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// AddHours shifts the clock by a (possibly negative, possibly fractional)
// number of hours, wrapping around midnight.
func (c Clock) AddHours(hours float64) Clock {
	shifted := int(c) + int(hours*60+0.5*sign(hours))
	shifted %= minutesPerDay
	if shifted < 0 {
		shifted += minutesPerDay
	}
	return Clock(shifted)
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// FormatMinutes renders minutes as "Xh Ym" ("45m", "2h", "2h 30m").
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

var durationToken = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([hm])`)

// ParseDurationInput parses loose user input like "2h 30m", "90m", "1.5h" or
// a bare number of minutes ("90") into total minutes. Returns an error for
// anything it cannot account for.
func ParseDurationInput(s string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.Atoi(normalized); err == nil {
		return n, nil
	}

	matches := durationToken.FindAllStringSubmatch(normalized, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	leftover := strings.TrimSpace(durationToken.ReplaceAllString(normalized, ""))
	if leftover != "" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	total := 0.0
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if m[2] == "h" {
			total += value * 60
		} else {
			total += value
		}
	}
	return int(total + 0.5), nil
}
