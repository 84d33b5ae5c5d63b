package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseWallClock parses an "HH:MM" string into minutes from midnight.
func ParseWallClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid wall-clock time %q: expected HH:MM", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid wall-clock time %q: %w", clock, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid wall-clock time %q: %w", clock, err)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid wall-clock time %q: out of range", clock)
	}

	return hours*60 + minutes, nil
}

// FormatWallClock converts minutes from midnight back into "HH:MM".
func FormatWallClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AtWallClock converts a wall-clock string plus a calendar date into an
// absolute instant in the date's location.
func AtWallClock(date time.Time, clock string) (time.Time, error) {
	mins, err := ParseWallClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := date.Date()
	return time.Date(year, month, day, mins/60, mins%60, 0, 0, date.Location()), nil
}

// MinutesBetween returns the whole minutes from start to end.
func MinutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// MinutesOfDay returns the wall-clock minutes from midnight for an instant.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// InClockRange reports whether the instant's wall-clock time falls inside
// the inclusive [start, end] range. A start after the end means the range
// wraps past midnight (e.g. quiet hours 22:00-07:00).
func InClockRange(t time.Time, startClock, endClock string) (bool, error) {
	start, err := ParseWallClock(startClock)
	if err != nil {
		return false, err
	}
	end, err := ParseWallClock(endClock)
	if err != nil {
		return false, err
	}

	now := MinutesOfDay(t)
	if start > end {
		return now >= start || now <= end, nil
	}
	return now >= start && now <= end, nil
}
