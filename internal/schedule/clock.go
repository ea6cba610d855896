package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadClock is returned when a wall-clock string is not "HH:MM" on a 24h
// scale.
var ErrBadClock = errors.New("invalid clock value, expected HH:MM")

// ParseClock converts "HH:MM" into a minute offset from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, ErrBadClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrBadClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrBadClock
	}
	return h*60 + m, nil
}

// FormatClock renders a minute offset back into "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
