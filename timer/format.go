package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedClock is returned for input that is not a zero-padded
// "MM:SS" clock string.
var ErrMalformedClock = errors.New("malformed clock string, want \"MM:SS\"")

// FormatSeconds renders a second count as "MM:SS", both fields
// zero-padded. This is the wire format for the "timer" event.
func FormatSeconds(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseClock is the exact inverse of FormatSeconds. Clients echo the
// clock string back at end of game, so malformed input is rejected
// instead of silently parsed as zero.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, ErrMalformedClock
	}
	// strconv.Atoi accepts a leading sign, so check the bytes first.
	for _, part := range parts {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return 0, ErrMalformedClock
			}
		}
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrMalformedClock
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs > 59 {
		return 0, ErrMalformedClock
	}

	return minutes*60 + secs, nil
}
