package classifier

import (
	"errors"
	"math"
	"regexp"
	"strconv"
)

// MaxDurationSeconds caps parsed durations so oversized components cannot overflow
const MaxDurationSeconds = math.MaxInt32

var isoDuration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO-8601 "PT#H#M#S" duration into seconds.
// Every component is optional. Input that does not match yields 0, and
// results above MaxDurationSeconds are clamped to it.
func ParseDuration(s string) int {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	total := component(m[1], 3600) + component(m[2], 60) + component(m[3], 1)
	if total > MaxDurationSeconds {
		return MaxDurationSeconds
	}

	return int(total)
}

// component returns digits*unit in seconds, saturating at MaxDurationSeconds
func component(digits string, unit int64) int64 {
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if errors.Is(err, strconv.ErrRange) || n > MaxDurationSeconds/unit {
		return MaxDurationSeconds
	}

	if err != nil {
		return 0
	}

	return n * unit
}
