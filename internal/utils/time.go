package utils

import (
	"strings"
	"time"
)

const (
	layoutDate = "2006-01-02"
	layoutAtom = "2006-01-02T15:04:05-07:00"
)

// NowUTC returns current time in UTC truncated to seconds, the precision of DATETIME columns.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ParseTimestamp accepts an ATOM timestamp or a bare YYYY-MM-DD date (UTC).
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(layoutAtom, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(layoutDate, s, time.UTC)
}
