package model

import (
	"strings"
	"time"
)

// CreationLayout is the ISO-8601 form used for the creation field of responses.
const CreationLayout = "2006-01-02T15:04:05.999999999Z07:00"

// Layouts tried in order by ParseCreation. Values without an offset are UTC.
var creationLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15Z0700",
	"2006-01-02T15",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	// basic format
	"20060102T150405Z0700",
	"20060102T150405",
	"20060102T1504Z0700",
	"20060102T1504",
	"20060102",
}

// ParseCreation converts an ISO-8601 string into a time.
// A missing, empty or malformed value yields the current time; it never fails.
func ParseCreation(value *string) time.Time {
	if value == nil {
		return time.Now().UTC()
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return time.Now().UTC()
	}
	for _, layout := range creationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// FormatCreation renders t as ISO-8601 with its offset.
func FormatCreation(t time.Time) string {
	return t.Format(CreationLayout)
}
