// Package dateutil holds the date layouts shared by the claim workflow.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

const (
	// ISOLayout is how dates arrive from forms and are stored.
	ISOLayout = "2006-01-02"
	// DisplayLayout is the day/month/year layout used by the guarantee
	// service and by responses.
	DisplayLayout = "02/01/2006"
)

var ErrZeroDate = errors.New("date is not set")

// flexibleLayouts is tried in order by ParseFlexible.
var flexibleLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006-01-02T15:04:05",
}

// ParseISO parses a YYYY-MM-DD date.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(ISOLayout, strings.TrimSpace(s))
}

// ToExternal reformats a stored date for the guarantee service query.
func ToExternal(t time.Time) (string, error) {
	if t.IsZero() {
		return "", ErrZeroDate
	}
	return t.Format(DisplayLayout), nil
}

// ParseFlexible tries every known layout and reports whether one matched.
func ParseFlexible(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplay renders an optional date as dd/mm/yyyy, or "" when unset.
func FormatDisplay(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DisplayLayout)
}

// DateOf truncates t to its calendar day in UTC, matching dates parsed
// with ParseISO.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
