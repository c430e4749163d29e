// Package timeparse turns the date strings found on listing pages and feeds
// into UTC instants, and formats instants back as "N units ago".
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// absoluteLayouts are tried in order; the first that parses wins.
// Layouts without an offset are read as UTC.
var absoluteLayouts = []string{
	time.RFC1123Z,                    // Mon, 02 Jan 2006 15:04:05 -0700
	time.RFC1123,                     // Mon, 02 Jan 2006 15:04:05 MST
	"Mon, 2 Jan 2006 15:04:05 -0700", // feeds that drop the leading zero
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
}

type unitFamily struct {
	keyword string
	pattern *regexp.Regexp
	unit    time.Duration
}

// relativeFamilies is checked in this fixed order. The first family whose
// keyword occurs in the text decides the outcome.
var relativeFamilies = []unitFamily{
	{"minute", regexp.MustCompile(`(\d+)\s+minute`), time.Minute},
	{"hour", regexp.MustCompile(`(\d+)\s+hour`), time.Hour},
	{"day", regexp.MustCompile(`(\d+)\s+day`), day},
	{"week", regexp.MustCompile(`(\d+)\s+week`), week},
	{"month", regexp.MustCompile(`(\d+)\s+month`), month},
	{"year", regexp.MustCompile(`(\d+)\s+year`), year},
}

// Normalizer parses and formats timestamps relative to its clock.
type Normalizer struct {
	Now func() time.Time
}

// New returns a Normalizer on the wall clock.
func New() *Normalizer {
	return &Normalizer{Now: time.Now}
}

func (n *Normalizer) now() time.Time {
	if n == nil || n.Now == nil {
		return time.Now().UTC()
	}
	return n.Now().UTC()
}

// ParseAbsolute tries each known layout in order.
func ParseAbsolute(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range absoluteLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "MST") {
			var ok bool
			if t, ok = withNamedZone(t); !ok {
				return time.Time{}, false
			}
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}

// rfc822Zones holds the zone names RFC 822 defines, as seconds east of UTC.
var rfc822Zones = map[string]int{
	"UT": 0, "UTC": 0, "GMT": 0, "Z": 0,
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
}

// withNamedZone re-reads the wall clock of t in the offset its zone name
// stands for. time.Parse gives unknown names a zero offset, so anything
// outside rfc822Zones is rejected.
func withNamedZone(t time.Time) (time.Time, bool) {
	name, _ := t.Zone()
	offset, ok := rfc822Zones[strings.ToUpper(name)]
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(name, offset)), true
}

// ParseRelative resolves phrases like "3 hours ago". Text with no unit
// keyword and no "ago" marker (including "just now") resolves to now.
func (n *Normalizer) ParseRelative(text string) (time.Time, bool) {
	now := n.now()
	text = strings.ToLower(text)

	for _, f := range relativeFamilies {
		if !strings.Contains(text, f.keyword) {
			continue
		}
		m := f.pattern.FindStringSubmatch(text)
		if m == nil {
			return time.Time{}, false
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return now.Add(-time.Duration(qty) * f.unit), true
	}

	if strings.Contains(text, "just now") || !strings.Contains(text, "ago") {
		return now, true
	}
	return time.Time{}, false
}

// ParseTimestamp tries the absolute layouts, then the relative phrases.
func (n *Normalizer) ParseTimestamp(text string) (time.Time, bool) {
	if t, ok := ParseAbsolute(text); ok {
		return t, true
	}
	return n.ParseRelative(text)
}

// ToRelativeString formats the distance from t to now in the coarsest unit
// that fits. Months are 30 days and years 365 days.
func (n *Normalizer) ToRelativeString(t time.Time) string {
	diff := n.now().Sub(t)
	if diff < time.Minute {
		return "just now"
	}

	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / day)
	weeks := days / 7
	months := max(days/30, 1)
	years := days / 365

	switch {
	case minutes < 60:
		return ago(minutes, "minute")
	case hours < 24:
		return ago(hours, "hour")
	case days < 7:
		return ago(days, "day")
	case weeks < 4:
		return ago(weeks, "week")
	case months < 12:
		return ago(months, "month")
	default:
		return ago(years, "year")
	}
}

func ago(qty int, unit string) string {
	if qty > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", qty, unit)
}

var std = New()

// ParseRelative uses the wall clock.
func ParseRelative(text string) (time.Time, bool) { return std.ParseRelative(text) }

// ParseTimestamp uses the wall clock.
func ParseTimestamp(text string) (time.Time, bool) { return std.ParseTimestamp(text) }

// ToRelativeString uses the wall clock.
func ToRelativeString(t time.Time) string { return std.ToRelativeString(t) }
