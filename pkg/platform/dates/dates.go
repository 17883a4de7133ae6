// Package dates parses the free-form dates found in learner and reference CSV files.
package dates

import (
	"strings"
	"time"

	"idrecon/pkg/nationalid"
)

// Layouts are tried in order. Day-first layouts come before the generic
// fallbacks so that 03/04/2001 reads as 3 April.
var Layouts = []string{
	"02/01/06",
	"02/01/2006",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"2/1/2006",
	"2/1/06",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// Parse returns the date in s using the first matching layout. Two-digit
// years follow the national ID century pivot rather than Go's 1969 pivot.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range Layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "/06") {
			t = withYear(t, nationalid.ExpandYear(t.Year()%100))
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func withYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
