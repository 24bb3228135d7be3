// -----------------------------------------------------------------------
// Dates - heuristic resolution of ambiguous numeric date text
// -----------------------------------------------------------------------

package promo

import (
	"regexp"
	"strconv"
	"time"
)

var numericDateRe = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?`)

// ResolveNumericDate interprets numeric date text like "03/04" or
// "25/12/2024" against the originating snapshot's date. The day-first
// reading is preferred; the month-first reading is attempted only when the
// day-first one is implausible and both components work as month and day.
// When no year is written and the resolved date falls shortly before the
// snapshot (within 31 days), it is rolled forward one year, since a sale
// end date is never announced for the recent past. Returns false when
// neither reading is plausible; malformed text never raises.
func ResolveNumericDate(raw string, reference time.Time) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year := 0
	hasYear := false
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		hasYear = true
	}

	// Day-first: a=day, b=month
	if t, ok := buildDate(a, b, year, hasYear, reference); ok {
		return t, true
	}
	// Month-first: a=month, b=day
	if t, ok := buildDate(b, a, year, hasYear, reference); ok {
		return t, true
	}
	return time.Time{}, false
}

// buildDate validates a (day, month) pair and anchors it to a year
func buildDate(day, month, year int, hasYear bool, reference time.Time) (time.Time, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}

	anchor := year
	if !hasYear {
		anchor = reference.Year()
	}
	candidate := time.Date(anchor, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow (e.g. 31/02)
	if candidate.Day() != day || candidate.Month() != time.Month(month) {
		return time.Time{}, false
	}

	if !hasYear && candidate.Before(reference) && reference.Sub(candidate) <= 31*24*time.Hour {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate, true
}
