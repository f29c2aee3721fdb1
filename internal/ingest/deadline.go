package ingest

import (
	"regexp"
	"time"
)

// deadlinePattern matches the source site's deadline text, e.g. "~ 07/25(금)":
// two-digit month, two-digit day, and a parenthesized weekday character.
var deadlinePattern = regexp.MustCompile(`(\d{2})/(\d{2})\((.)\)`)

// The source text omits the year. A month/day more than this far in the past
// is taken to mean the next occurrence, so a January deadline crawled in
// December resolves into the new year instead of eleven months back.
const deadlineLookbehind = 182 * 24 * time.Hour

// ParseDeadline extracts the calendar date from deadline text. The returned
// bool is false when the pattern does not match; callers treat that as
// "deadline unknown", not as an error.
func ParseDeadline(text string, today time.Time) (time.Time, bool) {
	m := deadlinePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	day := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	today = truncateToDay(today)
	deadline := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, today.Location())
	if today.Sub(deadline) > deadlineLookbehind {
		deadline = deadline.AddDate(1, 0, 0)
	}
	return deadline, true
}

// RemainingDays returns the whole days between today and the deadline, both
// truncated to day granularity, floored at zero for expired postings.
func RemainingDays(deadline, today time.Time) int {
	days := int(truncateToDay(deadline).Sub(truncateToDay(today)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
