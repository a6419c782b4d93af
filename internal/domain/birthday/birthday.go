// Package birthday computes how far away a user's next birthday is.
//
// All dates handled here are calendar dates: time.Time values at midnight
// UTC. Feb 29 birthdays fall on Mar 1 in non-leap years, which is what
// time.Date normalisation produces.
package birthday

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// DateOf returns the calendar date of t, in t's own location, at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the server's local calendar date for now.
func Today(now time.Time) time.Time {
	return DateOf(now.Local())
}

// DaysUntil returns the number of days from today to the next occurrence of
// birthDate's month and day. Zero means the birthday is today.
func DaysUntil(birthDate, today time.Time) int {
	today = DateOf(today)
	candidate := occurrence(birthDate, today.Year())
	if candidate.Equal(today) {
		return 0
	}
	if candidate.Before(today) {
		candidate = occurrence(birthDate, today.Year()+1)
	}
	return int(candidate.Sub(today) / day)
}

func occurrence(birthDate time.Time, year int) time.Time {
	return time.Date(year, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
}

// Greeting renders the GET /hello message for username.
func Greeting(username string, days int) string {
	if days == 0 {
		return fmt.Sprintf("Hello, %s! Happy birthday!", username)
	}
	return fmt.Sprintf("Hello, %s! Your birthday is in %d day(s)", username, days)
}
