package birthday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		today time.Time
		want  int
	}{
		{"birthday today", date(1990, time.May, 10), date(2024, time.May, 10), 0},
		{"later this year", date(1990, time.May, 10), date(2024, time.May, 1), 9},
		{"tomorrow", date(1990, time.May, 10), date(2023, time.May, 9), 1},
		{"passed, next year", date(1990, time.May, 10), date(2023, time.May, 11), 365},
		{"passed, next year is leap", date(1990, time.March, 1), date(2023, time.March, 2), 365},
		{"year rollover", date(1990, time.January, 1), date(2023, time.December, 31), 1},
		{"new year's eve from jan 1 in leap year", date(1990, time.December, 31), date(2024, time.January, 1), 365},
		{"leap day in leap year", date(2000, time.February, 29), date(2024, time.February, 28), 1},
		{"leap day on leap day", date(2000, time.February, 29), date(2024, time.February, 29), 0},
		{"leap day falls on mar 1", date(2000, time.February, 29), date(2023, time.February, 28), 1},
		{"leap day celebrated mar 1", date(2000, time.February, 29), date(2023, time.March, 1), 0},
		{"leap day after mar 1", date(2000, time.February, 29), date(2023, time.March, 2), 364},
		{"leap day after feb 29 in leap year", date(2000, time.February, 29), date(2024, time.March, 1), 365},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.birth, tt.today))
		})
	}
}

func TestDaysUntilRange(t *testing.T) {
	births := []time.Time{
		date(1990, time.January, 1),
		date(2000, time.February, 29),
		date(1985, time.July, 4),
		date(1970, time.December, 31),
	}
	start := date(2023, time.January, 1)
	for i := 0; i < 3*366; i++ {
		today := start.AddDate(0, 0, i)
		for _, b := range births {
			got := DaysUntil(b, today)
			assert.GreaterOrEqual(t, got, 0)
			assert.Less(t, got, 366)
			if today.Month() == b.Month() && today.Day() == b.Day() {
				assert.Equal(t, 0, got)
			}
		}
	}
}

func TestDaysUntilIgnoresClockTime(t *testing.T) {
	birth := date(1990, time.May, 10)
	late := time.Date(2024, time.May, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntil(birth, late))
}

func TestDateOfKeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	t1 := time.Date(2024, time.May, 10, 1, 0, 0, 0, loc)
	assert.Equal(t, date(2024, time.May, 10), DateOf(t1))
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hello, john! Happy birthday!", Greeting("john", 0))
	assert.Equal(t, "Hello, john! Your birthday is in 1 day(s)", Greeting("john", 1))
	assert.Equal(t, "Hello, Ann! Your birthday is in 300 day(s)", Greeting("Ann", 300))
}
