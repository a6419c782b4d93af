package entity

import (
	"time"
)

// User is the single aggregate of the service: a username and the calendar
// date of birth stored for it.
//
// DateOfBirth holds a calendar date at midnight UTC.
type User struct {
	Username    string
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
