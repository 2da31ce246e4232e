// Package age derives completed-year ages from dates of birth.
package age

import (
	"fmt"
	"time"
)

// Layout is the only accepted date of birth format.
const Layout = "2006-01-02"

// ParseError is returned when a date of birth does not match Layout.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date of birth %q, expected YYYY-MM-DD: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses an ISO YYYY-MM-DD date.
func Parse(dob string) (time.Time, error) {
	t, err := time.Parse(Layout, dob)
	if err != nil {
		return time.Time{}, &ParseError{Input: dob, Err: err}
	}
	return t, nil
}

// Calculate returns the number of birthdays that have passed between `birth` and `now`.
// Only the calendar dates matter, a birthday falling on `now` counts as reached.
func Calculate(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// FromString is Parse followed by Calculate.
func FromString(dob string, now time.Time) (int, error) {
	birth, err := Parse(dob)
	if err != nil {
		return 0, err
	}
	return Calculate(birth, now), nil
}
