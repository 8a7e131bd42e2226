// Package age derives a student's age from the birth date typed on the registration form.
//
// The form accepts either a bare year ("1999") or a full date ("2010-05-01"). Full dates
// are converted by whole days divided by 365, which drifts by a day every four years;
// the stored age is a snapshot and callers should not treat it as calendar exact.
package age

import (
	"errors"
	"strconv"
	"time"
)

// DateLayout is the accepted full birth date form.
const DateLayout = "2006-01-02"

const looseDateLayout = "2006-1-2"

const daysPerYear = 365

var (
	// ErrUnparseable means the input is neither a 4-digit year nor a YYYY-M-D date.
	ErrUnparseable = errors.New("birth date is not a year or YYYY-MM-DD date")
	// ErrInFuture means the birth date lies after the reference date.
	ErrInFuture = errors.New("birth date is after the reference date")
)

// Compute returns the age in years at ref, or 0 when birthDate cannot be interpreted.
func Compute(birthDate string, ref time.Time) int {
	years, _ := Parse(birthDate, ref)
	return years
}

// Parse is Compute with the fallback condition reported. The returned age is always >= 0.
func Parse(birthDate string, ref time.Time) (int, error) {
	if len(birthDate) == 4 {
		year, ok := parseYear(birthDate)
		if !ok {
			return 0, ErrUnparseable
		}
		years := ref.Year() - year
		if years < 0 {
			return 0, ErrInFuture
		}
		return years, nil
	}

	born, err := time.Parse(DateLayout, birthDate)
	if err != nil {
		// unpadded month and day, e.g. 2010-5-1
		if born, err = time.Parse(looseDateLayout, birthDate); err != nil {
			return 0, ErrUnparseable
		}
	}
	days := civilDays(ref) - civilDays(born)
	if days < 0 {
		return 0, ErrInFuture
	}
	return days / daysPerYear, nil
}

func parseYear(raw string) (int, bool) {
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(raw)
	return year, err == nil
}

// civilDays counts days since the Unix epoch for t's calendar date, ignoring clock and zone.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
