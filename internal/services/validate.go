package services

import (
	"fmt"
	"regexp"
	"time"

	pkgerrors "github.com/stackcare/stackcare-backend/internal/pkg/errors"
)

var (
	// Hours are always two digits. Slot and log times are compared as
	// strings, so "8:00" and "08:00" would never correlate.
	timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	dateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const dateLayout = "2006-01-02"

func validateTimeOfDay(value string) error {
	if !timeOfDayRe.MatchString(value) {
		return fmt.Errorf("%w: invalid time format %q, want HH:MM", pkgerrors.ErrInvalidArgument, value)
	}
	return nil
}

// parseDate validates "YYYY-MM-DD" and returns the day as a naive UTC
// calendar date.
func parseDate(value string) (time.Time, error) {
	if !dateRe.MatchString(value) {
		return time.Time{}, fmt.Errorf("%w: invalid date format %q, want YYYY-MM-DD", pkgerrors.ErrInvalidArgument, value)
	}
	day, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", pkgerrors.ErrInvalidArgument, value)
	}
	return day, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
