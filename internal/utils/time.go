package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/sagestudy/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateString returns t's calendar date in loc as YYYY-MM-DD.
func DateString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// CalendarDaysBetween returns the number of calendar days from a to b in loc.
// Wall-clock hours are ignored: 23:59 to 00:01 the next day is one day.
func CalendarDaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	// UTC midnights avoid DST making a day 23 or 25 hours long
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// DaysBetweenDates is CalendarDaysBetween for two YYYY-MM-DD strings.
func DaysBetweenDates(from, to string) (int, error) {
	a, err := time.Parse(constants.DateFormat, from)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", from, err)
	}
	b, err := time.Parse(constants.DateFormat, to)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", to, err)
	}
	return CalendarDaysBetween(a, b, time.UTC), nil
}

// ElapsedWholeDays returns floor((now - since) / 24h).
func ElapsedWholeDays(since, now time.Time) int {
	d := now.Sub(since)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
