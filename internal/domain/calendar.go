package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DayOfYear is a zero-indexed day in a fixed 365-day, non-leap calendar.
type DayOfYear int

// NoDay is the sentinel for "not reached", "not possible" or "unknown".
const NoDay DayOfYear = -1

// DaysInYear is the length of the normals calendar and of a usable series.
const DaysInYear = 365

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Valid reports whether d falls inside the calendar.
func (d DayOfYear) Valid() bool {
	return d >= 0 && d < DaysInYear
}

// Label renders the day as "May 15". Invalid days render as "".
func (d DayOfYear) Label() string {
	m, day, ok := d.monthDay()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s %d", monthNames[m-1], day)
}

// MMDD renders the day as "05-15". Invalid days render as "".
func (d DayOfYear) MMDD() string {
	m, day, ok := d.monthDay()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d-%02d", m, day)
}

func (d DayOfYear) monthDay() (month, day int, ok bool) {
	if !d.Valid() {
		return 0, 0, false
	}
	remaining := int(d)
	for m, dim := range daysInMonth {
		if remaining < dim {
			return m + 1, remaining + 1, true
		}
		remaining -= dim
	}
	return 0, 0, false
}

// ParseMMDD converts a year-independent "MM-DD" date to a day of year.
// Returns NoDay when the string is malformed or lands outside the calendar.
func ParseMMDD(mmdd string) DayOfYear {
	s := strings.TrimSpace(mmdd)
	if len(s) < 5 {
		return NoDay
	}
	return dayFromParts(s[0:2], s[3:5])
}

// ParseDateValue converts a "YYYY-MM-DD" date to a day of year, ignoring
// the year. Day numbers past the end of a month carry into the next month
// (February 29 is March 1), matching a calendar with no leap day.
func ParseDateValue(value string) DayOfYear {
	s := strings.TrimSpace(value)
	if len(s) < 10 {
		return NoDay
	}
	return dayFromParts(s[5:7], s[8:10])
}

// FormatMMDDLong renders "05-15" as "May 15". Malformed input is returned
// trimmed and otherwise unchanged.
func FormatMMDDLong(mmdd string) string {
	s := strings.TrimSpace(mmdd)
	if len(s) < 5 {
		return s
	}
	m, errM := parseTwoDigits(s[0:2])
	d, errD := parseTwoDigits(s[3:5])
	if errM != nil || errD != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return s
	}
	return fmt.Sprintf("%s %d", monthNames[m-1], d)
}

func dayFromParts(monthPart, dayPart string) DayOfYear {
	m, errM := parseTwoDigits(monthPart)
	d, errD := parseTwoDigits(dayPart)
	if errM != nil || errD != nil {
		return NoDay
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return NoDay
	}

	doy := d - 1
	for i := 0; i < m-1; i++ {
		doy += daysInMonth[i]
	}
	if doy > DaysInYear-1 {
		return NoDay
	}
	return DayOfYear(doy)
}

func parseTwoDigits(s string) (int, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, fmt.Errorf("not a two-digit number: %q", s)
	}
	return strconv.Atoi(s)
}
