package domain

import (
	"errors"
	"regexp"
	"time"
)

var birthDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// ErrInvalidBirthDate indicates the birth date failed validation.
var ErrInvalidBirthDate = errors.New("invalid birth date: must be a real DD/MM/YYYY date, not in the future, year >= 1900")

// ValidateBirthDate checks a birth date in the literal DD/MM/YYYY layout.
// The constructed calendar date must round-trip exactly, which rejects
// overflow dates such as 31/04 that time.Date would normalize into the next
// month. Dates after now and years before 1900 are rejected. The current
// time is a parameter so callers can pass the request-scoped clock.
func ValidateBirthDate(s string, now time.Time) error {
	m := birthDatePattern.FindStringSubmatch(s)
	if m == nil {
		return ErrInvalidBirthDate
	}
	day := atoi2(m[1])
	month := atoi2(m[2])
	year := atoi4(m[3])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return ErrInvalidBirthDate
	}
	if year < 1900 {
		return ErrInvalidBirthDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return ErrInvalidBirthDate
	}
	return nil
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

func atoi4(s string) int {
	n := 0
	for i := 0; i < 4; i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
