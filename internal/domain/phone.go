package domain

import "errors"

// ErrInvalidPhone indicates the phone number failed validation.
var ErrInvalidPhone = errors.New("invalid phone: must contain 10 or 11 digits")

// ValidatePhone strips non-digit characters and accepts 10 or 11 digits
// (landline or mobile with area code). No area-code table is consulted.
func ValidatePhone(s string) error {
	n := len(digitsOnly(s))
	if n != 10 && n != 11 {
		return ErrInvalidPhone
	}
	return nil
}
