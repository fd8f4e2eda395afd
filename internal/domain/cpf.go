// Package domain provides the shared kernel for identity resolution.
//
// It contains only pure value objects and functions with no I/O, no
// context.Context, and no time.Now() calls. Time is always received as a
// parameter from the application layer.
package domain

import (
	"errors"
	"strings"
)

// CPF is a validated Brazilian taxpayer number: exactly 11 digits with two
// checksum digits, derived once from raw user input by stripping every
// non-digit character.
//
// Invariants:
//   - Exactly 11 digits
//   - Not all digits identical (known invalid pattern)
//   - Both check digits match the weighted mod-11 algorithm
type CPF struct {
	value string
}

// ErrInvalidCPF indicates the CPF failed structural or checksum validation.
var ErrInvalidCPF = errors.New("invalid CPF: must be 11 digits with valid check digits")

// NewCPF cleans raw input and validates it as a CPF.
func NewCPF(raw string) (CPF, error) {
	cleaned := digitsOnly(raw)
	if !validCPF(cleaned) {
		return CPF{}, ErrInvalidCPF
	}
	return CPF{value: cleaned}, nil
}

// MustCPF creates a CPF, panicking if invalid.
// Use only in tests or when the value is known to be valid.
func MustCPF(raw string) CPF {
	cpf, err := NewCPF(raw)
	if err != nil {
		panic(err)
	}
	return cpf
}

// String returns the cleaned 11-digit value.
func (c CPF) String() string {
	return c.value
}

// IsZero returns true if this is the zero value (uninitialized).
func (c CPF) IsZero() bool {
	return c.value == ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validCPF(s string) bool {
	if len(s) != 11 {
		return false
	}
	if allSameDigit(s) {
		return false
	}
	if checkDigit(s, 9) != int(s[9]-'0') {
		return false
	}
	return checkDigit(s, 10) == int(s[10]-'0')
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkDigit computes the check digit over the first n digits, with weights
// n+1 down to 2. A remainder of 10 or 11 maps to 0.
func checkDigit(s string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(s[i]-'0') * (n + 1 - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}
