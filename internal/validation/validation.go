package validation

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
	ErrInvalidPIN      = errors.New("PIN must be 4-6 digits")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Email does a structural sanity check; deliverability is not our problem.
func Email(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func Password(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// PIN accepts 4 to 6 digit wallet PINs.
func PIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return ErrInvalidPIN
		}
	}
	return nil
}

// Currency accepts a three-letter uppercase code.
func Currency(code string) error {
	if len(code) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}
