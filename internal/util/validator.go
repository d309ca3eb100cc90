package util

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 64

	// the fixed symbol set accepted by the password policy
	passwordSymbols = "@#$%.&+=!?-_"
)

// NormalizeEmail lowercases and trims an email for case-insensitive storage
// and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks basic email syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email must be valid")
	}
	return nil
}

// ValidatePassword enforces the registration password policy: 8-64 chars
// with at least one uppercase letter, one lowercase letter, one digit and
// one symbol from the fixed set.
func ValidatePassword(pwd string) error {
	if len(pwd) < passwordMinLen || len(pwd) > passwordMaxLen {
		return fmt.Errorf("password must be %d-%d characters", passwordMinLen, passwordMaxLen)
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, ch):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return fmt.Errorf("password must include uppercase, lowercase, digit and one of %s", passwordSymbols)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string and returns the parsed time.
func ValidateDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return t, nil
}
