// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Limits on user-supplied text.
const (
	MinPasswordLength    = 6
	MaxPasswordLength    = 72 // bcrypt ignores bytes past 72
	MaxDisplayNameLength = 50
	MaxEmailLength       = 254
	MaxPostBodyLength    = 5000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks the password length in bytes.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLength)
	}
	return nil
}

// NormalizeText applies NFC normalization and trims surrounding whitespace.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// ValidateDisplayName checks an already normalized display name.
func ValidateDisplayName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return fmt.Errorf("display name is required")
	}
	if n > MaxDisplayNameLength {
		return fmt.Errorf("display name must not exceed %d characters", MaxDisplayNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("display name must not contain control characters")
		}
	}
	return nil
}

// ValidatePostBody checks an already normalized post body.
func ValidatePostBody(body string) error {
	if body == "" {
		return fmt.Errorf("post body is required")
	}
	if !utf8.ValidString(body) {
		return fmt.Errorf("post body must be valid UTF-8")
	}
	if utf8.RuneCountInString(body) > MaxPostBodyLength {
		return fmt.Errorf("post body must not exceed %d characters", MaxPostBodyLength)
	}
	return nil
}
