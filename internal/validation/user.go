// Package validation holds input validation helpers shared by services.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

var reservedUsernames = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"aura":     {},
	"settings": {},
	"users":    {},
	"posts":    {},
	"lists":    {},
	"friends":  {},
	"ws":       {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only lowercase letters, numbers, and underscores")
	}
	if _, exists := reservedUsernames[username]; exists {
		return fmt.Errorf("username is reserved")
	}
	return nil
}

// ValidateEmail checks that the address parses per RFC 5322.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy: at least 8
// characters with one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateListName validates a list's display name.
func ValidateListName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 1 || len(trimmed) > 60 {
		return fmt.Errorf("list name must be 1-60 characters")
	}
	return nil
}
