// Package validation provides input validation for the HTML forms.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets minimum requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	return nil
}

// ValidateName checks a first or last name form field.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(name) > 100 {
		return fmt.Errorf("%s must not exceed 100 characters", field)
	}
	return nil
}

// ParseAge parses the optional age form field. The empty string means the
// user left the field blank: the caller must omit the age column entirely
// rather than writing a zero or a NULL over an existing value.
func ParseAge(raw string) (age int, supplied bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}

	age, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("age must be a number")
	}
	if age < 0 || age > 150 {
		return 0, false, fmt.Errorf("age must be between 0 and 150")
	}
	return age, true, nil
}
