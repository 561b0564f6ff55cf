// Package validation holds the input checks performed before any
// database work.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is the sentinel all validation failures wrap.
var ErrInvalidInput = errors.New("invalid input")

// Field minimums.
const (
	MinUsernameLen = 3
	MinFullNameLen = 5
	MinPasswordLen = 6
)

// Validator accumulates field errors.
type Validator struct {
	Errors map[string]string
}

// New creates an empty validator.
func New() *Validator {
	return &Validator{Errors: map[string]string{}}
}

// Check records a message under key when ok is false. The first message
// per key wins.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		if _, exists := v.Errors[key]; !exists {
			v.Errors[key] = message
		}
	}
}

// Valid reports whether no check failed.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// Err returns nil when valid, otherwise an error wrapping ErrInvalidInput
// with one of the recorded messages.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	for field, msg := range v.Errors {
		return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, msg)
	}
	return ErrInvalidInput
}

// Profile validates the fields collected at profile completion.
func (v *Validator) Profile(username, fullName, country string) {
	v.Check(len(strings.TrimSpace(username)) >= MinUsernameLen, "username",
		fmt.Sprintf("must be at least %d characters", MinUsernameLen))
	v.Check(len(strings.TrimSpace(fullName)) >= MinFullNameLen, "full_name",
		fmt.Sprintf("must be at least %d characters", MinFullNameLen))
	v.Check(strings.TrimSpace(country) != "", "country", "must be selected")
}

// Registration validates the password-registration payload.
func (v *Validator) Registration(email, password, username, fullName, country string) {
	v.Check(strings.Contains(email, "@"), "email", "must be a valid email address")
	v.Check(len(password) >= MinPasswordLen, "password",
		fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	v.Profile(username, fullName, country)
}
