package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes a single field that failed its predicate
type ValidationError struct {
	Field   string // Field identifier (e.g. "nick", "new_password")
	Message string // Human-readable reason
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error (or anything it wraps) is a ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ValidateNick validates a nickname against the rules
func (r Rules) ValidateNick(nick string) error {
	if !r.IsValidNick(nick) {
		return NewValidationError("nick", fmt.Sprintf("must be %d-%d characters, got %d", r.NickMin, r.NickMax, length(nick)))
	}
	return nil
}

// ValidateName validates a first name
func (r Rules) ValidateName(name string) error {
	if !r.IsValidName(name) {
		return NewValidationError("name", fmt.Sprintf("must be at least %d characters", r.NameMin))
	}
	return nil
}

// ValidateSurname validates a surname; field names the surname slot
func (r Rules) ValidateSurname(field, surname string) error {
	if !r.IsValidSurname(surname) {
		return NewValidationError(field, fmt.Sprintf("must be at least %d characters", r.NameMin))
	}
	return nil
}

// ValidateNIF validates a national ID number
func ValidateNIF(nif string) error {
	if !IsValidNIF(nif) {
		return NewValidationError("nif", "must be 8 digits followed by an uppercase letter")
	}
	return nil
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !IsValidEmail(email) {
		return NewValidationError("email", fmt.Sprintf("'%s' is not a valid email address", email))
	}
	return nil
}

// ValidatePhone validates a phone number
func ValidatePhone(phone string) error {
	if !IsValidPhone(phone) {
		return NewValidationError("phone", "must be exactly 9 digits")
	}
	return nil
}

// ValidatePostalCode validates a postal code
func ValidatePostalCode(code string) error {
	if !IsValidPostalCode(code) {
		return NewValidationError("postal_code", "must be exactly 5 digits")
	}
	return nil
}

// ValidatePasswordChange validates a complete password change.
// Returns a slice of validation errors (empty if valid).
func ValidatePasswordChange(current, next, confirm string) []error {
	var errs []error

	if !IsValidPassword(current) {
		errs = append(errs, NewValidationError("current_password", fmt.Sprintf("must be at least %d characters", MinPasswordLength)))
	}
	if !IsValidPassword(next) {
		errs = append(errs, NewValidationError("new_password", fmt.Sprintf("must be at least %d characters", MinPasswordLength)))
	}
	if !IsDifferentPassword(current, next) {
		errs = append(errs, NewValidationError("new_password", "must differ from the current password"))
	}
	if !PasswordsMatch(next, confirm) {
		errs = append(errs, NewValidationError("confirm_password", "does not match the new password"))
	}

	return errs
}

// FormatValidationErrors formats a slice of validation errors into a user-friendly message
func FormatValidationErrors(errs []error) string {
	if len(errs) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Validation failed with %d error(s):\n", len(errs)))

	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}

	return sb.String()
}
