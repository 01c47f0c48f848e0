package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	// MinPasswordLength is the minimum length for a password to be valid
	MinPasswordLength = 6

	// StrongPasswordLength is the minimum length for a strong password
	StrongPasswordLength = 8

	// VeryStrongPasswordLength is the length at which a password with
	// digits, letters and symbols reaches full strength
	VeryStrongPasswordLength = 12

	// DefaultNickMin is the default minimum nickname length
	DefaultNickMin = 3

	// DefaultNickMax is the default maximum nickname length
	DefaultNickMax = 10

	// DefaultNameMin is the default minimum length for names and surnames
	DefaultNameMin = 2
)

var (
	nifPattern        = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)
	phonePattern      = regexp.MustCompile(`^[0-9]{9}$`)
	postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

	// emailPattern mirrors the address pattern mobile platforms ship with
	emailPattern = regexp.MustCompile(
		`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`,
	)
)

// Rules holds the configurable bounds for profile fields.
// The two screen generations disagree on these, so they are data, not constants.
type Rules struct {
	NickMin int `yaml:"nick_min"`
	NickMax int `yaml:"nick_max"`
	NameMin int `yaml:"name_min"`
}

// DefaultRules returns the ruleset used when nothing is configured
func DefaultRules() Rules {
	return Rules{
		NickMin: DefaultNickMin,
		NickMax: DefaultNickMax,
		NameMin: DefaultNameMin,
	}
}

// Normalize fills zero values with defaults and swaps inverted nick bounds
func (r Rules) Normalize() Rules {
	d := DefaultRules()
	if r.NickMin <= 0 {
		r.NickMin = d.NickMin
	}
	if r.NickMax <= 0 {
		r.NickMax = d.NickMax
	}
	if r.NickMin > r.NickMax {
		r.NickMin, r.NickMax = r.NickMax, r.NickMin
	}
	if r.NameMin <= 0 {
		r.NameMin = d.NameMin
	}
	return r
}

// IsValidNick reports whether the nickname length is within the rule bounds
func (r Rules) IsValidNick(nick string) bool {
	n := length(nick)
	return n >= r.NickMin && n <= r.NickMax
}

// IsValidName reports whether a first name is long enough
func (r Rules) IsValidName(name string) bool {
	return length(name) >= r.NameMin
}

// IsValidSurname reports whether a surname is long enough.
// Whether the surname is mandatory is decided by the form, not here.
func (r Rules) IsValidSurname(surname string) bool {
	return length(surname) >= r.NameMin
}

// IsValidPassword reports whether a password meets the minimum length
func IsValidPassword(password string) bool {
	return length(password) >= MinPasswordLength
}

// IsStrongPassword reports whether a password is at least 8 long and mixes
// letters and digits
func IsStrongPassword(password string) bool {
	if length(password) < StrongPasswordLength {
		return false
	}
	c := classify(password)
	return c.digit && c.letter
}

// IsDifferentPassword reports whether the new password is non-empty and
// differs from the current one
func IsDifferentPassword(current, next string) bool {
	return next != "" && next != current
}

// PasswordsMatch reports whether the confirmation is non-empty and equals the new password
func PasswordsMatch(next, confirm string) bool {
	return confirm != "" && confirm == next
}

// PasswordStrength scores a password on a 0.0-1.0 scale
func PasswordStrength(password string) float64 {
	c := classify(password)
	switch {
	case length(password) >= VeryStrongPasswordLength && c.digit && c.letter && c.symbol:
		return 1.0
	case IsStrongPassword(password):
		return 0.7
	case IsValidPassword(password):
		return 0.4
	default:
		return 0.2
	}
}

// StrengthLabel returns a short description for a PasswordStrength score
func StrengthLabel(score float64) string {
	switch {
	case score >= 1.0:
		return "very strong"
	case score >= 0.7:
		return "strong"
	case score >= 0.4:
		return "fair"
	default:
		return "weak"
	}
}

// IsValidNick checks a nickname against the default rules
func IsValidNick(nick string) bool {
	return DefaultRules().IsValidNick(nick)
}

// IsValidName checks a first name against the default rules
func IsValidName(name string) bool {
	return DefaultRules().IsValidName(name)
}

// IsValidSurname checks a surname against the default rules
func IsValidSurname(surname string) bool {
	return DefaultRules().IsValidSurname(surname)
}

// IsValidNIF reports whether s is 8 digits followed by an uppercase letter
func IsValidNIF(s string) bool {
	return nifPattern.MatchString(s)
}

// IsValidEmail reports whether s looks like an email address
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s is exactly 9 digits
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsValidPostalCode reports whether s is exactly 5 digits
func IsValidPostalCode(s string) bool {
	return postalCodePattern.MatchString(s)
}

type charClasses struct {
	digit  bool
	letter bool
	symbol bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			c.digit = true
		case unicode.IsLetter(r):
			c.letter = true
		default:
			c.symbol = true
		}
	}
	return c
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
