// Package validation provides the field validators used by the account forms.
//
// Every predicate is a pure function of its string inputs: no I/O, no shared
// state, same answer for the same input. The form reducer calls them on every
// keystroke, and the CLI and development backend call the error-returning
// Validate* variants before talking to the network.
//
// # Password Rules
//
// A password is "valid" at 6 code points and "strong" at 8 code points with
// at least one digit and one letter. A new password must differ from the
// current one, and its confirmation must be non-empty and equal to it.
// PasswordStrength maps a password onto the 0.0-1.0 scale shown by the
// strength meter.
//
// # Profile Rules
//
//   - Nick: length within Rules.NickMin..Rules.NickMax (default 3..10)
//   - Name, surnames: at least Rules.NameMin code points (default 2)
//   - NIF: 8 digits followed by one uppercase letter
//   - Email: standard address pattern
//   - Phone: exactly 9 digits
//   - Postal code: exactly 5 digits
//
// # Display Status
//
// FieldStatus distinguishes an untouched (empty) field from an invalid one so
// that forms can hold back the inline error until the user has typed
// something. An empty mandatory field still fails aggregate validity.
package validation
