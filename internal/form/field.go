package form

import "github.com/cuenta-app/cuenta/internal/account"

// FieldID identifies a form field
type FieldID int

const (
	FieldCurrentPassword FieldID = iota
	FieldNewPassword
	FieldConfirmPassword
	FieldNick
	FieldName
	FieldSurname1
	FieldSurname2
	FieldNIF
	FieldEmail
	FieldPhone
	FieldPostalCode
)

// String returns the field key used in validation messages
func (f FieldID) String() string {
	switch f {
	case FieldCurrentPassword:
		return "current_password"
	case FieldNewPassword:
		return "new_password"
	case FieldConfirmPassword:
		return "confirm_password"
	case FieldNick:
		return "nick"
	case FieldName:
		return "name"
	case FieldSurname1:
		return "surname1"
	case FieldSurname2:
		return "surname2"
	case FieldNIF:
		return "nif"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone"
	case FieldPostalCode:
		return "postal_code"
	default:
		return "unknown"
	}
}

// Label returns the display label of a field
func (f FieldID) Label() string {
	switch f {
	case FieldCurrentPassword:
		return "Current password"
	case FieldNewPassword:
		return "New password"
	case FieldConfirmPassword:
		return "Confirm new password"
	case FieldNick:
		return "Nickname"
	case FieldName:
		return "Name"
	case FieldSurname1:
		return "First surname"
	case FieldSurname2:
		return "Second surname"
	case FieldNIF:
		return "NIF"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone"
	case FieldPostalCode:
		return "Postal code"
	default:
		return "Unknown"
	}
}

// Secret reports whether the field holds a password
func (f FieldID) Secret() bool {
	return f == FieldCurrentPassword || f == FieldNewPassword || f == FieldConfirmPassword
}

// PasswordFields lists the password form fields in display order
var PasswordFields = []FieldID{FieldCurrentPassword, FieldNewPassword, FieldConfirmPassword}

// ProfileFields lists the profile form fields in display order
var ProfileFields = []FieldID{
	FieldNick, FieldName, FieldSurname1, FieldSurname2,
	FieldNIF, FieldEmail, FieldPhone, FieldPostalCode,
}

// Field is a single input value. Visible only matters for secrets.
type Field struct {
	Value   string
	Visible bool
}

// Event is an input to a form reducer
type Event interface {
	isEvent()
}

// FieldChanged replaces the value of a field
type FieldChanged struct {
	Field FieldID
	Value string
}

// VisibilityToggled flips the visibility of a secret field
type VisibilityToggled struct {
	Field FieldID
}

// SnapshotLoaded replaces every profile field with the snapshot's values
type SnapshotLoaded struct {
	Profile account.Profile
}

func (FieldChanged) isEvent()      {}
func (VisibilityToggled) isEvent() {}
func (SnapshotLoaded) isEvent()    {}
