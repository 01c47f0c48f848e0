package form

import "github.com/cuenta-app/cuenta/internal/validation"

// PasswordForm is the change-password form snapshot
type PasswordForm struct {
	Current Field
	New     Field
	Confirm Field
}

// PasswordValidity is the derived validation state of a PasswordForm
type PasswordValidity struct {
	Current validation.FieldStatus
	New     validation.FieldStatus
	Confirm validation.FieldStatus

	// SameAsCurrent is set when a typed new password equals the current one
	SameAsCurrent bool

	// Strength is the advisory strength score of the new password
	Strength float64

	// Valid is the aggregate validity, ignoring the pending flag
	Valid bool
}

// Reduce applies e and returns the new snapshot.
// Events for fields outside this form are ignored.
func (f PasswordForm) Reduce(e Event) PasswordForm {
	switch ev := e.(type) {
	case FieldChanged:
		if p := f.field(ev.Field); p != nil {
			p.Value = ev.Value
		}
	case VisibilityToggled:
		if p := f.field(ev.Field); p != nil {
			p.Visible = !p.Visible
		}
	}
	return f
}

// field returns a pointer into the receiver copy
func (f *PasswordForm) field(id FieldID) *Field {
	switch id {
	case FieldCurrentPassword:
		return &f.Current
	case FieldNewPassword:
		return &f.New
	case FieldConfirmPassword:
		return &f.Confirm
	default:
		return nil
	}
}

// Get returns the field with the given id
func (f PasswordForm) Get(id FieldID) (Field, bool) {
	p := f.field(id)
	if p == nil {
		return Field{}, false
	}
	return *p, true
}

// Validity derives the validation state from the current values
func (f PasswordForm) Validity() PasswordValidity {
	cur, next, confirm := f.Current.Value, f.New.Value, f.Confirm.Value

	v := PasswordValidity{
		Current:  validation.StatusOf(cur, validation.IsValidPassword(cur)),
		Strength: validation.PasswordStrength(next),
	}

	different := validation.IsDifferentPassword(cur, next)
	v.SameAsCurrent = next != "" && !different
	v.New = validation.StatusOf(next, validation.IsValidPassword(next) && different)
	v.Confirm = validation.StatusOf(confirm, validation.PasswordsMatch(next, confirm))

	v.Valid = v.Current.Mandatory() && v.New.Mandatory() && v.Confirm.Mandatory()
	return v
}

// Valid reports aggregate validity
func (f PasswordForm) Valid() bool {
	return f.Validity().Valid
}

// CanSubmit reports whether submit should be enabled
func (f PasswordForm) CanSubmit(pending bool) bool {
	return !pending && f.Valid()
}

// Errors lists the validation errors of the current values
func (f PasswordForm) Errors() []error {
	return validation.ValidatePasswordChange(f.Current.Value, f.New.Value, f.Confirm.Value)
}

// ClearSecrets returns a snapshot with every password emptied and hidden
func (f PasswordForm) ClearSecrets() PasswordForm {
	return PasswordForm{}
}
