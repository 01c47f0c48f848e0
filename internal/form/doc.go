// Package form holds the editable state of the password and profile forms.
//
// Forms are immutable values. Reduce applies one Event and returns a new
// snapshot; the receiver is never modified, so a screen can keep the previous
// snapshot for comparison. Validity is derived on demand from the current
// values and is never stored.
//
//	f := form.PasswordForm{}
//	f = f.Reduce(form.FieldChanged{Field: form.FieldCurrentPassword, Value: "abc123"})
//	f = f.Reduce(form.FieldChanged{Field: form.FieldNewPassword, Value: "NewPass1"})
//	f = f.Reduce(form.FieldChanged{Field: form.FieldConfirmPassword, Value: "NewPass1"})
//	f.Valid() // true
//
// Profile forms are seeded from an account.Profile snapshot, which is passed
// by value and never retained by pointer.
package form
