package form

import (
	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/validation"
)

// ProfileForm is the edit-profile form snapshot
type ProfileForm struct {
	Rules validation.Rules

	Nick       Field
	Name       Field
	Surname1   Field
	Surname2   Field
	NIF        Field
	Email      Field
	Phone      Field
	PostalCode Field
}

// ProfileValidity is the derived validation state of a ProfileForm
type ProfileValidity struct {
	Status map[FieldID]validation.FieldStatus

	// Valid is the aggregate validity, ignoring dirtiness and the pending flag
	Valid bool
}

// ShowError reports whether an inline error should be rendered for id
func (v ProfileValidity) ShowError(id FieldID) bool {
	return v.Status[id].ShowError()
}

// NewProfileForm creates a form pre-populated from snapshot with the default rules
func NewProfileForm(snapshot account.Profile) ProfileForm {
	return ProfileForm{Rules: validation.DefaultRules()}.Reduce(SnapshotLoaded{Profile: snapshot})
}

// WithRules returns a copy validated against r
func (f ProfileForm) WithRules(r validation.Rules) ProfileForm {
	f.Rules = r.Normalize()
	return f
}

// Reduce applies e and returns the new snapshot.
// Events for fields outside this form are ignored.
func (f ProfileForm) Reduce(e Event) ProfileForm {
	switch ev := e.(type) {
	case FieldChanged:
		if p := f.field(ev.Field); p != nil {
			p.Value = ev.Value
		}
	case VisibilityToggled:
		// no secret fields
	case SnapshotLoaded:
		p := ev.Profile
		f.Nick = Field{Value: p.Nick}
		f.Name = Field{Value: p.Name}
		f.Surname1 = Field{Value: p.Surname1}
		f.Surname2 = Field{Value: p.Surname2}
		f.NIF = Field{Value: p.NIF}
		f.Email = Field{Value: p.Email}
		f.Phone = Field{Value: p.Phone}
		f.PostalCode = Field{Value: p.PostalCode}
	}
	return f
}

func (f *ProfileForm) field(id FieldID) *Field {
	switch id {
	case FieldNick:
		return &f.Nick
	case FieldName:
		return &f.Name
	case FieldSurname1:
		return &f.Surname1
	case FieldSurname2:
		return &f.Surname2
	case FieldNIF:
		return &f.NIF
	case FieldEmail:
		return &f.Email
	case FieldPhone:
		return &f.Phone
	case FieldPostalCode:
		return &f.PostalCode
	default:
		return nil
	}
}

// Get returns the field with the given id
func (f ProfileForm) Get(id FieldID) (Field, bool) {
	p := f.field(id)
	if p == nil {
		return Field{}, false
	}
	return *p, true
}

// Mandatory reports whether a profile field must be filled in
func Mandatory(id FieldID) bool {
	switch id {
	case FieldNick, FieldName, FieldSurname1, FieldNIF, FieldEmail:
		return true
	default:
		return false
	}
}

// Validity derives the validation state from the current values
func (f ProfileForm) Validity() ProfileValidity {
	r := f.Rules.Normalize()

	checks := map[FieldID]bool{
		FieldNick:       r.IsValidNick(f.Nick.Value),
		FieldName:       r.IsValidName(f.Name.Value),
		FieldSurname1:   r.IsValidSurname(f.Surname1.Value),
		FieldSurname2:   r.IsValidSurname(f.Surname2.Value),
		FieldNIF:        validation.IsValidNIF(f.NIF.Value),
		FieldEmail:      validation.IsValidEmail(f.Email.Value),
		FieldPhone:      validation.IsValidPhone(f.Phone.Value),
		FieldPostalCode: validation.IsValidPostalCode(f.PostalCode.Value),
	}

	v := ProfileValidity{
		Status: make(map[FieldID]validation.FieldStatus, len(checks)),
		Valid:  true,
	}
	for _, id := range ProfileFields {
		field, _ := f.Get(id)
		status := validation.StatusOf(field.Value, checks[id])
		v.Status[id] = status

		if Mandatory(id) {
			v.Valid = v.Valid && status.Mandatory()
		} else {
			v.Valid = v.Valid && status.Optional()
		}
	}

	return v
}

// Valid reports aggregate validity
func (f ProfileForm) Valid() bool {
	return f.Validity().Valid
}

// Values returns the current field values
func (f ProfileForm) Values() validation.ProfileFields {
	return validation.ProfileFields{
		Nick:       f.Nick.Value,
		Name:       f.Name.Value,
		Surname1:   f.Surname1.Value,
		Surname2:   f.Surname2.Value,
		NIF:        f.NIF.Value,
		Email:      f.Email.Value,
		Phone:      f.Phone.Value,
		PostalCode: f.PostalCode.Value,
	}
}

// Dirty reports whether any value differs from snapshot
func (f ProfileForm) Dirty(snapshot account.Profile) bool {
	return f.Values() != snapshot.Fields()
}

// Changed lists the fields whose value differs from snapshot
func (f ProfileForm) Changed(snapshot account.Profile) []FieldID {
	var changed []FieldID
	orig := NewProfileForm(snapshot)
	for _, id := range ProfileFields {
		a, _ := f.Get(id)
		b, _ := orig.Get(id)
		if a.Value != b.Value {
			changed = append(changed, id)
		}
	}
	return changed
}

// CanSubmit reports whether submit should be enabled
func (f ProfileForm) CanSubmit(snapshot account.Profile, pending bool) bool {
	return !pending && f.Valid() && f.Dirty(snapshot)
}

// Errors lists the validation errors of the current values
func (f ProfileForm) Errors() []error {
	return f.Rules.Normalize().ValidateProfile(f.Values())
}

// Update builds the backend update for userID from the current values
func (f ProfileForm) Update(userID string) account.ProfileUpdate {
	return account.ProfileUpdate{
		UserID:     userID,
		Nick:       f.Nick.Value,
		Name:       f.Name.Value,
		Surname1:   f.Surname1.Value,
		Surname2:   f.Surname2.Value,
		NIF:        f.NIF.Value,
		Email:      f.Email.Value,
		Phone:      f.Phone.Value,
		PostalCode: f.PostalCode.Value,
	}
}
