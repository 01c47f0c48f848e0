package validation

// ProfileFields is the set of editable profile values as plain strings
type ProfileFields struct {
	Nick       string
	Name       string
	Surname1   string
	Surname2   string
	NIF        string
	Email      string
	Phone      string
	PostalCode string
}

// ValidateProfile validates every profile field.
// Nick, name, first surname, NIF and email are mandatory; second surname,
// phone and postal code are checked only when present.
// Returns a slice of validation errors (empty if valid).
func (r Rules) ValidateProfile(p ProfileFields) []error {
	var errs []error

	if err := r.ValidateNick(p.Nick); err != nil {
		errs = append(errs, err)
	}
	if err := r.ValidateName(p.Name); err != nil {
		errs = append(errs, err)
	}
	if err := r.ValidateSurname("surname1", p.Surname1); err != nil {
		errs = append(errs, err)
	}
	if p.Surname2 != "" {
		if err := r.ValidateSurname("surname2", p.Surname2); err != nil {
			errs = append(errs, err)
		}
	}
	if err := ValidateNIF(p.NIF); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateEmail(p.Email); err != nil {
		errs = append(errs, err)
	}
	if p.Phone != "" {
		if err := ValidatePhone(p.Phone); err != nil {
			errs = append(errs, err)
		}
	}
	if p.PostalCode != "" {
		if err := ValidatePostalCode(p.PostalCode); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
