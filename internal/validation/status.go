package validation

// FieldStatus is the display state of a single field
type FieldStatus int

const (
	// StatusEmpty means nothing has been typed yet; no error is shown
	StatusEmpty FieldStatus = iota
	// StatusValid means the value passes its predicate
	StatusValid
	// StatusInvalid means the value was typed and fails its predicate
	StatusInvalid
)

// String returns a human-readable name for the status
func (s FieldStatus) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// StatusOf derives the display status of a value from its predicate result
func StatusOf(value string, ok bool) FieldStatus {
	if value == "" {
		return StatusEmpty
	}
	if ok {
		return StatusValid
	}
	return StatusInvalid
}

// ShowError reports whether an inline error should be rendered
func (s FieldStatus) ShowError() bool {
	return s == StatusInvalid
}

// Mandatory reports whether a mandatory field with this status passes.
// Empty mandatory fields fail even though they show no error.
func (s FieldStatus) Mandatory() bool {
	return s == StatusValid
}

// Optional reports whether an optional field with this status passes
func (s FieldStatus) Optional() bool {
	return s != StatusInvalid
}
