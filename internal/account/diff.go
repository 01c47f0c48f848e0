package account

import (
	"fmt"
	"strings"

	"github.com/cuenta-app/cuenta/internal/validation"
)

// FieldChange is one differing editable field between two profiles
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// String renders the change as "field: old → new"
func (fc FieldChange) String() string {
	return fmt.Sprintf("%s: %s → %s", fc.Field, display(fc.Old), display(fc.New))
}

// DiffFields lists the editable fields whose value differs, in display order
func DiffFields(old, new validation.ProfileFields) []FieldChange {
	pairs := []struct {
		name     string
		old, new string
	}{
		{"nick", old.Nick, new.Nick},
		{"name", old.Name, new.Name},
		{"surname1", old.Surname1, new.Surname1},
		{"surname2", old.Surname2, new.Surname2},
		{"nif", old.NIF, new.NIF},
		{"email", old.Email, new.Email},
		{"phone", old.Phone, new.Phone},
		{"postal_code", old.PostalCode, new.PostalCode},
	}

	var changes []FieldChange
	for _, p := range pairs {
		if p.old != p.new {
			changes = append(changes, FieldChange{Field: p.name, Old: p.old, New: p.new})
		}
	}
	return changes
}

// DiffProfiles lists the editable fields that differ between two profiles
func DiffProfiles(old, new Profile) []FieldChange {
	return DiffFields(old.Fields(), new.Fields())
}

// ChangedFieldNames returns just the field names of changes
func ChangedFieldNames(changes []FieldChange) []string {
	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.Field
	}
	return names
}

// FormatDiff returns a formatted diff between two profiles
func FormatDiff(old, new Profile) string {
	var b strings.Builder

	b.WriteString("=== Profile Differences ===\n")

	changes := DiffProfiles(old, new)
	if len(changes) == 0 {
		b.WriteString("\n(no differences detected)\n")
		return b.String()
	}

	for _, c := range changes {
		b.WriteString("  " + c.String() + "\n")
	}

	return b.String()
}

func display(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}
