package account

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiffProfiles(t *testing.T) {
	old := *testProfile()
	new := old
	new.Nick = "ana2"
	new.PostalCode = ""
	new.UpdatedAt = old.UpdatedAt.Add(1)

	want := []FieldChange{
		{Field: "nick", Old: "anag", New: "ana2"},
		{Field: "postal_code", Old: "28001", New: ""},
	}

	if diff := cmp.Diff(want, DiffProfiles(old, new)); diff != "" {
		t.Errorf("DiffProfiles() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"nick", "postal_code"}, ChangedFieldNames(want)); diff != "" {
		t.Errorf("ChangedFieldNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffProfiles_IgnoresNonEditable(t *testing.T) {
	old := *testProfile()
	new := old
	new.ID = "other"
	new.UpdatedAt = new.UpdatedAt.Add(1)

	if changes := DiffProfiles(old, new); len(changes) != 0 {
		t.Errorf("DiffProfiles() = %v, want none", changes)
	}
}

func TestFormatDiff(t *testing.T) {
	old := *testProfile()

	if got := FormatDiff(old, old); got != "=== Profile Differences ===\n\n(no differences detected)\n" {
		t.Errorf("FormatDiff(same) = %q", got)
	}

	new := old
	new.Name = "Anna"
	want := "=== Profile Differences ===\n  name: Ana → Anna\n"
	if got := FormatDiff(old, new); got != want {
		t.Errorf("FormatDiff() = %q, want %q", got, want)
	}
}
