package account

import (
	"strings"
	"testing"
	"time"
)

func testProfile() *Profile {
	return &Profile{
		ID:         "u-1",
		Nick:       "anag",
		Name:       "Ana",
		Surname1:   "García",
		Surname2:   "López",
		NIF:        "12345678A",
		Email:      "ana@example.com",
		Phone:      "612345678",
		PostalCode: "28001",
		UpdatedAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestFullName(t *testing.T) {
	p := testProfile()
	if p.FullName() != "Ana García López" {
		t.Errorf("FullName() = %q", p.FullName())
	}

	p.Surname2 = ""
	if p.FullName() != "Ana García" {
		t.Errorf("FullName() without second surname = %q", p.FullName())
	}
}

func TestFormatCompact(t *testing.T) {
	out := testProfile().FormatCompact()

	for _, want := range []string{"anag (u-1)", "Ana García López", "12345678A", "ana@example.com", "612345678 / 28001"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatCompact() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact_NoContactLine(t *testing.T) {
	p := testProfile()
	p.Phone = ""
	p.PostalCode = ""

	if strings.Contains(p.FormatCompact(), "Contact:") {
		t.Error("contact line should be omitted when both fields are empty")
	}
}

func TestFormatDetailed(t *testing.T) {
	out := testProfile().FormatDetailed()

	for _, want := range []string{"ACCOUNT PROFILE", "=== Identity ===", "=== Contact ===", "Second surname: López", "Postal code: 28001"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDetailed() missing %q", want)
		}
	}
}

func TestFormatDetailed_EmptyOptionalFields(t *testing.T) {
	p := testProfile()
	p.Surname2 = ""
	p.Phone = ""

	out := p.FormatDetailed()
	if !strings.Contains(out, "Second surname: (none)") || !strings.Contains(out, "Phone:       (none)") {
		t.Errorf("empty optional fields should render as (none):\n%s", out)
	}
}

func TestFormatChanges(t *testing.T) {
	p := testProfile()
	update := UpdateFromProfile(*p)

	if !strings.Contains(update.FormatChanges(*p), "(no changes specified)") {
		t.Error("identical update should report no changes")
	}

	update.Email = "ana@new.example.com"
	update.Phone = ""
	out := update.FormatChanges(*p)
	if !strings.Contains(out, "email: ana@example.com → ana@new.example.com") {
		t.Errorf("missing email change:\n%s", out)
	}
	if !strings.Contains(out, "phone: 612345678 → (empty)") {
		t.Errorf("missing phone change:\n%s", out)
	}
}
