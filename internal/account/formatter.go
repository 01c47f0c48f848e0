package account

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the profile
func (p *Profile) Summary() string {
	return fmt.Sprintf("%s · %s · %s", p.Nick, p.FullName(), p.Email)
}

// FormatIdentity returns the identity section of the profile
func (p *Profile) FormatIdentity() string {
	var b strings.Builder

	b.WriteString("=== Identity ===\n")
	b.WriteString(fmt.Sprintf("Nickname:       %s\n", p.Nick))
	b.WriteString(fmt.Sprintf("Name:           %s\n", p.Name))
	b.WriteString(fmt.Sprintf("First surname:  %s\n", p.Surname1))
	b.WriteString(fmt.Sprintf("Second surname: %s\n", orNone(p.Surname2)))
	b.WriteString(fmt.Sprintf("NIF:            %s\n", p.NIF))

	return b.String()
}

// FormatContact returns the contact section of the profile
func (p *Profile) FormatContact() string {
	var b strings.Builder

	b.WriteString("=== Contact ===\n")
	b.WriteString(fmt.Sprintf("Email:       %s\n", p.Email))
	b.WriteString(fmt.Sprintf("Phone:       %s\n", orNone(p.Phone)))
	b.WriteString(fmt.Sprintf("Postal code: %s\n", orNone(p.PostalCode)))

	return b.String()
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (p *Profile) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("User:    %s (%s)\n", p.Nick, p.ID))
	b.WriteString(fmt.Sprintf("Name:    %s\n", p.FullName()))
	b.WriteString(fmt.Sprintf("NIF:     %s\n", p.NIF))
	b.WriteString(fmt.Sprintf("Email:   %s\n", p.Email))
	if p.Phone != "" || p.PostalCode != "" {
		b.WriteString(fmt.Sprintf("Contact: %s / %s\n", orNone(p.Phone), orNone(p.PostalCode)))
	}

	return b.String()
}

// FormatDetailed returns a comprehensive formatted string with every profile field
func (p *Profile) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║                        ACCOUNT PROFILE                         ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n")
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("User ID: %s\n", p.ID))
	if !p.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated: %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04:05")))
	}
	b.WriteString("\n")
	b.WriteString(p.FormatIdentity())
	b.WriteString("\n")
	b.WriteString(p.FormatContact())

	return b.String()
}

// FormatChanges returns a formatted string showing what an update will change
func (u ProfileUpdate) FormatChanges(current Profile) string {
	var b strings.Builder

	b.WriteString("=== Profile Changes ===\n")

	changes := DiffFields(current.Fields(), u.Fields())
	if len(changes) == 0 {
		b.WriteString("(no changes specified)\n")
		return b.String()
	}

	for _, c := range changes {
		b.WriteString("  " + c.String() + "\n")
	}

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
