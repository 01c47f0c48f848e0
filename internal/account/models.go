package account

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cuenta-app/cuenta/internal/validation"
)

// Profile is the account record returned by GET /v1/users/{id}/profile.
// The client treats it as a read-only snapshot: screens copy values out of it
// and compare against it, they never modify it in place.
type Profile struct {
	ID string `json:"id"` // Opaque user identifier

	// Identity
	Nick     string `json:"nick"`               // Display nickname
	Name     string `json:"name"`               // First name
	Surname1 string `json:"surname1"`           // First surname (mandatory)
	Surname2 string `json:"surname2,omitempty"` // Second surname (optional)
	NIF      string `json:"nif"`                // National ID number

	// Contact
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`

	UpdatedAt time.Time `json:"updated_at"` // Last modification time on the backend
}

// ProfileUpdate is the body of PUT /v1/users/{id}/profile.
// Every editable field is sent; the backend replaces the stored values.
type ProfileUpdate struct {
	UserID string `json:"-"`

	Nick       string `json:"nick"`
	Name       string `json:"name"`
	Surname1   string `json:"surname1"`
	Surname2   string `json:"surname2"`
	NIF        string `json:"nif"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
}

// PasswordChange is the body of POST /v1/users/{id}/password
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Envelope is the response wrapper for every mutating endpoint
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Profile *Profile `json:"profile,omitempty"`
}

// EventType identifies what happened to a profile
type EventType string

const (
	// EventProfileUpdated is sent after a successful profile update
	EventProfileUpdated EventType = "profile_updated"
	// EventPasswordChanged is sent after a successful password change
	EventPasswordChanged EventType = "password_changed"
	// EventSignedOut is sent when the session is closed
	EventSignedOut EventType = "signed_out"
)

// ProfileEvent is a single frame on the /v1/users/{id}/events stream
type ProfileEvent struct {
	Type    EventType `json:"type"`
	UserID  string    `json:"user_id"`
	Profile *Profile  `json:"profile,omitempty"`
	At      time.Time `json:"at"`
}

// ParseProfile decodes a profile document
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("profile has no id")
	}
	return &p, nil
}

// Fields returns the editable values of the profile
func (p Profile) Fields() validation.ProfileFields {
	return validation.ProfileFields{
		Nick:       p.Nick,
		Name:       p.Name,
		Surname1:   p.Surname1,
		Surname2:   p.Surname2,
		NIF:        p.NIF,
		Email:      p.Email,
		Phone:      p.Phone,
		PostalCode: p.PostalCode,
	}
}

// Fields returns the editable values carried by the update
func (u ProfileUpdate) Fields() validation.ProfileFields {
	return validation.ProfileFields{
		Nick:       u.Nick,
		Name:       u.Name,
		Surname1:   u.Surname1,
		Surname2:   u.Surname2,
		NIF:        u.NIF,
		Email:      u.Email,
		Phone:      u.Phone,
		PostalCode: u.PostalCode,
	}
}

// Apply returns a copy of p with the update's values
func (u ProfileUpdate) Apply(p Profile) Profile {
	p.Nick = u.Nick
	p.Name = u.Name
	p.Surname1 = u.Surname1
	p.Surname2 = u.Surname2
	p.NIF = u.NIF
	p.Email = u.Email
	p.Phone = u.Phone
	p.PostalCode = u.PostalCode
	return p
}

// UpdateFromProfile builds an update that would leave p unchanged
func UpdateFromProfile(p Profile) ProfileUpdate {
	return ProfileUpdate{
		UserID:     p.ID,
		Nick:       p.Nick,
		Name:       p.Name,
		Surname1:   p.Surname1,
		Surname2:   p.Surname2,
		NIF:        p.NIF,
		Email:      p.Email,
		Phone:      p.Phone,
		PostalCode: p.PostalCode,
	}
}

// FullName joins name and surnames, skipping empty parts
func (p Profile) FullName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.Surname1, p.Surname2} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// String returns a one-line summary of the profile
func (p Profile) String() string {
	return fmt.Sprintf("%s (%s) <%s>", p.Nick, p.FullName(), p.Email)
}
