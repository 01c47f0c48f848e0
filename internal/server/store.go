package server

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/validation"
)

var (
	// ErrUnknownUser is returned for ids the store does not hold
	ErrUnknownUser = errors.New("user not found")

	// ErrWrongPassword is returned when the current password does not match
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrUnknownSession is returned for tokens with no open session
	ErrUnknownSession = errors.New("session not found")
)

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

// RejectedError carries field validation failures back to the client
type RejectedError struct {
	Errs []error
}

func (e *RejectedError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Seed is the YAML document the dev backend starts from
type Seed struct {
	Users []SeedUser `yaml:"users"`
}

// SeedUser is one account in the seed file. Passwords are plain text here
// and hashed on load; the seed is for local development only.
type SeedUser struct {
	ID         string `yaml:"id"`
	Token      string `yaml:"token"`
	Password   string `yaml:"password"`
	Nick       string `yaml:"nick"`
	Name       string `yaml:"name"`
	Surname1   string `yaml:"surname1"`
	Surname2   string `yaml:"surname2"`
	NIF        string `yaml:"nif"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	PostalCode string `yaml:"postal_code"`
}

// DefaultSeed returns the single demo account used when no seed file is given
func DefaultSeed() *Seed {
	return &Seed{Users: []SeedUser{{
		ID:       "u-1",
		Token:    "dev-token",
		Password: "abc123",
		Nick:     "anag",
		Name:     "Ana",
		Surname1: "García",
		NIF:      "12345678A",
		Email:    "ana@example.com",
	}}}
}

// LoadSeed reads a seed file from disk
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(seed.Users) == 0 {
		return nil, fmt.Errorf("seed file %s has no users", path)
	}
	return &seed, nil
}

type userRecord struct {
	profile account.Profile
	hash    []byte
}

// Store is the in-memory account database behind the dev backend
type Store struct {
	mu       sync.RWMutex
	rules    validation.Rules
	cost     int
	users    map[string]*userRecord
	sessions map[string]string // token -> user id
}

// NewStore creates an empty store. A cost of 0 uses bcrypt.DefaultCost.
func NewStore(rules validation.Rules, cost int) *Store {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Store{
		rules:    rules.Normalize(),
		cost:     cost,
		users:    make(map[string]*userRecord),
		sessions: make(map[string]string),
	}
}

// Load adds every seed user, generating tokens where the seed has none
func (s *Store) Load(seed *Seed) error {
	for _, u := range seed.Users {
		if u.ID == "" {
			return fmt.Errorf("seed user without id")
		}
		if !validation.IsValidPassword(u.Password) {
			return fmt.Errorf("seed user %s: password must be at least %d characters", u.ID, validation.MinPasswordLength)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.ID, err)
		}

		token := u.Token
		if token == "" {
			token = uuid.NewString()
			logging.Info("Generated session token", zap.String("user_id", u.ID), zap.String("token", token))
		}

		s.mu.Lock()
		s.users[u.ID] = &userRecord{
			profile: account.Profile{
				ID:         u.ID,
				Nick:       u.Nick,
				Name:       u.Name,
				Surname1:   u.Surname1,
				Surname2:   u.Surname2,
				NIF:        u.NIF,
				Email:      u.Email,
				Phone:      u.Phone,
				PostalCode: u.PostalCode,
				UpdatedAt:  time.Now().UTC(),
			},
			hash: hash,
		}
		s.sessions[token] = u.ID
		s.mu.Unlock()
	}
	return nil
}

// Authenticate returns the user that owns token
func (s *Store) Authenticate(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessions[token]
	return id, ok
}

// CloseSession drops token and returns the user it belonged to
func (s *Store) CloseSession(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[token]
	if !ok {
		return "", ErrUnknownSession
	}
	delete(s.sessions, token)
	return id, nil
}

// Profile returns a copy of the stored profile
func (s *Store) Profile(userID string) (account.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[userID]
	if !ok {
		return account.Profile{}, ErrUnknownUser
	}
	return rec.profile, nil
}

// UserIDs returns the stored ids in sorted order
func (s *Store) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UpdateProfile validates and stores update, returning the new profile
func (s *Store) UpdateProfile(update account.ProfileUpdate) (account.Profile, error) {
	if errs := s.rules.ValidateProfile(update.Fields()); len(errs) > 0 {
		return account.Profile{}, &RejectedError{Errs: errs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[update.UserID]
	if !ok {
		return account.Profile{}, ErrUnknownUser
	}
	rec.profile = update.Apply(rec.profile)
	rec.profile.UpdatedAt = time.Now().UTC()
	return rec.profile, nil
}

// ChangePassword replaces the password of userID after checking current
func (s *Store) ChangePassword(userID, current, next string) error {
	if errs := validation.ValidatePasswordChange(current, next, next); len(errs) > 0 {
		return &RejectedError{Errs: errs}
	}
	if len(next) > maxPasswordBytes {
		return &RejectedError{Errs: []error{validation.NewValidationError("new_password",
			fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))}}
	}

	s.mu.RLock()
	rec, ok := s.users[userID]
	var hash []byte
	if ok {
		hash = rec.hash
	}
	s.mu.RUnlock()
	if !ok {
		return ErrUnknownUser
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(current)); err != nil {
		return ErrWrongPassword
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another change may have landed while hashing
	if !bytes.Equal(rec.hash, hash) {
		return ErrWrongPassword
	}
	rec.hash = newHash
	return nil
}
