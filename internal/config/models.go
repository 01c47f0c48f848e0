package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/cuenta-app/cuenta/internal/validation"
)

// DefaultServerName is the entry used when the user never named a server
const DefaultServerName = "default"

// Registry represents the entire user configuration file
type Registry struct {
	Version     int                `yaml:"version"`
	Current     string             `yaml:"current,omitempty"` // Name of the active server
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by user-chosen name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
	Rules       *validation.Rules  `yaml:"rules,omitempty"` // Profile validation bounds
}

// Server is one account backend the user has configured or discovered
type Server struct {
	URL      string    `yaml:"url"`                 // Base URL, e.g. http://localhost:8420
	UserID   string    `yaml:"user_id,omitempty"`   // Account to manage on this server
	Source   string    `yaml:"source,omitempty"`    // "manual" or "mdns"
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery or successful request
	// Tokens are NEVER stored in the config file
}

// Preferences represents application-wide user preferences
type Preferences struct {
	AutoDiscover    bool   `yaml:"auto_discover"`    // Browse mDNS when no server is configured
	DiscoverTimeout int    `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	OutputFormat    string `yaml:"output_format"`    // detailed, compact or json
	VerifyUpdates   bool   `yaml:"verify_updates"`   // Read back profile after CLI edits
}

// OutputFormats lists the accepted values for Preferences.OutputFormat
var OutputFormats = []string{"detailed", "compact", "json"}

// DefaultPreferences returns the preferences used for a new registry
func DefaultPreferences() *Preferences {
	return &Preferences{
		AutoDiscover:    true,
		DiscoverTimeout: 5,
		OutputFormat:    "detailed",
		VerifyUpdates:   true,
	}
}

// NewRegistry creates a new Registry with default values
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Servers:     make(map[string]*Server),
		Preferences: DefaultPreferences(),
	}
}

// GetServer retrieves a server by name.
// Returns nil if the server doesn't exist in the registry.
func (r *Registry) GetServer(name string) *Server {
	return r.Servers[name]
}

// EnsureServer ensures a server entry exists and returns it
func (r *Registry) EnsureServer(name string) *Server {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}

	if s, exists := r.Servers[name]; exists {
		return s
	}

	s := &Server{Source: "manual"}
	r.Servers[name] = s
	return s
}

// SetServer creates or updates a manually configured server.
// The first server added becomes the active one.
func (r *Registry) SetServer(name, url, userID string) *Server {
	s := r.EnsureServer(name)
	s.URL = url
	s.Source = "manual"
	if userID != "" {
		s.UserID = userID
	}
	if r.Current == "" {
		r.Current = name
	}
	return s
}

// RecordDiscovered stores a server found over mDNS without touching its user
func (r *Registry) RecordDiscovered(name, url string) *Server {
	s := r.EnsureServer(name)
	if s.URL == "" || s.Source == "mdns" {
		s.URL = url
		s.Source = "mdns"
	}
	s.LastSeen = time.Now()
	return s
}

// UseServer makes name the active server
func (r *Registry) UseServer(name string) error {
	if _, ok := r.Servers[name]; !ok {
		return fmt.Errorf("unknown server %q", name)
	}
	r.Current = name
	return nil
}

// ActiveServer returns the active server, or nil if none is configured
func (r *Registry) ActiveServer() *Server {
	if r.Current == "" {
		return nil
	}
	return r.Servers[r.Current]
}

// ServerNames returns the configured server names in sorted order
func (r *Registry) ServerNames() []string {
	names := make([]string, 0, len(r.Servers))
	for name := range r.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarkSeen updates the last seen timestamp of a server
func (r *Registry) MarkSeen(name string) {
	if s, ok := r.Servers[name]; ok {
		s.LastSeen = time.Now()
	}
}

// EffectiveRules returns the configured validation rules with defaults applied
func (r *Registry) EffectiveRules() validation.Rules {
	if r.Rules == nil {
		return validation.DefaultRules()
	}
	return r.Rules.Normalize()
}

// SetNickBounds stores custom nickname bounds
func (r *Registry) SetNickBounds(min, max int) error {
	if min <= 0 || max <= 0 || min > max {
		return fmt.Errorf("invalid nickname bounds %d-%d", min, max)
	}
	rules := r.EffectiveRules()
	rules.NickMin = min
	rules.NickMax = max
	r.Rules = &rules
	return nil
}

// ValidOutputFormat reports whether f is an accepted output format
func ValidOutputFormat(f string) bool {
	for _, known := range OutputFormats {
		if f == known {
			return true
		}
	}
	return false
}
