package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Server represents a discovered account server on the network
type Server struct {
	// Instance is the advertised service instance name (e.g., "cuenta-dev")
	Instance string

	// Hostname is the mDNS hostname (e.g., "laptop.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the HTTP port the API listens on
	Port int

	// Metadata contains the TXT record data (api, version, tls)
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	version := s.Version()
	if version == "" {
		version = "unknown"
	}
	return fmt.Sprintf("%s (%s) at %s [version %s]", s.Instance, s.Hostname, s.BaseURL(), version)
}

// BaseURL returns the base URL for the account API
func (s *Server) BaseURL() string {
	scheme := "http"
	if s.Metadata["tls"] == "1" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// Version returns the advertised server version, or "" if not advertised
func (s *Server) Version() string {
	return s.GetMetadata("version")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
