package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/cuenta-app/cuenta/internal/logging"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type advertised by account servers
	ServiceType = "_cuenta._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the port assumed when an advertisement carries none
	DefaultPort = 8420
)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects every server that answers before the timeout expires.
// Servers are returned sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(map[string]*Server)
	var mu sync.Mutex
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			server := parseServiceEntry(entry)
			if server == nil {
				continue
			}
			mu.Lock()
			found[server.Instance] = server
			mu.Unlock()
			logging.Debug("Discovered account server",
				zap.String("instance", server.Instance),
				zap.String("url", server.BaseURL()))
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once the browse context ends
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	servers := make([]*Server, 0, len(found))
	for _, server := range found {
		servers = append(servers, server)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Instance < servers[j].Instance })
	return servers, nil
}

// WaitForServer returns the first server whose instance name matches.
// An empty name accepts any server.
func (s *Scanner) WaitForServer(ctx context.Context, instance string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	serverChan := make(chan *Server, 1)

	go func() {
		for entry := range entries {
			server := parseServiceEntry(entry)
			if server != nil && (instance == "" || server.Instance == instance) {
				select {
				case serverChan <- server:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case server := <-serverChan:
		return server, nil
	case <-ctx.Done():
		// The match may have landed together with the cancellation
		select {
		case server := <-serverChan:
			return server, nil
		default:
		}
		if instance == "" {
			return nil, fmt.Errorf("no account server found within %s", s.Timeout)
		}
		return nil, fmt.Errorf("server %q not found within %s", instance, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Server{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" records; bare keys map to ""
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	return metadata
}

// ScanForServers is a convenience function to scan with a custom timeout
func ScanForServers(ctx context.Context, timeout time.Duration) ([]*Server, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}

// FindServer waits for a specific instance with the default timeout
func FindServer(ctx context.Context, instance string) (*Server, error) {
	return NewScanner().WaitForServer(ctx, instance)
}
