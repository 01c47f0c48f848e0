package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

// Advertisement is a running mDNS registration
type Advertisement struct {
	server *zeroconf.Server
}

// TXTRecords builds the TXT records a server publishes
func TXTRecords(apiPrefix, version string, tls bool) []string {
	flag := "0"
	if tls {
		flag = "1"
	}
	return []string{"api=" + apiPrefix, "version=" + version, "tls=" + flag}
}

// Advertise registers instance on port until Shutdown is called
func Advertise(instance string, port int, txt []string) (*Advertisement, error) {
	if instance == "" {
		return nil, fmt.Errorf("instance name is required")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}
