// Package discovery finds cuenta account servers on the local network over mDNS.
//
// Servers advertise the "_cuenta._tcp" service type. Each advertisement carries
// TXT records describing the API:
//
//	api=/v1          REST prefix
//	version=1.2.0    server build
//	tls=0            whether the server expects https
//
// # Usage Example
//
//	servers, err := discovery.ScanForServers(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, s := range servers {
//	    fmt.Printf("Found: %s at %s\n", s.Instance, s.BaseURL())
//	}
//
// The dev backend advertises itself with Advertise so that a freshly started
// server is picked up by `cuenta scan` without any configuration.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
