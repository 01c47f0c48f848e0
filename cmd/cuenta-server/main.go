// Cuenta-server is a development backend for the cuenta client.
//
// It keeps accounts in memory, seeded from a YAML file or a built-in demo
// account, and implements the profile, password, logout and event-stream
// endpoints the client uses. It can advertise itself over mDNS so clients
// on the local network find it without configuration.
//
// Usage:
//
//	cuenta-server [serve] [flags]
//
// See 'cuenta-server serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuenta-app/cuenta/internal/server"
	"github.com/cuenta-app/cuenta/internal/validation"
	"github.com/cuenta-app/cuenta/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cuenta-server",
	Short: "Cuenta development backend",
	Long: `A standalone account backend for developing and testing the cuenta client.

Accounts live in memory and are lost on exit. Passwords are stored as bcrypt
hashes, profile updates are checked with the same rules as the client, and
every change is pushed to connected clients over WebSocket.

If no command is specified, the server starts with default settings.`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		addServeFlags(cmd)
	}
}

// Serve command flags
var (
	certPath  string
	keyPath   string
	host      string
	port      int
	logLevel  string
	seedPath  string
	token     string
	advertise bool
	instance  string
	nickMin   int
	nickMax   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the account server",
	Long: `Start the account server.

Without --seed a single demo account is created:

  user u-1, password abc123, token dev-token

With --seed the accounts come from a YAML file. Users without a token get a
generated one, which is logged at startup. Serve over TLS by giving both
--cert and --key.`,
	Example: `  # Demo account on the default port
  cuenta-server serve

  # Announce on the local network so 'cuenta scan' finds it
  cuenta-server serve --advertise --instance dev-laptop

  # Custom accounts and debug logging
  cuenta-server serve --seed users.yaml --log-level debug

  # TLS with your own certificate
  cuenta-server serve --cert fullchain.pem --key privkey.pem --port 8443`,
	RunE: runServe,
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (optional)")
	cmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file (optional)")
	cmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	cmd.Flags().IntVar(&port, "port", server.DefaultPort, "Server port")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML file with the accounts to create")
	cmd.Flags().StringVar(&token, "token", "", "Session token for the first account (overrides the seed)")
	cmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the server over mDNS")
	cmd.Flags().StringVar(&instance, "instance", "cuenta", "mDNS instance name")
	cmd.Flags().IntVar(&nickMin, "nick-min", validation.DefaultNickMin, "Minimum nickname length")
	cmd.Flags().IntVar(&nickMax, "nick-max", validation.DefaultNickMax, "Maximum nickname length")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Validate: Either both cert and key are provided, or neither
	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}

	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
	}

	rules := validation.Rules{NickMin: nickMin, NickMax: nickMax}.Normalize()

	srv, err := server.New(&server.Config{
		Host:      host,
		Port:      port,
		CertPath:  certPath,
		KeyPath:   keyPath,
		LogLevel:  logLevel,
		SeedPath:  seedPath,
		Token:     token,
		Version:   version.Version,
		Advertise: advertise,
		Instance:  instance,
		Rules:     rules,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(cmd.Context())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cuenta-server " + version.Full())
	},
}
