// Package config provides user configuration management for cuenta.
//
// This package manages a YAML configuration file that stores the account
// servers the user talks to, the active server and user, display preferences,
// and the profile validation rules. The file follows OS-specific conventions
// for its location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/cuenta/config.yaml or $HOME/.config/cuenta/config.yaml
//   - macOS: $HOME/.config/cuenta/config.yaml
//   - Windows: %LOCALAPPDATA%\cuenta\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores passwords or session tokens. Tokens come
// from the --token flag or the CUENTA_TOKEN environment variable.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetServer("home", "http://192.168.1.20:8420", "u-1")
//	if err := registry.UseServer("home"); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
