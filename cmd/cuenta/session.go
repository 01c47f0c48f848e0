package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/config"
	"github.com/cuenta-app/cuenta/internal/discovery"
	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/validation"
	"github.com/cuenta-app/cuenta/internal/version"
)

// tokenEnvVar supplies the session token when --token is not given
const tokenEnvVar = "CUENTA_TOKEN"

// Connection flags shared by every command
var (
	serverFlag string
	userFlag   string
	tokenFlag  string
	logLevel   string
	logFile    string
)

// session is everything a command needs to reach the backend
type session struct {
	registry *config.Registry
	name     string // Registry entry; empty for an ad-hoc URL
	url      string
	userID   string
	rules    validation.Rules
	client   *account.Client
}

func openSession(ctx context.Context) (*session, error) {
	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, err
	}

	name, url, err := resolveServer(ctx, reg, serverFlag)
	if err != nil {
		return nil, err
	}

	userID := userFlag
	if userID == "" && name != "" {
		if s := reg.GetServer(name); s != nil {
			userID = s.UserID
		}
	}
	if userID == "" {
		return nil, fmt.Errorf("no user configured. Use --user or 'cuenta config set-server <url> --user <id>'")
	}

	client := account.NewClient(url)
	client.UserAgent = version.UserAgent("cuenta")
	client.SetToken(sessionToken())

	logging.Debug("Session opened",
		zap.String("server", name),
		zap.String("url", url),
		zap.String("user", userID))

	return &session{
		registry: reg,
		name:     name,
		url:      url,
		userID:   userID,
		rules:    reg.EffectiveRules(),
		client:   client,
	}, nil
}

func sessionToken() string {
	if tokenFlag != "" {
		return tokenFlag
	}
	return os.Getenv(tokenEnvVar)
}

// resolveServer picks the backend: an explicit URL or server name, then the
// active server, then the first one found on the local network.
func resolveServer(ctx context.Context, reg *config.Registry, flag string) (name, url string, err error) {
	if flag != "" {
		if strings.Contains(flag, "://") {
			return "", flag, nil
		}
		s := reg.GetServer(flag)
		if s == nil || s.URL == "" {
			return "", "", fmt.Errorf("unknown server %q. Configured: %s", flag, strings.Join(reg.ServerNames(), ", "))
		}
		return flag, s.URL, nil
	}

	if s := reg.ActiveServer(); s != nil && s.URL != "" {
		return reg.Current, s.URL, nil
	}

	if reg.Preferences == nil || !reg.Preferences.AutoDiscover {
		return "", "", fmt.Errorf("no server configured. Use --server or 'cuenta config set-server <url>'")
	}

	scanner := discovery.NewScanner()
	if t := reg.Preferences.DiscoverTimeout; t > 0 {
		scanner.Timeout = time.Duration(t) * time.Second
	}

	fmt.Fprintln(os.Stderr, "No server configured, browsing the local network...")
	found, err := scanner.WaitForServer(ctx, "")
	if err != nil {
		return "", "", fmt.Errorf("no server configured and none found on the network: %w", err)
	}

	reg.RecordDiscovered(found.Instance, found.BaseURL())
	if reg.Current == "" {
		reg.Current = found.Instance
	}
	if err := reg.Save(); err != nil {
		logging.Warn("Failed to remember discovered server", zap.Error(err))
	}

	fmt.Fprintf(os.Stderr, "Using %s\n\n", found)
	return found.Instance, found.BaseURL(), nil
}
