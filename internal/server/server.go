package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/discovery"
	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/urls"
	"github.com/cuenta-app/cuenta/internal/validation"
)

// DefaultPort is the port the dev backend listens on
const DefaultPort = discovery.DefaultPort

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // Serve https when both CertPath and KeyPath are set
	KeyPath  string
	LogLevel string
	SeedPath string // YAML seed; the demo account is used when empty
	Token    string // Overrides the session token of the first seeded user
	Version  string // Reported by /v1/health and the mDNS TXT record

	Advertise bool   // Register the server over mDNS
	Instance  string // mDNS instance name

	Rules      validation.Rules
	BcryptCost int // 0 uses bcrypt.DefaultCost
}

// Server is the development account backend
type Server struct {
	config     *Config
	store      *Store
	hub        *Hub
	tlsConfig  *tls.Config
	httpServer *http.Server
	listener   net.Listener
	ad         *discovery.Advertisement
}

// New creates a new Server instance with its store seeded
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	seed := DefaultSeed()
	if config.SeedPath != "" {
		var err error
		seed, err = LoadSeed(config.SeedPath)
		if err != nil {
			return nil, err
		}
	}

	if config.Token != "" {
		seed.Users[0].Token = config.Token
	}

	store := NewStore(config.Rules, config.BcryptCost)
	if err := store.Load(seed); err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" && config.KeyPath != "" {
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	if config.Instance == "" {
		config.Instance = "cuenta"
	}

	return &Server{
		config:    config,
		store:     store,
		hub:       NewHub(),
		tlsConfig: tlsConfig,
	}, nil
}

// Store returns the server's account store
func (s *Server) Store() *Store {
	return s.store
}

// Hub returns the server's event hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start listens and serves until ctx is cancelled, a shutdown signal
// arrives, or serving fails
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener

	logging.Info("Starting account server",
		zap.String("addr", listener.Addr().String()),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
		zap.Strings("users", s.store.UserIDs()),
	)

	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		ad, err := discovery.Advertise(s.config.Instance, port,
			discovery.TXTRecords(urls.APIPrefix, s.config.Version, s.tlsConfig != nil))
		if err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			s.ad = ad
			logging.Info("Advertising over mDNS",
				zap.String("instance", s.config.Instance),
				zap.String("service", discovery.ServiceType))
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
		logging.Info("Context cancelled, stopping server...")
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Addr returns the listening address once Start has bound it
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.ad.Shutdown()
	// Event streams are hijacked and not tracked by http.Server
	s.hub.Close()

	var err error
	if s.httpServer != nil {
		if err = s.httpServer.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			_ = s.httpServer.Close()
		}
	}

	logging.Sync()
	return err
}
