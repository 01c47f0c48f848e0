package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/urls"
)

// Handler builds the HTTP handler for the account API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+urls.Health, s.handleHealth)
	mux.Handle("POST "+urls.Logout, s.authenticated(s.handleLogout))
	mux.Handle("GET "+urls.ProfilePattern, s.authorized(s.handleGetProfile))
	mux.Handle("PUT "+urls.ProfilePattern, s.authorized(s.handleUpdateProfile))
	mux.Handle("POST "+urls.PasswordPattern, s.authorized(s.handleChangePassword))
	mux.Handle("GET "+urls.EventsPattern, s.authorized(s.handleEvents))

	return withRequestLog(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.config.Version})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := s.store.Profile(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, userID string) {
	var update account.ProfileUpdate
	if err := decodeBody(w, r, &update); err != nil {
		writeJSON(w, http.StatusBadRequest, account.Envelope{Message: err.Error()})
		return
	}
	update.UserID = userID

	profile, err := s.store.UpdateProfile(update)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.hub.Publish(account.ProfileEvent{
		Type:    account.EventProfileUpdated,
		UserID:  userID,
		Profile: &profile,
		At:      time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, account.Envelope{Success: true, Message: "Profile updated", Profile: &profile})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, userID string) {
	var change account.PasswordChange
	if err := decodeBody(w, r, &change); err != nil {
		writeJSON(w, http.StatusBadRequest, account.Envelope{Message: err.Error()})
		return
	}

	if err := s.store.ChangePassword(userID, change.CurrentPassword, change.NewPassword); err != nil {
		writeStoreError(w, err)
		return
	}

	s.hub.Publish(account.ProfileEvent{
		Type:   account.EventPasswordChanged,
		UserID: userID,
		At:     time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, account.Envelope{Success: true, Message: "Password changed"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, userID string) {
	s.hub.serveEvents(w, r, userID)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, token string) {
	userID, err := s.store.CloseSession(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, account.Envelope{Message: err.Error()})
		return
	}

	s.hub.Publish(account.ProfileEvent{
		Type:   account.EventSignedOut,
		UserID: userID,
		At:     time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, account.Envelope{Success: true, Message: "Signed out"})
}

// authenticated resolves the bearer token and passes it on
func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request, string)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, account.Envelope{Message: "missing bearer token"})
			return
		}
		if _, ok := s.store.Authenticate(token); !ok {
			writeJSON(w, http.StatusUnauthorized, account.Envelope{Message: "invalid token"})
			return
		}
		next(w, r, token)
	})
}

// authorized checks that the token belongs to the {id} in the path
func (s *Server) authorized(next func(http.ResponseWriter, *http.Request, string)) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, token string) {
		owner, _ := s.store.Authenticate(token)
		userID := r.PathValue("id")
		if userID != owner {
			writeJSON(w, http.StatusForbidden, account.Envelope{Message: "token does not grant access to this user"})
			return
		}
		next(w, r, userID)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeStoreError maps store errors onto status codes with an envelope message
func writeStoreError(w http.ResponseWriter, err error) {
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusUnprocessableEntity, account.Envelope{Message: rejected.Error()})
	case errors.Is(err, ErrUnknownUser):
		writeJSON(w, http.StatusNotFound, account.Envelope{Message: "User not found"})
	case errors.Is(err, ErrWrongPassword):
		writeJSON(w, http.StatusForbidden, account.Envelope{Message: "Current password is incorrect"})
	default:
		logging.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, account.Envelope{Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write response", zap.Error(err))
	}
}

// statusRecorder captures the status code for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Hijack lets the websocket upgrader take over the connection
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withRequestLog tags every request with an id and logs its outcome
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(account.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(account.RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, requestID, status, time.Since(start))
	})
}
