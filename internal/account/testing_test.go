package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a minimal in-memory account API for client tests
type fakeBackend struct {
	mu        sync.Mutex
	profile   Profile
	password  string
	token     string
	gets      int
	puts      int
	posts     int
	lastReqID string

	// dropUpdates makes PUT report success without storing
	dropUpdates bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		profile: Profile{
			ID:       "u-1",
			Nick:     "anag",
			Name:     "Ana",
			Surname1: "García",
			NIF:      "12345678A",
			Email:    "ana@example.com",
		},
		password: "abc123",
	}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /v1/users/{id}/profile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.gets++
		f.lastReqID = r.Header.Get(RequestIDHeader)
		if r.PathValue("id") != f.profile.ID {
			writeJSON(w, http.StatusNotFound, Envelope{Message: "user not found"})
			return
		}
		writeJSON(w, http.StatusOK, f.profile)
	})

	mux.HandleFunc("PUT /v1/users/{id}/profile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.puts++
		if r.PathValue("id") != f.profile.ID {
			writeJSON(w, http.StatusNotFound, Envelope{Message: "user not found"})
			return
		}
		var u ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			writeJSON(w, http.StatusBadRequest, Envelope{Message: "bad body"})
			return
		}
		updated := u.Apply(f.profile)
		if !f.dropUpdates {
			f.profile = updated
		}
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Profile updated", Profile: &updated})
	})

	mux.HandleFunc("POST /v1/users/{id}/password", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.posts++
		var pc PasswordChange
		_ = json.NewDecoder(r.Body).Decode(&pc)
		if pc.CurrentPassword != f.password {
			writeJSON(w, http.StatusUnprocessableEntity, Envelope{Message: "Current password is incorrect"})
			return
		}
		f.password = pc.NewPassword
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Password changed successfully"})
	})

	mux.HandleFunc("POST /v1/session/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Signed out"})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.token != "" && r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeBackend) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func (f *fakeBackend) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts
}

func (f *fakeBackend) currentPassword() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.password
}

func (f *fakeBackend) currentProfile() Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile
}

func (f *fakeBackend) requestID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReqID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestClient starts a server for h and returns a client with fast retries
func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	c.SetRetry(2, time.Millisecond, 5*time.Millisecond)
	return c, srv
}
