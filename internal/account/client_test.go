package account

import (
	"context"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8420/")

	if client.BaseURL != "http://localhost:8420" {
		t.Errorf("BaseURL = %s, want trailing slash trimmed", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}
	if client.CacheDuration != DefaultCacheDuration {
		t.Errorf("CacheDuration = %v, want %v", client.CacheDuration, DefaultCacheDuration)
	}
	if client.Host() != "localhost:8420" {
		t.Errorf("Host() = %s", client.Host())
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("http://localhost:8420")
	client.SetTimeout(5 * time.Second)

	if client.retry.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.retry.HTTPClient.Timeout)
	}
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, newFakeBackend().handler())

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestPing_NetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	client.SetRetry(0, time.Millisecond, time.Millisecond)

	err := client.Ping(context.Background())
	if err == nil {
		t.Fatal("Ping() should fail against a closed port")
	}
	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestLoadProfile_Success(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	p, err := client.LoadProfile(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Nick != "anag" || p.NIF != "12345678A" {
		t.Errorf("unexpected profile: %+v", p)
	}
	if backend.requestID() == "" {
		t.Error("request should carry an X-Request-ID header")
	}
}

func TestLoadProfile_RequiresUserID(t *testing.T) {
	client := NewClient("http://localhost:8420")

	_, err := client.LoadProfile(context.Background(), "")
	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadProfile_NotFound(t *testing.T) {
	client, _ := newTestClient(t, newFakeBackend().handler())

	_, err := client.LoadProfile(context.Background(), "nobody")
	if !IsRejected(err) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	if GetShortErrorMessage(err) != "user not found" {
		t.Errorf("short message = %q", GetShortErrorMessage(err))
	}
}

func TestLoadProfile_AuthFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.token = "secret"
	client, _ := newTestClient(t, backend.handler())

	if _, err := client.LoadProfile(context.Background(), "u-1"); !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}

	client.SetToken("secret")
	if _, err := client.LoadProfile(context.Background(), "u-1"); err != nil {
		t.Errorf("LoadProfile() with token error = %v", err)
	}
}

func TestLoadProfile_InvalidJSON(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": `))
	}))

	if _, err := client.LoadProfile(context.Background(), "u-1"); !IsParseError(err) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadProfile_RetriesServerErrors(t *testing.T) {
	var attempts int32
	backend := newFakeBackend()
	inner := backend.handler()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		inner.ServeHTTP(w, r)
	}))

	if _, err := client.LoadProfile(context.Background(), "u-1"); err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestLoadProfile_GivesUpWithHTTPError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.LoadProfile(context.Background(), "u-1")
	if !IsHTTPError(err) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("5xx errors should be marked retryable")
	}
}

func TestCheckRetry(t *testing.T) {
	get := httptest.NewRequest(http.MethodGet, "/v1/users/u-1/profile", nil)
	post := httptest.NewRequest(http.MethodPost, "/v1/users/u-1/password", nil)

	tests := []struct {
		name string
		resp *http.Response
		err  error
		want bool
	}{
		{"ok", &http.Response{StatusCode: 200, Request: get}, nil, false},
		{"not found", &http.Response{StatusCode: 404, Request: get}, nil, false},
		{"too many requests", &http.Response{StatusCode: 429, Request: post}, nil, true},
		{"unavailable", &http.Response{StatusCode: 503, Request: get}, nil, true},
		{"not implemented", &http.Response{StatusCode: 501, Request: get}, nil, false},
		{"post server error", &http.Response{StatusCode: 502, Request: post}, nil, false},
		{"connection refused", nil, &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"dns", nil, &net.DNSError{Name: "cuenta.invalid", Err: "no such host"}, false},
		{"untrusted certificate", nil, x509.UnknownAuthorityError{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkRetry(context.Background(), tt.resp, tt.err)
			if err != nil {
				t.Fatalf("checkRetry() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("checkRetry() = %v, want %v", got, tt.want)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if retry, err := checkRetry(ctx, nil, context.Canceled); retry || err == nil {
		t.Errorf("checkRetry() on a cancelled context = %v, %v", retry, err)
	}
}

func TestLoadProfile_NotImplementedNotRetried(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotImplemented)
	}))

	_, err := client.LoadProfile(context.Background(), "u-1")
	if !IsHTTPError(err) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("501 should not be retryable")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestLoadProfile_UntrustedCertificate(t *testing.T) {
	srv := httptest.NewTLSServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL)
	client.SetRetry(2, time.Millisecond, 5*time.Millisecond)

	_, err := client.LoadProfile(context.Background(), "u-1")
	if !IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	apiErr, _ := asAPIError(err)
	if apiErr.Subtype != NetworkErrorTLS {
		t.Errorf("Subtype = %v, want NetworkErrorTLS", apiErr.Subtype)
	}
	if IsRetryable(err) {
		t.Error("certificate errors should not be retryable")
	}
}

func TestChangePassword_Success(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	msg, err := client.ChangePassword(context.Background(), "u-1", "abc123", "NewPass1")
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if msg != "Password changed successfully" {
		t.Errorf("message = %q", msg)
	}
	if backend.currentPassword() != "NewPass1" {
		t.Error("backend password not updated")
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	_, err := client.ChangePassword(context.Background(), "u-1", "wrong1", "NewPass1")
	if !IsRejected(err) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	if GetShortErrorMessage(err) != "Current password is incorrect" {
		t.Errorf("short message = %q", GetShortErrorMessage(err))
	}
	if backend.postCount() != 1 {
		t.Errorf("posts = %d, want exactly one attempt", backend.postCount())
	}
}

func TestChangePassword_ServerErrorNotReplayed(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.ChangePassword(context.Background(), "u-1", "abc123", "NewPass1")
	if !IsHTTPError(err) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	update := UpdateFromProfile(backend.currentProfile())
	update.Phone = "612345678"

	p, err := client.UpdateProfile(context.Background(), update)
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if p.Phone != "612345678" {
		t.Errorf("Phone = %q", p.Phone)
	}
	if backend.currentProfile().Phone != "612345678" {
		t.Error("backend profile not updated")
	}
}

func TestUpdateProfile_RequiresUserID(t *testing.T) {
	client := NewClient("http://localhost:8420")
	if _, err := client.UpdateProfile(context.Background(), ProfileUpdate{}); !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	client, _ := newTestClient(t, newFakeBackend().handler())

	if _, err := client.LoadProfile(context.Background(), "u-1"); err != nil {
		t.Fatal(err)
	}
	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if client.GetCachedProfile("u-1") != nil {
		t.Error("logout should drop the cached profile")
	}
}

func TestCaching_Enabled(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	for i := 0; i < 3; i++ {
		if _, err := client.LoadProfile(context.Background(), "u-1"); err != nil {
			t.Fatal(err)
		}
	}
	if backend.getCount() != 1 {
		t.Errorf("gets = %d, want 1 (cached)", backend.getCount())
	}
}

func TestCaching_Disabled(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())
	client.SetCacheDuration(0)

	for i := 0; i < 3; i++ {
		if _, err := client.LoadProfile(context.Background(), "u-1"); err != nil {
			t.Fatal(err)
		}
	}
	if backend.getCount() != 3 {
		t.Errorf("gets = %d, want 3", backend.getCount())
	}
}

func TestCaching_Expiration(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())
	client.SetCacheDuration(20 * time.Millisecond)

	_, _ = client.LoadProfile(context.Background(), "u-1")
	time.Sleep(40 * time.Millisecond)
	_, _ = client.LoadProfile(context.Background(), "u-1")

	if backend.getCount() != 2 {
		t.Errorf("gets = %d, want 2 after expiry", backend.getCount())
	}
}

func TestCaching_PerUser(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	_, _ = client.LoadProfile(context.Background(), "u-1")
	if client.GetCachedProfile("u-2") != nil {
		t.Error("cache must not serve another user's profile")
	}
}

func TestCachedProfileIsCopy(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	p, _ := client.LoadProfile(context.Background(), "u-1")
	p.Nick = "mutated"

	again, _ := client.LoadProfile(context.Background(), "u-1")
	if again.Nick != "anag" {
		t.Error("mutating a returned profile must not affect the cache")
	}
}

func TestRefreshProfile_BypassesCache(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	_, _ = client.LoadProfile(context.Background(), "u-1")
	_, _ = client.RefreshProfile(context.Background(), "u-1")

	if backend.getCount() != 2 {
		t.Errorf("gets = %d, want 2", backend.getCount())
	}
}

func TestCacheInvalidatedAfterUpdate(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	_, _ = client.LoadProfile(context.Background(), "u-1")

	update := UpdateFromProfile(backend.currentProfile())
	update.Nick = "ana2"
	if _, err := client.UpdateProfile(context.Background(), update); err != nil {
		t.Fatal(err)
	}

	p, err := client.LoadProfile(context.Background(), "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Nick != "ana2" {
		t.Errorf("Nick = %q, want fresh value after update", p.Nick)
	}
}

func TestContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, newFakeBackend().handler())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.RefreshProfile(ctx, "u-1"); err == nil {
		t.Error("cancelled context should fail the request")
	}
}
