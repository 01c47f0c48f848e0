package account

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		wantSub   NetworkErrorSubtype
		retryable bool
	}{
		{
			name:      "timeout",
			err:       timeoutErr{},
			wantType:  ErrTypeTimeout,
			retryable: true,
		},
		{
			name:      "deadline",
			err:       fmt.Errorf("attempt: %w", context.DeadlineExceeded),
			wantType:  ErrTypeTimeout,
			retryable: true,
		},
		{
			name:     "dns",
			err:      &net.DNSError{Name: "cuenta.invalid", Err: "no such host"},
			wantType: ErrTypeDNS,
		},
		{
			name:      "connection refused",
			err:       &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			wantType:  ErrTypeConnectionRefused,
			retryable: true,
		},
		{
			name:      "host unreachable",
			err:       &net.OpError{Op: "dial", Err: syscall.EHOSTUNREACH},
			wantType:  ErrTypeNetwork,
			wantSub:   NetworkErrorHostUnreachable,
			retryable: true,
		},
		{
			name:      "wrapped in url error",
			err:       &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			wantType:  ErrTypeConnectionRefused,
			retryable: true,
		},
		{
			name:     "untrusted certificate",
			err:      &url.Error{Op: "Get", URL: "https://x", Err: x509.UnknownAuthorityError{}},
			wantType: ErrTypeNetwork,
			wantSub:  NetworkErrorTLS,
		},
		{
			name:      "generic",
			err:       errors.New("something broke"),
			wantType:  ErrTypeNetwork,
			wantSub:   NetworkErrorGeneral,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err, "localhost:8420")
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Subtype != tt.wantSub {
				t.Errorf("Subtype = %v, want %v", got.Subtype, tt.wantSub)
			}
			if got.Temporary() != tt.retryable {
				t.Errorf("Temporary() = %v, want %v", got.Temporary(), tt.retryable)
			}
			if got.Host != "localhost:8420" {
				t.Errorf("Host = %q", got.Host)
			}
		})
	}

	if ClassifyNetworkError(nil, "") != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := context.DeadlineExceeded
	err := NewNetworkError("request failed", inner)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should see the wrapped cause")
	}
	if !strings.Contains(err.Error(), context.DeadlineExceeded.Error()) {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewAuthError("bad token"))

	if !IsAuthError(wrapped) {
		t.Error("IsAuthError should unwrap")
	}
	if IsNetworkError(wrapped) || IsHTTPError(wrapped) || IsParseError(wrapped) {
		t.Error("auth error misclassified")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestHTTPErrorTemporary(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusNotFound, false},
		{http.StatusUnprocessableEntity, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusNotImplemented, false},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		if got := NewHTTPError(tt.status, "x").Temporary(); got != tt.want {
			t.Errorf("NewHTTPError(%d).Temporary() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewRejectedError(422, "Current password is incorrect"), "Current password is incorrect"},
		{NewAuthError("x"), "Session rejected - sign in again"},
		{NewHTTPError(500, "x"), "Server error (HTTP 500)"},
		{NewParseError("x", nil), "Failed to parse server response"},
		{NewValidationError("user id is required"), "user id is required"},
		{&APIError{Type: ErrTypeConnectionRefused}, "Server refused connection - is it running?"},
		{&APIError{Type: ErrTypeNetwork, Subtype: NetworkErrorTLS}, "Server certificate not trusted"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		if got := GetShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("GetShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	hint := GetTroubleshootingHint(&APIError{Type: ErrTypeConnectionRefused})
	if !strings.Contains(hint, "cuenta-server serve") {
		t.Errorf("connection refused hint should mention starting the server: %q", hint)
	}

	hint = GetTroubleshootingHint(&APIError{Type: ErrTypeNetwork, Subtype: NetworkErrorHostUnreachable, Host: "10.0.0.9"})
	if !strings.Contains(hint, "ping 10.0.0.9") {
		t.Errorf("host unreachable hint should include host: %q", hint)
	}

	if GetTroubleshootingHint(errors.New("x")) == "" {
		t.Error("unknown errors should still get a hint")
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrTypeRejected.String() != "Rejected" {
		t.Errorf("ErrTypeRejected.String() = %q", ErrTypeRejected.String())
	}
	if ErrorType(99).String() != "ErrorType(99)" {
		t.Errorf("unknown type string = %q", ErrorType(99).String())
	}
}
