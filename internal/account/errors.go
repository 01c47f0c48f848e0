package account

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType is the category of a failed backend call
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates the session token was missing or rejected
	ErrTypeAuth
	// ErrTypeHTTP indicates an unexpected HTTP status code
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed request or response body
	ErrTypeParse
	// ErrTypeValidation indicates invalid input or a failed verification
	ErrTypeValidation
	// ErrTypeRejected indicates the backend answered but declined the request
	ErrTypeRejected
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the backend address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates the backend host name could not be resolved
	ErrTypeDNS
)

var errorTypeNames = map[ErrorType]string{
	ErrTypeNetwork:           "Network Error",
	ErrTypeAuth:              "Authentication Error",
	ErrTypeHTTP:              "HTTP Error",
	ErrTypeParse:             "Parse Error",
	ErrTypeValidation:        "Validation Error",
	ErrTypeRejected:          "Rejected",
	ErrTypeTimeout:           "Timeout",
	ErrTypeConnectionRefused: "Connection Refused",
	ErrTypeDNS:               "DNS Error",
}

func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// NetworkErrorSubtype narrows down an ErrTypeNetwork failure
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	// NetworkErrorTLS means the server certificate was not accepted
	NetworkErrorTLS
)

// APIError is returned by every Client call that fails
type APIError struct {
	Type       ErrorType
	Message    string
	StatusCode int                 // HTTP status, when the backend answered
	Err        error               // cause, if any
	Subtype    NetworkErrorSubtype // only meaningful for ErrTypeNetwork
	Host       string              // backend host, for hints
}

func (e *APIError) Error() string {
	msg := e.Type.String() + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Temporary reports whether repeating the same request may succeed.
// It drives the client's retry policy.
func (e *APIError) Temporary() bool {
	switch e.Type {
	case ErrTypeTimeout, ErrTypeConnectionRefused:
		return true
	case ErrTypeNetwork:
		return e.Subtype != NetworkErrorTLS
	case ErrTypeHTTP:
		return e.StatusCode == http.StatusTooManyRequests ||
			(e.StatusCode >= 500 && e.StatusCode != http.StatusNotImplemented)
	default:
		return false
	}
}

// ClassifyNetworkError turns a transport error into an APIError.
// It returns nil for a nil error.
func ClassifyNetworkError(err error, host string) *APIError {
	if err == nil {
		return nil
	}

	e := &APIError{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err, Host: host}

	var (
		dnsErr      *net.DNSError
		verifyErr   *tls.CertificateVerificationError
		authority   x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
	)
	switch {
	case isTimeout(err):
		e.Type, e.Message = ErrTypeTimeout, "Request timed out"
	case errors.As(err, &dnsErr):
		e.Type, e.Message = ErrTypeDNS, "DNS resolution failed for "+dnsErr.Name
	case errors.Is(err, syscall.ECONNREFUSED):
		e.Type, e.Message = ErrTypeConnectionRefused, "Backend refused connection"
	case errors.Is(err, syscall.EHOSTUNREACH):
		e.Subtype, e.Message = NetworkErrorHostUnreachable, "Host unreachable"
	case errors.Is(err, syscall.ENETUNREACH):
		e.Subtype, e.Message = NetworkErrorNetworkUnreachable, "Network unreachable"
	case errors.As(err, &verifyErr), errors.As(err, &authority), errors.As(err, &hostnameErr):
		e.Subtype, e.Message = NetworkErrorTLS, "Server certificate rejected"
	}
	return e
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// NewNetworkError classifies err and replaces its message
func NewNetworkError(message string, err error) *APIError {
	e := ClassifyNetworkError(err, "")
	if e == nil {
		e = &APIError{Type: ErrTypeNetwork}
	}
	e.Message = message
	return e
}

func NewAuthError(message string) *APIError {
	return &APIError{Type: ErrTypeAuth, Message: message, StatusCode: http.StatusUnauthorized}
}

func NewHTTPError(statusCode int, message string) *APIError {
	return &APIError{Type: ErrTypeHTTP, Message: message, StatusCode: statusCode}
}

func NewParseError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: message, Err: err}
}

func NewValidationError(message string) *APIError {
	return &APIError{Type: ErrTypeValidation, Message: message}
}

// NewRejectedError wraps a failure message returned by the backend.
// The message is shown to the user as-is.
func NewRejectedError(statusCode int, message string) *APIError {
	return &APIError{Type: ErrTypeRejected, Message: message, StatusCode: statusCode}
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func hasType(err error, types ...ErrorType) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	for _, t := range types {
		if apiErr.Type == t {
			return true
		}
	}
	return false
}

// IsNetworkError reports transport failures of any kind
func IsNetworkError(err error) bool {
	return hasType(err, ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS)
}

func IsAuthError(err error) bool { return hasType(err, ErrTypeAuth) }
func IsHTTPError(err error) bool { return hasType(err, ErrTypeHTTP) }
func IsParseError(err error) bool { return hasType(err, ErrTypeParse) }
func IsValidationError(err error) bool { return hasType(err, ErrTypeValidation) }

// IsRejected reports whether the backend declined the request with a message
func IsRejected(err error) bool { return hasType(err, ErrTypeRejected) }

// IsRetryable reports whether err is an APIError worth repeating
func IsRetryable(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Temporary()
}

func troubleshooting(summary string, steps ...string) string {
	lines := []string{summary, "Troubleshooting:"}
	for _, s := range steps {
		lines = append(lines, "  • "+s)
	}
	return strings.Join(lines, "\n")
}

// GetTroubleshootingHint returns multi-line advice for err
func GetTroubleshootingHint(err error) string {
	apiErr, ok := asAPIError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return troubleshooting("The account service did not respond in time.",
			"Check that the server is running",
			"Check your network connection")
	case ErrTypeConnectionRefused:
		return troubleshooting("The account service refused the connection.",
			"Start the server with: cuenta-server serve",
			"Verify the configured URL: cuenta config show",
			"Run 'cuenta scan' to find servers on the local network")
	case ErrTypeDNS:
		return troubleshooting("Could not resolve the server hostname.",
			"Use the IP address instead of the hostname",
			"Check your network DNS settings")
	case ErrTypeAuth:
		return troubleshooting("The session token was rejected.",
			"Pass a valid token with --token or CUENTA_TOKEN",
			"Your session may have been closed with 'cuenta logout'")
	case ErrTypeNetwork:
		switch apiErr.Subtype {
		case NetworkErrorHostUnreachable:
			return troubleshooting("The server is not reachable on the network.",
				"Verify the server address is correct",
				"Try pinging the server: ping "+apiErr.Host)
		case NetworkErrorNetworkUnreachable:
			return troubleshooting("Your computer cannot reach the server's network.",
				"Check that you are connected to a network")
		case NetworkErrorTLS:
			return troubleshooting("The server certificate is not trusted.",
				"Check that the URL names the host the certificate was issued for",
				"Add the issuing CA to the system trust store")
		}
		return troubleshooting("Network communication failed.",
			"Check your network connection",
			"Verify the server is running")
	case ErrTypeHTTP:
		if apiErr.StatusCode >= 500 {
			return troubleshooting(fmt.Sprintf("The server returned an error (HTTP %d).", apiErr.StatusCode),
				"Check the server logs",
				"Try again in a few moments")
		}
		return fmt.Sprintf("The server returned HTTP error %d. Check the request parameters.", apiErr.StatusCode)
	case ErrTypeParse:
		return troubleshooting("Failed to parse the server's response.",
			"Compare 'cuenta version' with 'cuenta-server version'")
	case ErrTypeValidation:
		return "The profile values are invalid. Check the error message for details."
	case ErrTypeRejected:
		return "The server declined the request: " + apiErr.Message
	}
	return "An error occurred. Please check the error message for details."
}

var shortMessages = map[ErrorType]string{
	ErrTypeTimeout:           "Server not responding (timeout)",
	ErrTypeConnectionRefused: "Server refused connection - is it running?",
	ErrTypeDNS:               "Cannot resolve server hostname",
	ErrTypeAuth:              "Session rejected - sign in again",
	ErrTypeParse:             "Failed to parse server response",
}

var shortNetworkMessages = map[NetworkErrorSubtype]string{
	NetworkErrorGeneral:            "Network error - check connection",
	NetworkErrorHostUnreachable:    "Server unreachable - check network connection",
	NetworkErrorNetworkUnreachable: "Network unreachable - check connection",
	NetworkErrorTLS:                "Server certificate not trusted",
}

// GetShortErrorMessage returns a one-line message suitable for a toast.
// Rejected and validation errors keep their own message.
func GetShortErrorMessage(err error) string {
	apiErr, ok := asAPIError(err)
	if !ok {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeNetwork:
		return shortNetworkMessages[apiErr.Subtype]
	case ErrTypeHTTP:
		return fmt.Sprintf("Server error (HTTP %d)", apiErr.StatusCode)
	}
	if msg, ok := shortMessages[apiErr.Type]; ok {
		return msg
	}
	return apiErr.Message
}
