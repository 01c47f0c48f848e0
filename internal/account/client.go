package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/urls"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// DefaultCacheDuration is the default cache validity duration
	DefaultCacheDuration = 30 * time.Second

	// RequestIDHeader carries a per-request identifier for log correlation
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the account backend over HTTP/JSON
type Client struct {
	// BaseURL is the backend base URL (e.g., "http://localhost:8420")
	BaseURL string

	// Token is sent as a bearer token when non-empty
	Token string

	// UserAgent is sent as the User-Agent header when non-empty
	UserAgent string

	// HTTPClient is the underlying HTTP client; requests go through the retry transport
	HTTPClient *http.Client

	// CacheDuration is how long to cache a loaded profile (0 = no cache)
	CacheDuration time.Duration

	retry *retryablehttp.Client

	cachedProfile *Profile
	cacheUser     string
	cacheTime     time.Time
	cacheMutex    sync.RWMutex
}

// NewClient creates a new account client for the given base URL
func NewClient(baseURL string) *Client {
	retry := retryablehttp.NewClient()
	retry.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	retry.RetryMax = DefaultMaxRetries
	retry.RetryWaitMin = DefaultRetryDelay
	retry.RetryWaitMax = DefaultMaxRetryDelay
	retry.Logger = logging.RetryLogger{}
	retry.CheckRetry = checkRetry
	retry.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		HTTPClient:    retry.StandardClient(),
		CacheDuration: DefaultCacheDuration,
		retry:         retry,
	}
}

// checkRetry lets the error taxonomy decide whether an attempt is repeated.
// A POST answered with a server error is never replayed.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return IsRetryable(ClassifyNetworkError(err, "")), nil
	}
	if resp.StatusCode >= 500 && resp.Request != nil && resp.Request.Method == http.MethodPost {
		return false, nil
	}
	return IsRetryable(NewHTTPError(resp.StatusCode, "")), nil
}

// SetTimeout sets the per-attempt HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.retry.HTTPClient.Timeout = timeout
}

// SetToken sets the bearer token used for every request
func (c *Client) SetToken(token string) {
	c.Token = token
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay, maxRetryDelay time.Duration) {
	c.retry.RetryMax = maxRetries
	c.retry.RetryWaitMin = retryDelay
	c.retry.RetryWaitMax = maxRetryDelay
}

// Host returns the host part of the base URL, for error context
func (c *Client) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL
	}
	return u.Host
}

// Ping performs a simple health check on the backend.
// Returns nil if the backend is reachable and responding.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, urls.Health, nil, nil)
}

// LoadProfile returns the profile of userID, served from cache when fresh
func (c *Client) LoadProfile(ctx context.Context, userID string) (*Profile, error) {
	if cached := c.GetCachedProfile(userID); cached != nil {
		return cached, nil
	}
	return c.RefreshProfile(ctx, userID)
}

// RefreshProfile fetches the profile from the backend, bypassing and updating the cache
func (c *Client) RefreshProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, NewValidationError("user id is required")
	}

	var profile Profile
	if err := c.do(ctx, http.MethodGet, urls.UserProfile(userID), nil, &profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, NewParseError("profile response has no id", nil)
	}

	c.storeCache(userID, &profile)
	return &profile, nil
}

// UpdateProfile replaces the editable profile fields of update.UserID.
// Returns the stored profile as echoed by the backend.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	if update.UserID == "" {
		return nil, NewValidationError("user id is required")
	}

	var env Envelope
	if err := c.do(ctx, http.MethodPut, urls.UserProfile(update.UserID), update, &env); err != nil {
		return nil, err
	}

	c.InvalidateCache()

	if !env.Success {
		return nil, NewRejectedError(http.StatusOK, env.Message)
	}
	if env.Profile == nil {
		return nil, NewParseError("update response has no profile", nil)
	}

	return env.Profile, nil
}

// ChangePassword changes the password of userID. The backend checks current.
// Returns the backend's success message.
func (c *Client) ChangePassword(ctx context.Context, userID, current, next string) (string, error) {
	if userID == "" {
		return "", NewValidationError("user id is required")
	}

	body := PasswordChange{CurrentPassword: current, NewPassword: next}

	var env Envelope
	if err := c.do(ctx, http.MethodPost, urls.UserPassword(userID), body, &env); err != nil {
		return "", err
	}
	if !env.Success {
		return "", NewRejectedError(http.StatusOK, env.Message)
	}

	return env.Message, nil
}

// Logout closes the session on the backend and drops the cached profile
func (c *Client) Logout(ctx context.Context) error {
	var env Envelope
	err := c.do(ctx, http.MethodPost, urls.Logout, nil, &env)
	c.InvalidateCache()
	if err != nil {
		return err
	}
	if !env.Success {
		return NewRejectedError(http.StatusOK, env.Message)
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
// Non-2xx responses carrying an envelope message become rejected errors.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return NewParseError("failed to encode request", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogAPICall(method, target, requestID)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ClassifyNetworkError(err, c.Host())
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogAPIResponse(method, target, requestID, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError("authentication failed (check token)")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env Envelope
		if json.Unmarshal(data, &env) == nil && env.Message != "" && resp.StatusCode < 500 {
			return NewRejectedError(resp.StatusCode, env.Message)
		}
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}

	return nil
}

// InvalidateCache clears the cached profile, forcing the next LoadProfile to fetch fresh data
func (c *Client) InvalidateCache() {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.cachedProfile = nil
	c.cacheUser = ""
	c.cacheTime = time.Time{}
}

// SetCacheDuration sets the cache validity duration.
// Set to 0 to disable caching entirely.
func (c *Client) SetCacheDuration(duration time.Duration) {
	c.cacheMutex.Lock()
	c.CacheDuration = duration
	c.cacheMutex.Unlock()
	if duration == 0 {
		c.InvalidateCache()
	}
}

// GetCachedProfile returns a copy of the cached profile for userID without a
// network request. Returns nil if no valid cache exists.
func (c *Client) GetCachedProfile(userID string) *Profile {
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	if c.cachedProfile != nil && c.cacheUser == userID && time.Since(c.cacheTime) < c.CacheDuration {
		cached := *c.cachedProfile
		return &cached
	}
	return nil
}

func (c *Client) storeCache(userID string, p *Profile) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	if c.CacheDuration <= 0 {
		return
	}
	cached := *p
	c.cachedProfile = &cached
	c.cacheUser = userID
	c.cacheTime = time.Now()
}
