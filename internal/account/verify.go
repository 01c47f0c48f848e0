package account

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// VerificationOptions configures how update verification behaves
type VerificationOptions struct {
	// MaxRetries is the maximum number of verification attempts after the first.
	// Default: 2
	MaxRetries int

	// InitialDelay is the delay before the first read-back
	// Default: 100ms
	InitialDelay time.Duration

	// RetryDelay is the delay between retry attempts
	// Default: 500ms
	RetryDelay time.Duration

	// UseExponentialBackoff doubles the retry delay after each attempt (up to MaxRetryDelay)
	// Default: true
	UseExponentialBackoff bool

	// MaxRetryDelay is the maximum delay between retries
	// Default: 2s
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns sensible defaults for verification
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:            2,
		InitialDelay:          100 * time.Millisecond,
		RetryDelay:            500 * time.Millisecond,
		UseExponentialBackoff: true,
		MaxRetryDelay:         2 * time.Second,
	}
}

// VerificationResult contains the results of an update verification
type VerificationResult struct {
	// Success indicates whether the stored profile matches the update
	Success bool

	// Attempts is the number of read-backs made
	Attempts int

	// Profile is the last profile read from the backend
	Profile *Profile

	// Mismatches lists the fields that did not match
	Mismatches []FieldChange

	// Error is any error that occurred during update or verification
	Error error
}

// VerifyProfile re-reads the profile until it matches expected or retries run out
func (c *Client) VerifyProfile(ctx context.Context, expected ProfileUpdate, opts *VerificationOptions) *VerificationResult {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}

	result := &VerificationResult{}

	if err := sleep(ctx, opts.InitialDelay); err != nil {
		result.Error = err
		return result
	}

	currentDelay := opts.RetryDelay

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result.Attempts++

		if attempt > 0 {
			if err := sleep(ctx, currentDelay); err != nil {
				result.Error = err
				return result
			}
			if opts.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > opts.MaxRetryDelay {
					currentDelay = opts.MaxRetryDelay
				}
			}
		}

		current, err := c.RefreshProfile(ctx, expected.UserID)
		if err != nil {
			result.Error = fmt.Errorf("attempt %d: failed to read profile: %w", attempt+1, err)
			continue
		}

		result.Profile = current
		result.Mismatches = DiffFields(expected.Fields(), current.Fields())

		if len(result.Mismatches) == 0 {
			result.Success = true
			result.Error = nil
			return result
		}

		if attempt < opts.MaxRetries {
			result.Error = fmt.Errorf("attempt %d: profile mismatch (will retry)", attempt+1)
		} else {
			result.Error = fmt.Errorf("verification failed after %d attempts: %s", result.Attempts, formatMismatches(result.Mismatches))
		}
	}

	return result
}

// UpdateAndVerify updates the profile and confirms the backend stored it
func (c *Client) UpdateAndVerify(ctx context.Context, update ProfileUpdate, opts *VerificationOptions) *VerificationResult {
	if _, err := c.UpdateProfile(ctx, update); err != nil {
		return &VerificationResult{
			Error: fmt.Errorf("update failed: %w", err),
		}
	}

	return c.VerifyProfile(ctx, update, opts)
}

func formatMismatches(mismatches []FieldChange) string {
	if len(mismatches) == 0 {
		return "none"
	}
	if len(mismatches) == 1 {
		return mismatches[0].String()
	}
	parts := make([]string, len(mismatches))
	for i, m := range mismatches {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%d mismatches: %s", len(mismatches), strings.Join(parts, "; "))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
