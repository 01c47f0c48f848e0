package submission

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/logging"
)

// Result is the outcome of one external operation
type Result struct {
	Success bool
	Message string
}

// Operation performs the external call for a submission
type Operation func(ctx context.Context) Result

// State is the observable submission state of a screen
type State struct {
	Pending     bool
	LastError   string
	LastSuccess string

	// Failed is set when the last resolution was a failure, even when the
	// failure carried no message.
	Failed bool

	// Seq counts resolved submissions, so equal messages from two
	// resolutions remain distinct occurrences.
	Seq uint64
}

// Idle reports whether a new submission may start
func (s State) Idle() bool {
	return !s.Pending
}

// Succeeded reports whether the last resolution was a success
func (s State) Succeeded() bool {
	return s.Seq > 0 && !s.Pending && !s.Failed
}

// Outcome is returned by OnResult
type Outcome struct {
	State State

	// ClearSecrets is set on success; password fields must be emptied
	ClearSecrets bool

	// Navigate is set on the first success only
	Navigate bool
}

// Controller owns the submission state of one screen instance
type Controller struct {
	name string

	mu        sync.Mutex
	state     State
	navigated bool
	calls     int
}

// NewController creates an idle controller. name labels log entries.
func NewController(name string) *Controller {
	return &Controller{name: name}
}

// Submit starts op if valid is true and no submission is pending.
// It returns false and changes nothing otherwise. On success the returned
// channel yields exactly one Result and is then closed.
func (c *Controller) Submit(ctx context.Context, valid bool, op Operation) (<-chan Result, bool) {
	if op == nil {
		return nil, false
	}

	c.mu.Lock()
	if !valid || c.state.Pending {
		pending := c.state.Pending
		c.mu.Unlock()
		logging.Debug("Submission ignored",
			zap.String("flow", c.name),
			zap.Bool("valid", valid),
			zap.Bool("pending", pending),
		)
		return nil, false
	}

	c.state.Pending = true
	c.state.LastError = ""
	c.state.LastSuccess = ""
	c.state.Failed = false
	c.calls++
	c.mu.Unlock()

	logging.LogSubmission(c.name, "submitted")

	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- op(ctx)
	}()

	return ch, true
}

// OnResult applies a result and clears the pending flag
func (c *Controller) OnResult(r Result) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Pending = false
	c.state.Seq++

	var out Outcome
	if r.Success {
		c.state.LastSuccess = r.Message
		c.state.LastError = ""
		c.state.Failed = false
		out.ClearSecrets = true
		if !c.navigated {
			c.navigated = true
			out.Navigate = true
		}
		logging.LogSubmission(c.name, "succeeded", zap.Bool("navigate", out.Navigate))
	} else {
		c.state.LastError = r.Message
		c.state.LastSuccess = ""
		c.state.Failed = true
		logging.LogSubmission(c.name, "failed", zap.String("message", r.Message))
	}

	out.State = c.state
	return out
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether a submission is in flight
func (c *Controller) Pending() bool {
	return c.State().Pending
}

// Navigated reports whether navigation has been triggered
func (c *Controller) Navigated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigated
}

// Calls returns how many operations have been issued
func (c *Controller) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
