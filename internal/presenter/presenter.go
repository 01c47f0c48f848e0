// Package presenter turns submission results into transient feedback and
// navigation intents.
package presenter

import (
	"time"

	"github.com/cuenta-app/cuenta/internal/submission"
)

const (
	// LongDuration is how long error feedback stays visible
	LongDuration = 3500 * time.Millisecond

	// ShortDuration is how long success feedback stays visible
	ShortDuration = 2 * time.Second
)

// Flow identifies which screen produced a submission
type Flow int

const (
	FlowChangePassword Flow = iota
	FlowEditProfile
)

// String returns the flow name used in logs
func (f Flow) String() string {
	switch f {
	case FlowChangePassword:
		return "change_password"
	case FlowEditProfile:
		return "edit_profile"
	default:
		return "unknown"
	}
}

// Kind is the tone of a feedback message
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Action is a navigation stack operation
type Action int

const (
	// ActionNone leaves the stack alone
	ActionNone Action = iota
	// ActionPush opens Target on top of the current entry
	ActionPush
	// ActionReplace swaps the current entry for Target, so back skips the form
	ActionReplace
	// ActionPop returns to the previous entry
	ActionPop
)

// Target is a destination screen
type Target int

const (
	TargetNone Target = iota
	TargetProfile
)

// Navigation is a navigation intent produced on success
type Navigation struct {
	Action Action
	Target Target
}

// Feedback is a transient message for the user
type Feedback struct {
	Kind       Kind
	Message    string
	Duration   time.Duration
	Navigation Navigation
}

// IsError reports whether the feedback describes a failure
func (f Feedback) IsError() bool {
	return f.Kind == KindError
}

// Presenter shows each resolution at most once.
// It is owned by a single screen and is not safe for concurrent use.
type Presenter struct {
	lastSeq uint64
}

// New creates a presenter that has shown nothing yet
func New() *Presenter {
	return &Presenter{}
}

// Present maps a resolved state to feedback. It returns false while the
// state is pending, unresolved, or already presented. navigate is the
// controller's one-time navigation flag for this resolution.
func (p *Presenter) Present(flow Flow, state submission.State, navigate bool) (Feedback, bool) {
	if state.Pending || state.Seq == 0 || state.Seq == p.lastSeq {
		return Feedback{}, false
	}
	p.lastSeq = state.Seq

	if state.Failed {
		msg := state.LastError
		if msg == "" {
			msg = defaultError(flow)
		}
		return Feedback{
			Kind:     KindError,
			Message:  msg,
			Duration: LongDuration,
		}, true
	}

	msg := state.LastSuccess
	if msg == "" {
		msg = defaultSuccess(flow)
	}

	fb := Feedback{
		Kind:     KindSuccess,
		Message:  msg,
		Duration: ShortDuration,
	}
	if navigate {
		fb.Navigation = successNavigation(flow)
	}
	return fb, true
}

func successNavigation(flow Flow) Navigation {
	switch flow {
	case FlowChangePassword:
		return Navigation{Action: ActionReplace, Target: TargetProfile}
	case FlowEditProfile:
		return Navigation{Action: ActionPop, Target: TargetProfile}
	default:
		return Navigation{}
	}
}

func defaultSuccess(flow Flow) string {
	switch flow {
	case FlowChangePassword:
		return "Password changed"
	case FlowEditProfile:
		return "Profile updated"
	default:
		return "Done"
	}
}

func defaultError(flow Flow) string {
	switch flow {
	case FlowChangePassword:
		return "Could not change the password"
	case FlowEditProfile:
		return "Could not update the profile"
	default:
		return "Request failed"
	}
}
