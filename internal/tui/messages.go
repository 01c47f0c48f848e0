package tui

import (
	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/presenter"
	"github.com/cuenta-app/cuenta/internal/submission"
)

// addressed messages belong to one screen instance and are dropped once
// that instance is no longer on screen
type addressed interface {
	screenID() int
}

// profileLoadedMsg carries the result of loading the snapshot
type profileLoadedMsg struct {
	screen  int
	profile *account.Profile
	err     error
}

func (m profileLoadedMsg) screenID() int { return m.screen }

// submitResultMsg carries the result of a submission
type submitResultMsg struct {
	screen int
	result submission.Result
}

func (m submitResultMsg) screenID() int { return m.screen }

// openMsg asks the app to push a screen
type openMsg struct {
	route Route
}

// backMsg asks the app to pop the current screen
type backMsg struct{}

// navigateMsg asks the app to apply a presenter navigation
type navigateMsg struct {
	nav presenter.Navigation
}

// feedbackMsg asks the app to show a toast
type feedbackMsg struct {
	feedback presenter.Feedback
}

// toastExpiredMsg hides the toast with the given id
type toastExpiredMsg struct {
	id int
}

// snapshotMsg shares a freshly loaded snapshot with the app
type snapshotMsg struct {
	profile account.Profile
}

// logoutRequestMsg asks the app to end the session
type logoutRequestMsg struct{}

// logoutDoneMsg carries the logout result
type logoutDoneMsg struct {
	err error
}

// eventStreamMsg carries an opened event stream
type eventStreamMsg struct {
	events <-chan account.ProfileEvent
	err    error
}

// profileEventMsg carries one backend event
type profileEventMsg struct {
	event account.ProfileEvent
}

// eventStreamClosedMsg is sent once the event stream ends
type eventStreamClosedMsg struct{}
