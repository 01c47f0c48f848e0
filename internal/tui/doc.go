// Package tui is the interactive terminal front end of cuenta.
//
// It is built on Bubble Tea. AppModel owns a navigation stack of screens
// (profile, edit-profile, change-password) and everything that outlives a
// single screen: the transient feedback toast, the last profile snapshot
// and the backend event stream.
//
// Each form screen owns a submission.Controller and a presenter.Presenter.
// Screens never navigate on their own; they emit feedback and navigation
// requests that the app applies to the stack. Results of asynchronous
// work are addressed to the screen instance that started it and are
// dropped once that instance has left the screen.
package tui
