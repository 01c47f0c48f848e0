package tui

import "github.com/cuenta-app/cuenta/internal/presenter"

// Route identifies a screen
type Route string

const (
	RouteProfile        Route = "profile"
	RouteEditProfile    Route = "edit-profile"
	RouteChangePassword Route = "change-password"
	RouteSignedOut      Route = "signed-out"
)

// ParseRoute maps a CLI name to a start route
func ParseRoute(name string) (Route, bool) {
	switch Route(name) {
	case RouteProfile, RouteEditProfile, RouteChangePassword:
		return Route(name), true
	case "":
		return RouteProfile, true
	}
	switch name {
	case "edit":
		return RouteEditProfile, true
	case "password", "passwd":
		return RouteChangePassword, true
	}
	return "", false
}

// Stack is an immutable navigation stack; the last entry is on screen
type Stack struct {
	routes []Route
}

// NewStack creates a stack holding root
func NewStack(root Route) Stack {
	return Stack{routes: []Route{root}}
}

// Top returns the visible route
func (s Stack) Top() Route {
	if len(s.routes) == 0 {
		return ""
	}
	return s.routes[len(s.routes)-1]
}

// Len returns the number of entries
func (s Stack) Len() int {
	return len(s.routes)
}

// Routes returns a copy of the entries, bottom first
func (s Stack) Routes() []Route {
	return append([]Route(nil), s.routes...)
}

// Push opens r on top of the current entry
func (s Stack) Push(r Route) Stack {
	return Stack{routes: append(s.Routes(), r)}
}

// Pop drops the top entry. The root entry is never popped.
func (s Stack) Pop() (Stack, bool) {
	if len(s.routes) <= 1 {
		return s, false
	}
	return Stack{routes: s.Routes()[:len(s.routes)-1]}, true
}

// Replace swaps the top entry for r
func (s Stack) Replace(r Route) Stack {
	if len(s.routes) == 0 {
		return NewStack(r)
	}
	routes := s.Routes()
	routes[len(routes)-1] = r
	return Stack{routes: routes}
}

// Reset drops every entry and starts over at r
func (s Stack) Reset(r Route) Stack {
	return NewStack(r)
}

// Apply performs a presenter navigation intent
func (s Stack) Apply(nav presenter.Navigation) Stack {
	target, ok := routeFor(nav.Target)
	switch nav.Action {
	case presenter.ActionPush:
		if ok {
			return s.Push(target)
		}
	case presenter.ActionReplace:
		if ok {
			return s.Replace(target)
		}
	case presenter.ActionPop:
		if popped, popOK := s.Pop(); popOK {
			return popped
		}
		// Started directly on a form; land on the target instead
		if ok {
			return s.Replace(target)
		}
	}
	return s
}

func routeFor(t presenter.Target) (Route, bool) {
	switch t {
	case presenter.TargetProfile:
		return RouteProfile, true
	default:
		return "", false
	}
}
