package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/presenter"
	"github.com/cuenta-app/cuenta/internal/validation"
)

// Session is what every screen needs to talk to the backend
type Session struct {
	Service account.Service
	UserID  string
	Rules   validation.Rules
	Server  string // Shown in the header
}

// Watcher is implemented by services that stream profile events
type Watcher interface {
	WatchProfile(ctx context.Context, userID string) (<-chan account.ProfileEvent, error)
}

// screen is one entry of the navigation stack
type screen interface {
	ID() int
	Route() Route
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	KeyMap() help.KeyMap
}

// AppModel is the top-level coordinator model that owns the navigation stack
type AppModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	sess   *Session

	stack   Stack
	current screen
	nextID  int

	// Last snapshot seen by any screen, handed to the edit screen
	snapshot *account.Profile

	toast   *presenter.Feedback
	toastID int
	after   func(d time.Duration, msg tea.Msg) tea.Cmd

	events    <-chan account.ProfileEvent
	signedOut bool

	Help   help.Model
	Width  int
	Height int
}

// NewAppModel creates the application starting at start
func NewAppModel(ctx context.Context, sess Session, start Route) AppModel {
	ctx, cancel := context.WithCancel(ctx)
	sess.Rules = sess.Rules.Normalize()

	m := AppModel{
		ctx:    ctx,
		cancel: cancel,
		sess:   &sess,
		stack:  NewStack(start),
		Help:   help.New(),
		Width:  80,
		Height: 24,
		after: func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		},
	}
	m.current = m.newScreen(start)
	return m
}

// Init initializes the first screen and opens the event stream
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.current.Init(), m.watchEvents())
}

// Update handles app-level messages and routes the rest to the current screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case openMsg:
		m.stack = m.stack.Push(msg.route)
		return m.enter()

	case backMsg:
		stack, ok := m.stack.Pop()
		if !ok {
			if m.stack.Top() == RouteProfile {
				return m, nil
			}
			stack = m.stack.Replace(RouteProfile)
		}
		m.stack = stack
		return m.enter()

	case navigateMsg:
		m.stack = m.stack.Apply(msg.nav)
		return m.enter()

	case feedbackMsg:
		fb := msg.feedback
		m.toast = &fb
		m.toastID++
		return m, m.after(fb.Duration, toastExpiredMsg{id: m.toastID})

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case snapshotMsg:
		p := msg.profile
		m.snapshot = &p
		return m, nil

	case logoutRequestMsg:
		return m, m.logout()

	case logoutDoneMsg:
		if msg.err != nil {
			return m.Update(feedbackMsg{feedback: presenter.Feedback{
				Kind:     presenter.KindError,
				Message:  account.GetShortErrorMessage(msg.err),
				Duration: presenter.LongDuration,
			}})
		}
		return m.signOut()

	case eventStreamMsg:
		if msg.err != nil {
			logging.Warn("Profile events unavailable", zap.Error(msg.err))
			return m, nil
		}
		m.events = msg.events
		return m, waitForEvent(m.events)

	case eventStreamClosedMsg:
		m.events = nil
		return m, nil

	case profileEventMsg:
		return m.handleEvent(msg)
	}

	if a, ok := msg.(addressed); ok && a.screenID() != m.current.ID() {
		// Result for a screen that is no longer on display
		return m, nil
	}

	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)
	return m, cmd
}

// View renders the current screen inside the application container
func (m AppModel) View() string {
	if m.signedOut {
		return "Signed out.\n"
	}

	server := m.sess.Server
	if m.sess.UserID != "" {
		server = strings.TrimSpace(server + "  user " + m.sess.UserID)
	}

	var toast string
	if m.toast != nil {
		toast = RenderToast(*m.toast)
	}

	return RenderApplicationContainer(
		BuildHeaderContent(server),
		m.current.View(),
		toast,
		m.Help.View(m.current.KeyMap()),
		m.Width, m.Height,
	)
}

// Stack returns the navigation stack
func (m AppModel) Stack() Stack {
	return m.stack
}

// SignedOut reports whether the session was closed
func (m AppModel) SignedOut() bool {
	return m.signedOut
}

// Toast returns the visible feedback, if any
func (m AppModel) Toast() (presenter.Feedback, bool) {
	if m.toast == nil {
		return presenter.Feedback{}, false
	}
	return *m.toast, true
}

// enter creates a fresh screen for the top of the stack
func (m AppModel) enter() (tea.Model, tea.Cmd) {
	m.current = m.newScreen(m.stack.Top())
	logging.Debug("Navigated", zap.String("route", string(m.stack.Top())), zap.Int("depth", m.stack.Len()))
	return m, m.current.Init()
}

func (m *AppModel) newScreen(r Route) screen {
	m.nextID++
	switch r {
	case RouteEditProfile:
		return newEditProfileModel(m.ctx, m.nextID, m.sess, m.snapshot)
	case RouteChangePassword:
		return newPasswordModel(m.ctx, m.nextID, m.sess)
	default:
		return newProfileModel(m.ctx, m.nextID, m.sess, m.stack.Len() > 1)
	}
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m AppModel) signOut() (tea.Model, tea.Cmd) {
	m.signedOut = true
	m.stack = m.stack.Reset(RouteSignedOut)
	return m.quit()
}

func (m AppModel) logout() tea.Cmd {
	svc, ctx := m.sess.Service, m.ctx
	return func() tea.Msg {
		return logoutDoneMsg{err: svc.Logout(ctx)}
	}
}

func (m AppModel) handleEvent(msg profileEventMsg) (tea.Model, tea.Cmd) {
	ev := msg.event
	logging.Debug("Profile event", zap.String("type", string(ev.Type)))

	switch ev.Type {
	case account.EventSignedOut:
		return m.signOut()
	case account.EventProfileUpdated:
		if ev.Profile != nil {
			p := *ev.Profile
			m.snapshot = &p
		}
	}

	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)
	return m, tea.Batch(cmd, waitForEvent(m.events))
}

func (m AppModel) watchEvents() tea.Cmd {
	w, ok := m.sess.Service.(Watcher)
	if !ok {
		return nil
	}
	ctx, userID := m.ctx, m.sess.UserID
	return func() tea.Msg {
		events, err := w.WatchProfile(ctx, userID)
		return eventStreamMsg{events: events, err: err}
	}
}

func waitForEvent(events <-chan account.ProfileEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventStreamClosedMsg{}
		}
		return profileEventMsg{event: ev}
	}
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Run starts the TUI and blocks until it exits
func Run(ctx context.Context, sess Session, start Route, opts ...tea.ProgramOption) (AppModel, error) {
	if sess.Service == nil {
		return AppModel{}, fmt.Errorf("no account service configured")
	}
	if sess.UserID == "" {
		return AppModel{}, fmt.Errorf("no user configured")
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(NewAppModel(ctx, sess, start), opts...).Run()
	if err != nil {
		return AppModel{}, fmt.Errorf("TUI error: %w", err)
	}
	return final.(AppModel), nil
}
