package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/validation"
)

// fakeService is an in-memory account.Service
type fakeService struct {
	mu      sync.Mutex
	profile account.Profile

	loadErr     error
	updateErr   error
	passwordErr error
	logoutErr   error

	// block, when set, holds every submission until it is closed
	block chan struct{}

	loads      int
	refreshes  int
	updates    int
	passwords  int
	logouts    int
	lastUpdate account.ProfileUpdate
}

func newFakeService() *fakeService {
	return &fakeService{
		profile: account.Profile{
			ID:       "u-1",
			Nick:     "anag",
			Name:     "Ana",
			Surname1: "García",
			NIF:      "12345678A",
			Email:    "ana@example.com",
		},
	}
}

func (f *fakeService) LoadProfile(ctx context.Context, userID string) (*account.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	p := f.profile
	return &p, nil
}

func (f *fakeService) RefreshProfile(ctx context.Context, userID string) (*account.Profile, error) {
	f.mu.Lock()
	f.refreshes++
	f.mu.Unlock()
	return f.LoadProfile(ctx, userID)
}

func (f *fakeService) wait() {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (f *fakeService) UpdateProfile(ctx context.Context, update account.ProfileUpdate) (*account.Profile, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.lastUpdate = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.profile = update.Apply(f.profile)
	p := f.profile
	return &p, nil
}

func (f *fakeService) ChangePassword(ctx context.Context, userID, current, next string) (string, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords++
	if f.passwordErr != nil {
		return "", f.passwordErr
	}
	return "Password changed", nil
}

func (f *fakeService) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return f.logoutErr
}

func (f *fakeService) counts() (updates, passwords int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates, f.passwords
}

// watchingService adds a pre-filled event stream to fakeService
type watchingService struct {
	*fakeService
	events chan account.ProfileEvent
}

func (w *watchingService) WatchProfile(ctx context.Context, userID string) (<-chan account.ProfileEvent, error) {
	return w.events, nil
}

// drain runs cmd and returns the messages it produces. Commands that do
// not finish promptly (timers, cursor blink, blocked reads) are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch msg := msg.(type) {
		case nil, spinner.TickMsg:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, drain(c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// harness feeds an AppModel its own messages until it settles
type harness struct {
	t    *testing.T
	m    AppModel
	quit bool
}

func newHarness(t *testing.T, svc account.Service, start Route) *harness {
	t.Helper()

	m := NewAppModel(context.Background(), Session{
		Service: svc,
		UserID:  "u-1",
		Rules:   validation.DefaultRules(),
		Server:  "http://cuenta.test",
	}, start)
	m.after = func(time.Duration, tea.Msg) tea.Cmd { return nil }

	h := &harness{t: t, m: m}
	h.run(m.Init())
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := drain(cmd)
	for i := 0; len(queue) > 0; i++ {
		require.Less(h.t, i, 200, "message loop did not settle")

		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(tea.QuitMsg); ok {
			h.quit = true
			continue
		}
		queue = append(queue, drain(h.update(msg))...)
	}
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	model, cmd := h.m.Update(msg)
	h.m = model.(AppModel)
	return cmd
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	h.run(h.update(msg))
}

func (h *harness) press(k tea.KeyType) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: k})
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) routes() []Route {
	return h.m.Stack().Routes()
}
