package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cuenta-app/cuenta/internal/account"
)

// ProfileModel is the read-only profile view
type ProfileModel struct {
	ctx  context.Context
	id   int
	sess *Session

	profile *account.Profile
	err     error
	loading bool
	nested  bool // Esc returns to the previous screen

	spinner spinner.Model
	keys    profileKeyMap
}

func newProfileModel(ctx context.Context, id int, sess *Session, nested bool) *ProfileModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &ProfileModel{
		ctx:     ctx,
		id:      id,
		sess:    sess,
		nested:  nested,
		spinner: s,
		keys:    newProfileKeyMap(),
	}
}

// ID returns the screen instance id
func (m *ProfileModel) ID() int { return m.id }

// Route returns RouteProfile
func (m *ProfileModel) Route() Route { return RouteProfile }

// KeyMap returns the bindings shown in the footer
func (m *ProfileModel) KeyMap() help.KeyMap { return m.keys }

// Profile returns the loaded snapshot, if any
func (m *ProfileModel) Profile() *account.Profile { return m.profile }

// Init loads the profile once on entry
func (m *ProfileModel) Init() tea.Cmd {
	return m.load(false)
}

func (m *ProfileModel) load(refresh bool) tea.Cmd {
	m.loading = true
	m.err = nil
	return tea.Batch(m.spinner.Tick, loadProfile(m.ctx, m.sess, m.id, refresh))
}

// Update handles loading results, backend events and key presses
func (m *ProfileModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil || msg.profile == nil {
			m.err = msg.err
			if m.err == nil {
				m.err = account.NewParseError("empty profile response", nil)
			}
			return m, nil
		}
		m.profile = msg.profile
		return m, msgCmd(snapshotMsg{profile: *msg.profile})

	case profileEventMsg:
		if msg.event.Type == account.EventProfileUpdated && msg.event.Profile != nil {
			p := *msg.event.Profile
			m.profile = &p
			m.err = nil
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *ProfileModel) handleKey(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		return m, m.load(true)
	case key.Matches(msg, m.keys.Logout):
		return m, msgCmd(logoutRequestMsg{})
	case key.Matches(msg, m.keys.Back):
		if m.nested {
			return m, msgCmd(backMsg{})
		}
	case key.Matches(msg, m.keys.Edit):
		// Editing needs a snapshot to diff against
		if m.profile != nil {
			return m, msgCmd(openMsg{route: RouteEditProfile})
		}
	case key.Matches(msg, m.keys.Password):
		return m, msgCmd(openMsg{route: RouteChangePassword})
	}
	return m, nil
}

// View renders the profile or its loading state
func (m *ProfileModel) View() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Profile"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading profile...")
	case m.err != nil:
		b.WriteString(BlockingErrorStyle.Render("Could not load profile: " + account.GetShortErrorMessage(m.err)))
		if hint := account.GetTroubleshootingHint(m.err); hint != "" {
			b.WriteString("\n\n" + SubtitleStyle.Render(hint))
		}
		b.WriteString("\n\n" + SubtitleStyle.Render("Press r to try again"))
	case m.profile != nil:
		b.WriteString(renderProfile(m.profile))
	}

	return b.String()
}

func renderProfile(p *account.Profile) string {
	section := func(title string, rows [][2]string) string {
		lines := []string{SubtitleStyle.Render(title)}
		for _, r := range rows {
			lines = append(lines, LabelStyle.Render(r[0])+ValueStyle.Render(orDash(r[1])))
		}
		return strings.Join(lines, "\n")
	}

	identity := section("Identity", [][2]string{
		{"Nickname", p.Nick},
		{"Name", p.Name},
		{"First surname", p.Surname1},
		{"Second surname", p.Surname2},
		{"NIF", p.NIF},
	})
	contact := section("Contact", [][2]string{
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Postal code", p.PostalCode},
	})

	return lipgloss.JoinVertical(lipgloss.Left, identity, "", contact)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// loadProfile fetches the snapshot for screen id
func loadProfile(ctx context.Context, sess *Session, id int, refresh bool) tea.Cmd {
	svc, userID := sess.Service, sess.UserID
	return func() tea.Msg {
		var (
			p   *account.Profile
			err error
		)
		if refresh {
			p, err = svc.RefreshProfile(ctx, userID)
		} else {
			p, err = svc.LoadProfile(ctx, userID)
		}
		return profileLoadedMsg{screen: id, profile: p, err: err}
	}
}
