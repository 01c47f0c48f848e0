package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/form"
	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/presenter"
	"github.com/cuenta-app/cuenta/internal/submission"
)

// EditProfileModel is the edit-profile form
type EditProfileModel struct {
	ctx  context.Context
	id   int
	sess *Session

	snapshot *account.Profile
	form     form.ProfileForm
	fields   fieldInputs

	ctrl      *submission.Controller
	presenter *presenter.Presenter

	loading bool
	loadErr error

	spinner spinner.Model
	keys    formKeyMap
}

func newEditProfileModel(ctx context.Context, id int, sess *Session, snapshot *account.Profile) *EditProfileModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := &EditProfileModel{
		ctx:       ctx,
		id:        id,
		sess:      sess,
		fields:    newFieldInputs(form.ProfileFields),
		ctrl:      submission.NewController(presenter.FlowEditProfile.String()),
		presenter: presenter.New(),
		spinner:   s,
		keys:      newFormKeyMap(false),
	}
	if snapshot != nil {
		m.setSnapshot(*snapshot)
	}
	return m
}

// ID returns the screen instance id
func (m *EditProfileModel) ID() int { return m.id }

// Route returns RouteEditProfile
func (m *EditProfileModel) Route() Route { return RouteEditProfile }

// KeyMap returns the bindings shown in the footer
func (m *EditProfileModel) KeyMap() help.KeyMap { return m.keys }

// Form returns the current form snapshot
func (m *EditProfileModel) Form() form.ProfileForm { return m.form }

// Controller returns the submission controller of this screen
func (m *EditProfileModel) Controller() *submission.Controller { return m.ctrl }

// CanSubmit reports whether the save button is enabled
func (m *EditProfileModel) CanSubmit() bool {
	return m.snapshot != nil && m.form.CanSubmit(*m.snapshot, m.ctrl.Pending())
}

// Init loads the snapshot when the screen was opened without one
func (m *EditProfileModel) Init() tea.Cmd {
	if m.snapshot != nil {
		return m.fields.focusAt(0)
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, loadProfile(m.ctx, m.sess, m.id, false))
}

func (m *EditProfileModel) setSnapshot(p account.Profile) {
	if m.snapshot == nil {
		m.form = form.NewProfileForm(p).WithRules(m.sess.Rules)
	} else {
		m.form = m.form.Reduce(form.SnapshotLoaded{Profile: p})
	}
	m.snapshot = &p
	for _, id := range form.ProfileFields {
		f, _ := m.form.Get(id)
		m.fields.set(id, f.Value)
	}
}

// Update handles loading, submission results and key presses
func (m *EditProfileModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil || msg.profile == nil {
			m.loadErr = msg.err
			if m.loadErr == nil {
				m.loadErr = account.NewParseError("empty profile response", nil)
			}
			return m, nil
		}
		m.setSnapshot(*msg.profile)
		return m, tea.Batch(m.fields.focusAt(0), msgCmd(snapshotMsg{profile: *msg.profile}))

	case profileEventMsg:
		// Refresh untouched forms only; typed edits are never overwritten
		ev := msg.event
		if ev.Type == account.EventProfileUpdated && ev.Profile != nil && m.snapshot != nil &&
			!m.ctrl.Pending() && !m.form.Dirty(*m.snapshot) {
			m.setSnapshot(*ev.Profile)
		}
		return m, nil

	case submitResultMsg:
		return m.handleResult(msg.result)

	case spinner.TickMsg:
		if !m.loading && !m.ctrl.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input housekeeping
	var cmd tea.Cmd
	_, _, _, cmd = m.fields.update(msg)
	return m, cmd
}

func (m *EditProfileModel) handleKey(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.ctrl.Pending() {
			// Back waits for the result
			return m, nil
		}
		return m, msgCmd(backMsg{})
	case m.snapshot == nil:
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Next):
		return m, m.fields.next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.fields.prev()
	case msg.Type == tea.KeyEnter:
		if m.fields.last() {
			return m.submit()
		}
		return m, m.fields.next()
	}

	id, value, changed, cmd := m.fields.update(msg)
	if changed {
		m.form = m.form.Reduce(form.FieldChanged{Field: id, Value: value})
	}
	return m, cmd
}

func (m *EditProfileModel) submit() (screen, tea.Cmd) {
	valid := m.form.CanSubmit(*m.snapshot, false)
	update := m.form.Update(m.sess.UserID)

	results, ok := m.ctrl.Submit(m.ctx, valid, account.UpdateProfileOp(m.sess.Service, update))
	if !ok {
		logging.Debug("Save ignored",
			zap.Bool("valid", valid),
			zap.Bool("pending", m.ctrl.Pending()),
			zap.Int("changed", len(m.form.Changed(*m.snapshot))))
		return m, nil
	}
	return m, tea.Batch(m.spinner.Tick, waitForResult(m.id, results))
}

func (m *EditProfileModel) handleResult(r submission.Result) (screen, tea.Cmd) {
	out := m.ctrl.OnResult(r)
	return m, present(m.presenter, presenter.FlowEditProfile, out)
}

// View renders the form
func (m *EditProfileModel) View() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Edit profile"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading profile...")
		return b.String()
	case m.loadErr != nil:
		b.WriteString(BlockingErrorStyle.Render("Could not load profile: " + account.GetShortErrorMessage(m.loadErr)))
		b.WriteString("\n\n" + SubtitleStyle.Render("Press esc to go back"))
		return b.String()
	}

	v := m.form.Validity()
	errs := errorsByField(m.form.Errors())
	changed := make(map[form.FieldID]bool)
	for _, id := range m.form.Changed(*m.snapshot) {
		changed[id] = true
	}

	for _, id := range form.ProfileFields {
		var marker, errMsg string
		if changed[id] {
			marker = ModifiedStyle.Render("●")
		}
		if v.ShowError(id) {
			errMsg = errs[id.String()]
		}
		b.WriteString(renderField(id, id == m.fields.focused(), m.fields.view(id), marker, errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderButton("Save", m.CanSubmit()))
	switch {
	case m.ctrl.Pending():
		b.WriteString("  " + m.spinner.View() + " Saving...")
	case len(changed) > 0:
		b.WriteString("  " + SubtitleStyle.Render(fmt.Sprintf("%d field(s) modified", len(changed))))
	}

	return b.String()
}

// waitForResult delivers the submission result to screen id
func waitForResult(id int, results <-chan submission.Result) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{screen: id, result: <-results}
	}
}

// present turns an outcome into toast and navigation requests for the app
func present(p *presenter.Presenter, flow presenter.Flow, out submission.Outcome) tea.Cmd {
	fb, ok := p.Present(flow, out.State, out.Navigate)
	if !ok {
		return nil
	}
	cmds := []tea.Cmd{msgCmd(feedbackMsg{feedback: fb})}
	if fb.Navigation.Action != presenter.ActionNone {
		cmds = append(cmds, msgCmd(navigateMsg{nav: fb.Navigation}))
	}
	return tea.Batch(cmds...)
}
