package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/form"
	"github.com/cuenta-app/cuenta/internal/presenter"
	"github.com/cuenta-app/cuenta/internal/submission"
	"github.com/cuenta-app/cuenta/internal/validation"
)

// PasswordModel is the change-password form
type PasswordModel struct {
	ctx  context.Context
	id   int
	sess *Session

	form   form.PasswordForm
	fields fieldInputs

	ctrl      *submission.Controller
	presenter *presenter.Presenter

	strength progress.Model
	spinner  spinner.Model
	keys     formKeyMap
}

func newPasswordModel(ctx context.Context, id int, sess *Session) *PasswordModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &PasswordModel{
		ctx:       ctx,
		id:        id,
		sess:      sess,
		fields:    newFieldInputs(form.PasswordFields),
		ctrl:      submission.NewController(presenter.FlowChangePassword.String()),
		presenter: presenter.New(),
		strength: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(inputWidth),
			progress.WithoutPercentage(),
		),
		spinner: s,
		keys:    newFormKeyMap(true),
	}
}

// ID returns the screen instance id
func (m *PasswordModel) ID() int { return m.id }

// Route returns RouteChangePassword
func (m *PasswordModel) Route() Route { return RouteChangePassword }

// KeyMap returns the bindings shown in the footer
func (m *PasswordModel) KeyMap() help.KeyMap { return m.keys }

// Form returns the current form snapshot
func (m *PasswordModel) Form() form.PasswordForm { return m.form }

// Controller returns the submission controller of this screen
func (m *PasswordModel) Controller() *submission.Controller { return m.ctrl }

// CanSubmit reports whether the submit button is enabled
func (m *PasswordModel) CanSubmit() bool {
	return m.form.CanSubmit(m.ctrl.Pending())
}

// Init focuses the first field
func (m *PasswordModel) Init() tea.Cmd {
	return m.fields.focusAt(0)
}

// Update handles submission results and key presses
func (m *PasswordModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		out := m.ctrl.OnResult(msg.result)
		var focus tea.Cmd
		if out.ClearSecrets {
			focus = m.clear()
		}
		return m, tea.Batch(focus, present(m.presenter, presenter.FlowChangePassword, out))

	case spinner.TickMsg:
		if !m.ctrl.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	_, _, _, cmd = m.fields.update(msg)
	return m, cmd
}

func (m *PasswordModel) handleKey(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.ctrl.Pending() {
			// Back waits for the result
			return m, nil
		}
		return m, msgCmd(backMsg{})
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Toggle):
		id := m.fields.focused()
		m.form = m.form.Reduce(form.VisibilityToggled{Field: id})
		f, _ := m.form.Get(id)
		m.fields.setVisible(id, f.Visible)
		return m, nil
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

func (m *PasswordModel) submit() (screen, tea.Cmd) {
	op := account.ChangePasswordOp(m.sess.Service, m.sess.UserID, m.form.Current.Value, m.form.New.Value)
	results, ok := m.ctrl.Submit(m.ctx, m.form.Valid(), op)
	if !ok {
		return m, nil
	}
	return m, tea.Batch(m.spinner.Tick, waitForResult(m.id, results))
}

// clear empties every secret, in the form and in the inputs
func (m *PasswordModel) clear() tea.Cmd {
	m.form = m.form.ClearSecrets()
	for _, id := range form.PasswordFields {
		m.fields.set(id, "")
		m.fields.setVisible(id, false)
	}
	return m.fields.focusAt(0)
}

// View renders the form
func (m *PasswordModel) View() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Change password"))
	b.WriteString("\n")

	v := m.form.Validity()
	errs := errorsByField(m.form.Errors())

	for _, id := range form.PasswordFields {
		var errMsg string
		switch id {
		case form.FieldCurrentPassword:
			if v.Current.ShowError() {
				errMsg = errs[id.String()]
			}
		case form.FieldNewPassword:
			if v.SameAsCurrent {
				errMsg = "must differ from the current password"
			} else if v.New.ShowError() {
				errMsg = errs[id.String()]
			}
		case form.FieldConfirmPassword:
			if v.Confirm.ShowError() {
				errMsg = errs[id.String()]
			}
		}

		var marker string
		if f, _ := m.form.Get(id); f.Visible {
			marker = SubtitleStyle.Render("(visible)")
		}

		b.WriteString(renderField(id, id == m.fields.focused(), m.fields.view(id), marker, errMsg))
		b.WriteString("\n")

		if id == form.FieldNewPassword && m.form.New.Value != "" {
			b.WriteString(LabelStyle.Render("Strength"))
			b.WriteString(m.strength.ViewAs(v.Strength))
			b.WriteString(" " + SubtitleStyle.Render(validation.StrengthLabel(v.Strength)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(RenderButton("Change password", m.CanSubmit()))
	if m.ctrl.Pending() {
		b.WriteString("  " + m.spinner.View() + " Changing password...")
	}

	return b.String()
}
