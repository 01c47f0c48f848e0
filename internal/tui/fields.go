package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cuenta-app/cuenta/internal/form"
	"github.com/cuenta-app/cuenta/internal/validation"
)

const inputWidth = 36

// fieldInputs keeps one text input per form field plus the focus index
type fieldInputs struct {
	ids    []form.FieldID
	inputs []textinput.Model
	focus  int
}

func newFieldInputs(ids []form.FieldID) fieldInputs {
	f := fieldInputs{
		ids:    ids,
		inputs: make([]textinput.Model, len(ids)),
	}
	for i, id := range ids {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = inputWidth
		ti.Placeholder = placeholder(id)
		if id.Secret() {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs[i] = ti
	}
	f.focusAt(0)
	return f
}

func placeholder(id form.FieldID) string {
	switch {
	case id.Secret():
		return ""
	case form.Mandatory(id):
		return "required"
	default:
		return "optional"
	}
}

// focusAt moves the focus, wrapping around both ends
func (f *fieldInputs) focusAt(i int) tea.Cmd {
	n := len(f.inputs)
	if n == 0 {
		return nil
	}
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *fieldInputs) next() tea.Cmd { return f.focusAt(f.focus + 1) }
func (f *fieldInputs) prev() tea.Cmd { return f.focusAt(f.focus - 1) }

func (f fieldInputs) focused() form.FieldID {
	return f.ids[f.focus]
}

func (f fieldInputs) last() bool {
	return f.focus == len(f.ids)-1
}

// update forwards msg to the focused input and reports its new value
func (f *fieldInputs) update(msg tea.Msg) (form.FieldID, string, bool, tea.Cmd) {
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	after := f.inputs[f.focus].Value()
	return f.ids[f.focus], after, after != before, cmd
}

func (f *fieldInputs) index(id form.FieldID) int {
	for i, fid := range f.ids {
		if fid == id {
			return i
		}
	}
	return -1
}

func (f *fieldInputs) set(id form.FieldID, value string) {
	if i := f.index(id); i >= 0 {
		f.inputs[i].SetValue(value)
	}
}

func (f *fieldInputs) setVisible(id form.FieldID, visible bool) {
	i := f.index(id)
	if i < 0 {
		return
	}
	if visible {
		f.inputs[i].EchoMode = textinput.EchoNormal
	} else {
		f.inputs[i].EchoMode = textinput.EchoPassword
	}
}

func (f fieldInputs) view(id form.FieldID) string {
	if i := f.index(id); i >= 0 {
		return f.inputs[i].View()
	}
	return ""
}

// errorsByField indexes validation errors by field key, first error wins
func errorsByField(errs []error) map[string]string {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		var vErr *validation.ValidationError
		if !errors.As(err, &vErr) {
			continue
		}
		if _, seen := out[vErr.Field]; !seen {
			out[vErr.Field] = vErr.Message
		}
	}
	return out
}

// renderField renders one labelled input with its marker and inline error
func renderField(id form.FieldID, focused bool, input, marker, errMsg string) string {
	label := LabelStyle.Render(id.Label())
	if focused {
		label = FocusedLabelStyle.Render(id.Label())
	}

	var b strings.Builder
	b.WriteString(label + input)
	if marker != "" {
		b.WriteString(" " + marker)
	}
	if errMsg != "" {
		b.WriteString("\n" + FieldErrorStyle.Render(errMsg))
	}
	return b.String()
}
