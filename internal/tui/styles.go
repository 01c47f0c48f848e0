package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cuenta-app/cuenta/internal/presenter"
	"github.com/cuenta-app/cuenta/internal/ui"
	"github.com/cuenta-app/cuenta/internal/version"
)

// Application branding constants
const (
	AppName = "CUENTA"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	labelWidth       = 22 // Width of the field label column
)

// Color palette, shared with the one-shot CLI output
var (
	PrimaryColor = ui.PrimaryColor
	SuccessColor = ui.SuccessColor
	WarningColor = ui.WarningColor
	ErrorColor   = ui.ErrorColor
	TextColor    = ui.TextColor
	SubtleColor  = ui.MutedColor
)

// Common styles
var (
	// Title style - bold, primary color
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// LabelStyle is for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(labelWidth)

	// FocusedLabelStyle is for the label of the focused field
	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Width(labelWidth)

	// ValueStyle is for read-only values
	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// FieldErrorStyle is for inline validation errors
	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(labelWidth)

	// ModifiedStyle marks fields that differ from the snapshot
	ModifiedStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ButtonStyle is for an enabled submit button
	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2)

	// DisabledButtonStyle is for a disabled submit button
	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Padding(0, 2).
				Strikethrough(true)

	// BlockingErrorStyle replaces a form that could not be loaded
	BlockingErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true).
				Padding(1, 2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ErrorColor)

	// Toast styles
	successToastStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(SuccessColor)

	errorToastStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	// SpinnerStyle colors the pending spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderToast renders a feedback message
func RenderToast(fb presenter.Feedback) string {
	if fb.IsError() {
		return errorToastStyle.Render(ui.FailureMarker + " " + fb.Message)
	}
	return successToastStyle.Render(ui.SuccessMarker + " " + fb.Message)
}

// RenderButton renders a submit button
func RenderButton(label string, enabled bool) string {
	if enabled {
		return ButtonStyle.Render(label)
	}
	return DisabledButtonStyle.Render(label)
}

// BuildHeaderContent creates header content with app name and server
func BuildHeaderContent(server string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(server)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps every screen: header, content, toast and
// footer help inside a bordered full-screen panel
func RenderApplicationContainer(header, content, toast, footer string, width, height int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(PrimaryColor).
		Width(width-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(PrimaryColor).
		Width(width-4).
		Padding(0, 1).
		Foreground(SubtleColor)

	body := lipgloss.NewStyle().Width(width-4).Padding(1, 2).Render(content)

	sections := []string{headerStyle.Render(header), body}
	if toast != "" {
		sections = append(sections, lipgloss.NewStyle().PaddingLeft(2).Render(toast))
	}
	sections = append(sections, footerStyle.Render(footer))

	outer := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2)
	if height > 2 {
		outer = outer.Height(height - 2).AlignVertical(lipgloss.Top)
	}

	return outer.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
