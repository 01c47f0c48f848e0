package tui

import "github.com/charmbracelet/bubbles/key"

// profileKeyMap defines key bindings for the profile view
type profileKeyMap struct {
	Edit     key.Binding
	Password key.Binding
	Reload   key.Binding
	Logout   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k profileKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Password, k.Reload, k.Logout, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k profileKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Edit, k.Password, k.Reload},
		{k.Logout, k.Back, k.Quit},
	}
}

func newProfileKeyMap() profileKeyMap {
	return profileKeyMap{
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit profile"),
		),
		Password: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "change password"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Logout: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "logout"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// formKeyMap defines key bindings shared by the edit screens
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Toggle key.Binding
	Back   key.Binding

	secrets bool
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	if k.secrets {
		return []key.Binding{k.Next, k.Prev, k.Toggle, k.Submit, k.Back}
	}
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newFormKeyMap(secrets bool) formKeyMap {
	return formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "show/hide"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		secrets: secrets,
	}
}
