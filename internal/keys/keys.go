package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the reminder pane.
type KeyMap struct {
	// Quick pick navigation
	Left  key.Binding
	Right key.Binding
	Pick  key.Binding

	// Direct quick pick selection (1-5)
	QuickPick key.Binding

	// Switch focus between quick picks and the custom date field
	Focus key.Binding

	// Actions
	SetReminder key.Binding
	SendWithout key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next"),
		),
		Pick: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "select"),
		),
		QuickPick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "quick pick"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "date field"),
		),
		SetReminder: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "set reminder & send"),
		),
		SendWithout: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "send without reminder"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.QuickPick, k.SetReminder, k.SendWithout, k.Back, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Pick, k.QuickPick, k.Focus},
		{k.SetReminder, k.SendWithout},
		{k.Back, k.Quit, k.Help},
	}
}
