package controller

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// signedOutKeys holds key bindings for the signed-out view.
type signedOutKeys struct {
	SignIn key.Binding
	Quit   key.Binding
}

// ShortHelp returns the signed-out bindings for the help bar.
func (k signedOutKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.SignIn, k.Quit}
}

// FullHelp returns the signed-out bindings grouped for expanded help.
func (k signedOutKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.SignIn, k.Quit}}
}

// signedInKeys holds key bindings for the signed-in view.
type signedInKeys struct {
	Submit  key.Binding
	SignOut key.Binding
	Quit    key.Binding
}

// ShortHelp returns the signed-in bindings for the help bar.
func (k signedInKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SignOut, k.Quit}
}

// FullHelp returns the signed-in bindings grouped for expanded help.
func (k signedInKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit},
		{k.SignOut, k.Quit},
	}
}

// alertKeys holds key bindings while the alert is shown.
type alertKeys struct {
	AnyKey key.Binding
}

// ShortHelp returns the alert bindings for the help bar.
func (k alertKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.AnyKey}
}

// FullHelp returns the alert bindings grouped for expanded help.
func (k alertKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.AnyKey}}
}

// quitKeys is used while no region is visible.
type quitKeys struct {
	Quit key.Binding
}

// ShortHelp returns the quit binding for the help bar.
func (k quitKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns the quit binding.
func (k quitKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

func quitBinding() key.Binding {
	return key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	)
}

// SignedOutKeyMap returns the key bindings for the signed-out view.
func SignedOutKeyMap() signedOutKeys {
	return signedOutKeys{
		SignIn: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "sign in"),
		),
		Quit: quitBinding(),
	}
}

// SignedInKeyMap returns the key bindings for the signed-in view. The submit
// binding is disabled while the submit control is not interactive.
func SignedInKeyMap(canSubmit bool) signedInKeys {
	k := signedInKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "sign out"),
		),
		Quit: quitBinding(),
	}
	k.Submit.SetEnabled(canSubmit)
	return k
}

// AlertKeyMap returns the key bindings while the alert is shown.
func AlertKeyMap() alertKeys {
	return alertKeys{
		// Display only; any key press dismisses the alert in Update.
		AnyKey: key.NewBinding(
			key.WithKeys("any"),
			key.WithHelp("any key", "dismiss"),
		),
	}
}

// HelpBindings returns the help.KeyMap for the current view.
func HelpBindings(view View, alert bool, canSubmit bool) help.KeyMap {
	if alert {
		return AlertKeyMap()
	}
	switch view {
	case ViewSignedOut:
		return SignedOutKeyMap()
	case ViewSignedIn:
		return SignedInKeyMap(canSubmit)
	default:
		return quitKeys{Quit: quitBinding()}
	}
}
