package controller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status line text.
const (
	statusReady   = "Ready"
	statusSending = "Sending…"
	statusWaiting = "Submit unlocks when the notification closes"
	statusFailed  = "Could not connect. Details are in the diagnostics log."
)

// render draws the visible region, overlays, and help bar.
func (m Model) render() string {
	var sections []string
	sections = append(sections, m.header())

	switch m.view {
	case ViewPending:
		sections = append(sections, fmt.Sprintf("%s Connecting to %s…", m.spinner.View(), m.networkLabel()))
	case ViewSignedOut:
		sections = append(sections, RegionBorder().Render(m.signedOutRegion()))
	case ViewSignedIn:
		sections = append(sections, RegionBorder().Render(m.signedInRegion()))
		if m.notification.visible {
			sections = append(sections, NotificationStyle().Render(m.notification.content))
		}
	case ViewFailed:
		sections = append(sections, DimStyle().Render(statusFailed))
	}

	if m.authErr != "" {
		sections = append(sections, DimStyle().Render(m.authErr))
	}
	if m.alert != "" {
		sections = append(sections, AlertStyle().Render(m.alert))
	}

	sections = append(sections, m.help.View(HelpBindings(m.view, m.alert != "", m.form.canSubmit())))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) header() string {
	return TitleStyle().Render("hello near") + DimStyle().Render(" · "+m.networkLabel())
}

func (m Model) networkLabel() string {
	if m.networkID == "" {
		return "network"
	}
	return m.networkID
}

func (m Model) signedOutRegion() string {
	var b strings.Builder
	b.WriteString(TitleStyle().Render("Welcome!"))
	b.WriteString("\n\n")
	b.WriteString("Sign in with your NEAR wallet to save a greeting on chain.\n")
	b.WriteString(ButtonStyle(!m.authPending).Render("[ Sign in ]"))
	return b.String()
}

func (m Model) signedInRegion() string {
	targets := m.accountTargets()

	var b strings.Builder
	b.WriteString(TitleStyle().Render("Hi, " + targets[0] + "!"))
	b.WriteString("\n\n")
	b.WriteString("Name\n")
	b.WriteString(m.form.input.View())
	b.WriteString("\n")
	b.WriteString(ButtonStyle(m.form.canSubmit()).Render("[ Submit ]"))
	b.WriteString("  ")
	b.WriteString(DimStyle().Render(m.formStatus()))
	if len(targets) > 1 {
		b.WriteString("\n\n")
		b.WriteString(DimStyle().Render("Explorer: " + targets[1]))
	}
	return b.String()
}

// accountTargets returns every rendering of the signed-in account id.
func (m Model) accountTargets() []string {
	targets := []string{m.accountID}
	if m.explorerURL != "" {
		targets = append(targets, strings.TrimRight(m.explorerURL, "/")+"/accounts/"+m.accountID)
	}
	return targets
}

func (m Model) formStatus() string {
	switch {
	case m.form.locked():
		return statusSending
	case !m.form.canSubmit():
		return statusWaiting
	default:
		return statusReady
	}
}
