package controller

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// bootstrap initializes the session and reports its auth state.
func bootstrap(ctx context.Context, s Session) tea.Cmd {
	return func() tea.Msg {
		if err := s.Init(ctx); err != nil {
			return BootstrapMsg{Err: err}
		}
		return BootstrapMsg{SignedIn: s.IsSignedIn(), AccountID: s.AccountID()}
	}
}

// handleBootstrap renders exactly one region on success. A failure is
// reported and leaves both regions hidden. Bootstrap is not re-entrant:
// results arriving after the first are ignored.
func (m Model) handleBootstrap(msg BootstrapMsg) (tea.Model, tea.Cmd) {
	if m.view != ViewPending {
		return m, nil
	}
	if msg.Err != nil {
		m.view = ViewFailed
		m.diag.Report("bootstrap", msg.Err)
		return m, nil
	}
	if !msg.SignedIn {
		m.view = ViewSignedOut
		return m, nil
	}
	m.view = ViewSignedIn
	m.accountID = msg.AccountID
	return m, m.form.focus()
}
