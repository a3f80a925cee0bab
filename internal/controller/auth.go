package controller

import tea "github.com/charmbracelet/bubbletea"

// signIn dispatches the wallet sign-in primitive.
func (m Model) signIn() (tea.Model, tea.Cmd) {
	if m.authPending {
		return m, nil
	}
	m.authPending = true
	return m, authCmd(ActionLogin, func() error { return m.session.Login(m.ctx) })
}

// signOut dispatches the wallet sign-out primitive.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	if m.authPending {
		return m, nil
	}
	m.authPending = true
	return m, authCmd(ActionLogout, func() error { return m.session.Logout(m.ctx) })
}

func authCmd(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return AuthDoneMsg{Action: action, Err: fn()}
	}
}

// handleAuthDone quits for a reload after a successful sign-in or sign-out.
// Failures are reported and shown under the region; the view is unchanged.
func (m Model) handleAuthDone(msg AuthDoneMsg) (tea.Model, tea.Cmd) {
	m.authPending = false
	if msg.Err != nil {
		m.authErr = msg.Err.Error()
		m.diag.Report(msg.Action, msg.Err)
		return m, nil
	}
	m.authErr = ""
	m.reload = true
	return m, tea.Quit
}
