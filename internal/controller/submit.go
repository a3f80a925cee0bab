package controller

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
)

// submit locks the form and dispatches the greeting call. Submissions are
// refused while the form is locked or the submit control is disabled.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.form.acquire() {
		return m, nil
	}
	id := m.newID()
	m.inFlight = id
	return m, callGreeting(m.ctx, m.session, id, m.form.value())
}

// callGreeting invokes the remote call. A panic in the session is turned
// into a failed result so the form is always released.
func callGreeting(ctx context.Context, s Session, id, name string) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = SubmitResultMsg{ID: id, Name: name, Err: fmt.Errorf("controller: greeting call panicked: %v", r)}
			}
		}()
		message, err := s.GetHello(ctx, name)
		return SubmitResultMsg{ID: id, Name: name, Message: message, Err: err}
	}
}

// handleSubmitResult releases the form, then shows the notification and
// starts its dismissal timer. A failed call alerts the user and reports to
// diagnostics; the notification keeps its previous content.
func (m Model) handleSubmitResult(msg SubmitResultMsg) (tea.Model, tea.Cmd) {
	if msg.ID == "" || msg.ID != m.inFlight {
		return m, nil
	}
	m.inFlight = ""

	focus := m.form.settle(func() {
		if msg.Err != nil {
			m.alert = AlertMessage
			m.diag.Report("get_hello", msg.Err, "submission_id", msg.ID, "name", msg.Name)
			return
		}
		m.notification.content = msg.Message
	})

	m.notification.visible = true
	m.notification.cycleID = msg.ID
	return m, tea.Batch(focus, dismissAfter(m.clock, m.notifyFor, msg.ID))
}

// dismissAfter fires NotificationExpiredMsg once d has elapsed on clock.
func dismissAfter(clock clockwork.Clock, d time.Duration, id string) tea.Cmd {
	return func() tea.Msg {
		<-clock.After(d)
		return NotificationExpiredMsg{ID: id}
	}
}

// handleNotificationExpired hides the notification and re-enables the
// submit control. Expirations from an earlier cycle are ignored.
func (m Model) handleNotificationExpired(msg NotificationExpiredMsg) (tea.Model, tea.Cmd) {
	if !m.notification.visible || msg.ID != m.notification.cycleID {
		return m, nil
	}
	m.notification.visible = false
	m.notification.cycleID = ""
	m.form.enableSubmit()
	return m, nil
}
