package controller

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultNotificationDuration is how long the post-submit notification stays
// visible before the submit control is re-enabled.
const DefaultNotificationDuration = 5000 * time.Millisecond

// notification is the post-submit confirmation region. Its content persists
// across submissions and is only replaced by a successful result.
type notification struct {
	content string
	visible bool
	cycleID string
}

// Model is the root Bubble Tea model for the controller.
type Model struct {
	ctx         context.Context
	session     Session
	diag        Diagnostics
	clock       clockwork.Clock
	notifyFor   time.Duration
	newID       func() string
	networkID   string
	explorerURL string

	view         View
	accountID    string
	form         form
	notification notification
	inFlight     string
	alert        string
	authPending  bool
	authErr      string
	reload       bool

	spinner spinner.Model
	help    help.Model
	width   int
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to session operations.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithDiagnostics sets the failure sink.
func WithDiagnostics(d Diagnostics) Option {
	return func(m *Model) { m.diag = d }
}

// WithClock sets the clock driving the notification window.
func WithClock(c clockwork.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithNotificationDuration overrides DefaultNotificationDuration.
func WithNotificationDuration(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.notifyFor = d
		}
	}
}

// WithNetwork sets the network id and explorer base URL shown in the view.
func WithNetwork(networkID, explorerURL string) Option {
	return func(m *Model) {
		m.networkID = networkID
		m.explorerURL = explorerURL
	}
}

// NewModel creates a controller Model in the pending view.
func NewModel(session Session, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := Model{
		ctx:       context.Background(),
		session:   session,
		diag:      LogDiagnostics{},
		clock:     clockwork.NewRealClock(),
		notifyFor: DefaultNotificationDuration,
		newID:     uuid.NewString,
		view:      ViewPending,
		form:      newForm(),
		spinner:   sp,
		help:      help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts bootstrap.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, bootstrap(m.ctx, m.session))
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case BootstrapMsg:
		return m.handleBootstrap(msg)

	case SubmitResultMsg:
		return m.handleSubmitResult(msg)

	case NotificationExpiredMsg:
		return m.handleNotificationExpired(msg)

	case AuthDoneMsg:
		return m.handleAuthDone(msg)

	case spinner.TickMsg:
		if m.view != ViewPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey routes key presses by view. The alert is modal: any key
// dismisses it and does nothing else.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.alert != "" {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.alert = ""
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	switch m.view {
	case ViewSignedOut:
		switch msg.String() {
		case "enter", "s":
			return m.signIn()
		}
	case ViewSignedIn:
		switch msg.String() {
		case "enter":
			return m.submit()
		case "ctrl+o":
			return m.signOut()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current region.
func (m Model) View() string {
	return m.render()
}

// CurrentView returns which region is visible.
func (m Model) CurrentView() View {
	return m.view
}

// Reload reports whether the program quit so the caller can restart it
// after a sign-in or sign-out.
func (m Model) Reload() bool {
	return m.reload
}
