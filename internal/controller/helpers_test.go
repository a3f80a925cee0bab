package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
)

// fakeSession is a scripted Session.
type fakeSession struct {
	mu        sync.Mutex
	initErr   error
	signedIn  bool
	accountID string
	helloErr  error
	panicMsg  string
	loginErr  error

	initCalls   int
	loginCalls  int
	logoutCalls int
	names       []string
}

func (s *fakeSession) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initCalls++
	return s.initErr
}

func (s *fakeSession) IsSignedIn() bool  { return s.signedIn }
func (s *fakeSession) AccountID() string { return s.accountID }

func (s *fakeSession) Login(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginCalls++
	return s.loginErr
}

func (s *fakeSession) Logout(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutCalls++
	return nil
}

func (s *fakeSession) GetHello(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.helloErr != nil {
		return "", s.helloErr
	}
	return "Hello, " + name + "!", nil
}

func (s *fakeSession) calls() (login, logout int, names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls, s.logoutCalls, append([]string(nil), s.names...)
}

// report is one recorded diagnostics entry.
type report struct {
	op  string
	err error
}

// recordingDiagnostics captures reported failures.
type recordingDiagnostics struct {
	mu      sync.Mutex
	reports []report
}

func (d *recordingDiagnostics) Report(op string, err error, _ ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, report{op: op, err: err})
}

func (d *recordingDiagnostics) all() []report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]report(nil), d.reports...)
}

var errBoom = errors.New("boom")

// newTestModel builds a Model with a fake clock and recording diagnostics.
func newTestModel(s *fakeSession) (Model, *clockwork.FakeClock, *recordingDiagnostics) {
	clock := clockwork.NewFakeClock()
	diag := &recordingDiagnostics{}
	m := NewModel(s,
		WithClock(clock),
		WithDiagnostics(diag),
		WithNetwork("testnet", "https://explorer.testnet.near.org"),
	)
	ids := 0
	m.newID = func() string {
		ids++
		return fmt.Sprintf("sub-%d", ids)
	}
	return m, clock, diag
}

// signedInModel returns a model that has completed bootstrap as alice.testnet.
func signedInModel(t *testing.T, s *fakeSession) (Model, *clockwork.FakeClock, *recordingDiagnostics) {
	t.Helper()
	s.signedIn = true
	s.accountID = "alice.testnet"
	m, clock, diag := newTestModel(s)
	m = update(t, m, BootstrapMsg{SignedIn: true, AccountID: "alice.testnet"})
	return m, clock, diag
}

// update applies msg and returns the resulting Model.
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// updateCmd applies msg and returns the resulting Model and command.
func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// typeText feeds s to the model one rune at a time.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// findMsg runs cmd, expanding batches, and returns the first message of
// type T. Commands that block (timers) must not be passed here.
func findMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) (T, bool) {
	t.Helper()
	var zero T
	if cmd == nil {
		return zero, false
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if got, ok := findMsg[T](t, c); ok {
				return got, true
			}
		}
		return zero, false
	}
	got, ok := msg.(T)
	return got, ok
}

// collect runs cmd in the background, expanding batches, and delivers every
// resulting message on the returned channel.
func collect(cmd tea.Cmd) <-chan tea.Msg {
	ch := make(chan tea.Msg, 16)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			ch <- msg
		}()
	}
	run(cmd)
	return ch
}

// receive waits up to timeout for a message of type T on ch, skipping others.
func receive[T tea.Msg](ch <-chan tea.Msg, timeout time.Duration) (T, bool) {
	var zero T
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-ch:
			if got, ok := msg.(T); ok {
				return got, true
			}
		case <-deadline:
			return zero, false
		}
	}
}
