// Package controller implements the session/submission controller: it
// bootstraps the wallet session, renders the signed-in or signed-out view,
// dispatches sign-in/sign-out, and runs the greeting form submission cycle.
package controller

import "context"

// View represents which top-level region is rendered.
type View int

const (
	ViewPending   View = iota // Bootstrap in progress; no region visible.
	ViewSignedOut             // Signed-out region visible.
	ViewSignedIn              // Signed-in region visible.
	ViewFailed                // Bootstrap failed; no region visible.
)

func (v View) String() string {
	switch v {
	case ViewPending:
		return "pending"
	case ViewSignedOut:
		return "signed-out"
	case ViewSignedIn:
		return "signed-in"
	case ViewFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AlertMessage is shown when the remote greeting call fails.
const AlertMessage = "Something went wrong! " +
	"Maybe you need to sign out and back in? " +
	"Check the diagnostics log for more info."

// Auth actions reported in AuthDoneMsg and diagnostics.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
)

// --- Consumer-side interfaces ---

// Session is the wallet/contract context the controller is built on.
type Session interface {
	Init(ctx context.Context) error
	IsSignedIn() bool
	AccountID() string
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	GetHello(ctx context.Context, name string) (string, error)
}

// Diagnostics receives every failure the controller observes.
type Diagnostics interface {
	Report(op string, err error, attrs ...any)
}

// --- tea.Msg types ---

// BootstrapMsg carries the outcome of session initialization.
type BootstrapMsg struct {
	SignedIn  bool
	AccountID string
	Err       error
}

// SubmitResultMsg carries the outcome of one greeting call: either Message
// or Err is set.
type SubmitResultMsg struct {
	ID      string
	Name    string
	Message string
	Err     error
}

// NotificationExpiredMsg fires when the notification display window for the
// submission with ID has elapsed.
type NotificationExpiredMsg struct {
	ID string
}

// AuthDoneMsg carries the outcome of a sign-in or sign-out primitive.
type AuthDoneMsg struct {
	Action string
	Err    error
}
