// Package wallet manages the wallet connection: which account is signed in,
// the key files backing it, and the session context the controller is built on.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/smileynet/hellonear/internal/near"
)

// State is the lifecycle state of a Session.
type State int

const (
	StatePending State = iota // Init not yet completed.
	StateReady                // Connected; auth and contract calls available.
	StateFailed               // Init failed; the session is unusable.
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady indicates an operation was attempted before a successful Init.
	ErrNotReady = errors.New("wallet: session not ready")
	// ErrAlreadyInitialized indicates Init was called more than once.
	ErrAlreadyInitialized = errors.New("wallet: session already initialized")
	// ErrChainMismatch indicates the node serves a different network than configured.
	ErrChainMismatch = errors.New("wallet: node chain id does not match network")
)

// StatusChecker reports the status of the node the session talks to.
type StatusChecker interface {
	Status(ctx context.Context) (near.StatusResult, error)
}

// Greeter performs the remote greeting call.
type Greeter interface {
	GetHello(ctx context.Context, name string) (string, error)
}

// Options configures a Session.
type Options struct {
	NetworkID      string
	ContractID     string
	AccountID      string // preferred account; empty selects the only available one
	WalletURL      string
	CredentialsDir string
	Store          *FileStore
	Clock          clockwork.Clock
}

// Session is the process-wide wallet/contract context. It is created once,
// initialized once, and passed explicitly to whatever needs it.
// Lifecycle: pending → ready | failed.
type Session struct {
	opts     Options
	node     StatusChecker
	greeter  Greeter
	keychain *Keychain

	mu      sync.Mutex
	started bool
	state   State
	initErr error
	record  *Record
}

// NewSession creates a pending Session.
func NewSession(node StatusChecker, greeter Greeter, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Session{
		opts:     opts,
		node:     node,
		greeter:  greeter,
		keychain: NewKeychain(opts.CredentialsDir, opts.NetworkID),
	}
}

// Init connects to the node and loads the persisted sign-in state.
// It may be called once; the outcome is final.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	s.started = true
	s.mu.Unlock()

	rec, err := s.connect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.initErr = err
		return err
	}
	s.state = StateReady
	s.record = rec
	return nil
}

// connect verifies the node and reads the stored record.
func (s *Session) connect(ctx context.Context) (*Record, error) {
	st, err := s.node.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: connecting: %w", err)
	}
	// Local nodes report arbitrary chain ids.
	if s.opts.NetworkID != "local" && st.ChainID != s.opts.NetworkID {
		return nil, fmt.Errorf("%w: node reports %q, configured %q", ErrChainMismatch, st.ChainID, s.opts.NetworkID)
	}

	rec, found, err := s.opts.Store.Load(s.opts.NetworkID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the Init failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initErr
}

// IsSignedIn reports whether an account is signed in. False before Init.
func (s *Session) IsSignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady && s.record != nil
}

// AccountID returns the signed-in account, or "" when signed out.
func (s *Session) AccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.record == nil {
		return ""
	}
	return s.record.AccountID
}

// NetworkID returns the configured network.
func (s *Session) NetworkID() string { return s.opts.NetworkID }

// ContractID returns the configured contract account.
func (s *Session) ContractID() string { return s.opts.ContractID }

// LoginURL returns the wallet page that authorizes this app's contract.
func (s *Session) LoginURL() string {
	if s.opts.WalletURL == "" {
		return ""
	}
	q := url.Values{}
	q.Set("contract_id", s.opts.ContractID)
	return s.opts.WalletURL + "/login/?" + q.Encode()
}

// Login signs in with the configured account's key file and persists the
// sign-in. Without a key file it fails with ErrNoCredentials; LoginError
// carries the wallet URL that creates one.
func (s *Session) Login(_ context.Context) error {
	if err := s.requireReady(); err != nil {
		return err
	}

	cred, err := s.keychain.Find(s.opts.AccountID)
	if err != nil {
		return &LoginError{URL: s.LoginURL(), Err: err}
	}

	rec := Record{
		AccountID:  cred.AccountID,
		NetworkID:  s.opts.NetworkID,
		PublicKey:  cred.PublicKey,
		ContractID: s.opts.ContractID,
		SignedInAt: s.opts.Clock.Now().UTC(),
	}
	if err := s.opts.Store.Save(rec); err != nil {
		return err
	}

	s.mu.Lock()
	s.record = &rec
	s.mu.Unlock()
	return nil
}

// Logout forgets the signed-in account. Signing out twice is not an error.
func (s *Session) Logout(_ context.Context) error {
	if err := s.requireReady(); err != nil {
		return err
	}
	if err := s.opts.Store.Remove(s.opts.NetworkID); err != nil {
		return err
	}

	s.mu.Lock()
	s.record = nil
	s.mu.Unlock()
	return nil
}

// GetHello calls the contract's greeting method.
func (s *Session) GetHello(ctx context.Context, name string) (string, error) {
	if err := s.requireReady(); err != nil {
		return "", err
	}
	return s.greeter.GetHello(ctx, name)
}

func (s *Session) requireReady() error {
	if st := s.State(); st != StateReady {
		return fmt.Errorf("%w (state %s)", ErrNotReady, st)
	}
	return nil
}

// LoginError reports a failed sign-in with the wallet page to visit.
type LoginError struct {
	URL string
	Err error
}

func (e *LoginError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("wallet: login: %s", e.Err)
	}
	return fmt.Sprintf("wallet: login: %s (authorize at %s, then run `near login`)", e.Err, e.URL)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
