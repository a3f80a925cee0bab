// Package contract abstracts read-only calls to the remote greeting contract
// behind a common Caller interface with pluggable backends.
package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Caller is the minimal interface a registered backend must satisfy.
type Caller interface {
	Name() string
	Call(ctx context.Context, contractID, method string, args any) (Result, error)
}

// Result holds the raw output of a contract call.
type Result struct {
	Raw      []byte // JSON-encoded return value
	Logs     []string
	Duration time.Duration
}

// Text decodes the return value as a JSON string.
func (r Result) Text() (string, error) {
	var s string
	if err := json.Unmarshal(r.Raw, &s); err != nil {
		return "", &DecodeError{Raw: string(r.Raw), Err: err}
	}
	return s, nil
}

// HelloArgs is the argument object of the greeting method.
type HelloArgs struct {
	Name string `json:"name"`
}

// Contract binds a contract account and greeting method to a Caller.
type Contract struct {
	id     string
	method string
	caller Caller
}

// New creates a Contract for the account id whose greeting method is method.
func New(id, method string, caller Caller) *Contract {
	return &Contract{id: id, method: method, caller: caller}
}

// ID returns the contract account id.
func (c *Contract) ID() string { return c.id }

// GetHello calls the greeting method with name and returns its message.
// No deadline is applied beyond what ctx carries.
func (c *Contract) GetHello(ctx context.Context, name string) (string, error) {
	res, err := c.caller.Call(ctx, c.id, c.method, HelloArgs{Name: name})
	if err != nil {
		return "", &CallError{Backend: c.caller.Name(), Method: c.method, Err: err}
	}
	msg, err := res.Text()
	if err != nil {
		return "", &CallError{Backend: c.caller.Name(), Method: c.method, Err: err}
	}
	return msg, nil
}

// Verify MockCaller satisfies Caller at compile time.
var _ Caller = (*MockCaller)(nil)

// MockCaller is a test double for Caller.
type MockCaller struct {
	NameVal  string
	CallFunc func(ctx context.Context, contractID, method string, args any) (Result, error)
}

// Name returns the configured backend name.
func (m *MockCaller) Name() string { return m.NameVal }

// Call delegates to CallFunc, returning a zero Result if CallFunc is nil.
func (m *MockCaller) Call(ctx context.Context, contractID, method string, args any) (Result, error) {
	if m.CallFunc == nil {
		return Result{}, nil
	}
	return m.CallFunc(ctx, contractID, method, args)
}

// CallError wraps a failed call made through a specific backend.
type CallError struct {
	Backend string
	Method  string
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("contract: %s: %s: %s", e.Backend, e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a return value was not the expected JSON string.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("contract: decoding return value %q: %s", e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
