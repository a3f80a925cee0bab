package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/smileynet/hellonear/internal/near"
)

func TestContract_GetHello(t *testing.T) {
	// Given a caller that echoes a greeting for the name it receives
	var gotID, gotMethod string
	var gotArgs any
	caller := &MockCaller{
		NameVal: "mock",
		CallFunc: func(_ context.Context, contractID, method string, args any) (Result, error) {
			gotID, gotMethod, gotArgs = contractID, method, args
			return Result{Raw: []byte(`"Hello, world!"`)}, nil
		},
	}
	c := New("hello.testnet", "get_hello", caller)

	// When GetHello is called
	msg, err := c.GetHello(context.Background(), "world")

	// Then the message is decoded and the call is addressed correctly
	if err != nil {
		t.Fatalf("GetHello() error = %v", err)
	}
	if msg != "Hello, world!" {
		t.Errorf("GetHello() = %q, want %q", msg, "Hello, world!")
	}
	if gotID != "hello.testnet" || gotMethod != "get_hello" {
		t.Errorf("call target = %s.%s, want hello.testnet.get_hello", gotID, gotMethod)
	}
	if args, ok := gotArgs.(HelloArgs); !ok || args.Name != "world" {
		t.Errorf("args = %#v, want HelloArgs{Name: \"world\"}", gotArgs)
	}
	if c.ID() != "hello.testnet" {
		t.Errorf("ID() = %q", c.ID())
	}
}

func TestContract_GetHello_CallError(t *testing.T) {
	boom := errors.New("node unreachable")
	c := New("hello.testnet", "get_hello", &MockCaller{
		NameVal: "mock",
		CallFunc: func(context.Context, string, string, any) (Result, error) {
			return Result{}, boom
		},
	})

	_, err := c.GetHello(context.Background(), "world")

	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("error = %v, want *CallError", err)
	}
	if callErr.Backend != "mock" || callErr.Method != "get_hello" {
		t.Errorf("CallError = %+v", callErr)
	}
	if !errors.Is(err, boom) {
		t.Error("CallError should unwrap to the backend error")
	}
}

func TestContract_GetHello_NonStringResult(t *testing.T) {
	c := New("hello.testnet", "get_hello", &MockCaller{
		NameVal: "mock",
		CallFunc: func(context.Context, string, string, any) (Result, error) {
			return Result{Raw: []byte(`{"greeting":"hi"}`)}, nil
		},
	})

	_, err := c.GetHello(context.Background(), "world")

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
}

func TestMockCaller_NilFunc(t *testing.T) {
	m := &MockCaller{NameVal: "noop"}
	res, err := m.Call(context.Background(), "a", "b", nil)
	if err != nil || res.Raw != nil {
		t.Errorf("Call() = %+v, %v; want zero result", res, err)
	}
}

type fakeViewer struct {
	res near.FunctionCallResult
	err error
}

func (f fakeViewer) ViewFunction(context.Context, string, string, any) (near.FunctionCallResult, error) {
	return f.res, f.err
}

func TestRPCCaller(t *testing.T) {
	tests := []struct {
		name    string
		viewer  fakeViewer
		wantRaw string
		wantErr bool
	}{
		{
			name:    "success",
			viewer:  fakeViewer{res: near.FunctionCallResult{Result: []byte(`"hi"`), Logs: []string{"l"}}},
			wantRaw: `"hi"`,
		},
		{
			name:    "node error",
			viewer:  fakeViewer{err: &near.QueryError{Method: "get_hello", Err: near.ErrEmptyResult}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewRPCCaller(tt.viewer)
			if c.Name() != "rpc" {
				t.Errorf("Name() = %q, want rpc", c.Name())
			}

			res, err := c.Call(context.Background(), "hello.testnet", "get_hello", HelloArgs{Name: "x"})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Call() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(res.Raw) != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", res.Raw, tt.wantRaw)
			}
		})
	}
}
