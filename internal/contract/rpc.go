package contract

import (
	"context"
	"time"

	"github.com/smileynet/hellonear/internal/near"
)

// viewer is the subset of near.Client used by RPCCaller.
type viewer interface {
	ViewFunction(ctx context.Context, accountID, method string, args any) (near.FunctionCallResult, error)
}

// Verify RPCCaller satisfies Caller at compile time.
var _ Caller = (*RPCCaller)(nil)

// RPCCaller calls contract view methods over the node JSON-RPC API.
type RPCCaller struct {
	node viewer
}

// NewRPCCaller creates an RPCCaller backed by node.
func NewRPCCaller(node viewer) *RPCCaller {
	return &RPCCaller{node: node}
}

// Name returns "rpc".
func (c *RPCCaller) Name() string { return "rpc" }

// Call performs a view call and returns the raw return bytes.
func (c *RPCCaller) Call(ctx context.Context, contractID, method string, args any) (Result, error) {
	start := time.Now()
	res, err := c.node.ViewFunction(ctx, contractID, method, args)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Raw:      res.Result,
		Logs:     res.Logs,
		Duration: time.Since(start),
	}, nil
}
