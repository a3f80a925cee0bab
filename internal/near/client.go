// Package near adapts the near-api-go JSON-RPC client to the two node calls
// the app needs: network status and read-only contract function calls.
package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	nearclient "github.com/eteu-technologies/near-api-go/pkg/client"
	"github.com/eteu-technologies/near-api-go/pkg/client/block"
)

// Client talks to a single NEAR node.
type Client struct {
	rpc nearclient.Client
}

// NewClient creates a Client for the node at nodeURL.
// No request deadline is applied; callers bound calls through ctx.
func NewClient(nodeURL string) (*Client, error) {
	rpc, err := nearclient.NewClient(nodeURL)
	if err != nil {
		return nil, fmt.Errorf("near: node %s: %w", nodeURL, err)
	}
	return &Client{rpc: rpc}, nil
}

// StatusResult is the subset of the node status the app uses.
type StatusResult struct {
	ChainID string
}

// Status returns the node status.
func (c *Client) Status(ctx context.Context) (StatusResult, error) {
	st, err := c.rpc.NetworkStatusValidators(ctx)
	if err != nil {
		return StatusResult{}, fmt.Errorf("near: status: %w", err)
	}
	return StatusResult{ChainID: st.ChainID}, nil
}

// FunctionCallResult is the result of a view function call.
type FunctionCallResult struct {
	Result []byte
	Logs   []string
}

// ViewFunction calls a read-only contract method at final finality.
// args is JSON-encoded and passed base64-encoded as the node expects.
func (c *Client) ViewFunction(ctx context.Context, accountID, method string, args any) (FunctionCallResult, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return FunctionCallResult{}, fmt.Errorf("near: encoding args for %s.%s: %w", accountID, method, err)
	}

	res, err := c.rpc.ContractViewCallFunction(ctx, accountID, method,
		base64.StdEncoding.EncodeToString(argsJSON), block.FinalityFinal())
	if err != nil {
		return FunctionCallResult{}, &QueryError{AccountID: accountID, Method: method, Err: err}
	}
	// Older nodes report contract failures as a result without a return value.
	if len(res.Result) == 0 {
		return FunctionCallResult{}, &QueryError{AccountID: accountID, Method: method, Err: ErrEmptyResult, Logs: res.Logs}
	}
	return FunctionCallResult{Result: res.Result, Logs: res.Logs}, nil
}

// ErrEmptyResult indicates a view call returned no value.
var ErrEmptyResult = errors.New("empty result")

// QueryError reports a failed view call.
type QueryError struct {
	AccountID string
	Method    string
	Err       error
	Logs      []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("near: %s.%s: %v", e.AccountID, e.Method, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
