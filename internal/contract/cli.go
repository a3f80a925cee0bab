package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// CommandConfig parameterizes invocation of a NEAR command-line tool.
type CommandConfig struct {
	Name       string   // backend name for logs/errors
	Binary     string   // executable name
	Subcommand string   // view subcommand
	ExtraFlags []string // additional flags appended after the call arguments
	StripANSI  bool     // whether to strip ANSI escape codes from output
}

// NearCLIPreset invokes near-cli: `near view <contract> <method> <args> --networkId <id>`.
var NearCLIPreset = CommandConfig{
	Name:       "cli",
	Binary:     "near",
	Subcommand: "view",
	StripANSI:  true,
}

// Verify CLICaller satisfies Caller at compile time.
var _ Caller = (*CLICaller)(nil)

// CLICaller calls contract view methods by running a NEAR CLI as a subprocess.
type CLICaller struct {
	config     CommandConfig
	networkID  string
	cmdBuilder func(ctx context.Context, args []string) *exec.Cmd
}

// CLIOption configures a CLICaller.
type CLIOption func(*CLICaller)

// WithNetwork passes --networkId to the CLI.
func WithNetwork(id string) CLIOption {
	return func(c *CLICaller) { c.networkID = id }
}

// NewCLICaller creates a CLICaller from config and options.
func NewCLICaller(cfg CommandConfig, opts ...CLIOption) *CLICaller {
	c := &CLICaller{config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.cmdBuilder == nil {
		c.cmdBuilder = c.defaultCmdBuilder
	}
	return c
}

// Name returns the configured backend name.
func (c *CLICaller) Name() string { return c.config.Name }

// Call runs the CLI and parses the value printed on its last output line.
// It captures stdout for parsing and returns stderr in errors.
func (c *CLICaller) Call(ctx context.Context, contractID, method string, args any) (Result, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return Result{}, fmt.Errorf("contract: encoding args: %w", err)
	}

	start := time.Now()
	cmd := c.cmdBuilder(ctx, buildArgs(c.config, c.networkID, contractID, method, string(argsJSON)))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}

	output := stdout.String()
	if c.config.StripANSI {
		output = stripANSI(output)
	}

	raw, err := parseValue(output)
	if err != nil {
		return Result{}, err
	}
	return Result{Raw: raw, Duration: time.Since(start)}, nil
}

// defaultCmdBuilder creates the CLI command from config fields.
func (c *CLICaller) defaultCmdBuilder(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.config.Binary, args...)
	cmd.WaitDelay = time.Second
	return cmd
}

// buildArgs constructs the argument list for a view call.
func buildArgs(cfg CommandConfig, networkID, contractID, method, argsJSON string) []string {
	var args []string
	if cfg.Subcommand != "" {
		args = append(args, cfg.Subcommand)
	}
	args = append(args, contractID, method, argsJSON)
	if networkID != "" {
		args = append(args, "--networkId", networkID)
	}
	args = append(args, cfg.ExtraFlags...)
	return args
}

// parseValue extracts the returned value from CLI output and re-encodes it as JSON.
// The CLI prints the value last, either as JSON or as a single-quoted JS string.
func parseValue(output string) ([]byte, error) {
	var last string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			last = line
		}
	}
	if last == "" {
		return nil, fmt.Errorf("contract: no value in CLI output")
	}

	if len(last) >= 2 && last[0] == '\'' && last[len(last)-1] == '\'' {
		s := strings.NewReplacer(`\'`, `'`, `\\`, `\`, `\n`, "\n").Replace(last[1 : len(last)-1])
		return json.Marshal(s)
	}
	if json.Valid([]byte(last)) {
		return []byte(last), nil
	}
	return nil, fmt.Errorf("contract: unrecognized CLI value %q", last)
}

// ansiPattern matches common ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
