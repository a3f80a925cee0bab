package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/hellonear"
	"github.com/smileynet/hellonear/internal/config"
	"github.com/smileynet/hellonear/internal/contract"
	"github.com/smileynet/hellonear/internal/controller"
	"github.com/smileynet/hellonear/internal/logging"
	"github.com/smileynet/hellonear/internal/near"
	"github.com/smileynet/hellonear/internal/wallet"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitSuccess = 0
	exitSetup   = 1
	exitRemote  = 2
)

// Globals holds flags shared by every command.
type Globals struct {
	Network string `help:"Network id (overrides config and HELLONEAR_NETWORK)." short:"n"`
}

// CLI is the top-level command structure for hellonear.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	App     AppCmd           `cmd:"" default:"1" help:"Open the interactive controller."`
	Hello   HelloCmd         `cmd:"" help:"Call the greeting method once and print the message."`
	Login   LoginCmd         `cmd:"" help:"Sign in with a local wallet key."`
	Logout  LogoutCmd        `cmd:"" help:"Sign out."`
	Status  StatusCmd        `cmd:"" help:"Show network, contract and sign-in state."`
	Init    InitCmd          `cmd:"" help:"Write an example config to .hellonear/config.yaml."`
}

// loadConfig loads layered config from user and project paths with env and
// flag overrides, then resolves network presets and validates.
func loadConfig(network string) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/hellonear/config.yaml"),
		".hellonear/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if network != "" {
		cfg.Network.ID = network
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// deps holds the collaborators built from config.
type deps struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	node     *near.Client
	greeter  *contract.Contract
	store    *wallet.FileStore
}

// newDeps builds the logger, node client, contract caller and session store.
func newDeps(g *Globals, tui bool) (*deps, error) {
	cfg, err := loadConfig(g.Network)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Open(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		TUI:    tui,
	}, os.Stderr)
	if err != nil {
		return nil, err
	}

	node, err := near.NewClient(cfg.Network.NodeURL)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	reg := contract.NewRegistry()
	reg.Register("rpc", func() (contract.Caller, error) {
		return contract.NewRPCCaller(node), nil
	})
	reg.Register("cli", func() (contract.Caller, error) {
		return contract.NewCLICaller(contract.NearCLIPreset, contract.WithNetwork(cfg.Network.ID)), nil
	})
	caller, err := reg.NewCaller(cfg.Contract.Backend)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	greeter := contract.New(cfg.Contract.Name, cfg.Contract.Method, caller)
	logger.Debug("dependencies ready",
		"network", cfg.Network.ID,
		"node", cfg.Network.NodeURL,
		"contract", greeter.ID(),
		"backend", caller.Name(),
	)

	return &deps{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		node:     node,
		greeter:  greeter,
		store:    wallet.NewFileStore(cfg.Wallet.SessionDir),
	}, nil
}

// newSession creates a fresh pending session. Each program run gets its own.
func (d *deps) newSession() *wallet.Session {
	return wallet.NewSession(d.node, d.greeter, wallet.Options{
		NetworkID:      d.cfg.Network.ID,
		ContractID:     d.cfg.Contract.Name,
		AccountID:      d.cfg.Wallet.AccountID,
		WalletURL:      d.cfg.Network.WalletURL,
		CredentialsDir: d.cfg.Wallet.CredentialsDir,
		Store:          d.store,
		Clock:          clockwork.NewRealClock(),
	})
}

// readySession creates and initializes a session for the one-shot commands.
func (d *deps) readySession(ctx context.Context) (*wallet.Session, error) {
	s := d.newSession()
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// --- App command ---

// AppCmd opens the interactive controller.
type AppCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// reloader is implemented by models that can ask to be restarted.
type reloader interface {
	Reload() bool
}

// Run builds real dependencies and runs the controller until it quits
// without requesting a reload.
func (a *AppCmd) Run(g *Globals) error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !isTTY {
		return fmt.Errorf("app: requires a terminal (TTY)")
	}

	d, err := newDeps(g, true)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	defer d.closeLog() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	diag := controller.LogDiagnostics{Logger: d.logger}
	newProgram := func() teaRunner {
		m := controller.NewModel(d.newSession(),
			controller.WithContext(ctx),
			controller.WithDiagnostics(diag),
			controller.WithNotificationDuration(d.cfg.UI.NotificationDuration),
			controller.WithNetwork(d.cfg.Network.ID, d.cfg.Network.ExplorerURL),
		)
		return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	}
	return a.run(isTTY, newProgram, d.logger)
}

// run executes programs from newProgram until one ends without a reload
// request, enabling testable wiring.
func (a *AppCmd) run(isTTY bool, newProgram func() teaRunner, logger *slog.Logger) error {
	if !isTTY {
		return fmt.Errorf("app: requires a terminal (TTY)")
	}
	for {
		final, err := newProgram().Run()
		if err != nil {
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return fmt.Errorf("app: %w", err)
		}
		r, ok := final.(reloader)
		if !ok || !r.Reload() {
			return nil
		}
		logger.Info("reloading after auth change")
	}
}

// --- One-shot commands ---

// HelloCmd calls the greeting method once.
type HelloCmd struct {
	Name string `arg:"" help:"Name to greet."`
}

// Run executes the hello command.
func (h *HelloCmd) Run(g *Globals) error {
	d, err := newDeps(g, false)
	if err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	defer d.closeLog() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := d.readySession(ctx)
	if err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	return h.run(ctx, os.Stdout, s)
}

// greeter is the part of the session used by the hello command.
type greeter interface {
	GetHello(ctx context.Context, name string) (string, error)
}

func (h *HelloCmd) run(ctx context.Context, w io.Writer, s greeter) error {
	msg, err := s.GetHello(ctx, h.Name)
	if err != nil {
		return &remoteError{op: "hello", err: err}
	}
	fmt.Fprintln(w, msg)
	return nil
}

// LoginCmd signs in with a local wallet key.
type LoginCmd struct{}

// Run executes the login command.
func (l *LoginCmd) Run(g *Globals) error {
	d, err := newDeps(g, false)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer d.closeLog() //nolint:errcheck

	ctx := context.Background()
	s, err := d.readySession(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return authRun(ctx, os.Stdout, s, controller.ActionLogin)
}

// LogoutCmd signs out.
type LogoutCmd struct{}

// Run executes the logout command.
func (l *LogoutCmd) Run(g *Globals) error {
	d, err := newDeps(g, false)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer d.closeLog() //nolint:errcheck

	ctx := context.Background()
	s, err := d.readySession(ctx)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return authRun(ctx, os.Stdout, s, controller.ActionLogout)
}

// authSession is the part of the session used by login and logout.
type authSession interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AccountID() string
}

func authRun(ctx context.Context, w io.Writer, s authSession, action string) error {
	if action == controller.ActionLogout {
		if err := s.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Fprintln(w, "Signed out.")
		return nil
	}
	if err := s.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(w, "Signed in as %s.\n", s.AccountID())
	return nil
}

// StatusCmd shows network, contract and sign-in state.
type StatusCmd struct{}

// Run executes the status command.
func (c *StatusCmd) Run(g *Globals) error {
	d, err := newDeps(g, false)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	defer d.closeLog() //nolint:errcheck

	s := d.newSession()
	_ = s.Init(context.Background()) // printStatus reports s.Err()
	if err := printStatus(os.Stdout, d.cfg, s); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return nil
}

// statusSession is the part of the session shown by the status command.
type statusSession interface {
	NetworkID() string
	ContractID() string
	Err() error
	IsSignedIn() bool
	AccountID() string
}

// printStatus writes the status report and returns the session's init
// failure, if any, after reporting it.
func printStatus(w io.Writer, cfg *config.Config, s statusSession) error {
	fmt.Fprintf(w, "network:  %s (%s)\n", s.NetworkID(), cfg.Network.NodeURL)
	fmt.Fprintf(w, "contract: %s.%s via %s\n", s.ContractID(), cfg.Contract.Method, cfg.Contract.Backend)
	if err := s.Err(); err != nil {
		fmt.Fprintf(w, "node:     unavailable (%v)\n", err)
		return err
	}
	fmt.Fprintln(w, "node:     ready")
	if s.IsSignedIn() {
		fmt.Fprintf(w, "account:  %s\n", s.AccountID())
		if cfg.Network.ExplorerURL != "" {
			fmt.Fprintf(w, "explorer: %s/accounts/%s\n", cfg.Network.ExplorerURL, s.AccountID())
		}
		return nil
	}
	fmt.Fprintln(w, "account:  signed out")
	return nil
}

// InitCmd writes the example config.
type InitCmd struct {
	Path  string `help:"Destination path." default:".hellonear/config.yaml"`
	Force bool   `help:"Overwrite an existing file."`
}

// Run executes the init command.
func (c *InitCmd) Run() error {
	if err := hellonear.WriteExampleConfig(c.Path, c.Force); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", c.Path)
	return nil
}

// remoteError marks failures of the remote contract call.
type remoteError struct {
	op  string
	err error
}

func (e *remoteError) Error() string { return e.op + ": " + e.err.Error() }
func (e *remoteError) Unwrap() error { return e.err }

// exitCode maps an error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var re *remoteError
	if errors.As(err, &re) {
		return exitRemote
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("hellonear"),
		kong.Description("Sign in with a NEAR wallet and greet a contract."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
