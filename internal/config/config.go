// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all hellonear configuration.
type Config struct {
	Network  Network  `yaml:"network"`
	Contract Contract `yaml:"contract"`
	Wallet   Wallet   `yaml:"wallet"`
	UI       UI       `yaml:"ui"`
	Log      Log      `yaml:"log"`
}

// Network holds the NEAR network endpoints. Empty URLs are filled from the
// preset matching ID.
type Network struct {
	ID          string `yaml:"id"`
	NodeURL     string `yaml:"node_url"`
	WalletURL   string `yaml:"wallet_url"`
	ExplorerURL string `yaml:"explorer_url"`
}

// Contract identifies the remote contract and how it is called.
type Contract struct {
	Name    string `yaml:"name"`
	Method  string `yaml:"method"`
	Backend string `yaml:"backend"` // "rpc" | "cli"
}

// Wallet holds account and key storage settings.
type Wallet struct {
	AccountID      string `yaml:"account_id"`
	CredentialsDir string `yaml:"credentials_dir"`
	SessionDir     string `yaml:"session_dir"`
}

// UI holds controller display settings.
type UI struct {
	NotificationDuration time.Duration `yaml:"notification_duration"`
}

// Log holds diagnostic logging settings.
type Log struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "text" | "json"
	File   string `yaml:"file"`   // used while the TUI owns the terminal
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	cfg := Config{
		Network: Network{
			ID: "testnet",
		},
		Contract: Contract{
			Name:    "hello.testnet",
			Method:  "get_hello",
			Backend: "rpc",
		},
		Wallet: Wallet{
			CredentialsDir: os.ExpandEnv("$HOME/.near-credentials"),
			SessionDir:     ".hellonear/session",
		},
		UI: UI{
			NotificationDuration: 5 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			File:   ".hellonear/hellonear.log",
		},
	}
	return cfg
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Resolve fills unset network endpoints from the preset for Network.ID.
// Environment names (production, development, test) are accepted as aliases.
func (c *Config) Resolve() error {
	preset, err := Preset(c.Network.ID)
	if err != nil {
		return err
	}
	c.Network.ID = preset.ID
	if c.Network.NodeURL == "" {
		c.Network.NodeURL = preset.NodeURL
	}
	if c.Network.WalletURL == "" {
		c.Network.WalletURL = preset.WalletURL
	}
	if c.Network.ExplorerURL == "" {
		c.Network.ExplorerURL = preset.ExplorerURL
	}
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Network.ID == "" {
		return errors.New("config: network.id cannot be empty")
	}
	if c.Network.NodeURL == "" {
		return errors.New("config: network.node_url cannot be empty")
	}
	if c.Contract.Name == "" {
		return errors.New("config: contract.name cannot be empty")
	}
	if c.Contract.Method == "" {
		return errors.New("config: contract.method cannot be empty")
	}
	switch c.Contract.Backend {
	case "rpc", "cli":
		// valid
	default:
		return fmt.Errorf("config: contract.backend must be \"rpc\" or \"cli\", got %q", c.Contract.Backend)
	}
	if c.Wallet.SessionDir == "" {
		return errors.New("config: wallet.session_dir cannot be empty")
	}
	if c.UI.NotificationDuration <= 0 {
		return fmt.Errorf("config: ui.notification_duration must be positive, got %v", c.UI.NotificationDuration)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: HELLONEAR_NETWORK, HELLONEAR_NODE_URL, HELLONEAR_CONTRACT,
// HELLONEAR_ACCOUNT, HELLONEAR_LOG_LEVEL, HELLONEAR_NOTIFICATION_DURATION.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("HELLONEAR_NETWORK"); v != "" {
		c.Network.ID = v
	}
	if v := os.Getenv("HELLONEAR_NODE_URL"); v != "" {
		c.Network.NodeURL = v
	}
	if v := os.Getenv("HELLONEAR_CONTRACT"); v != "" {
		c.Contract.Name = v
	}
	if v := os.Getenv("HELLONEAR_ACCOUNT"); v != "" {
		c.Wallet.AccountID = v
	}
	if v := os.Getenv("HELLONEAR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HELLONEAR_NOTIFICATION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid HELLONEAR_NOTIFICATION_DURATION %q: %w", v, err)
		}
		c.UI.NotificationDuration = d
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Network  *rawNetwork  `yaml:"network"`
	Contract *rawContract `yaml:"contract"`
	Wallet   *rawWallet   `yaml:"wallet"`
	UI       *rawUI       `yaml:"ui"`
	Log      *rawLog      `yaml:"log"`
}

type rawNetwork struct {
	ID          *string `yaml:"id"`
	NodeURL     *string `yaml:"node_url"`
	WalletURL   *string `yaml:"wallet_url"`
	ExplorerURL *string `yaml:"explorer_url"`
}

type rawContract struct {
	Name    *string `yaml:"name"`
	Method  *string `yaml:"method"`
	Backend *string `yaml:"backend"`
}

type rawWallet struct {
	AccountID      *string `yaml:"account_id"`
	CredentialsDir *string `yaml:"credentials_dir"`
	SessionDir     *string `yaml:"session_dir"`
}

type rawUI struct {
	NotificationDuration *time.Duration `yaml:"notification_duration"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if n := layer.Network; n != nil {
		setString(&c.Network.ID, n.ID)
		setString(&c.Network.NodeURL, n.NodeURL)
		setString(&c.Network.WalletURL, n.WalletURL)
		setString(&c.Network.ExplorerURL, n.ExplorerURL)
	}
	if ct := layer.Contract; ct != nil {
		setString(&c.Contract.Name, ct.Name)
		setString(&c.Contract.Method, ct.Method)
		setString(&c.Contract.Backend, ct.Backend)
	}
	if w := layer.Wallet; w != nil {
		setString(&c.Wallet.AccountID, w.AccountID)
		setString(&c.Wallet.CredentialsDir, w.CredentialsDir)
		setString(&c.Wallet.SessionDir, w.SessionDir)
	}
	if layer.UI != nil && layer.UI.NotificationDuration != nil {
		c.UI.NotificationDuration = *layer.UI.NotificationDuration
	}
	if l := layer.Log; l != nil {
		setString(&c.Log.Level, l.Level)
		setString(&c.Log.Format, l.Format)
		setString(&c.Log.File, l.File)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
