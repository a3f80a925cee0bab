package config

import (
	"fmt"
	"sort"
	"strings"
)

// NetworkPreset holds the endpoints of a well-known NEAR network.
type NetworkPreset struct {
	ID          string
	NodeURL     string
	WalletURL   string
	ExplorerURL string
}

var presets = map[string]NetworkPreset{
	"mainnet": {
		ID:          "mainnet",
		NodeURL:     "https://rpc.mainnet.near.org",
		WalletURL:   "https://wallet.near.org",
		ExplorerURL: "https://explorer.mainnet.near.org",
	},
	"testnet": {
		ID:          "testnet",
		NodeURL:     "https://rpc.testnet.near.org",
		WalletURL:   "https://wallet.testnet.near.org",
		ExplorerURL: "https://explorer.testnet.near.org",
	},
	"betanet": {
		ID:          "betanet",
		NodeURL:     "https://rpc.betanet.near.org",
		WalletURL:   "https://wallet.betanet.near.org",
		ExplorerURL: "https://explorer.betanet.near.org",
	},
	"local": {
		ID:        "local",
		NodeURL:   "http://localhost:3030",
		WalletURL: "http://localhost:4000/wallet",
	},
	"shared-test": {
		ID:      "shared-test",
		NodeURL: "https://rpc.ci-testnet.near.org",
	},
}

// aliases maps build environment names onto network IDs.
var aliases = map[string]string{
	"production":  "mainnet",
	"development": "testnet",
	"test":        "shared-test",
	"ci":          "shared-test",
}

// UnknownNetworkError indicates a network ID has no preset.
type UnknownNetworkError struct {
	ID string
}

func (e *UnknownNetworkError) Error() string {
	return fmt.Sprintf("config: unknown network %q (available: %s)", e.ID, strings.Join(Networks(), ", "))
}

// Preset returns the endpoints for a network ID or environment alias.
func Preset(id string) (NetworkPreset, error) {
	if target, ok := aliases[id]; ok {
		id = target
	}
	p, ok := presets[id]
	if !ok {
		return NetworkPreset{}, &UnknownNetworkError{ID: id}
	}
	return p, nil
}

// Networks returns the known network IDs in sorted order.
func Networks() []string {
	names := make([]string, 0, len(presets))
	for id := range presets {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}
