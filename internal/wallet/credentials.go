package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credential is a key file as written by `near login` under
// <credentials_dir>/<network>/<account>.json. The private key is never read
// into a Credential.
type Credential struct {
	AccountID string `json:"account_id"`
	PublicKey string `json:"public_key"`
}

// ErrNoCredentials indicates no key file exists for the requested account.
var ErrNoCredentials = errors.New("wallet: no credentials")

// ErrAmbiguousAccount indicates several key files exist and none was selected.
var ErrAmbiguousAccount = errors.New("wallet: several accounts have credentials; set wallet.account_id")

// Keychain reads key files for one network.
type Keychain struct {
	dir string
}

// NewKeychain creates a Keychain for <baseDir>/<networkID>.
func NewKeychain(baseDir, networkID string) *Keychain {
	return &Keychain{dir: filepath.Join(baseDir, networkID)}
}

// Find returns the credential for accountID. When accountID is empty, the
// single credential in the directory is returned.
func (k *Keychain) Find(accountID string) (Credential, error) {
	if accountID == "" {
		accounts, err := k.Accounts()
		if err != nil {
			return Credential{}, err
		}
		switch len(accounts) {
		case 0:
			return Credential{}, ErrNoCredentials
		case 1:
			accountID = accounts[0]
		default:
			return Credential{}, fmt.Errorf("%w (found %s)", ErrAmbiguousAccount, strings.Join(accounts, ", "))
		}
	}
	if err := checkID(accountID); err != nil {
		return Credential{}, err
	}

	p := filepath.Join(k.dir, accountID+".json")
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, fmt.Errorf("%w for %s", ErrNoCredentials, accountID)
		}
		return Credential{}, fmt.Errorf("wallet: reading %s: %w", p, err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, fmt.Errorf("wallet: parsing %s: %w", p, err)
	}
	if cred.AccountID == "" {
		cred.AccountID = accountID
	}
	return cred, nil
}

// Accounts lists the account IDs that have key files, sorted by name.
// A missing directory yields an empty list.
func (k *Keychain) Accounts() ([]string, error) {
	entries, err := os.ReadDir(k.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("wallet: listing %s: %w", k.dir, err)
	}
	var accounts []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		accounts = append(accounts, strings.TrimSuffix(e.Name(), ".json"))
	}
	return accounts, nil
}
