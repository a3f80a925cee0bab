package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is the persisted sign-in state for one network.
type Record struct {
	AccountID  string    `json:"account_id"`
	NetworkID  string    `json:"network_id"`
	PublicKey  string    `json:"public_key"`
	ContractID string    `json:"contract_id"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// FileStore persists sign-in records as JSON files under a base directory,
// one file per network.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a FileStore that saves records under baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// Save writes the record to a JSON file named by its network ID.
func (s *FileStore) Save(rec Record) error {
	p, err := s.path(rec.NetworkID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.baseDir, 0o700); err != nil {
		return fmt.Errorf("wallet: creating directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: marshaling: %w", err)
	}

	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("wallet: writing %s: %w", p, err)
	}
	return nil
}

// Load reads the record for the given network ID.
// Returns (record, true, nil) if found, (zero, false, nil) if not found.
func (s *FileStore) Load(networkID string) (Record, bool, error) {
	p, err := s.path(networkID)
	if err != nil {
		return Record{}, false, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("wallet: reading %s: %w", p, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("wallet: parsing %s: %w", p, err)
	}
	return rec, true, nil
}

// Remove deletes the record for the given network ID.
func (s *FileStore) Remove(networkID string) error {
	p, err := s.path(networkID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("wallet: removing %s: %w", p, err)
	}
	return nil
}

// ErrInvalidID indicates a network or account ID is empty or contains path components.
var ErrInvalidID = errors.New("wallet: invalid id")

// path returns the filesystem path for a network's record file.
func (s *FileStore) path(networkID string) (string, error) {
	if err := checkID(networkID); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, networkID+".json"), nil
}

// checkID rejects IDs that are empty, dot-segments, or contain path separators.
func checkID(id string) error {
	if id == "" || id == "." || id == ".." || id != filepath.Base(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
