package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const snapshotFileName = "snapshot.json"

var errMissingDirectory = errors.New("snapshot store directory is required")

// StoreConfig configures the on-disk snapshot store.
type StoreConfig struct {
	Directory string
	Logger    *zap.Logger
}

// Store persists the snapshot document. All writes are serialized and use
// write-to-temp-then-rename so a crash mid-save never leaves a torn file.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewStore constructs a Store rooted at cfg.Directory.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Directory == "" {
		return nil, errMissingDirectory
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   filepath.Join(cfg.Directory, snapshotFileName),
		logger: logger,
	}, nil
}

// Load reads the persisted snapshot. A missing file, undecodable contents,
// or a schema version mismatch all degrade to "no cache"; the caller can
// always re-fetch from the server.
func (s *Store) Load() (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("snapshot read failed",
				zap.String("operation", "snapshot.load"),
				zap.String("path", s.path),
				zap.Error(err))
		}
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("snapshot decode failed, treating cache as absent",
			zap.String("operation", "snapshot.load"),
			zap.Error(err))
		return nil, false
	}
	if snap.SchemaVersion != SchemaVersion {
		s.logger.Warn("snapshot schema version mismatch, treating cache as absent",
			zap.String("operation", "snapshot.load"),
			zap.Int("stored_version", snap.SchemaVersion),
			zap.Int("expected_version", SchemaVersion))
		return nil, false
	}
	return &snap, true
}

// Save atomically replaces the persisted snapshot. Write failures are logged
// and swallowed: the in-memory state stays authoritative for the session and
// the server remains the source of truth after a restart.
func (s *Store) Save(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(snap); err != nil {
		s.logger.Warn("snapshot persist failed",
			zap.String("operation", "snapshot.save"),
			zap.String("path", s.path),
			zap.Error(err))
	}
}

// Clear removes the persisted snapshot file. Removing an absent file is not
// an error.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("snapshot clear failed",
			zap.String("operation", "snapshot.clear"),
			zap.String("path", s.path),
			zap.Error(err))
	}
}

func (s *Store) write(snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), snapshotFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
