package outbox

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const outboxFileName = "outbox.json"

var errMissingDirectory = errors.New("outbox directory is required")

// LogConfig configures the durable operation log.
type LogConfig struct {
	Directory string
	Logger    *zap.Logger
}

// Log is the ordered, durable list of pending operations. One instance
// exists per process; every mutation runs under a single lock and persists
// the full list before releasing it, so enqueue, remove, and rewrite never
// interleave and a reload always observes the last completed persist.
type Log struct {
	mu     sync.Mutex
	path   string
	ops    []Operation
	logger *zap.Logger
}

// Open loads the persisted log from cfg.Directory. A missing file starts an
// empty log; an undecodable file also starts empty. Losing queued work is
// preferred over failing startup, and the condition is logged.
func Open(cfg LogConfig) (*Log, error) {
	if cfg.Directory == "" {
		return nil, errMissingDirectory
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	log := &Log{
		path:   filepath.Join(cfg.Directory, outboxFileName),
		logger: logger,
	}

	data, err := os.ReadFile(log.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("outbox read failed, starting empty",
				zap.String("operation", "outbox.open"),
				zap.String("path", log.path),
				zap.Error(err))
		}
		return log, nil
	}

	var ops []Operation
	if err := json.Unmarshal(data, &ops); err != nil {
		logger.Warn("outbox decode failed, starting empty",
			zap.String("operation", "outbox.open"),
			zap.Error(err))
		return log, nil
	}
	log.ops = ops
	return log, nil
}

// Enqueue appends the operation and persists the log before returning.
func (l *Log) Enqueue(op Operation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ops = append(l.ops, op)
	return l.persistLocked("outbox.enqueue")
}

// All returns a deep copy of the queued operations in enqueue order.
func (l *Log) All() []Operation {
	l.mu.Lock()
	defer l.mu.Unlock()

	ops := make([]Operation, len(l.ops))
	for i, op := range l.ops {
		ops[i] = op.clone()
	}
	return ops
}

// Len returns the number of queued operations.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops)
}

// Remove deletes one operation by id and persists. Removing an id that is
// not queued is a no-op.
func (l *Log) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.ops {
		if l.ops[i].ID == id {
			l.ops = append(l.ops[:i], l.ops[i+1:]...)
			return l.persistLocked("outbox.remove")
		}
	}
	return nil
}

// RemoveWhere deletes every operation matching the predicate, persisting
// once. It returns the number of operations removed.
func (l *Log) RemoveWhere(predicate func(Operation) bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.ops[:0]
	removed := 0
	for _, op := range l.ops {
		if predicate(op) {
			removed++
			continue
		}
		kept = append(kept, op)
	}
	if removed == 0 {
		return 0, nil
	}
	l.ops = kept
	return removed, l.persistLocked("outbox.remove_where")
}

// RewriteIDs replaces every payload reference to oldID with newID across all
// queued operations, persisting once when anything changed. Rewriting does
// not alter operation order, ids, or kinds, and repeating the same call is a
// no-op.
func (l *Log) RewriteIDs(oldID, newID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rewritten := 0
	for i := range l.ops {
		if l.ops[i].Payload == nil {
			continue
		}
		if l.ops[i].Payload.RewriteIDs(oldID, newID) {
			rewritten++
		}
	}
	if rewritten == 0 {
		return 0, nil
	}
	return rewritten, l.persistLocked("outbox.rewrite_ids")
}

// Clear drops every queued operation and persists the empty log.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ops = nil
	return l.persistLocked("outbox.clear")
}

func (l *Log) persistLocked(operation string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return l.logPersistError(operation, err)
	}

	ops := l.ops
	if ops == nil {
		ops = []Operation{}
	}
	data, err := json.MarshalIndent(ops, "", "  ")
	if err != nil {
		return l.logPersistError(operation, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), outboxFileName+".tmp-*")
	if err != nil {
		return l.logPersistError(operation, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return l.logPersistError(operation, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return l.logPersistError(operation, err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return l.logPersistError(operation, err)
	}
	return nil
}

func (l *Log) logPersistError(operation string, err error) error {
	l.logger.Warn("outbox persist failed",
		zap.String("operation", operation),
		zap.String("path", l.path),
		zap.Error(err))
	return err
}
