package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/types"
)

// FileStore mirrors the open-signal set to a JSON file. Every mutation is
// flushed before it returns, so a crash between ticks loses at most an
// in-flight network call, never a committed transition. A missing or
// corrupt file yields an empty set: durability is best effort and must
// never block startup.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	signals []types.Signal
}

// NewFileStore loads the open-signal set from path, starting empty when
// the file is absent or unreadable.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path}
	s.load()
	return s
}

func (s *FileStore) load() {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn(context.Background(), "Signal store unreadable, starting empty", "path", s.path, "error", err)
		}
		return
	}
	var signals []types.Signal
	if err := json.Unmarshal(b, &signals); err != nil {
		logger.Warn(context.Background(), "Signal store corrupt, starting empty", "path", s.path, "error", err)
		return
	}
	s.signals = signals
	logger.Info(context.Background(), "Signal store loaded", "path", s.path, "open_signals", len(signals))
}

// persist writes the current set through a temp file and rename so a
// concurrent reader never observes a partial write.
func (s *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s.signals, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) ListOpen() []types.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Signal, len(s.signals))
	copy(out, s.signals)
	return out
}

func (s *FileStore) IsOpen(pair string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(pair) >= 0
}

func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}

func (s *FileStore) Open(sig types.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(sig.Pair) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSignal, sig.Pair)
	}
	s.signals = append(s.signals, sig)
	if err := s.persist(); err != nil {
		logger.Warn(context.Background(), "Signal store flush failed", "path", s.path, "error", err)
	}
	return nil
}

func (s *FileStore) Close(pair string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(pair)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, pair)
	}
	s.signals = append(s.signals[:i], s.signals[i+1:]...)
	if err := s.persist(); err != nil {
		logger.Warn(context.Background(), "Signal store flush failed", "path", s.path, "error", err)
	}
	return nil
}

// indexOf must be called with the lock held.
func (s *FileStore) indexOf(pair string) int {
	for i, sig := range s.signals {
		if sig.Pair == pair {
			return i
		}
	}
	return -1
}
