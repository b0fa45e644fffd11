package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

// Store persists the posted state and metrics files. Every read and
// write takes an advisory lock on a companion .lock file, and writes
// go to a temp file that is renamed into place, so a crash mid-write
// cannot corrupt the previous contents.
type Store struct {
	statePath   string
	metricsPath string
	logger      *logrus.Logger

	// rename is swappable so tests can fail a write before the
	// atomic step.
	rename func(oldpath, newpath string) error
}

// NewStore creates a store over the given file paths.
func NewStore(statePath, metricsPath string, logger *logrus.Logger) *Store {
	return &Store{
		statePath:   statePath,
		metricsPath: metricsPath,
		logger:      logger,
		rename:      os.Rename,
	}
}

// LoadState reads the posted state. A missing or corrupt file yields
// empty defaults with a warning; the run proceeds without history.
func (s *Store) LoadState() *PostedState {
	st := NewPostedState()
	if err := s.readJSON(s.statePath, st); err != nil {
		if !errors.Is(err, os.ErrNotExist) && s.logger != nil {
			s.logger.WithError(err).Warn("State file unreadable, starting with empty history")
		}
		return NewPostedState()
	}
	if st.TopicHashes == nil {
		st.TopicHashes = map[string]time.Time{}
	}
	if st.PostedLinks == nil {
		st.PostedLinks = []string{}
	}
	return st
}

// SaveState writes the posted state atomically.
func (s *Store) SaveState(st *PostedState) error {
	return s.writeJSON(s.statePath, st)
}

// LoadMetrics reads the metrics file, falling back to zeroed metrics
// when missing or corrupt.
func (s *Store) LoadMetrics() *Metrics {
	m := NewMetrics()
	if err := s.readJSON(s.metricsPath, m); err != nil {
		if !errors.Is(err, os.ErrNotExist) && s.logger != nil {
			s.logger.WithError(err).Warn("Metrics file unreadable, starting fresh")
		}
		return NewMetrics()
	}
	if m.FormatsUsed == nil {
		m.FormatsUsed = map[string]int{}
	}
	if m.SourcesUsed == nil {
		m.SourcesUsed = map[string]int{}
	}
	return m
}

// SaveMetrics writes the metrics file atomically.
func (s *Store) SaveMetrics(m *Metrics) error {
	return s.writeJSON(s.metricsPath, m)
}

func (s *Store) readJSON(path string, v any) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquiring lock for %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquiring lock for %s: %w", path, err)
	}
	defer lock.Unlock()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := s.rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
