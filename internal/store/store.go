// Package store owns the persisted ledger document. It loads the single
// JSON document file at startup, upgrades it in place via the migration
// steps, and serializes every mutation behind a copy-on-write update path
// so the on-disk file is always a complete, parseable snapshot.
package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "tally/internal/errors"
	"tally/internal/logger"
	"tally/internal/models"
)

// Store holds the current document and guards access to it. Mutations run
// one at a time under the write lock; reads share the read lock and only
// ever observe a fully-formed document.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  *models.Document
	now  func() time.Time
	log  *zap.SugaredLogger
}

// Open loads the document at path, creating a freshly seeded one on first
// run, and applies migrations. It returns ErrCorruptStore if the file
// exists but cannot be parsed.
func Open(path string) (*Store, error) {
	return open(path, time.Now)
}

func open(path string, now func() time.Time) (*Store, error) {
	s := &Store{
		path: path,
		now:  now,
		log:  logger.Named("store"),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.doc = models.NewDocument(now())
		if err := s.save(s.doc); err != nil {
			return nil, err
		}
		s.log.Infow("seeded new ledger document", "path", path)
		return s, nil
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrCorruptStore, err)
	}

	doc := &models.Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		doc = models.NewDocument(now())
	} else if err := json.Unmarshal(data, doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCorruptStore, err)
	}

	if changed := Migrate(doc, now()); changed {
		s.log.Infow("migrated ledger document", "path", path, "version", doc.Meta.Version)
		if err := s.save(doc); err != nil {
			return nil, err
		}
	}

	s.doc = doc
	return s, nil
}

// View runs fn with the current document under the read lock. fn must not
// mutate or retain the document.
func (s *Store) View(fn func(doc *models.Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.doc)
}

// Update runs fn against a deep clone of the current document. If fn
// succeeds, the clone is flushed to disk and swapped in as the current
// state; if fn or the flush fails, memory and disk keep the prior state.
// Updates are the critical section: they run strictly one at a time.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// save stamps meta.updatedAt and writes the whole document atomically:
// a temp file in the same directory is written, synced, then renamed over
// the target, so a crash mid-write never leaves a half-written document.
func (s *Store) save(doc *models.Document) error {
	doc.Meta.UpdatedAt = s.now()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}
	return nil
}
