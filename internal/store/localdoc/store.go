// Package localdoc persists the offline/override document: one JSON file with
// the candidates, demands and interviews arrays. It is the fallback source
// when the remote HR API is unreachable and the authoritative home of
// locally-created records.
package localdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"talent-engine/internal/domain"
)

// ErrCorrupt means the document file exists but is not valid JSON. There is
// no further fallback behind this store, so callers surface it.
var ErrCorrupt = errors.New("local document is corrupt")

type Store struct {
	path string

	// mu serializes load-modify-save within this process; fl does the same
	// across processes sharing the data dir. Without both, overlapping
	// mutations lose updates (whole-document read-modify-write).
	mu sync.Mutex
	fl *flock.Flock
}

func New(path string) *Store {
	return &Store{
		path: path,
		fl:   flock.New(path + ".lock"),
	}
}

func (s *Store) Path() string { return s.path }

// Load reads the current document. A missing file is an empty document, not
// an error.
func (s *Store) Load() (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save overwrites the whole document.
func (s *Store) Save(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fl.Lock(); err != nil {
		return fmt.Errorf("lock document: %w", err)
	}
	defer func() { _ = s.fl.Unlock() }()

	return s.save(doc)
}

// Update runs fn on the current document and persists the result, holding
// the in-process mutex and the file lock for the whole round trip.
func (s *Store) Update(fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fl.Lock(); err != nil {
		return fmt.Errorf("lock document: %w", err)
	}
	defer func() { _ = s.fl.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Store) load() (domain.Document, error) {
	var doc domain.Document
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

// save writes via tmp+rename so a crash mid-write never leaves a truncated
// document behind (same pattern as config.SaveAtomic).
func (s *Store) save(doc domain.Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
