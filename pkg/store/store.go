package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jkarls/resgraph/pkg/depgraph"
	"github.com/jkarls/resgraph/pkg/logging"
	"github.com/jkarls/resgraph/pkg/model"
)

// OverridesFile is the well-known name of the optional overrides document
// inside a data directory. It is global, not per-version.
const OverridesFile = "overrides.json"

// Snapshot is one fully built dataset version: the patched document and the
// graph derived from it. Snapshots are immutable; a reload produces new ones.
type Snapshot struct {
	Version string           // version identifier (dataset file stem)
	Label   string           // display version from the document, if any
	Doc     *model.Document  // document with overrides already applied
	Graph   *depgraph.Graph
}

// Store loads versioned dependency documents from a directory. Every *.json
// file except overrides.json is one dataset version, identified by its file
// stem. Reload rebuilds everything from scratch and swaps the snapshot map
// wholesale, so readers always see a consistent dataset.
type Store struct {
	dir string

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	versions  []string
	overrides *model.Overrides
}

// New creates a store over the given data directory. Call Reload before use.
func New(dir string) *Store {
	return &Store{
		dir:       dir,
		snapshots: make(map[string]*Snapshot),
	}
}

// Reload rescans the data directory, rebuilding every snapshot. A dataset
// file that cannot be read or parsed is skipped with a warning and its
// version is absent until a later reload succeeds. The error return covers
// only an unreadable directory.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading data directory %s: %w", s.dir, err)
	}

	overrides := s.loadOverrides()

	snapshots := make(map[string]*Snapshot)
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == OverridesFile {
			continue
		}

		version := strings.TrimSuffix(name, ".json")
		doc, err := s.loadDocument(filepath.Join(s.dir, name))
		if err != nil {
			logging.Warn("skipping dataset file", "file", name, "error", err)
			continue
		}

		patched := depgraph.Apply(doc, overrides)
		snap := &Snapshot{
			Version: version,
			Doc:     patched,
			Graph:   depgraph.Build(patched),
		}
		if patched != nil {
			snap.Label = patched.Version
		}
		snapshots[version] = snap
		versions = append(versions, version)
	}
	sort.Strings(versions)

	s.mu.Lock()
	s.snapshots = snapshots
	s.versions = versions
	s.overrides = overrides
	s.mu.Unlock()

	logging.Info("dataset store reloaded", "versions", len(versions), "overrides", !overrides.Empty())
	return nil
}

func (s *Store) loadDocument(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

// loadOverrides reads overrides.json if present. Absence and parse failures
// both mean "no overrides"; the dataset still loads.
func (s *Store) loadOverrides() *model.Overrides {
	data, err := os.ReadFile(filepath.Join(s.dir, OverridesFile))
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("could not read overrides", "error", err)
		}
		return nil
	}
	var ov model.Overrides
	if err := json.Unmarshal(data, &ov); err != nil {
		logging.Warn("could not parse overrides, ignoring", "error", err)
		return nil
	}
	return &ov
}

// Versions returns all loaded version identifiers in sorted order.
func (s *Store) Versions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.versions...)
}

// Latest returns the highest version identifier, or false when the store is
// empty.
func (s *Store) Latest() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.versions) == 0 {
		return "", false
	}
	return s.versions[len(s.versions)-1], true
}

// Snapshot returns the snapshot for a version. An empty version selects the
// latest one.
func (s *Store) Snapshot(version string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if version == "" {
		if len(s.versions) == 0 {
			return nil, false
		}
		version = s.versions[len(s.versions)-1]
	}
	snap, ok := s.snapshots[version]
	return snap, ok
}

// Overrides returns the overrides in effect, possibly nil.
func (s *Store) Overrides() *model.Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides
}
