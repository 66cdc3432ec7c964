// Package exclusion persists the two item-id exclusion lists: the user
// blacklist (never discard) and the auto-discard allowlist (candidates
// for unattended discard).
package exclusion

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/mariveth/lootsweep/internal/model"
)

// Kind selects which exclusion list a store operation targets.
type Kind string

// The two lists. An id may appear in both; blacklist membership always
// wins over allowlist membership.
const (
	UserBlacklist        Kind = "blacklist"
	AutoDiscardAllowlist Kind = "allowlist"
)

// currentVersion is written on every save. Loads accept any version
// for now; the field exists so future format changes can migrate.
const currentVersion = 1

// document is the on-disk shape: {"version": 1, "items": [...]}.
type document struct {
	Items   []model.ItemID `json:"items"`
	Version int            `json:"version"`
}

// Store reads and writes exclusion lists as independent versioned JSON
// files under a single directory. Both Load and Save fail soft: the
// in-memory set is always authoritative for the session, and file
// trouble is logged rather than surfaced.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("exclusion store directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create exclusion store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load reads one list. A missing or malformed file yields an empty set,
// never an error to the caller.
func (s *Store) Load(kind Kind) map[model.ItemID]struct{} {
	path := s.path(kind)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read exclusion list, starting empty",
				"kind", kind, "path", path, "error", err)
		}
		return map[model.ItemID]struct{}{}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("Malformed exclusion list, starting empty",
			"kind", kind, "path", path, "error", err)
		return map[model.ItemID]struct{}{}
	}

	set := make(map[model.ItemID]struct{}, len(doc.Items))
	for _, id := range doc.Items {
		set[id] = struct{}{}
	}
	return set
}

// Save writes one list atomically (temp file, then rename). Failures
// are logged and swallowed: the session keeps running on the in-memory
// set and the next save gets another chance.
func (s *Store) Save(kind Kind, items map[model.ItemID]struct{}) {
	ids := make([]model.ItemID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	data, err := json.MarshalIndent(document{Version: currentVersion, Items: ids}, "", "  ")
	if err != nil {
		slog.Error("Failed to encode exclusion list", "kind", kind, "error", err)
		return
	}

	path := s.path(kind)
	tmp, err := os.CreateTemp(s.dir, string(kind)+"-*.tmp")
	if err != nil {
		slog.Error("Failed to create temp file for exclusion list",
			"kind", kind, "error", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		slog.Error("Failed to write exclusion list", "kind", kind, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		slog.Error("Failed to close exclusion list temp file", "kind", kind, "error", err)
		return
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		slog.Error("Failed to replace exclusion list file",
			"kind", kind, "path", path, "error", err)
		return
	}

	slog.Debug("Saved exclusion list", "kind", kind, "count", len(ids))
}

func (s *Store) path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}
