// Package manifest persists the record of previously downloaded remote files.
// The manifest is what makes the backup incremental: a file whose size matches
// its manifest entry is skipped on the next run.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Entry records the last successful download of one remote file.
type Entry struct {
	Size       int64     `json:"size"`
	Downloaded time.Time `json:"downloaded"`
}

// Manifest maps absolute remote paths to their last-known download state.
// Entries exist only for files that were downloaded successfully at least
// once; directories and failed downloads are never recorded.
type Manifest struct {
	Files      map[string]Entry `json:"files"`
	LastBackup *time.Time       `json:"last_backup"`
}

// State describes how a manifest was obtained by Load. A corrupt or
// unreadable file degrades to an empty manifest rather than an error, but
// the condition stays observable for callers and tests.
type State string

const (
	StateLoaded  State = "loaded"
	StateAbsent  State = "absent"
	StateCorrupt State = "corrupt"
)

func New() *Manifest {
	return &Manifest{Files: make(map[string]Entry)}
}

// Load reads the manifest at path. It never fails the caller: a missing file
// yields an empty manifest with StateAbsent, an unreadable or unparseable
// file yields an empty manifest with StateCorrupt. Unknown fields in the
// document are ignored.
func Load(path string) (*Manifest, State) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), StateAbsent
		}
		log.Warn().Err(err).Str("path", path).Msg("manifest unreadable, starting with empty manifest")
		return New(), StateCorrupt
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("manifest unparseable, starting with empty manifest")
		return New(), StateCorrupt
	}
	if m.Files == nil {
		m.Files = make(map[string]Entry)
	}
	return &m, StateLoaded
}

// Save stamps LastBackup and atomically replaces the manifest at path. The
// document is written to a temporary file in the same directory and renamed
// into place, so a failure mid-write never leaves a half-written manifest
// behind as the current one.
func (m *Manifest) Save(path string) error {
	now := time.Now()
	m.LastBackup = &now

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}

// Lookup returns the entry for a remote path, if one exists.
func (m *Manifest) Lookup(remotePath string) (Entry, bool) {
	entry, ok := m.Files[remotePath]
	return entry, ok
}

// Record upserts the entry for a remote path after a successful download.
func (m *Manifest) Record(remotePath string, size int64, at time.Time) {
	m.Files[remotePath] = Entry{Size: size, Downloaded: at}
}

func (m *Manifest) Len() int {
	return len(m.Files)
}

// TotalSize sums the last-known sizes of all tracked files.
func (m *Manifest) TotalSize() int64 {
	var total int64
	for _, entry := range m.Files {
		total += entry.Size
	}
	return total
}
