// Package persist reads and writes the lemma collection's JSON payload.
// Saves are atomic: the payload is written to a temp file in the target
// directory and renamed into place, so a crash mid-save never corrupts an
// existing collection file.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dusk-indust/lemma/internal/lemma"
)

// Load reads a snapshot from path. A missing file is not an error: it
// returns (nil, nil) so callers can start a fresh collection. Malformed
// payloads and I/O failures surface as PersistenceError.
func Load(path string) (*lemma.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &lemma.PersistenceError{Op: "load", Path: path, Err: err}
	}

	var snap lemma.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &lemma.PersistenceError{Op: "load", Path: path, Err: err}
	}
	if snap.Records == nil {
		snap.Records = make(map[string]lemma.LemmaRecord)
	}
	return &snap, nil
}

// Save writes the snapshot to path atomically.
func Save(path string, snap *lemma.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &lemma.PersistenceError{Op: "save", Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &lemma.PersistenceError{Op: "save", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &lemma.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &lemma.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &lemma.PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// LoadForImport reads a snapshot for merging and requires the file to exist.
func LoadForImport(path string) (*lemma.Snapshot, error) {
	snap, err := Load(path)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, &lemma.PersistenceError{
			Op:   "import",
			Path: path,
			Err:  fmt.Errorf("file does not exist"),
		}
	}
	return snap, nil
}
