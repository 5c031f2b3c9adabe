// Package dataset reads and writes the university JSON dataset.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campus-states/internal/model"
)

// ErrNotFound is returned by Load when the dataset file does not exist.
var ErrNotFound = eris.New("dataset: file not found")

const backupLayout = "20060102_150405"

// Load reads the whole dataset into memory.
func Load(path string) ([]model.University, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrNotFound, "dataset: load %s", path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}

	records, err := Decode(data)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: parse %s", path)
	}
	return records, nil
}

// Decode parses a JSON array of university records.
func Decode(data []byte) ([]model.University, error) {
	var records []model.University
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Encode renders records as a 2-space indented JSON array. Non-ASCII text
// and HTML characters are written as-is.
func Encode(records []model.University) ([]byte, error) {
	if records == nil {
		records = []model.University{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, eris.Wrap(err, "dataset: encode")
	}
	return buf.Bytes(), nil
}

// Save writes records to path. The file is written to a temporary sibling
// first and renamed into place.
func Save(path string, records []model.University) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "dataset: create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "dataset: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "dataset: close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrap(err, "dataset: chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "dataset: rename to %s", path)
	}
	return nil
}

// BackupName returns the timestamped backup file name for now.
func BackupName(now time.Time) string {
	return "world_universities_backup_" + now.Format(backupLayout) + ".json"
}

// SaveBackup writes records to a timestamped file in dir and returns its path.
func SaveBackup(dir string, records []model.University, now time.Time) (string, error) {
	path := filepath.Join(dir, BackupName(now))
	if err := Save(path, records); err != nil {
		return "", eris.Wrap(err, "dataset: save backup")
	}
	return path, nil
}
