package guard

import (
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Record is the persisted guard record: the timestamp of the last committed
// reboot. It survives process restarts and is the only mutable state shared
// across them. The stored timestamp is monotonically non-decreasing.
type Record struct {
	LastRebootAt time.Time `yaml:"last_reboot_at"`
}

// RecordStore loads and saves the guard record. Load failures are expected
// to be treated permissively by callers (no prior reboot) rather than
// aborting the cycle.
type RecordStore interface {
	Load() (Record, error)
	Save(Record) error
}

// FileStore persists the guard record as a small YAML document. Writes go
// through a temp file and rename so a crash mid-write cannot leave a
// half-written record. Files are written with 0600 permissions, the parent
// directory with 0700.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path. The file need
// not exist yet; a missing record reads as the zero Record.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the guard record from disk. A missing file is not an error:
// it returns the zero Record, meaning no reboot has ever been committed.
func (fs *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return Record{}, oops.Errorf("failed to read guard record %s: %w", fs.path, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, oops.Errorf("failed to parse guard record %s: %w", fs.path, err)
	}
	return rec, nil
}

// Save writes the guard record to disk atomically. The stored timestamp
// never regresses: if the record already on disk is newer than rec, the
// newer value is kept.
func (fs *FileStore) Save(rec Record) error {
	existing, err := fs.Load()
	if err == nil && existing.LastRebootAt.After(rec.LastRebootAt) {
		log.WithFields(map[string]interface{}{
			"at":       "(FileStore).Save",
			"existing": existing.LastRebootAt,
			"proposed": rec.LastRebootAt,
		}).Warn("Refusing to regress guard record")
		rec = existing
	}

	data, err := yaml.Marshal(&rec)
	if err != nil {
		return oops.Errorf("failed to marshal guard record: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return oops.Errorf("failed to create guard record directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".reboot-record-*")
	if err != nil {
		return oops.Errorf("failed to create temp guard record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return oops.Errorf("failed to write guard record: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return oops.Errorf("failed to chmod guard record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return oops.Errorf("failed to close guard record: %w", err)
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return oops.Errorf("failed to commit guard record %s: %w", fs.path, err)
	}

	log.WithFields(map[string]interface{}{
		"at":             "(FileStore).Save",
		"file":           fs.path,
		"last_reboot_at": rec.LastRebootAt,
	}).Debug("Guard record committed")
	return nil
}
