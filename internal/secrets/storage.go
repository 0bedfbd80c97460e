package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
)

const (
	recordFileMode = 0600
	recordDirMode  = 0700
)

// readKeyRecord loads and validates the record at path.
func readKeyRecord(path string) (KeyRecord, fs.FileMode, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return KeyRecord{}, 0, fmt.Errorf("%w: %s does not exist", kerrors.ErrNotInitialized, path)
		}
		return KeyRecord{}, 0, fmt.Errorf("%w: opening %s: %w", kerrors.ErrIO, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return KeyRecord{}, 0, fmt.Errorf("%w: reading %s: %w", kerrors.ErrIO, path, err)
	}
	if info.IsDir() {
		return KeyRecord{}, 0, fmt.Errorf("%w: %s is a directory", kerrors.ErrInvalidKeyRecord, path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return KeyRecord{}, 0, fmt.Errorf("%w: reading %s: %w", kerrors.ErrIO, path, err)
	}

	record, err := ParseKeyRecord(data)
	if err != nil {
		return KeyRecord{}, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := record.Validate(); err != nil {
		return KeyRecord{}, 0, fmt.Errorf("parsing %s: %w", path, err)
	}

	return record, info.Mode().Perm(), nil
}

// recordExists reports whether anything is present at path.
func recordExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: checking %s: %w", kerrors.ErrIO, path, err)
}

// writeKeyRecord writes data to path with owner-only permissions. The
// content is staged in a temp file in the same directory so readers never
// observe a partially written record. With replace unset the final step is
// an exclusive create, which fails with ErrAlreadyExists if another writer
// got there first.
func writeKeyRecord(path string, data []byte, replace bool) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %w", kerrors.ErrIO, dir, err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := os.Chmod(tmpPath, recordFileMode); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("%w: setting permissions on %s: %w", kerrors.ErrIO, tmpPath, err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("%w: writing %s: %w", kerrors.ErrIO, tmpPath, err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("%w: syncing %s: %w", kerrors.ErrIO, tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", kerrors.ErrIO, tmpPath, err)
	}

	if replace {
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("%w: replacing %s: %w", kerrors.ErrIO, path, err)
		}
		return nil
	}

	err = os.Link(tmpPath, path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrExist):
		return existsAt(path)
	default:
		// Some filesystems have no hard links; fall back to O_EXCL.
		return writeExclusive(path, data)
	}
}

// existsAt reports that the record at path is already present.
func existsAt(path string) error {
	return &kerrors.RecordError{Path: path, Err: kerrors.ErrAlreadyExists}
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, recordFileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return existsAt(path)
		}
		return fmt.Errorf("%w: creating %s: %w", kerrors.ErrIO, path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%w: writing %s: %w", kerrors.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%w: closing %s: %w", kerrors.ErrIO, path, err)
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, recordDirMode); err != nil {
		return fmt.Errorf("%w: creating directory %s: %w", kerrors.ErrIO, dir, err)
	}
	return nil
}
