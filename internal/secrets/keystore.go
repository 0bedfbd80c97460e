package secrets

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/awnumar/memguard"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
	"github.com/PolarWolf314/spps/internal/flock"
	logger "github.com/PolarWolf314/spps/internal/logging"
)

const lockSuffix = ".lock"

// ChainLink describes one record visited while resolving the key.
type ChainLink struct {
	// Path is the record location as it was reached.
	Path string

	// Relocation is the raw relocation value of the record, empty when
	// the record is authoritative.
	Relocation string

	// Authoritative is true for the record that holds the key.
	Authoritative bool

	// Mode holds the permission bits of the record file.
	Mode fs.FileMode
}

// KeyStore locates, creates and reads the protecting key. It keeps no key
// material between calls: every ResolveKey reads the records from disk.
type KeyStore struct {
	path   string
	logger logger.Logger
}

// NewKeyStore returns a store rooted at the settings record at path.
func NewKeyStore(path string, log logger.Logger) *KeyStore {
	return &KeyStore{path: path, logger: log}
}

// Path returns the settings record the store starts resolution from.
func (s *KeyStore) Path() string {
	return s.path
}

// ResolveKey follows the relocation chain from the settings record and
// returns the 32 byte protecting key. The caller owns the buffer and must
// Destroy it when the operation that needed it is done.
//
// Returns ErrNotInitialized if a record in the chain does not exist,
// ErrRelocationCycle if the chain revisits a record, and ErrInvalidKeyRecord
// if a record is malformed.
func (s *KeyStore) ResolveKey() (*memguard.LockedBuffer, error) {
	chain, record, err := s.follow()
	if err != nil {
		return nil, err
	}

	key, err := record.decodeKey()
	if err != nil {
		return nil, fmt.Errorf("reading key from %s: %w", chain[len(chain)-1].Path, err)
	}
	return key, nil
}

// Chain returns the records visited while resolving the key, in order. On
// error the links visited before the failure are still returned.
func (s *KeyStore) Chain() ([]ChainLink, error) {
	chain, _, err := s.follow()
	return chain, err
}

// follow walks pointer records until it reaches an authoritative one.
func (s *KeyStore) follow() ([]ChainLink, KeyRecord, error) {
	var chain []ChainLink
	visited := make(map[string]struct{})

	current := s.path
	for {
		id := canonicalPath(current)
		if _, seen := visited[id]; seen {
			return chain, KeyRecord{}, fmt.Errorf("%w: %s is reached twice", kerrors.ErrRelocationCycle, current)
		}
		visited[id] = struct{}{}

		s.logger.Debugf("Reading key record at %s", current)
		record, mode, err := readKeyRecord(current)
		if err != nil {
			return chain, KeyRecord{}, err
		}

		chain = append(chain, ChainLink{
			Path:          current,
			Relocation:    record.Relocation,
			Authoritative: record.IsAuthoritative(),
			Mode:          mode,
		})
		if record.IsAuthoritative() {
			return chain, record, nil
		}

		next := relocationPath(current, record.Relocation)
		s.logger.Debugf("Key record %s is relocated to %s", current, next)
		current = next
	}
}

// InitializeKey creates the settings record. Without a relocation, or with
// a relocation equal to the settings path, a new key is generated and
// written there. Otherwise the relocation target receives the new key and
// the settings record is written as a pointer to it.
//
// Returns ErrAlreadyExists if a record to be written exists and force is
// not set; the existing file is left untouched. Returns ErrInvalidKeyRecord
// if the relocation cannot be stored on a single record line.
func (s *KeyStore) InitializeKey(ctx context.Context, force bool, relocation string) error {
	if err := validateRelocation(relocation); err != nil {
		return err
	}

	target := relocationPath(s.path, relocation)
	if relocation == "" || canonicalPath(target) == canonicalPath(s.path) {
		target = s.path
	}

	// Both records stay locked until both are written.
	unlock, err := s.lock(ctx, s.path, target)
	if err != nil {
		return err
	}
	defer unlock()

	if !force {
		for _, path := range []string{s.path, target} {
			exists, err := recordExists(path)
			if err != nil {
				return err
			}
			if exists {
				return existsAt(path)
			}
		}
	}

	record, err := newAuthoritativeRecord()
	if err != nil {
		return err
	}
	s.logger.Debugf("Writing key record to %s", target)
	if err := writeKeyRecord(target, record.Marshal(), force); err != nil {
		if target != s.path {
			return fmt.Errorf("initializing relocation target: %w", err)
		}
		return err
	}
	if target == s.path {
		return nil
	}

	s.logger.Debugf("Writing relocation record %s -> %s", s.path, target)
	return writeKeyRecord(s.path, KeyRecord{Relocation: relocation}.Marshal(), force)
}

// lock takes the advisory locks guarding initialization of paths. Locks are
// always acquired in the order of their canonical lock file names, so two
// initializations sharing records cannot each hold what the other waits for.
func (s *KeyStore) lock(ctx context.Context, paths ...string) (func(), error) {
	seen := make(map[string]struct{}, len(paths))
	var lockPaths []string
	for _, path := range paths {
		lockPath, err := lockFileFor(path)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[lockPath]; dup {
			continue
		}
		seen[lockPath] = struct{}{}
		lockPaths = append(lockPaths, lockPath)
	}
	sort.Strings(lockPaths)

	var held []flock.FileLock
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Unlock(); err != nil {
				s.logger.Warnf("Failed to release lock %s: %v", lockPaths[i], err)
			}
		}
	}

	for _, lockPath := range lockPaths {
		l := flock.New(lockPath)
		if err := l.Lock(ctx); err != nil {
			release()
			return nil, fmt.Errorf("%w: locking %s: %w", kerrors.ErrIO, lockPath, err)
		}
		held = append(held, l)
	}
	return release, nil
}

// lockFileFor returns the hidden lock file that sits next to the record at
// path. The directory is created first so its canonical name is stable.
func lockFileFor(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	return filepath.Join(canonicalPath(dir), "."+filepath.Base(path)+lockSuffix), nil
}

// relocationPath resolves a relocation value against the record holding it.
func relocationPath(recordPath, relocation string) string {
	if relocation == "" || filepath.IsAbs(relocation) {
		return relocation
	}
	return filepath.Join(filepath.Dir(recordPath), relocation)
}

// canonicalPath gives a stable identity for cycle detection. Symlinks are
// resolved when the path exists so two names for one file compare equal.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
