// Package flock implements a simple file-based advisory lock. It serializes
// key record initialization between processes that share a settings file.
package flock

import (
	"context"
	"time"
)

// pollInterval is how often a blocked Lock retries while waiting for the holder.
const pollInterval = 25 * time.Millisecond

type FileLock interface {
	// Lock blocks until the lock is held or ctx is done. Iff Lock returns
	// nil, the caller must call Unlock later.
	Lock(ctx context.Context) error
	Unlock() error
}

// New returns a lock backed by the file at path. The file is created on
// first use and left in place afterwards.
func New(path string) FileLock {
	return newPlatformLock(path)
}
