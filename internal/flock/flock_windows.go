//go:build windows

package flock

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

type windowsLock struct {
	path string
	file *os.File
}

func newPlatformLock(path string) FileLock {
	return &windowsLock{path: path}
}

func (l *windowsLock) Lock(ctx context.Context) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	for {
		ol := new(windows.Overlapped)
		err = windows.LockFileEx(windows.Handle(f.Fd()),
			windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, ol)
		if err == nil {
			l.file = f
			return nil
		}
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			_ = f.Close()
			return err
		}
		select {
		case <-ctx.Done():
			_ = f.Close()
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (l *windowsLock) Unlock() error {
	if l.file == nil {
		return errors.New("flock: unlock of unlocked file " + l.path)
	}
	ol := new(windows.Overlapped)
	err := windows.UnlockFileEx(windows.Handle(l.file.Fd()), 0, 1, 0, ol)
	if closeErr := l.file.Close(); err == nil {
		err = closeErr
	}
	l.file = nil
	return err
}
