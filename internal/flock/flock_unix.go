//go:build !windows

package flock

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

type unixLock struct {
	path string
	fd   int
}

func newPlatformLock(path string) FileLock {
	return &unixLock{path: path, fd: -1}
}

func (l *unixLock) Lock(ctx context.Context) error {
	fd, err := unix.Open(l.path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0600)
	if err != nil {
		return err
	}
	for {
		err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			l.fd = fd
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = unix.Close(fd)
			return err
		}
		select {
		case <-ctx.Done():
			_ = unix.Close(fd)
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (l *unixLock) Unlock() error {
	if l.fd < 0 {
		return errors.New("flock: unlock of unlocked file " + l.path)
	}
	err := unix.Flock(l.fd, unix.LOCK_UN)
	if closeErr := unix.Close(l.fd); err == nil {
		err = closeErr
	}
	l.fd = -1
	return err
}
