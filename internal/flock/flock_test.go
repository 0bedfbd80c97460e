package flock

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.lock")

	lock := New(path)
	require.NoError(t, lock.Lock(context.Background()))
	require.NoError(t, lock.Unlock())

	// The same lock can be taken again once released.
	require.NoError(t, lock.Lock(context.Background()))
	require.NoError(t, lock.Unlock())
}

func TestUnlockWithoutLock(t *testing.T) {
	lock := New(filepath.Join(t.TempDir(), "settings.lock"))
	assert.Error(t, lock.Unlock())
}

func TestLockHonorsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.lock")

	holder := New(path)
	require.NoError(t, holder.Lock(context.Background()))
	defer func() { require.NoError(t, holder.Unlock()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	waiter := New(path)
	err := waiter.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockWaitsForHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.lock")

	holder := New(path)
	require.NoError(t, holder.Lock(context.Background()))

	acquired := make(chan error, 1)
	go func() {
		waiter := New(path)
		err := waiter.Lock(context.Background())
		if err == nil {
			err = waiter.Unlock()
		}
		acquired <- err
	}()

	select {
	case err := <-acquired:
		t.Fatalf("waiter acquired a held lock: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, holder.Unlock())

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never acquired the lock after release")
	}
}
