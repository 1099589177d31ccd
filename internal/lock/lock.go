// Package lock provides the advisory cross-process exclusion serac uses
// to guarantee a single writer per config file.
package lock

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/prn-tf/serac/internal/serac"
)

// ConfigLock holds an exclusive, non-blocking advisory lock on a config
// file for the lifetime of the process.
type ConfigLock struct {
	f *os.File
}

// Acquire opens path and takes an exclusive, non-blocking flock on it.
// Returns serac.ErrBusy if another process already holds the lock.
func Acquire(path string) (*ConfigLock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config for locking: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s is already in use by another process", serac.ErrBusy, path)
	}

	return &ConfigLock{f: f}, nil
}

// Release unlocks and closes the underlying file handle.
func (l *ConfigLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	_ = unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	return l.f.Close()
}
