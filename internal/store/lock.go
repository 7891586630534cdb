package store

import (
	"errors"
	"os"
)

const lockSuffix = ".lock"

var errLockHeld = errors.New("lock held")

// fileLock is an exclusive advisory lock on "<path>.lock".
// The lock file is left behind on release; only the OS lock matters.
type fileLock struct {
	path string
	f    *os.File
}

// acquireLock returns errLockHeld if another handle owns the lock,
// or the underlying error if the lock file cannot be created.
func acquireLock(path string) (*fileLock, error) {
	lockPath := path + lockSuffix
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &fileLock{path: lockPath, f: f}, nil
}

func (l *fileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unlockFile(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
