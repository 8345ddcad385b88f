//go:build !windows

package lock

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	"golang.org/x/sys/unix"
)

type FileLock struct {
	path   string
	logger boshlog.Logger
	logTag string

	mutex sync.Mutex
	file  *os.File
}

func NewFileLock(path string, logger boshlog.Logger) *FileLock {
	return &FileLock{
		path:   path,
		logger: logger,
		logTag: "FileLock",
	}
}

func (l *FileLock) TryLock() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file != nil {
		return ErrLocked
	}

	err := os.MkdirAll(filepath.Dir(l.path), os.FileMode(0755))
	if err != nil {
		return bosherr.WrapErrorf(err, "Creating lock directory for `%s'", l.path)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, os.FileMode(0600))
	if err != nil {
		return bosherr.WrapErrorf(err, "Opening lock file `%s'", l.path)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		file.Close() //nolint:errcheck
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrLocked
		}
		return bosherr.WrapErrorf(err, "Locking `%s'", l.path)
	}

	l.logger.Debug(l.logTag, "Acquired lock `%s'", l.path)
	l.file = file

	return nil
}

func (l *FileLock) Unlock() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file == nil {
		return nil
	}

	file := l.file
	l.file = nil

	err := unix.Flock(int(file.Fd()), unix.LOCK_UN)
	if err != nil {
		file.Close() //nolint:errcheck
		return bosherr.WrapErrorf(err, "Unlocking `%s'", l.path)
	}

	l.logger.Debug(l.logTag, "Released lock `%s'", l.path)

	return file.Close()
}
