package lock

import "errors"

var ErrLocked = errors.New("Lock is held by another process")

type Locker interface {
	// TryLock fails with ErrLocked instead of waiting for the holder
	TryLock() error
	Unlock() error
}
