package fakes

type FakeLocker struct {
	TryLockCallCount int
	TryLockErr       error
	Locked           bool

	UnlockCallCount int
	UnlockErr       error
}

func (l *FakeLocker) TryLock() error {
	l.TryLockCallCount++
	if l.TryLockErr != nil {
		return l.TryLockErr
	}
	l.Locked = true
	return nil
}

func (l *FakeLocker) Unlock() error {
	l.UnlockCallCount++
	l.Locked = false
	return l.UnlockErr
}
