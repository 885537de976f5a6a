package journal

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// Lock is an advisory exclusive lock on a journal file, held for the
// lifetime of one Executor run. Concurrent runs against the same journal
// are unsupported by the spec; this lock turns that into a clear error
// instead of undefined behavior when two runs do race.
//
// No third-party advisory-locking library appears anywhere in the example
// corpus, so this is implemented directly on the flock(2) syscall — the
// ambient-stack stdlib exception for this one concern (see DESIGN.md).
type Lock struct {
	file *os.File
}

// AcquireLock takes an exclusive, non-blocking advisory lock on path
// (created if missing). It fails immediately if another process already
// holds the lock rather than waiting for it.
func AcquireLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "journal: opening lock file %s", path)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "journal: %s is locked by another run", path)
	}
	return &Lock{file: f}, nil
}

// Release drops the lock and closes the underlying file handle.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return errors.Wrap(err, "journal: releasing lock")
	}
	return l.file.Close()
}
