// Package hostlock implements the host singleton guard named in
// spec.md §6: a named, cross-process exclusive lock that refuses a
// second collector (here, a second `corehub serve`) against the same
// database file. Grounded on the flock-advisory-lock idiom; the
// teacher repo has no direct analogue, so this package follows the
// pack's general "guard with a touch file beside the resource it
// protects" pattern.
package hostlock

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"golang.org/x/sys/unix"
)

// Guard holds an advisory exclusive lock on a well-known file beside
// the database, released by Release.
type Guard struct {
	f *os.File
}

// Acquire opens (creating if absent) the lock file derived from dbPath
// and takes a non-blocking exclusive flock on it. If the flock fails,
// it returns an error naming the lock file, which means another process
// already holds it.
func Acquire(dbPath string) (*Guard, error) {
	path := dbPath + ".lock"

	// Ensure the file exists via an atomic create-if-absent touch, so a
	// half-written lock file from a prior crash never blocks startup.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t, werr := renameio.TempFile("", path)
		if werr == nil {
			_ = t.CloseAtomicallyReplace()
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("hostlock: open %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("hostlock: another corehub instance holds %s: %w", path, err)
	}

	return &Guard{f: f}, nil
}

// Release drops the lock and closes the underlying file.
func (g *Guard) Release() error {
	if g == nil || g.f == nil {
		return nil
	}
	_ = unix.Flock(int(g.f.Fd()), unix.LOCK_UN)
	return g.f.Close()
}
