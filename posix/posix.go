// Package posix adapts the mmap package to the C calling convention.
// Calls return a sentinel on failure and leave the reason in an errno slot,
// so code ported from C can keep checking errno after each call.
package posix

import (
	mmap "github.com/shixiongfei/mmap-win32"
)

// Shim carries the errno slot of one caller.
// The slot is not synchronized: use one Shim per goroutine,
// as a C program has one errno per thread.
type Shim struct {
	// Errno is the error number of the last failed call.
	Errno mmap.Errno

	t *mmap.Translator
}

// New returns a new shim over the given translator,
// or over the native one if t is nil.
func New(t *mmap.Translator) *Shim {
	if t == nil {
		t = mmap.Default()
	}
	return &Shim{t: t}
}

// Mmap returns the base address of a new mapping or mmap.MAP_FAILED.
// Errno is cleared on entry.
func (s *Shim) Mmap(addr, length uintptr, prot, flags, fd int, off int64) uintptr {
	s.Errno = 0
	view, err := s.t.Mmap(addr, length, prot, flags, fd, off)
	if err != nil {
		s.Errno = mmap.ErrnoOf(err)
		return mmap.MAP_FAILED
	}
	return view
}

// Munmap returns 0 on success and -1 on failure.
func (s *Shim) Munmap(addr, length uintptr) int {
	return s.result(s.t.Munmap(addr, length))
}

// Msync returns 0 on success and -1 on failure.
func (s *Shim) Msync(addr, length uintptr, flags int) int {
	return s.result(s.t.Msync(addr, length, flags))
}

// Mprotect returns 0 on success and -1 on failure.
func (s *Shim) Mprotect(addr, length uintptr, prot int) int {
	return s.result(s.t.Mprotect(addr, length, prot))
}

// Mlock returns 0 on success and -1 on failure.
func (s *Shim) Mlock(addr, length uintptr) int {
	return s.result(s.t.Mlock(addr, length))
}

// Munlock returns 0 on success and -1 on failure.
func (s *Shim) Munlock(addr, length uintptr) int {
	return s.result(s.t.Munlock(addr, length))
}

func (s *Shim) result(err error) int {
	if err != nil {
		s.Errno = mmap.ErrnoOf(err)
		return -1
	}
	return 0
}
