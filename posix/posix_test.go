package posix

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	mmap "github.com/shixiongfei/mmap-win32"
)

type stubSystem struct {
	err error
}

const stubView = uintptr(0x20000)

func (s stubSystem) File(fd int) (mmap.Handle, error) {
	return mmap.Handle(fd), s.err
}

func (s stubSystem) CreateMapping(file mmap.Handle, prot mmap.PageProtection, maxSize uint64) (mmap.Handle, error) {
	return 1, s.err
}

func (s stubSystem) MapView(mapping mmap.Handle, access mmap.ViewAccess, offset uint64, length uintptr) (uintptr, error) {
	return stubView, s.err
}

func (s stubSystem) CloseHandle(h mmap.Handle) error { return nil }
func (s stubSystem) UnmapView(addr, length uintptr) error { return s.err }
func (s stubSystem) FlushView(addr, length uintptr) error { return s.err }
func (s stubSystem) Lock(addr, length uintptr) error { return s.err }
func (s stubSystem) Unlock(addr, length uintptr) error { return s.err }

func (s stubSystem) Protect(addr, length uintptr, prot mmap.PageProtection) (mmap.PageProtection, error) {
	return mmap.PageNoAccess, s.err
}

func TestMmapFailure(t *testing.T) {
	s := New(mmap.NewTranslator(stubSystem{}))

	assert.Equal(t, mmap.MAP_FAILED, s.Mmap(0, 0, mmap.PROT_READ, mmap.MAP_ANONYMOUS|mmap.MAP_PRIVATE, -1, 0))
	assert.Equal(t, mmap.EINVAL, s.Errno)

	assert.Equal(t, mmap.MAP_FAILED, s.Mmap(0, 4096, mmap.PROT_READ, mmap.MAP_SHARED|mmap.MAP_FIXED, 3, 0))
	assert.Equal(t, mmap.EINVAL, s.Errno)

	assert.Equal(t, mmap.MAP_FAILED, s.Mmap(0, 4096, mmap.PROT_EXEC, mmap.MAP_ANONYMOUS|mmap.MAP_PRIVATE, -1, 0))
	assert.Equal(t, mmap.EINVAL, s.Errno)
}

func TestMmapBadDescriptor(t *testing.T) {
	s := New(mmap.NewTranslator(stubSystem{err: syscall.Errno(6)}))
	assert.Equal(t, mmap.MAP_FAILED, s.Mmap(0, 4096, mmap.PROT_READ, mmap.MAP_SHARED, 42, 0))
	assert.Equal(t, mmap.EBADF, s.Errno)
}

func TestMmapClearsErrno(t *testing.T) {
	s := New(mmap.NewTranslator(stubSystem{}))
	s.Errno = mmap.EBADF
	assert.Equal(t, stubView, s.Mmap(0, 4096, mmap.PROT_READ|mmap.PROT_WRITE, mmap.MAP_ANONYMOUS|mmap.MAP_PRIVATE, -1, 0))
	assert.Equal(t, mmap.Errno(0), s.Errno)
}

func TestCompanionsKeepErrnoOnSuccess(t *testing.T) {
	s := New(mmap.NewTranslator(stubSystem{}))
	s.Errno = mmap.EBADF
	assert.Equal(t, 0, s.Munmap(stubView, 4096))
	assert.Equal(t, 0, s.Msync(stubView, 4096, mmap.MS_SYNC))
	assert.Equal(t, 0, s.Mprotect(stubView, 4096, mmap.PROT_READ))
	assert.Equal(t, 0, s.Mlock(stubView, 4096))
	assert.Equal(t, 0, s.Munlock(stubView, 4096))
	assert.Equal(t, mmap.EBADF, s.Errno)
}

func TestCompanionFailures(t *testing.T) {
	s := New(mmap.NewTranslator(stubSystem{err: syscall.Errno(487)}))
	calls := map[string]func() int{
		"munmap":   func() int { return s.Munmap(stubView, 4096) },
		"msync":    func() int { return s.Msync(stubView, 4096, mmap.MS_ASYNC) },
		"mprotect": func() int { return s.Mprotect(stubView, 4096, mmap.PROT_NONE) },
		"mlock":    func() int { return s.Mlock(stubView, 4096) },
		"munlock":  func() int { return s.Munlock(stubView, 4096) },
	}
	for name, call := range calls {
		s.Errno = 0
		assert.Equal(t, -1, call(), name)
		assert.Equal(t, mmap.Errno(487), s.Errno, name)
	}

	s = New(mmap.NewTranslator(stubSystem{err: errors.New("no code")}))
	assert.Equal(t, -1, s.Munmap(stubView, 4096))
	assert.Equal(t, mmap.EPERM, s.Errno)
}

func TestNewDefault(t *testing.T) {
	s := New(nil)
	assert.Same(t, mmap.Default(), s.t)
}
