//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package mmap

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

var native System = unixSystem{}

// unixSystem emulates mapping objects with the mmap family.
// A mapping object is a duplicate of the file descriptor, which keeps the
// file open while the object lives just like a section does on Windows.
// The handle packs the descriptor plus one (zero for anonymous memory)
// with the page protection in the low byte.
type unixSystem struct{}

func packObject(fd int, prot PageProtection) Handle {
	return Handle(uintptr(fd+1)<<8 | uintptr(prot&0xff))
}

func unpackObject(h Handle) (fd int, prot PageProtection) {
	return int(h>>8) - 1, PageProtection(h & 0xff)
}

// posixProt returns the protection bits granting the access of prot.
func posixProt(prot PageProtection) int {
	switch prot {
	case PageReadOnly:
		return unix.PROT_READ
	case PageReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE
	case PageExecuteRead:
		return unix.PROT_READ | unix.PROT_EXEC
	case PageExecuteReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
	}
	return unix.PROT_NONE
}

// viewProt returns the protection bits of a view with the given access.
// A writable view is readable as well.
func viewProt(access ViewAccess) int {
	prot := unix.PROT_NONE
	if access&FileMapRead != 0 {
		prot |= unix.PROT_READ
	}
	if access&FileMapWrite != 0 {
		prot |= unix.PROT_READ | unix.PROT_WRITE
	}
	if access&FileMapExecute != 0 {
		prot |= unix.PROT_EXEC
	}
	return prot
}

func memory(addr, length uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}

func (unixSystem) File(fd int) (Handle, error) {
	if fd < 0 {
		return 0, unix.EBADF
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != nil {
		return 0, err
	}
	return Handle(fd), nil
}

// CreateMapping grows a file smaller than maxSize when prot is writable,
// and fails otherwise, as CreateFileMapping does.
func (unixSystem) CreateMapping(file Handle, prot PageProtection, maxSize uint64) (Handle, error) {
	if prot == PageNoAccess || maxSize > uint64(maxInt) {
		return 0, unix.EINVAL
	}
	if file == NoFile {
		return packObject(-1, prot), nil
	}
	var st unix.Stat_t
	if err := unix.Fstat(int(file), &st); err != nil {
		return 0, err
	}
	if uint64(st.Size) < maxSize {
		if !prot.Writable() {
			return 0, unix.EACCES
		}
		if err := unix.Ftruncate(int(file), int64(maxSize)); err != nil {
			return 0, err
		}
	}
	fd, err := unix.Dup(int(file))
	if err != nil {
		return 0, err
	}
	return packObject(fd, prot), nil
}

func (unixSystem) MapView(mapping Handle, access ViewAccess, offset uint64, length uintptr) (uintptr, error) {
	fd, prot := unpackObject(mapping)
	view := viewProt(access)
	if view&^posixProt(prot) != 0 {
		return 0, unix.EACCES
	}
	flags := unix.MAP_SHARED
	if fd < 0 {
		flags |= unix.MAP_ANON
		offset = 0
	}
	addr, err := unix.MmapPtr(fd, int64(offset), nil, length, view, flags)
	if err != nil {
		return 0, err
	}
	return uintptr(addr), nil
}

func (unixSystem) CloseHandle(h Handle) error {
	if fd, _ := unpackObject(h); fd >= 0 {
		return unix.Close(fd)
	}
	return nil
}

func (unixSystem) UnmapView(addr, length uintptr) error {
	return unix.MunmapPtr(unsafe.Pointer(addr), length)
}

func (unixSystem) FlushView(addr, length uintptr) error {
	return unix.Msync(memory(addr, length), unix.MS_SYNC)
}

// Protect cannot report the previous protection, PageNoAccess is returned.
func (unixSystem) Protect(addr, length uintptr, prot PageProtection) (PageProtection, error) {
	if err := unix.Mprotect(memory(addr, length), posixProt(prot)); err != nil {
		return 0, err
	}
	return PageNoAccess, nil
}

func (unixSystem) Lock(addr, length uintptr) error {
	return unix.Mlock(memory(addr, length))
}

func (unixSystem) Unlock(addr, length uintptr) error {
	return unix.Munlock(memory(addr, length))
}
