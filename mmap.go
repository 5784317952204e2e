// Package mmap implements the POSIX memory mapping calls (mmap, munmap,
// msync, mprotect, mlock and munlock) on top of the Windows file mapping
// primitives, so that code written against the POSIX interface runs unchanged.
//
// Protection and mapping flags are translated once, in a platform
// independent way, into page protections and view access rights; the
// operating system calls go through a System. On Windows the System calls
// CreateFileMapping, MapViewOfFile and friends. On Unix the same mapping
// object model is emulated with the native mmap family, which keeps the
// translation logic usable and testable everywhere.
//
// Basic usage:
//
//	addr, err := mmap.Mmap(0, 4096, mmap.PROT_READ|mmap.PROT_WRITE, mmap.MAP_ANONYMOUS|mmap.MAP_PRIVATE, -1, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mmap.Munmap(addr, 4096)
package mmap

// Memory protection bits. They may be combined.
const (
	PROT_NONE  = 0x0
	PROT_READ  = 0x1
	PROT_WRITE = 0x2
	PROT_EXEC  = 0x4
)

// Mapping type and flags.
const (
	MAP_FILE      = 0x00
	MAP_SHARED    = 0x01
	MAP_PRIVATE   = 0x02
	MAP_TYPE      = 0x0f
	MAP_FIXED     = 0x10
	MAP_ANONYMOUS = 0x20
	MAP_ANON      = MAP_ANONYMOUS
)

// Msync flags. They are accepted for compatibility only,
// every flush writes the dirty pages synchronously.
const (
	MS_ASYNC      = 0x1
	MS_SYNC       = 0x2
	MS_INVALIDATE = 0x4
)

// MAP_FAILED is the address returned by Mmap on failure.
const MAP_FAILED = ^uintptr(0)

const maxInt = int(^uint(0) >> 1)

var std = NewTranslator(Native())

// Default returns the translator bound to the native System.
func Default() *Translator {
	return std
}

// Mmap creates a new mapping of length bytes and returns its base address.
// See Translator.Mmap.
func Mmap(addr, length uintptr, prot, flags, fd int, offset int64) (uintptr, error) {
	return std.Mmap(addr, length, prot, flags, fd, offset)
}

// Munmap releases the mapping at addr.
func Munmap(addr, length uintptr) error {
	return std.Munmap(addr, length)
}

// Msync writes the dirty pages of the given range to the backing store.
func Msync(addr, length uintptr, flags int) error {
	return std.Msync(addr, length, flags)
}

// Mprotect changes the protection of the given range.
func Mprotect(addr, length uintptr, prot int) error {
	return std.Mprotect(addr, length, prot)
}

// Mlock locks the given range in physical memory.
func Mlock(addr, length uintptr) error {
	return std.Mlock(addr, length)
}

// Munlock unlocks the given range.
func Munlock(addr, length uintptr) error {
	return std.Munlock(addr, length)
}
