package mmap

// Handle is an operating system handle of a file or a mapping object.
type Handle uintptr

// NoFile is the backing file handle of anonymous mappings.
const NoFile = ^Handle(0)

// System is the set of operating system primitives the translator is built on.
// Mapping objects follow the Windows model: an object is created over a file
// (or over the paging file for NoFile), views of it are mapped into the
// address space, and the object handle may be closed while views are alive.
type System interface {
	// File resolves a file descriptor to a file handle.
	File(fd int) (Handle, error)
	// CreateMapping creates a mapping object of maxSize bytes over file.
	CreateMapping(file Handle, prot PageProtection, maxSize uint64) (Handle, error)
	// MapView maps length bytes of the mapping object starting at offset
	// and returns the base address of the view.
	MapView(mapping Handle, access ViewAccess, offset uint64, length uintptr) (uintptr, error)
	// CloseHandle releases a mapping object handle.
	CloseHandle(h Handle) error
	// UnmapView releases the view at addr.
	UnmapView(addr, length uintptr) error
	// FlushView writes the dirty pages of the range to the backing store.
	FlushView(addr, length uintptr) error
	// Protect changes the protection of the range and returns the previous one.
	Protect(addr, length uintptr, prot PageProtection) (PageProtection, error)
	// Lock locks the range in physical memory.
	Lock(addr, length uintptr) error
	// Unlock unlocks the range.
	Unlock(addr, length uintptr) error
}

// Native returns the System of the running operating system.
func Native() System {
	return native
}
