//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package mmap

var native System = unsupportedSystem{}

// unsupportedSystem fails every call.
type unsupportedSystem struct{}

func (unsupportedSystem) File(fd int) (Handle, error) {
	return 0, ENOSYS
}

func (unsupportedSystem) CreateMapping(file Handle, prot PageProtection, maxSize uint64) (Handle, error) {
	return 0, ENOSYS
}

func (unsupportedSystem) MapView(mapping Handle, access ViewAccess, offset uint64, length uintptr) (uintptr, error) {
	return 0, ENOSYS
}

func (unsupportedSystem) CloseHandle(h Handle) error {
	return ENOSYS
}

func (unsupportedSystem) UnmapView(addr, length uintptr) error {
	return ENOSYS
}

func (unsupportedSystem) FlushView(addr, length uintptr) error {
	return ENOSYS
}

func (unsupportedSystem) Protect(addr, length uintptr, prot PageProtection) (PageProtection, error) {
	return 0, ENOSYS
}

func (unsupportedSystem) Lock(addr, length uintptr) error {
	return ENOSYS
}

func (unsupportedSystem) Unlock(addr, length uintptr) error {
	return ENOSYS
}
