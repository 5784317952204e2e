package mmap

import "math"

// Translator translates POSIX memory mapping calls into System calls.
// It has no state besides the System and may be used concurrently
// on different address ranges.
type Translator struct {
	sys System
}

// NewTranslator returns a new translator over the given System.
func NewTranslator(sys System) *Translator {
	return &Translator{sys: sys}
}

// System returns the System of this translator.
func (t *Translator) System() System {
	return t.sys
}

// Mmap creates a new mapping of length bytes of the file fd starting at offset,
// or of anonymous memory if flags has MAP_ANONYMOUS set, and returns the base
// address of the view. The address hint is ignored: the placement is chosen
// by the operating system. On failure MAP_FAILED is returned with an *Error.
//
// Fixed mappings and execute-only protection are not supported.
// The caller must release the mapping exactly once with Munmap.
func (t *Translator) Mmap(addr, length uintptr, prot, flags, fd int, offset int64) (uintptr, error) {
	if length == 0 {
		return MAP_FAILED, invalid("mmap")
	}
	// Unsupported flag combinations.
	if flags&MAP_FIXED != 0 {
		return MAP_FAILED, invalid("mmap")
	}
	// Unsupported protection combinations.
	if prot == PROT_EXEC {
		return MAP_FAILED, invalid("mmap")
	}
	if offset < 0 || uint64(length) > math.MaxUint64-uint64(offset) {
		return MAP_FAILED, invalid("mmap")
	}

	file := NoFile
	if flags&MAP_ANONYMOUS == 0 {
		h, err := t.sys.File(fd)
		if err != nil {
			return MAP_FAILED, &Error{Op: "mmap", Err: EBADF}
		}
		file = h
	}
	return t.mapView(file, prot, uint64(offset), length)
}

func (t *Translator) mapView(file Handle, prot int, offset uint64, length uintptr) (uintptr, error) {
	mapping, err := t.sys.CreateMapping(file, pageProtection(prot), offset+uint64(length))
	if err != nil {
		return MAP_FAILED, osError("mmap", err)
	}
	// The view keeps the mapping object alive.
	defer t.sys.CloseHandle(mapping)

	addr, err := t.sys.MapView(mapping, viewAccess(prot), offset, length)
	if err != nil {
		return MAP_FAILED, osError("mmap", err)
	}
	return addr, nil
}

// Munmap releases the view at addr. The whole view is released whatever
// the length is. Releasing the same view twice fails.
func (t *Translator) Munmap(addr, length uintptr) error {
	if err := t.sys.UnmapView(addr, length); err != nil {
		return osError("munmap", err)
	}
	return nil
}

// Msync writes the dirty pages of the given range to the backing store.
// The flags are not interpreted.
func (t *Translator) Msync(addr, length uintptr, flags int) error {
	if err := t.sys.FlushView(addr, length); err != nil {
		return osError("msync", err)
	}
	return nil
}

// Mprotect changes the protection of the given range.
func (t *Translator) Mprotect(addr, length uintptr, prot int) error {
	if _, err := t.sys.Protect(addr, length, pageProtection(prot)); err != nil {
		return osError("mprotect", err)
	}
	return nil
}

// Mlock locks the given range in physical memory.
// Nested locks are not counted.
func (t *Translator) Mlock(addr, length uintptr) error {
	if err := t.sys.Lock(addr, length); err != nil {
		return osError("mlock", err)
	}
	return nil
}

// Munlock unlocks the given range.
func (t *Translator) Munlock(addr, length uintptr) error {
	if err := t.sys.Unlock(addr, length); err != nil {
		return osError("munlock", err)
	}
	return nil
}
