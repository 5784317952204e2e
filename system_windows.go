//go:build windows

package mmap

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

var native System = windowsSystem{}

type windowsSystem struct{}

// lastError reports a failed call without a GetLastError code as Errno(0),
// x/sys/windows reports it as EINVAL.
func lastError(err error) error {
	if errors.Is(err, syscall.EINVAL) {
		return Errno(0)
	}
	return err
}

// File accepts the handle returned by (*os.File).Fd, there is no descriptor table.
func (windowsSystem) File(fd int) (Handle, error) {
	h := windows.Handle(fd)
	if fd < 0 || h == windows.InvalidHandle {
		return 0, windows.ERROR_INVALID_HANDLE
	}
	if _, err := windows.GetFileType(h); err != nil {
		return 0, lastError(err)
	}
	return Handle(h), nil
}

func (windowsSystem) CreateMapping(file Handle, prot PageProtection, maxSize uint64) (Handle, error) {
	maxSizeHigh := uint32(maxSize >> 32)
	maxSizeLow := uint32(maxSize)
	h, err := windows.CreateFileMapping(windows.Handle(file), nil, uint32(prot), maxSizeHigh, maxSizeLow, nil)
	if err != nil {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return 0, lastError(err)
	}
	return Handle(h), nil
}

func (windowsSystem) MapView(mapping Handle, access ViewAccess, offset uint64, length uintptr) (uintptr, error) {
	offsetHigh := uint32(offset >> 32)
	offsetLow := uint32(offset)
	addr, err := windows.MapViewOfFile(windows.Handle(mapping), uint32(access), offsetHigh, offsetLow, length)
	if err != nil {
		return 0, lastError(err)
	}
	return addr, nil
}

func (windowsSystem) CloseHandle(h Handle) error {
	return lastError(windows.CloseHandle(windows.Handle(h)))
}

// UnmapView releases the whole view, length is ignored.
func (windowsSystem) UnmapView(addr, length uintptr) error {
	return lastError(windows.UnmapViewOfFile(addr))
}

func (windowsSystem) FlushView(addr, length uintptr) error {
	return lastError(windows.FlushViewOfFile(addr, length))
}

func (windowsSystem) Protect(addr, length uintptr, prot PageProtection) (PageProtection, error) {
	var old uint32
	if err := windows.VirtualProtect(addr, length, uint32(prot), &old); err != nil {
		return 0, lastError(err)
	}
	return PageProtection(old), nil
}

func (windowsSystem) Lock(addr, length uintptr) error {
	return lastError(windows.VirtualLock(addr, length))
}

func (windowsSystem) Unlock(addr, length uintptr) error {
	return lastError(windows.VirtualUnlock(addr, length))
}
