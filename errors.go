package mmap

import "fmt"

// Errors reported by Mapping. They describe misuse of a mapping and never
// reach the operating system, so they carry no error number.

// ErrorClosed is returned by every method of a Mapping after Close.
type ErrorClosed struct{}

func (err *ErrorClosed) Error() string {
	return "mmap: mapping closed"
}

// ErrorIllegalOperation is returned when the protection of the mapping
// forbids the operation, e.g. a write through a read-only view.
type ErrorIllegalOperation struct {
	Operation string
}

func (err *ErrorIllegalOperation) Error() string {
	return fmt.Sprintf("mmap: %s not allowed by the mapping protection", err.Operation)
}

// ErrorInvalidLength is returned for a zero length, or one the address
// space cannot hold.
type ErrorInvalidLength struct {
	Length uintptr
}

func (err *ErrorInvalidLength) Error() string {
	return fmt.Sprintf("mmap: invalid length %d", err.Length)
}

// ErrorInvalidOffset is returned for an offset outside of the file or the view.
type ErrorInvalidOffset struct {
	Offset int64
}

func (err *ErrorInvalidOffset) Error() string {
	return fmt.Sprintf("mmap: invalid offset %#x", err.Offset)
}

// ErrorLocked is returned by Lock when the pages are locked already.
type ErrorLocked struct{}

func (err *ErrorLocked) Error() string {
	return "mmap: pages already locked"
}

// ErrorUnlocked is returned by Unlock when the pages are not locked.
type ErrorUnlocked struct{}

func (err *ErrorUnlocked) Error() string {
	return "mmap: pages not locked"
}
