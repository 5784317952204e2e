package mmap

import (
	"errors"
	"syscall"
)

// Errno is a POSIX error number.
// Codes reported by the operating system are passed through by value.
type Errno uintptr

const (
	EPERM  Errno = 1
	EBADF  Errno = 9
	EINVAL Errno = 22
	ENOSYS Errno = 38
)

var errnoText = map[Errno]string{
	EPERM:  "operation not permitted",
	EBADF:  "bad file descriptor",
	EINVAL: "invalid argument",
	ENOSYS: "function not implemented",
}

// Implementation of the error interface.
func (e Errno) Error() string {
	if s, ok := errnoText[e]; ok {
		return s
	}
	return syscall.Errno(e).Error()
}

// Error is an error which returns when an operation fails.
type Error struct {
	// Op specifies the failed operation.
	Op string
	// Err specifies the error number.
	Err Errno
}

// Implementation of the error interface.
func (err *Error) Error() string {
	return "mmap: " + err.Op + ": " + err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// ErrnoOf returns the error number carried by err.
// It returns 0 for a nil error and EPERM for an error without a number.
func ErrnoOf(err error) Errno {
	if err == nil {
		return 0
	}
	return errnoOf(err, EPERM)
}

// errnoOf extracts the code reported by the operating system,
// or returns deferr if there is none.
func errnoOf(err error, deferr Errno) Errno {
	var en Errno
	if errors.As(err, &en) && en != 0 {
		return en
	}
	var sn syscall.Errno
	if errors.As(err, &sn) && sn != 0 {
		return Errno(sn)
	}
	return deferr
}

func invalid(op string) error {
	return &Error{Op: op, Err: EINVAL}
}

func osError(op string, err error) error {
	return &Error{Op: op, Err: errnoOf(err, EPERM)}
}
