package mmap

import (
	"io"
	"os"
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
)

// Mapping is a view returned by Mmap together with its length and protection.
// It owns the view and releases it once on Close.
type Mapping struct {
	t          *Translator
	address    uintptr
	length     uintptr
	memory     []byte
	writable   bool
	executable bool
	anonymous  bool
	locked     bool
}

// New returns a new mapping of length bytes of the file fd starting at offset.
// Offset must be aligned to the allocation granularity of the operating system.
// See Translator.Mmap for the meaning of prot and flags.
func New(fd uintptr, offset int64, length uintptr, prot, flags int) (*Mapping, error) {
	return std.Map(fd, offset, length, prot, flags)
}

// NewAnonymous returns a new private mapping of length bytes of zeroed memory.
func NewAnonymous(length uintptr, prot int) (*Mapping, error) {
	return std.Map(^uintptr(0), 0, length, prot, MAP_ANONYMOUS|MAP_PRIVATE)
}

// MapFile opens the named file and maps it as a whole.
// The file is opened for writing if prot has PROT_WRITE set.
func MapFile(name string, prot, flags int) (*Mapping, error) {
	flag := os.O_RDONLY
	if prot&PROT_WRITE != 0 {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(name, flag, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open: %s", name)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot stat file: %s", name)
	}
	if fi.Size() == 0 {
		return nil, &ErrorInvalidLength{Length: 0}
	}
	m, err := std.Map(f.Fd(), 0, uintptr(fi.Size()), prot, flags&^MAP_ANONYMOUS)
	if err != nil {
		return nil, errors.Wrapf(err, "while mmapping %s with size: %d", name, fi.Size())
	}
	return m, nil
}

// Map returns a new mapping created by this translator.
func (t *Translator) Map(fd uintptr, offset int64, length uintptr, prot, flags int) (*Mapping, error) {
	if offset < 0 {
		return nil, &ErrorInvalidOffset{Offset: offset}
	}
	if length == 0 || length > uintptr(maxInt) {
		return nil, &ErrorInvalidLength{Length: length}
	}
	addr, err := t.Mmap(0, length, prot, flags, int(fd), offset)
	if err != nil {
		return nil, err
	}
	m := &Mapping{
		t:          t,
		address:    addr,
		length:     length,
		memory:     unsafe.Slice((*byte)(unsafe.Pointer(addr)), length),
		writable:   prot&PROT_WRITE != 0,
		executable: prot&PROT_EXEC != 0,
		anonymous:  flags&MAP_ANONYMOUS != 0,
	}
	runtime.SetFinalizer(m, (*Mapping).Close)
	return m, nil
}

// Writable reports whether mapped memory pages may be written.
func (m *Mapping) Writable() bool {
	return m.writable
}

// Executable reports whether mapped memory pages may be executed.
func (m *Mapping) Executable() bool {
	return m.executable
}

// Address returns the base address of the view.
func (m *Mapping) Address() uintptr {
	return m.address
}

// Length returns the mapped length in bytes.
func (m *Mapping) Length() uintptr {
	return m.length
}

// Memory returns mapped memory as a byte slice.
// The slice is not valid after Close.
func (m *Mapping) Memory() []byte {
	return m.memory
}

// ReadAt reads len(buf) bytes at given offset.
// Implementation of io.ReaderAt.
func (m *Mapping) ReadAt(buf []byte, offset int64) (int, error) {
	if m.memory == nil {
		return 0, &ErrorClosed{}
	}
	if offset < 0 || offset >= int64(m.length) {
		return 0, &ErrorInvalidOffset{Offset: offset}
	}
	n := copy(buf, m.memory[offset:])
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes len(buf) bytes at given offset.
// Implementation of io.WriterAt.
func (m *Mapping) WriteAt(buf []byte, offset int64) (int, error) {
	if m.memory == nil {
		return 0, &ErrorClosed{}
	}
	if !m.writable {
		return 0, &ErrorIllegalOperation{Operation: "write"}
	}
	if offset < 0 || offset >= int64(m.length) {
		return 0, &ErrorInvalidOffset{Offset: offset}
	}
	n := copy(m.memory[offset:], buf)
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

// Sync writes the dirty pages of the mapping to the underlying file.
func (m *Mapping) Sync() error {
	if m.memory == nil {
		return &ErrorClosed{}
	}
	if !m.writable {
		return &ErrorIllegalOperation{Operation: "sync"}
	}
	return m.t.Msync(m.address, m.length, MS_SYNC)
}

// Protect changes the protection of the whole mapping.
// Accessing the memory in a way prot does not allow faults.
func (m *Mapping) Protect(prot int) error {
	if m.memory == nil {
		return &ErrorClosed{}
	}
	if err := m.t.Mprotect(m.address, m.length, prot); err != nil {
		return err
	}
	m.writable = prot&PROT_WRITE != 0
	m.executable = prot&PROT_EXEC != 0
	return nil
}

// Lock locks mapped memory pages.
// All pages of the mapping are guaranteed to be resident in RAM when the call
// returns successfully, and stay there until unlocked.
// It may need to increase process memory limits for operation success.
// See working set on Windows and rlimit on Unix for details.
func (m *Mapping) Lock() error {
	if m.memory == nil {
		return &ErrorClosed{}
	}
	if m.locked {
		return &ErrorLocked{}
	}
	if err := m.t.Mlock(m.address, m.length); err != nil {
		return err
	}
	m.locked = true
	return nil
}

// Unlock unlocks mapped memory pages.
func (m *Mapping) Unlock() error {
	if m.memory == nil {
		return &ErrorClosed{}
	}
	if !m.locked {
		return &ErrorUnlocked{}
	}
	if err := m.t.Munlock(m.address, m.length); err != nil {
		return err
	}
	m.locked = false
	return nil
}

// Close releases the mapping.
// A writable file mapping is synchronized and a locked one unlocked first.
// Implementation of io.Closer.
func (m *Mapping) Close() error {
	if m.memory == nil {
		return &ErrorClosed{}
	}
	if m.writable && !m.anonymous {
		if err := m.Sync(); err != nil {
			return err
		}
	}
	if m.locked {
		if err := m.Unlock(); err != nil {
			return err
		}
	}
	if err := m.t.Munmap(m.address, m.length); err != nil {
		return err
	}
	*m = Mapping{}
	runtime.SetFinalizer(m, nil)
	return nil
}
