//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows

package mmap

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenedFile(t *testing.T) {
	f := makeTestFile(t)
	defer testClose(t, f)
	m, err := New(f.Fd(), 0, testLength, PROT_READ|PROT_WRITE, MAP_SHARED)
	require.NoError(t, err)
	defer testClose(t, m)
	assert.True(t, m.Writable())
	assert.False(t, m.Executable())
	assert.Equal(t, testLength, m.Length())
	assert.Equal(t, int(testLength), len(m.Memory()))
	assert.NotZero(t, m.Address())
}

func TestClosedMapping(t *testing.T) {
	m, err := NewAnonymous(4096, PROT_READ|PROT_WRITE)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	var closed *ErrorClosed
	assert.ErrorAs(t, m.Close(), &closed)
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorAs(t, err, &closed)
	_, err = m.WriteAt([]byte{1}, 0)
	assert.ErrorAs(t, err, &closed)
	assert.ErrorAs(t, m.Sync(), &closed)
	assert.ErrorAs(t, m.Lock(), &closed)
	assert.ErrorAs(t, m.Protect(PROT_READ), &closed)
	assert.Nil(t, m.Memory())
}

func TestSharedMapping(t *testing.T) {
	f := makeTestFile(t)
	defer testClose(t, f)
	m, err := New(f.Fd(), 0, testLength, PROT_READ|PROT_WRITE, MAP_SHARED)
	require.NoError(t, err)
	defer testClose(t, m)

	n, err := m.WriteAt(testBuffer, 0)
	require.NoError(t, err)
	require.Equal(t, len(testBuffer), n)
	require.NoError(t, m.Sync())

	buf := make([]byte, len(testBuffer))
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, testBuffer, buf)
}

func TestCloseSyncs(t *testing.T) {
	f := makeTestFile(t)
	defer testClose(t, f)
	m, err := New(f.Fd(), testOffset, uintptr(len(testBuffer)), PROT_READ|PROT_WRITE, MAP_SHARED)
	require.NoError(t, err)
	copy(m.Memory(), testBuffer)
	require.NoError(t, m.Close())

	buf := make([]byte, len(testBuffer))
	_, err = f.ReadAt(buf, testOffset)
	require.NoError(t, err)
	assert.Equal(t, testBuffer, buf)
}

func TestPartialIO(t *testing.T) {
	m, err := NewAnonymous(4096, PROT_READ|PROT_WRITE)
	require.NoError(t, err)
	defer testClose(t, m)

	n, err := m.WriteAt(testBuffer, 4096-2)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)

	buf := make([]byte, len(testBuffer))
	n, err = m.ReadAt(buf, 4096-2)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, testBuffer[:2], buf[:2])

	var invalid *ErrorInvalidOffset
	_, err = m.ReadAt(buf, 4096)
	assert.ErrorAs(t, err, &invalid)
	_, err = m.WriteAt(buf, -1)
	assert.ErrorAs(t, err, &invalid)
}

func TestReadOnlyMapping(t *testing.T) {
	f := makeTestFile(t)
	defer testClose(t, f)
	_, err := f.WriteAt(testBuffer, 0)
	require.NoError(t, err)

	m, err := New(f.Fd(), 0, testLength, PROT_READ, MAP_SHARED)
	require.NoError(t, err)
	defer testClose(t, m)

	buf := make([]byte, len(testBuffer))
	_, err = m.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, testBuffer, buf)

	var illegal *ErrorIllegalOperation
	_, err = m.WriteAt(buf, 0)
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "write", illegal.Operation)
	require.ErrorAs(t, m.Sync(), &illegal)
	assert.Equal(t, "sync", illegal.Operation)
}

func TestProtectMapping(t *testing.T) {
	m, err := NewAnonymous(4096, PROT_READ)
	require.NoError(t, err)
	defer testClose(t, m)
	assert.False(t, m.Writable())

	require.NoError(t, m.Protect(PROT_READ|PROT_WRITE))
	assert.True(t, m.Writable())
	_, err = m.WriteAt(testBuffer, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(m.Memory(), testBuffer))
}

func TestLockMapping(t *testing.T) {
	m, err := NewAnonymous(4096, PROT_READ|PROT_WRITE)
	require.NoError(t, err)
	defer testClose(t, m)

	var unlocked *ErrorUnlocked
	assert.ErrorAs(t, m.Unlock(), &unlocked)
	if err := m.Lock(); err != nil {
		t.Skipf("locking is not permitted here: %v", err)
	}
	var locked *ErrorLocked
	assert.ErrorAs(t, m.Lock(), &locked)
	require.NoError(t, m.Unlock())
	require.NoError(t, m.Lock())
}

func TestMapInvalidArguments(t *testing.T) {
	var length *ErrorInvalidLength
	_, err := NewAnonymous(0, PROT_READ)
	require.ErrorAs(t, err, &length)
	assert.Equal(t, uintptr(0), length.Length)

	var offset *ErrorInvalidOffset
	_, err = New(0, -1, 4096, PROT_READ, MAP_SHARED)
	require.ErrorAs(t, err, &offset)
	assert.Equal(t, int64(-1), offset.Offset)

	_, err = NewAnonymous(4096, PROT_EXEC)
	assert.True(t, errors.Is(err, EINVAL))
}

func TestMapFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "mapped")
	require.NoError(t, os.WriteFile(name, testBuffer, 0600))

	m, err := MapFile(name, PROT_READ, MAP_SHARED)
	require.NoError(t, err)
	assert.Equal(t, testBuffer, m.Memory())
	require.NoError(t, m.Close())

	m, err = MapFile(name, PROT_READ|PROT_WRITE, MAP_SHARED)
	require.NoError(t, err)
	copy(m.Memory(), "WORLD")
	require.NoError(t, m.Close())
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "WORLD", string(data))
}

func TestMapFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := MapFile(filepath.Join(dir, "missing"), PROT_READ, MAP_SHARED)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "unable to open")

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = MapFile(empty, PROT_READ, MAP_SHARED)
	var length *ErrorInvalidLength
	assert.ErrorAs(t, err, &length)
}
