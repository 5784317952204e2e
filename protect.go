package mmap

// PageProtection is a page protection of a mapping object or a memory range.
// The values are the Windows PAGE_* constants.
type PageProtection uint32

const (
	PageNoAccess         PageProtection = 0x01
	PageReadOnly         PageProtection = 0x02
	PageReadWrite        PageProtection = 0x04
	PageExecuteRead      PageProtection = 0x20
	PageExecuteReadWrite PageProtection = 0x40
)

// ViewAccess is a set of access rights of a mapped view.
// The values are the Windows FILE_MAP_* constants.
type ViewAccess uint32

const (
	FileMapWrite   ViewAccess = 0x02
	FileMapRead    ViewAccess = 0x04
	FileMapExecute ViewAccess = 0x20
)

// pageProtection translates POSIX protection bits into a page protection.
// Only PROT_EXEC and PROT_WRITE are tested: any other non-zero value
// without them is read-only.
func pageProtection(prot int) PageProtection {
	if prot == PROT_NONE {
		return PageNoAccess
	}
	if prot&PROT_EXEC != 0 {
		if prot&PROT_WRITE != 0 {
			return PageExecuteReadWrite
		}
		return PageExecuteRead
	}
	if prot&PROT_WRITE != 0 {
		return PageReadWrite
	}
	return PageReadOnly
}

// viewAccess translates POSIX protection bits into view access rights,
// one right per bit.
func viewAccess(prot int) ViewAccess {
	var access ViewAccess
	if prot&PROT_READ != 0 {
		access |= FileMapRead
	}
	if prot&PROT_WRITE != 0 {
		access |= FileMapWrite
	}
	if prot&PROT_EXEC != 0 {
		access |= FileMapExecute
	}
	return access
}

// Writable reports whether pages with this protection may be written.
func (p PageProtection) Writable() bool {
	return p == PageReadWrite || p == PageExecuteReadWrite
}
