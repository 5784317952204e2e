package mmap

import (
	"fmt"
	"strings"
)

var protNames = []struct {
	bit  int
	name string
}{
	{PROT_READ, "READ"},
	{PROT_WRITE, "WRITE"},
	{PROT_EXEC, "EXEC"},
}

var flagNames = []struct {
	bit  int
	name string
}{
	{MAP_SHARED, "SHARED"},
	{MAP_PRIVATE, "PRIVATE"},
	{MAP_FIXED, "FIXED"},
	{MAP_ANONYMOUS, "ANONYMOUS"},
}

// ParseProt parses protection bits written as names joined by "|",
// for example "READ|WRITE" or "PROT_READ". "NONE" and "" are 0.
func ParseProt(s string) (int, error) {
	prot := PROT_NONE
	for _, part := range splitNames(s, "PROT_") {
		switch part {
		case "NONE":
		case "READ":
			prot |= PROT_READ
		case "WRITE":
			prot |= PROT_WRITE
		case "EXEC":
			prot |= PROT_EXEC
		default:
			return 0, fmt.Errorf("mmap: unknown protection %q", part)
		}
	}
	return prot, nil
}

// ParseFlags parses mapping flags written as names joined by "|",
// for example "SHARED" or "MAP_PRIVATE|MAP_ANON".
func ParseFlags(s string) (int, error) {
	flags := MAP_FILE
	for _, part := range splitNames(s, "MAP_") {
		switch part {
		case "FILE":
		case "SHARED":
			flags |= MAP_SHARED
		case "PRIVATE":
			flags |= MAP_PRIVATE
		case "FIXED":
			flags |= MAP_FIXED
		case "ANONYMOUS", "ANON":
			flags |= MAP_ANONYMOUS
		default:
			return 0, fmt.Errorf("mmap: unknown mapping flag %q", part)
		}
	}
	return flags, nil
}

// FormatProt returns protection bits in the form accepted by ParseProt.
func FormatProt(prot int) string {
	if prot == PROT_NONE {
		return "NONE"
	}
	var names []string
	for _, p := range protNames {
		if prot&p.bit != 0 {
			names = append(names, p.name)
			prot &^= p.bit
		}
	}
	if prot != 0 {
		names = append(names, fmt.Sprintf("0x%x", prot))
	}
	return strings.Join(names, "|")
}

// FormatFlags returns mapping flags in the form accepted by ParseFlags.
func FormatFlags(flags int) string {
	if flags == MAP_FILE {
		return "FILE"
	}
	var names []string
	for _, f := range flagNames {
		if flags&f.bit != 0 {
			names = append(names, f.name)
			flags &^= f.bit
		}
	}
	if flags != 0 {
		names = append(names, fmt.Sprintf("0x%x", flags))
	}
	return strings.Join(names, "|")
}

func splitNames(s, prefix string) []string {
	var names []string
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		names = append(names, strings.TrimPrefix(part, prefix))
	}
	return names
}
