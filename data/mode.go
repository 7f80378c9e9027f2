package data

import "io/fs"

// FileMode represents file mode and permission bits of a namespace entry.
type FileMode uint32

const (
	// Type bits
	ModeDir FileMode = 1 << 31 // d: directory

	// Permission bits
	ModePerm FileMode = 0777

	// Mounted archives are read-only
	ModeReadOnly FileMode = 0444
)

// FromFileMode converts an io/fs mode into a FileMode, dropping write bits.
func FromFileMode(mode fs.FileMode) FileMode {
	m := FileMode(mode.Perm()) &^ 0222
	if m == 0 {
		m = ModeReadOnly
	}
	if mode.IsDir() {
		m |= ModeDir
	}

	return m
}

// IsDir reports whether m describes a directory.
func (m FileMode) IsDir() bool {
	return m&ModeDir != 0
}

// IsRegular reports whether m describes a regular file.
func (m FileMode) IsRegular() bool {
	return m&ModeDir == 0
}

// Perm returns the Unix permission bits in m.
func (m FileMode) Perm() FileMode {
	return m & ModePerm
}

// String returns the mode in Unix ls -l format, e.g. "dr-xr-xr-x".
func (m FileMode) String() string {
	var buf [11]byte
	w := 0

	if m.IsDir() {
		buf[w] = 'd'
	} else {
		buf[w] = '-'
	}
	w++

	const rwx = "rwxrwxrwx"
	for i, c := range rwx {
		if m&(1<<uint(9-1-i)) != 0 {
			buf[w] = byte(c)
		} else {
			buf[w] = '-'
		}
		w++
	}

	return string(buf[:w])
}
