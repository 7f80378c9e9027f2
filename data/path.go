package data

import (
	"path"
	"strings"
)

// ToAbsolutePath ensures the path always starts with a leading slash and is cleaned.
func ToAbsolutePath(p string) (string, error) {
	if len(strings.TrimSpace(p)) == 0 {
		return "", ErrInvalidPath
	}

	return CleanPath(p), nil
}

// CleanPath returns the absolute, cleaned form of p. An empty path becomes "/".
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Clean("/" + p)
}

// ToEntryName converts an archive member name into its slash separated form
// without leading slash. It returns an empty string for the archive root.
func ToEntryName(name string) string {
	return strings.TrimPrefix(CleanPath(name), "/")
}

// JoinPath joins a mount root with an archive entry name.
func JoinPath(root, name string) string {
	return CleanPath(path.Join(root, name))
}

// DirPrefix returns the key prefix used to find the children of dir.
func DirPrefix(dir string) string {
	dir = CleanPath(dir)
	if dir == "/" {
		return dir
	}

	return dir + "/"
}
