// Package storage derives the on-disk locations of per-cartridge persistent
// files and provides the small filesystem helpers the core needs.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MemoryCardExt is the extension of Vircon32 memory card files.
const MemoryCardExt = ".memc"

// Separator is the canonical separator used in derived paths. Forward
// slashes are accepted by every host platform.
const Separator = "/"

// NormalizeSeparators converts every backslash in p to a forward slash.
func NormalizeSeparators(p string) string {
	return strings.ReplaceAll(p, "\\", Separator)
}

// BaseName returns the final segment of p after separator normalization.
// A path without separators is returned whole.
func BaseName(p string) string {
	p = NormalizeSeparators(p)
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// StripExt removes the text from the last dot onward. Names without a dot
// are returned unchanged.
func StripExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// MemoryCardPath returns the memory card location for the cartridge at
// cartridgePath, placed in saveDir. The result uses forward slashes
// regardless of the separators in either input, so the same cartridge maps
// to the same card on every platform. An empty saveDir is used as is.
func MemoryCardPath(saveDir, cartridgePath string) string {
	dir := NormalizeSeparators(saveDir)
	name := StripExt(BaseName(cartridgePath))
	return dir + Separator + name + MemoryCardExt
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(filepath.FromSlash(path))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RemoveAll deletes path and everything below it. A missing path is not
// an error.
func RemoveAll(path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
