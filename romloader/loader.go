// Package romloader locates Vircon32 cartridges inside compressed archives
// (ZIP, 7z, gzip, tar.gz, RAR) and extracts them to disk so the console can
// load them by path.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// MaxCartridgeSize is the largest cartridge Extract will write (512MB).
var MaxCartridgeSize int64 = 512 * 1024 * 1024

// ErrNoCartridge is returned when no cartridge file is found in an archive
var ErrNoCartridge = errors.New("no cartridge file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds MaxCartridgeSize
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// Format is the detected container format of a cartridge path.
type Format int

const (
	FormatUnknown Format = iota
	FormatRaw
	FormatZIP
	Format7z
	FormatGzip
	FormatRAR
)

// String returns a short name for the format.
func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatZIP:
		return "zip"
	case Format7z:
		return "7z"
	case FormatGzip:
		return "gzip"
	case FormatRAR:
		return "rar"
	default:
		return "unknown"
	}
}

// IsArchive reports whether f is a compressed container.
func (f Format) IsArchive() bool {
	return f == FormatZIP || f == Format7z || f == FormatGzip || f == FormatRAR
}

// entrySink receives the matched archive entry and returns where it was written.
type entrySink func(name string, r io.Reader) (string, error)

// Detect opens path and determines its format from magic bytes, falling
// back to the file extension.
func Detect(path string, extensions []string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	return detectFormat(header[:n], path, extensions), nil
}

// Extract makes the cartridge at path available as a plain file. Raw
// cartridges are returned unchanged with extracted set to false. For
// archives, the first entry matching one of extensions is written into dir
// (created if needed) and its path is returned with extracted set to true.
func Extract(path string, extensions []string, dir string) (out string, extracted bool, err error) {
	format, err := Detect(path, extensions)
	if err != nil {
		return "", false, err
	}

	sink := fileSink(dir)
	switch format {
	case FormatRaw:
		return path, false, nil
	case FormatZIP:
		out, err = extractFromZIP(path, extensions, sink)
	case Format7z:
		out, err = extractFrom7z(path, extensions, sink)
	case FormatGzip:
		out, err = extractFromGzip(path, extensions, sink)
	case FormatRAR:
		out, err = extractFromRAR(path, extensions, sink)
	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// fileSink writes entries into dir using the entry's base name.
func fileSink(dir string) entrySink {
	return func(name string, r io.Reader) (string, error) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		dst := filepath.Join(dir, filepath.Base(name))
		f, err := os.Create(dst)
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dst, err)
		}
		if err := limitedCopy(f, r); err != nil {
			f.Close()
			os.Remove(dst)
			return "", fmt.Errorf("failed to write %s: %w", dst, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(dst)
			return "", fmt.Errorf("failed to close %s: %w", dst, err)
		}
		return dst, nil
	}
}

// detectFormat determines the file format based on magic bytes and extension.
// The extensions parameter lists valid cartridge extensions (e.g. []string{".v32"}).
func detectFormat(header []byte, path string, extensions []string) Format {
	ext := strings.ToLower(filepath.Ext(path))

	// Magic bytes are more reliable than names
	if len(header) >= 4 {
		if bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd) {
			return FormatZIP
		}
		if bytes.HasPrefix(header, magicRAR) {
			return FormatRAR
		}
	}
	if len(header) >= 6 && bytes.HasPrefix(header, magic7z) {
		return Format7z
	}
	if len(header) >= 2 && bytes.HasPrefix(header, magicGzip) {
		return FormatGzip
	}

	switch ext {
	case ".zip":
		return FormatZIP
	case ".7z":
		return Format7z
	case ".gz", ".tgz":
		return FormatGzip
	case ".rar":
		return FormatRAR
	}

	for _, cartExt := range extensions {
		if ext == normalizeExt(cartExt) {
			return FormatRaw
		}
	}

	return FormatUnknown
}

// normalizeExt lowercases ext and adds a leading dot when missing, so both
// host-style ("v32") and Go-style (".v32") lists work.
func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// isCartridgeFile checks if a filename has one of the given extensions (case-insensitive)
func isCartridgeFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, normalizeExt(ext)) {
			return true
		}
	}
	return false
}

// limitedCopy copies r into w, failing once more than MaxCartridgeSize bytes arrive
func limitedCopy(w io.Writer, r io.Reader) error {
	n, err := io.Copy(w, io.LimitReader(r, MaxCartridgeSize+1))
	if err != nil {
		return err
	}
	if n > MaxCartridgeSize {
		return ErrFileTooLarge
	}
	return nil
}
