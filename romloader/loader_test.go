package romloader

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testExtensions mirrors the host-style extension list of the core
var testExtensions = []string{"v32", "V32"}

// createTestFile writes data to a temporary file with the given name
func createTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

// createTestZipFile creates a temporary .zip file containing the given entries
func createTestZipFile(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return createTestFile(t, "test.zip", buf.Bytes())
}

// createTestTarGzFile creates a temporary .tar.gz file containing one entry
func createTestTarGzFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("Failed to write tar header: %v", err)
	}
	if _, err := tw.Write(data); err != nil {
		t.Fatalf("Failed to write tar data: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return createTestFile(t, "test.tar.gz", buf.Bytes())
}

// TestExtract_RawCartridge verifies raw cartridges are passed through
func TestExtract_RawCartridge(t *testing.T) {
	path := createTestFile(t, "Game.v32", []byte("V32-CART"))
	out, extracted, err := Extract(path, testExtensions, t.TempDir())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if extracted {
		t.Error("raw cartridge reported as extracted")
	}
	if out != path {
		t.Errorf("out = %q, want %q", out, path)
	}
}

// TestExtract_Zip verifies the cartridge entry is written to the output dir
func TestExtract_Zip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	path := createTestZipFile(t, map[string][]byte{
		"readme.txt":     []byte("hello"),
		"games/Game.V32": data,
	})
	dir := t.TempDir()

	out, extracted, err := Extract(path, testExtensions, dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !extracted {
		t.Error("zip cartridge not reported as extracted")
	}
	if out != filepath.Join(dir, "Game.V32") {
		t.Errorf("out = %q, want file in %q", out, dir)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("extracted data = %v, want %v", got, data)
	}
}

// TestExtract_ZipWithoutCartridge verifies ErrNoCartridge
func TestExtract_ZipWithoutCartridge(t *testing.T) {
	path := createTestZipFile(t, map[string][]byte{"readme.txt": []byte("hello")})
	_, _, err := Extract(path, testExtensions, t.TempDir())
	if !errors.Is(err, ErrNoCartridge) {
		t.Errorf("err = %v, want ErrNoCartridge", err)
	}
}

// TestExtract_Gzip verifies a plain .gz is named after the archive
func TestExtract_Gzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write([]byte("cart"))
	w.Close()
	path := createTestFile(t, "Game.v32.gz", buf.Bytes())
	dir := t.TempDir()

	out, extracted, err := Extract(path, testExtensions, dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !extracted || filepath.Base(out) != "Game.v32" {
		t.Errorf("out = %q extracted = %v, want Game.v32 extracted", out, extracted)
	}
}

// TestExtract_TarGz verifies tar entries are scanned for a cartridge
func TestExtract_TarGz(t *testing.T) {
	path := createTestTarGzFile(t, "dir/Game.v32", []byte("cart"))
	out, _, err := Extract(path, testExtensions, t.TempDir())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if filepath.Base(out) != "Game.v32" {
		t.Errorf("out = %q, want Game.v32", out)
	}
}

// TestExtract_FileTooLarge verifies the size limit removes the partial file
func TestExtract_FileTooLarge(t *testing.T) {
	old := MaxCartridgeSize
	MaxCartridgeSize = 4
	defer func() { MaxCartridgeSize = old }()

	path := createTestZipFile(t, map[string][]byte{"Game.v32": []byte("too large")})
	dir := t.TempDir()

	_, _, err := Extract(path, testExtensions, dir)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Game.v32")); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}
}

// TestExtract_Unsupported verifies unknown files are rejected
func TestExtract_Unsupported(t *testing.T) {
	path := createTestFile(t, "notes.txt", []byte("plain text"))
	_, _, err := Extract(path, testExtensions, t.TempDir())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

// TestExtract_FileNotFound verifies open errors surface
func TestExtract_FileNotFound(t *testing.T) {
	if _, _, err := Extract("/nonexistent/Game.v32", testExtensions, t.TempDir()); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		path   string
		want   Format
	}{
		{"zip magic", magicZIP, "game.bin", FormatZIP},
		{"empty zip magic", magicZIPEnd, "game.bin", FormatZIP},
		{"rar magic", append([]byte{}, magicRAR...), "game.bin", FormatRAR},
		{"7z magic", magic7z, "game.bin", Format7z},
		{"gzip magic", magicGzip, "game.bin", FormatGzip},
		{"zip extension", nil, "game.ZIP", FormatZIP},
		{"7z extension", nil, "game.7z", Format7z},
		{"tgz extension", nil, "game.tgz", FormatGzip},
		{"rar extension", nil, "game.rar", FormatRAR},
		{"cartridge extension", []byte("V32-CART"), "game.v32", FormatRaw},
		{"cartridge upper extension", []byte("V32-CART"), "GAME.V32", FormatRaw},
		{"unknown", []byte("text"), "game.txt", FormatUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectFormat(tc.header, tc.path, testExtensions); got != tc.want {
				t.Errorf("detectFormat = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsCartridgeFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Game.v32", true},
		{"GAME.V32", true},
		{"dir/Game.v32", true},
		{"Game.v32.txt", false},
		{"Game", false},
	}
	for _, tc := range tests {
		if got := isCartridgeFile(tc.name, []string{".v32"}); got != tc.want {
			t.Errorf("isCartridgeFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFormatIsArchive(t *testing.T) {
	if FormatRaw.IsArchive() || FormatUnknown.IsArchive() {
		t.Error("raw/unknown reported as archive")
	}
	for _, f := range []Format{FormatZIP, Format7z, FormatGzip, FormatRAR} {
		if !f.IsArchive() {
			t.Errorf("%v not reported as archive", f)
		}
	}
}
