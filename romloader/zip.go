package romloader

import (
	"archive/zip"
	"fmt"
)

// extractFromZIP extracts the first cartridge from a ZIP archive
func extractFromZIP(path string, extensions []string, sink entrySink) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !isCartridgeFile(f.Name, extensions) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()

		return sink(f.Name, rc)
	}

	return "", ErrNoCartridge
}
