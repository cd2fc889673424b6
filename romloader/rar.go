package romloader

import (
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first cartridge from a RAR archive
func extractFromRAR(path string, extensions []string, sink entrySink) (string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir || !isCartridgeFile(header.Name, extensions) {
			continue
		}
		return sink(header.Name, r)
	}

	return "", ErrNoCartridge
}
