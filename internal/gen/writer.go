package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist. Files are first written
// next to their target under a temporary name and renamed once all of them
// were written, so a failed write leaves no output behind. A failed rename
// leaves the files renamed before it in place.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	temps := make([]string, 0, len(files))

	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, file := range files {
		tmp := filepath.Join(outputDir, "."+file.Filename+".tmp")

		if err := os.WriteFile(tmp, file.Content, filePerm); err != nil {
			cleanup()
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		temps = append(temps, tmp)
	}

	for i, file := range files {
		if err := os.Rename(temps[i], filepath.Join(outputDir, file.Filename)); err != nil {
			cleanup()
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}
