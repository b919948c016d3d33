package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write renders doc into dir/g.FileName, replacing any previous file, and returns the path.
func Write(dir string, g Generator, doc Document) (string, error) {
	path := filepath.Join(dir, g.FileName)
	if err := os.WriteFile(path, []byte(doc.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", g.FileName, err)
	}
	return path, nil
}
