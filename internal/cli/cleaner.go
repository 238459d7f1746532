package cli

import (
	"fmt"
	"strings"

	"github.com/toyz/dendrite/internal/utils"
)

// Cleaner removes generated binding files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes all autogen_bindings.go files from the specified
// directories and returns the paths that were removed.
// Supports Go-style patterns like "./..." for recursive cleaning.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var baseDirs []string

	for _, dir := range directories {
		if strings.HasSuffix(dir, "/...") {
			baseDir := strings.TrimSuffix(dir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			baseDirs = append(baseDirs, baseDir)
			continue
		}
		baseDirs = append(baseDirs, dir)
	}

	removed, err := c.fileProcessor.CleanDirectories(baseDirs)
	if err != nil {
		return removed, fmt.Errorf("failed to clean generated files: %w", err)
	}

	return removed, nil
}
