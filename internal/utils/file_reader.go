package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// FileReader reads and parses Go source files with mtime-validated caching.
// A single reader shares one token.FileSet across every file it parses, so
// positions from different files stay comparable.
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *Cache[string, *ast.File]
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewCache[string, *ast.File](),
		contentCache: NewCache[string, string](),
	}
}

// ParseGoFile parses a Go source file and returns its AST, reusing the cached
// result while the file is unchanged on disk
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, exists := fr.astCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file %s: %w", filepath.Base(cleanPath), err)
	}

	fr.astCache.SetWithFileInfo(cleanPath, file, cleanPath)

	return file, nil
}

// ParseGoSource parses Go source code held in a string
func (fr *FileReader) ParseGoSource(filename, source string) (*ast.File, error) {
	file, err := parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go source: %w", err)
	}
	return file, nil
}

// ReadFile returns the file's contents as a string, cached until the file
// changes on disk
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	contentStr := string(content)
	fr.contentCache.SetWithFileInfo(cleanPath, contentStr, cleanPath)

	return contentStr, nil
}

// GetFileSet returns the token.FileSet shared by this reader
func (fr *FileReader) GetFileSet() *token.FileSet {
	return fr.fileSet
}

// ClearCache drops every cached AST and file body
func (fr *FileReader) ClearCache() {
	fr.astCache.Clear()
	fr.contentCache.Clear()
}

// InvalidateFile removes a specific file from both caches
func (fr *FileReader) InvalidateFile(filePath string) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return
	}

	fr.astCache.Delete(cleanPath)
	fr.contentCache.Delete(cleanPath)
}

// GetCacheStats returns the number of cached ASTs and file bodies
func (fr *FileReader) GetCacheStats() (astFiles, contentFiles int) {
	return fr.astCache.Size(), fr.contentCache.Size()
}

// validateAndCleanPath rejects empty and traversal-laden paths and confirms
// the file exists
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)

	// A leading .. is an ordinary relative path; .. anywhere else is rejected
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", fmt.Errorf("path traversal not allowed in file path: %s", filePath)
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}

	return cleanPath, nil
}
