package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProcessor implements the directory-level file operations the generator
// needs: finding packages worth scanning and cleaning up generated output.
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor sharing an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter decides whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter decides whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// DefaultGoFileFilter matches hand-written Go source: .go files that are
// neither tests nor generated output
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, "autogen_")
	}
}

// GeneratedFileFilter matches the binding files this tool generates
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		return info.Name() == "autogen_bindings.go"
	}
}

// DefaultDirectoryFilter skips directories that never contain scannable source
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		".git":         true,
		".svn":         true,
		".hg":          true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
		"target":       true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// fileInfoDirEntry adapts os.FileInfo to the os.DirEntry shape the filters take
type fileInfoDirEntry struct {
	info os.FileInfo
}

func (f fileInfoDirEntry) Name() string               { return f.info.Name() }
func (f fileInfoDirEntry) IsDir() bool                { return f.info.IsDir() }
func (f fileInfoDirEntry) Type() os.FileMode          { return f.info.Mode().Type() }
func (f fileInfoDirEntry) Info() (os.FileInfo, error) { return f.info, nil }

// WalkFiles walks a directory tree and returns the files matching the options
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		dirEntry := fileInfoDirEntry{info: info}

		if info.IsDir() && options.DirectoryFilter != nil {
			if !options.DirectoryFilter(path, dirEntry) {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && options.FileFilter != nil {
			if options.FileFilter(path, dirEntry) {
				matchedFiles = append(matchedFiles, path)
			}
		}

		return nil
	})

	return matchedFiles, err
}

// ScanDirectoriesWithGoFiles scans the given roots and returns every directory
// that contains scannable Go source
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

// scanDirectoryRecursive recursively scans a directory for Go files
func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	// Resolve the absolute path so symlinked trees cannot cause cycles
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("path resolution %s", dir), err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("Go file check in %s", dir), err)
	}

	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
	}

	directoryFilter := DefaultDirectoryFilter()

	for _, entry := range entries {
		if entry.IsDir() {
			entryPath := filepath.Join(dir, entry.Name())

			if !directoryFilter(entryPath, entry) {
				continue
			}

			subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
			if err != nil {
				return nil, err
			}
			packageDirs = append(packageDirs, subDirs...)
		}
	}

	return packageDirs, nil
}

// HasGoFiles reports whether a directory contains scannable Go source
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	fileFilter := DefaultGoFileFilter()

	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}

	return false, nil
}

// CleanDirectories removes generated binding files under the given roots and
// returns the paths it removed
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		startDir := "."
		if baseDir != "" {
			startDir = baseDir
		}

		files, err := fp.WalkFiles(startDir, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("directory clean %s", baseDir), err)
		}

		for _, file := range files {
			if err := os.Remove(file); err != nil {
				return removedFiles, WrapProcessError(fmt.Sprintf("file removal %s", file), err)
			}
			removedFiles = append(removedFiles, file)
		}
	}

	return removedFiles, nil
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
