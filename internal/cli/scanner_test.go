package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryScanner_ScanDirectories(t *testing.T) {
	// Create temporary directory structure for testing
	tempDir, err := os.MkdirTemp("", "dendrite_scanner_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	// Resolve symlinks so relative-path comparisons hold on hosts where the
	// temp root is itself a symlink
	tempDir, err = filepath.EvalSymlinks(tempDir)
	require.NoError(t, err)

	// Create test directory structure
	// tempDir/
	//   ├── controllers/
	//   │   ├── user_controller.go
	//   │   └── auth_controller.go
	//   ├── shared/
	//   │   ├── transforms.go
	//   │   └── subshared/
	//   │       └── helper.go
	//   ├── models/
	//   │   └── user.go
	//   ├── vendor/
	//   │   └── dependency.go (should be skipped)
	//   └── empty_dir/
	//       (no Go files)

	controllersDir := filepath.Join(tempDir, "controllers")
	sharedDir := filepath.Join(tempDir, "shared")
	subsharedDir := filepath.Join(sharedDir, "subshared")
	modelsDir := filepath.Join(tempDir, "models")
	vendorDir := filepath.Join(tempDir, "vendor")
	emptyDir := filepath.Join(tempDir, "empty_dir")

	require.NoError(t, os.MkdirAll(controllersDir, 0755))
	require.NoError(t, os.MkdirAll(subsharedDir, 0755))
	require.NoError(t, os.MkdirAll(modelsDir, 0755))
	require.NoError(t, os.MkdirAll(vendorDir, 0755))
	require.NoError(t, os.MkdirAll(emptyDir, 0755))

	goFiles := map[string]string{
		filepath.Join(controllersDir, "user_controller.go"): "package controllers\n\ntype UserController struct{}",
		filepath.Join(controllersDir, "auth_controller.go"): "package controllers\n\ntype AuthController struct{}",
		filepath.Join(sharedDir, "transforms.go"):           "package shared\n\nfunc ParseSlug() {}",
		filepath.Join(subsharedDir, "helper.go"):            "package subshared\n\ntype Helper struct{}",
		filepath.Join(modelsDir, "user.go"):                 "package models\n\ntype User struct{}",
		filepath.Join(vendorDir, "dependency.go"):           "package vendor\n\ntype Dependency struct{}",
	}

	for filePath, content := range goFiles {
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// Create test files (should be ignored)
	testFile := filepath.Join(controllersDir, "user_controller_test.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package controllers\n\nfunc TestUser(t *testing.T) {}"), 0644))

	// Create generated file (should be ignored)
	autogenFile := filepath.Join(sharedDir, "autogen_bindings.go")
	require.NoError(t, os.WriteFile(autogenFile, []byte("package shared\n\n// Generated file"), 0644))

	scanner := NewDirectoryScanner()

	t.Run("scan single directory", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{controllersDir})
		require.NoError(t, err)
		assert.Len(t, dirs, 1)
		assert.Contains(t, dirs, controllersDir)
	})

	t.Run("scan multiple directories", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{controllersDir, sharedDir})
		require.NoError(t, err)
		assert.Len(t, dirs, 3) // controllers, shared, shared/subshared
		assert.Contains(t, dirs, controllersDir)
		assert.Contains(t, dirs, sharedDir)
		assert.Contains(t, dirs, subsharedDir)
	})

	t.Run("scan root directory recursively", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{tempDir})
		require.NoError(t, err)

		// Should find controllers, shared, subshared, and models
		// Should NOT find vendor (skipped) or empty_dir (no Go files)
		assert.Len(t, dirs, 4)
		assert.Contains(t, dirs, controllersDir)
		assert.Contains(t, dirs, sharedDir)
		assert.Contains(t, dirs, subsharedDir)
		assert.Contains(t, dirs, modelsDir)
		assert.NotContains(t, dirs, vendorDir)
		assert.NotContains(t, dirs, emptyDir)
	})

	t.Run("scan with Go-style recursive pattern ./...", func(t *testing.T) {
		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(originalDir)
		require.NoError(t, os.Chdir(tempDir))

		dirs, err := scanner.ScanDirectories([]string{"./..."})
		require.NoError(t, err)

		assert.Len(t, dirs, 4)
		for _, dir := range dirs {
			relDir, err := filepath.Rel(tempDir, dir)
			require.NoError(t, err)

			switch filepath.ToSlash(relDir) {
			case "controllers", "shared", "shared/subshared", "models":
				// Expected directories
			default:
				t.Errorf("Unexpected directory found: %s", relDir)
			}
		}
	})

	t.Run("scan with specific subdirectory pattern", func(t *testing.T) {
		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(originalDir)
		require.NoError(t, os.Chdir(tempDir))

		dirs, err := scanner.ScanDirectories([]string{"./shared/..."})
		require.NoError(t, err)

		assert.Len(t, dirs, 2)
		for _, dir := range dirs {
			relDir, err := filepath.Rel(tempDir, dir)
			require.NoError(t, err)

			relDir = filepath.ToSlash(relDir)
			assert.True(t, relDir == "shared" || relDir == "shared/subshared",
				"Expected shared or shared/subshared, got %s", relDir)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		_, err := scanner.ScanDirectories([]string{"/nonexistent/path"})
		assert.Error(t, err)
	})
}
