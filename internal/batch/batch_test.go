package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docwarp/docwarp/internal/enhance"
	"github.com/docwarp/docwarp/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocumentPhoto saves a synthetic document photo under dir.
func writeDocumentPhoto(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := testutil.GenerateDocumentPhoto(testutil.DefaultDocumentPhotoConfig())
	testutil.SaveImage(t, img, path)
	return path
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Workers = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Mode = enhance.Mode("vivid")
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.OutputDir = ""
	require.Error(t, cfg.Validate())
}

func TestDiscoverImageFiles(t *testing.T) {
	dir := t.TempDir()
	writeDocumentPhoto(t, dir, "a.png")
	writeDocumentPhoto(t, dir, "b.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeDocumentPhoto(t, sub, "c.png")

	t.Run("non-recursive skips subdirectories", func(t *testing.T) {
		files, err := discoverImageFiles([]string{dir}, false, nil, nil)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, filepath.Join(dir, "a.png"), files[0])
		assert.Equal(t, filepath.Join(dir, "b.png"), files[1])
	})

	t.Run("recursive includes subdirectories", func(t *testing.T) {
		files, err := discoverImageFiles([]string{dir}, true, nil, nil)
		require.NoError(t, err)
		require.Len(t, files, 3)
	})

	t.Run("include pattern", func(t *testing.T) {
		files, err := discoverImageFiles([]string{dir}, false, []string{"a.*"}, nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, filepath.Join(dir, "a.png"), files[0])
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		files, err := discoverImageFiles([]string{dir}, false, []string{"*.png"}, []string{"b.*"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, filepath.Join(dir, "a.png"), files[0])
	})

	t.Run("explicit file argument", func(t *testing.T) {
		files, err := discoverImageFiles([]string{filepath.Join(dir, "a.png")}, false, nil, nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
	})

	t.Run("missing path errors", func(t *testing.T) {
		_, err := discoverImageFiles([]string{filepath.Join(dir, "nope.png")}, false, nil, nil)
		require.Error(t, err)
	})
}

func TestShouldIncludeFile(t *testing.T) {
	assert.True(t, shouldIncludeFile("scan.png", nil, nil))
	assert.True(t, shouldIncludeFile("scan.jpg", nil, nil))
	assert.False(t, shouldIncludeFile("scan.txt", nil, nil))
	assert.False(t, shouldIncludeFile("scan.png", nil, []string{"scan.*"}))
	assert.True(t, shouldIncludeFile("scan.png", []string{"*.png"}, nil))
	assert.False(t, shouldIncludeFile("scan.png", []string{"*.jpg"}, nil))
}

func TestProcessBatch(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeDocumentPhoto(t, inputDir, "one.png")
	writeDocumentPhoto(t, inputDir, "two.png")

	cfg := DefaultConfig()
	cfg.OutputDir = outputDir
	cfg.Workers = 2
	cfg.Mode = enhance.ModeOriginal

	result, err := ProcessBatch([]string{inputDir}, cfg)
	require.NoError(t, err)
	require.Equal(t, 2, result.Succeeded)
	require.Equal(t, 0, result.Failed)
	require.Len(t, result.Items, 2)
	require.Equal(t, 2, result.WorkerCount)

	for _, item := range result.Items {
		require.NoError(t, item.Err)
		assert.True(t, testutil.FileExists(item.OutputPath), "missing output %s", item.OutputPath)
	}
	assert.True(t, testutil.FileExists(filepath.Join(outputDir, "one_scanned.png")))
	assert.True(t, testutil.FileExists(filepath.Join(outputDir, "two_scanned.png")))
}

func TestProcessBatch_ContinueOnError(t *testing.T) {
	inputDir := t.TempDir()
	writeDocumentPhoto(t, inputDir, "good.png")
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "bad.png"), []byte("not a png"), 0o644))

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Mode = enhance.ModeOriginal
	cfg.ContinueOnError = true

	result, err := ProcessBatch([]string{inputDir}, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, 1, result.Failed)
}

func TestProcessBatch_FailFast(t *testing.T) {
	inputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "bad.png"), []byte("not a png"), 0o644))

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.ContinueOnError = false

	result, err := ProcessBatch([]string{inputDir}, cfg)
	require.Error(t, err)
	require.NotNil(t, result)
	require.Equal(t, 1, result.Failed)
}

func TestProcessBatch_NoFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()

	_, err := ProcessBatch([]string{t.TempDir()}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image files found")
}

func TestProcessBatch_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = -1

	_, err := ProcessBatch([]string{t.TempDir()}, cfg)
	require.Error(t, err)
}
