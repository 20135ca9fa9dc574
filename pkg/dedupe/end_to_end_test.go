package dedupe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dedupetree/pkg/dirscan"
	"dedupetree/pkg/scanner"
)

// TestEndToEndFileDeduplication runs scan, group, analyze, and dry-run
// execute over a real tree: identical content at depths 0 and 2 resolves to
// one group keeping the shallow copy.
func TestEndToEndFileDeduplication(t *testing.T) {
	root := t.TempDir()
	shallow := filepath.Join(root, "a.txt")
	deep := filepath.Join(root, "deep", "nested", "a.txt")
	writeTestFile(t, shallow, "duplicate content")
	writeTestFile(t, deep, "duplicate content")

	sc := scanner.New(nil)
	require.NoError(t, sc.Scan(context.Background(), root, scanner.Options{}))
	require.Len(t, sc.Files, 2)

	result := Analyze(sc.Duplicates(), nil, sc.Errors)

	require.Len(t, result.FileGroups, 1)
	group := result.FileGroups[0]
	assert.Equal(t, shallow, group.Keep.Path)
	require.Len(t, group.Remove, 1)
	assert.Equal(t, deep, group.Remove[0].Path)
	assert.Equal(t, int64(len("duplicate content")), result.SpaceToFree)

	files, dirs, errs := Execute(result, true)
	assert.Equal(t, []string{deep}, files)
	assert.Empty(t, dirs)
	assert.Empty(t, errs)

	// Dry run left both copies in place
	_, err := os.Lstat(deep)
	assert.NoError(t, err)
}

// TestEndToEndDirectoryDeduplication runs the directory pipeline over two
// identical subtrees and replaces the deeper one with a link.
func TestEndToEndDirectoryDeduplication(t *testing.T) {
	root := t.TempDir()
	keepDir := filepath.Join(root, "photos")
	dupDir := filepath.Join(root, "backup", "photos")
	writeTestFile(t, filepath.Join(keepDir, "a.jpg"), "image-a")
	writeTestFile(t, filepath.Join(keepDir, "b.jpg"), "image-b")
	writeTestFile(t, filepath.Join(dupDir, "a.jpg"), "image-a")
	writeTestFile(t, filepath.Join(dupDir, "b.jpg"), "image-b")

	ds := dirscan.New(nil)
	require.NoError(t, ds.Scan(context.Background(), root, 2))

	result := Analyze(nil, ds.Duplicates(), ds.Errors)

	require.Len(t, result.DirectoryGroups, 1)
	group := result.DirectoryGroups[0]
	assert.Equal(t, keepDir, group.Keep.Path)
	require.Len(t, group.Remove, 1)
	assert.Equal(t, dupDir, group.Remove[0].Path)

	_, dirs, errs := Execute(result, false)
	require.Empty(t, errs)
	assert.Equal(t, []string{dupDir}, dirs)

	info, err := os.Lstat(dupDir)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode()&os.ModeSymlink)
}
