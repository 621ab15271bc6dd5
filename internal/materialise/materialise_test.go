package materialise_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/materialise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestCheckCollisions_None(t *testing.T) {
	root := t.TempDir()
	entries := []bundle.Entry{
		{Path: "file1.txt", Content: "content1"},
		{Path: "dir1/file2.txt", Content: "content2"},
	}
	assert.Empty(t, materialise.CheckCollisions(entries, root))
}

func TestCheckCollisions_ExistingFile(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "file1.txt"))

	entries := []bundle.Entry{
		{Path: "file1.txt", Content: "content1"},
		{Path: "file2.txt", Content: "content2"},
	}
	collisions := materialise.CheckCollisions(entries, root)
	require.Len(t, collisions, 1)
	assert.Equal(t, filepath.Join(root, "file1.txt"), collisions[0])
}

func TestCheckCollisions_Multiple(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "file1.txt"))
	touch(t, filepath.Join(root, "dir1", "file2.txt"))

	entries := []bundle.Entry{
		{Path: "file1.txt", Content: "c1"},
		{Path: "dir1/file2.txt", Content: "c2"},
		{Path: "file3.txt", Content: "c3"},
	}
	collisions := materialise.CheckCollisions(entries, root)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "file1.txt"),
		filepath.Join(root, "dir1", "file2.txt"),
	}, collisions)
}

func TestCheckCollisions_DirectoryAtTarget(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "item"), 0755))

	collisions := materialise.CheckCollisions([]bundle.Entry{{Path: "item", Content: "content"}}, root)
	require.Len(t, collisions, 1)
	assert.Equal(t, filepath.Join(root, "item"), collisions[0])
}

func TestCheckCollisions_FileWhereDirectoryNeeded(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "item"))

	collisions := materialise.CheckCollisions([]bundle.Entry{{Path: "item/another.txt", Content: "content"}}, root)
	require.Len(t, collisions, 1)
	assert.Equal(t, filepath.Join(root, "item"), collisions[0])
}

func TestCheckCollisions_DeepFileWhereDirectoryNeeded(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "level1", "item"))

	collisions := materialise.CheckCollisions([]bundle.Entry{{Path: "level1/item/another.txt", Content: "content"}}, root)
	require.Len(t, collisions, 1)
	assert.Equal(t, filepath.Join(root, "level1", "item"), collisions[0])
}

func TestWrite_SingleFile(t *testing.T) {
	root := t.TempDir()
	var buf bytes.Buffer

	result, err := materialise.Write(&buf, []bundle.Entry{{Path: "file1.txt", Content: "Hello World"}}, root, materialise.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "file1.txt")}, result.Created)
	assert.Empty(t, result.Overwritten)

	data, err := os.ReadFile(filepath.Join(root, "file1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", string(data))
	assert.Contains(t, buf.String(), "Wrote: ")
}

func TestWrite_NestedDirectories(t *testing.T) {
	root := t.TempDir()
	entries := []bundle.Entry{
		{Path: "a/b/c/deep.txt", Content: "deep"},
		{Path: "a/sibling.txt", Content: "sib"},
	}

	result, err := materialise.Write(&bytes.Buffer{}, entries, root, materialise.Options{})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	data, err := os.ReadFile(filepath.Join(root, "a", "b", "c", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(data))
}

func TestWrite_EmptyContent(t *testing.T) {
	root := t.TempDir()

	_, err := materialise.Write(&bytes.Buffer{}, []bundle.Entry{{Path: "empty.txt", Content: ""}}, root, materialise.Options{})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "empty.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestWrite_OverwriteReported(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	result, err := materialise.Write(&bytes.Buffer{}, []bundle.Entry{{Path: "file.txt", Content: "new"}}, root, materialise.Options{Force: true})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, []string{target}, result.Overwritten)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWrite_ParentIsFileFatalEvenWithForce(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "blocker"))

	entries := []bundle.Entry{{Path: "blocker/child.txt", Content: "x"}}
	_, err := materialise.Write(&bytes.Buffer{}, entries, root, materialise.Options{Force: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing file")
}

func TestWrite_DeepAncestorIsFileFails(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "level1", "item"))

	entries := []bundle.Entry{{Path: "level1/item/another.txt", Content: "x"}}
	_, err := materialise.Write(&bytes.Buffer{}, entries, root, materialise.Options{Force: true})
	require.Error(t, err)
}

func TestWrite_FirstFailureAbortsBatch(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "blocker"))

	entries := []bundle.Entry{
		{Path: "ok.txt", Content: "fine"},
		{Path: "blocker/child.txt", Content: "x"},
		{Path: "never.txt", Content: "not written"},
	}
	result, err := materialise.Write(&bytes.Buffer{}, entries, root, materialise.Options{Force: true})
	require.Error(t, err)
	assert.Equal(t, []string{filepath.Join(root, "ok.txt")}, result.Created)

	_, statErr := os.Stat(filepath.Join(root, "never.txt"))
	assert.True(t, os.IsNotExist(statErr), "entries after the failure must not be written")
}

func TestWrite_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	var buf bytes.Buffer

	entries := []bundle.Entry{{Path: "dir/file.txt", Content: "x"}}
	result, err := materialise.Write(&buf, entries, root, materialise.Options{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	assert.Contains(t, buf.String(), "Would write: ")

	_, statErr := os.Stat(filepath.Join(root, "dir"))
	assert.True(t, os.IsNotExist(statErr), "dry run must not create directories")
}

func TestWrite_BackslashPathsJoinCorrectly(t *testing.T) {
	root := t.TempDir()

	entries := []bundle.Entry{{Path: `dir\file.txt`, Content: "x"}}
	_, err := materialise.Write(&bytes.Buffer{}, entries, root, materialise.Options{})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(root, "dir", "file.txt"))
	assert.NoError(t, statErr)
}

func TestTarget(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "a", "b.txt"), materialise.Target("out", "a/b.txt"))
	assert.Equal(t, filepath.Join("out", "a", "b.txt"), materialise.Target("out", "./a/b.txt"))
}

func TestRoundTrip(t *testing.T) {
	// Parse a bundle, write it out, and verify the files match the
	// entry contents byte for byte.
	text := bundle.Separator + "\nFile: src/main.go\n" + bundle.Separator + "\npackage main\n" +
		bundle.Separator + "\nFile: README.md\n" + bundle.Separator + "\n# Title\n\nBody.\n"

	parsed, err := bundle.Parse(text)
	require.NoError(t, err)

	root := t.TempDir()
	_, err = materialise.Write(&bytes.Buffer{}, parsed.Entries, root, materialise.Options{})
	require.NoError(t, err)

	for _, e := range parsed.Entries {
		data, err := os.ReadFile(materialise.Target(root, e.Path))
		require.NoError(t, err)
		assert.Equal(t, e.Content, string(data))
	}
}
