package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Run("writes files from bundle", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bundle.txt", testBundle(
			"hello.txt", "Hello, world!\n",
			"src/app.go", "package main\n",
		))

		out := env.run(bundle)
		env.contains(out, "Wrote: ")
		env.contains(out, "2 created")

		assert.Equal(t, "Hello, world!\n", env.fileContent("hello.txt"))
		assert.Equal(t, "package main\n", env.fileContent(filepath.Join("src", "app.go")))
	})

	t.Run("positional output directory", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "x"))

		env.run(bundle, "out")
		assert.Equal(t, "x", env.fileContent(filepath.Join("out", "a.txt")))
	})

	t.Run("output flag overrides positional", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "x"))

		env.run(bundle, "ignored", "-o", "flagged")
		assert.Equal(t, "x", env.fileContent(filepath.Join("flagged", "a.txt")))
		_, err := os.Stat(filepath.Join(env.dir, "ignored"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("stdin via input flag", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.runStdin(testBundle("piped.txt", "from stdin"), "-i", "-")
		env.contains(out, "Wrote: ")
		assert.Equal(t, "from stdin", env.fileContent("piped.txt"))
	})

	t.Run("no bundle argument fails", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.runErr()
		require.Error(t, err)
		env.contains(out, "no bundle file given")
	})

	t.Run("collision blocks without force", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.WriteFile(filepath.Join(env.dir, "a.txt"), []byte("precious"), 0644))
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "overwrite"))

		out, err := env.runErr(bundle)
		require.Error(t, err)
		env.contains(out, "collision")
		assert.Equal(t, "precious", env.fileContent("a.txt"), "file must be untouched")
	})

	t.Run("force overwrites", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.WriteFile(filepath.Join(env.dir, "a.txt"), []byte("precious"), 0644))
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "overwrite"))

		out := env.run(bundle, "--force")
		env.contains(out, "1 overwritten")
		assert.Equal(t, "overwrite", env.fileContent("a.txt"))
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "x"))

		out := env.run(bundle, "--dry-run")
		env.contains(out, "Would write: ")
		_, err := os.Stat(filepath.Join(env.dir, "a.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("parse errors reported with line numbers", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bad.txt", sepLine+"\nNot File: x\n"+sepLine+"\ncontent")

		out, err := env.runErr(bundle)
		require.Error(t, err)
		env.contains(out, "Bundle parsing failed with 1 error(s):")
		env.contains(out, "L2: Malformed file header.")
	})

	t.Run("leading content becomes warning", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bundle.txt", "stray line\n"+testBundle("a.txt", "x"))

		out := env.run(bundle)
		env.contains(out, "Warning: Line 1 excluded due to content before the first file header.")
		assert.Equal(t, "x", env.fileContent("a.txt"))
	})

	t.Run("json output", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "x"))

		out := env.run(bundle, "--json")
		env.contains(out, `"created":["a.txt"]`)
	})
}

func TestCheck(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "x", "b/c.txt", "y"))

		out := env.run("check", bundle)
		env.contains(out, "Bundle OK: 2 entries")
		env.contains(out, "a.txt (1 bytes)")

		// check must not write anything
		_, err := os.Stat(filepath.Join(env.dir, "a.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("reports collisions and fails", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.WriteFile(filepath.Join(env.dir, "a.txt"), []byte("old"), 0644))
		bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "x"))

		out, err := env.runErr("check", bundle)
		require.Error(t, err)
		env.contains(out, "would be overwritten")
	})

	t.Run("invalid bundle fails", func(t *testing.T) {
		env := newTestEnv(t)
		bundle := env.writeBundle("bad.txt", "just some text")

		out, err := env.runErr("check", bundle)
		require.Error(t, err)
		env.contains(out, "Content found before the first file header.")
	})
}

func TestList(t *testing.T) {
	env := newTestEnv(t)
	bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "hello", "dir/b.txt", "hi"))

	out := env.run("list", bundle)
	env.contains(out, "a.txt")
	env.contains(out, "dir/b.txt")

	jsonOut := env.run("list", bundle, "--json")
	env.contains(jsonOut, `"path":"a.txt"`)
	env.contains(jsonOut, `"size":5`)
}

func TestDiffCommand(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "a.txt"), []byte("old line\n"), 0644))
	bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "new line\n", "fresh.txt", "x\n"))

	out := env.run("diff", bundle)
	env.contains(out, "- old line")
	env.contains(out, "+ new line")
	env.contains(out, "+++ fresh.txt (new file)")
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("version")
	env.contains(out, "Build Tag:")

	jsonOut := env.run("version", "--json")
	env.contains(jsonOut, `"go_version"`)
}

func TestGuide(t *testing.T) {
	t.Run("main guide", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.run("guide")
		env.contains(out, "sprout")
	})

	t.Run("lists available on not found", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.runErr("guide", "nonexistent")
		require.Error(t, err)
		env.contains(out, "Available:")
	})
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("config", "output.dir", "generated", "--local")
	env.contains(out, "output.dir = generated (local)")

	out = env.run("config", "output.dir", "--local")
	env.contains(out, "generated")

	// The configured default applies when no directory is given.
	bundle := env.writeBundle("bundle.txt", testBundle("a.txt", "x"))
	env.run(bundle)
	assert.Equal(t, "x", env.fileContent(filepath.Join("generated", "a.txt")))
}
