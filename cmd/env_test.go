// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> bundle parsing -> materialisation -> disk.
//
// The binary is compiled once and run as a subprocess so that exit
// codes, stdout/stderr split, and flag handling are all tested exactly
// as a user sees them. HOME is pointed at a per-env temp directory so
// global config and the audit log never touch the developer's real
// ~/.sprout.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the sprout binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "sprout-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "sprout"
		if os.PathSeparator == '\\' {
			binaryName = "sprout.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	binary := buildBinary(t)
	return &testEnv{t: t, dir: t.TempDir(), home: t.TempDir(), binary: binary}
}

// writeBundle writes a bundle file into the env dir and returns its name.
func (e *testEnv) writeBundle(name, content string) string {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(filepath.Join(e.dir, name), []byte(content), 0644))
	return name
}

// run executes sprout with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("sprout %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes sprout and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runStdin executes sprout with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("sprout %v failed: %v\noutput: %s", args, err, out)
	}
	return string(out)
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// fileContent reads a file under the env dir.
func (e *testEnv) fileContent(rel string) string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, rel))
	require.NoError(e.t, err)
	return string(data)
}

// sepLine is the bundle separator used to assemble test bundles.
const sepLine = "================================================"

// testBundle builds a bundle with the given path/content pairs.
func testBundle(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(sepLine + "\nFile: " + pairs[i] + "\n" + sepLine + "\n" + pairs[i+1])
	}
	return b.String()
}
