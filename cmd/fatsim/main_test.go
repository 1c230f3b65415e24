package main

import (
	"bytes"
	"testing"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/fsengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	buf := make([]byte, fatsim.PartitionSize)
	stream := bytesextra.NewReadWriteSeeker(buf)

	var stdout, stderr bytes.Buffer
	sh := &shell{engine: fsengine.New(stream), stdout: &stdout, stderr: &stderr}
	return sh, &stdout, &stderr
}

func run(t *testing.T, sh *shell, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.False(t, sh.dispatch(line), "unexpected exit from %q", line)
	}
}

// TestLsDirectoryScenario matches spec.md §8 end-to-end scenario 2 exactly:
// `init; load; mkdir /a; mkdir /a/b; ls /a` must print one line `[D]  0  b`.
func TestLsDirectoryScenario(t *testing.T) {
	sh, stdout, stderr := newTestShell(t)
	run(t, sh, "init", "load", "mkdir /a", "mkdir /a/b")
	stdout.Reset()

	run(t, sh, "ls /a")

	assert.Empty(t, stderr.String())
	assert.Equal(t, "[D]  0  b\n", stdout.String())
}

// TestLsFilePrintsNameAlone matches spec.md §4.4.3 / fat_fs.c's fs_ls: a file
// path prints just its name, with no type or size columns.
func TestLsFilePrintsNameAlone(t *testing.T) {
	sh, stdout, stderr := newTestShell(t)
	run(t, sh, "init", "load", "create /f.txt")
	stdout.Reset()

	run(t, sh, "ls /f.txt")

	assert.Empty(t, stderr.String())
	assert.Equal(t, "f.txt\n", stdout.String())
}

// TestLsMixedDirectoryListing covers a directory with both a file and a
// subdirectory entry, each tagged with its own [F]/[D] marker.
func TestLsMixedDirectoryListing(t *testing.T) {
	sh, stdout, stderr := newTestShell(t)
	run(t, sh, "init", "load", "mkdir /sub", `create /note.txt`, `write "hi" /note.txt`)
	stdout.Reset()

	run(t, sh, "ls /")

	assert.Empty(t, stderr.String())
	assert.Equal(t, "[D]  0  sub\n[F]  2  note.txt\n", stdout.String())
}

// TestWriteReadAppendScenarios covers spec.md §8 scenarios 3 and 5.
func TestWriteReadAppendScenarios(t *testing.T) {
	sh, stdout, stderr := newTestShell(t)
	run(t, sh, "init", "load", "create /f")

	stdout.Reset()
	run(t, sh, `write "hello" /f`, "read /f")
	assert.Empty(t, stderr.String())
	assert.Equal(t, "hello\n", stdout.String())

	sh2, stdout2, stderr2 := newTestShell(t)
	run(t, sh2, "init", "load", "create /f2", `append "AB" /f2`, `append "CD" /f2`)
	stdout2.Reset()
	run(t, sh2, "read /f2")
	assert.Empty(t, stderr2.String())
	assert.Equal(t, "ABCD\n", stdout2.String())
}

// TestUnlinkNonEmptyDirectoryScenario matches spec.md §8 end-to-end
// scenario 6.
func TestUnlinkNonEmptyDirectoryScenario(t *testing.T) {
	sh, _, stderr := newTestShell(t)
	run(t, sh, "init", "load", "mkdir /d", "create /d/x")

	run(t, sh, "unlink /d")
	assert.Contains(t, stderr.String(), "directory not empty")

	stderr.Reset()
	run(t, sh, "unlink /d/x", "unlink /d")
	assert.Empty(t, stderr.String())
}

func TestDispatchExitReturnsTrue(t *testing.T) {
	sh, _, _ := newTestShell(t)
	assert.True(t, sh.dispatch("exit"))
}

func TestTokenizeHandlesQuotedContent(t *testing.T) {
	assert.Equal(t, []string{"write", "hello world", "/f"}, tokenize(`write "hello world" /f`))
}
