package fsengine_test

import (
	"testing"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlinkRejectsRoot(t *testing.T) {
	e := newMountedEngine(t)
	err := e.Unlink("/")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}

func TestUnlinkMissingPath(t *testing.T) {
	e := newMountedEngine(t)
	err := e.Unlink("/nope")
	assert.ErrorIs(t, err, errors.ErrPathNotFound)
}

func TestUnlinkFileRemovesItFromListing(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Create("/f.txt"))
	require.NoError(t, e.Unlink("/f.txt"))

	result, err := e.Ls("/")
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}

func TestUnlinkNonEmptyDirectoryFails(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Mkdir("/d"))
	require.NoError(t, e.Create("/d/f.txt"))

	err := e.Unlink("/d")
	assert.ErrorIs(t, err, errors.ErrNotEmpty)
}

func TestUnlinkEmptyDirectorySucceeds(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Mkdir("/d"))
	require.NoError(t, e.Unlink("/d"))

	result, err := e.Ls("/")
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}

func TestUnlinkThenCreateReusesFreedCluster(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Create("/a"))
	require.NoError(t, e.Unlink("/a"))
	require.NoError(t, e.Create("/b"))

	result, err := e.Ls("/b")
	require.NoError(t, err)
	assert.True(t, result.IsFile)
	assert.Equal(t, fatsim.DataClusterStart, result.Entry.FirstBlock)
}
