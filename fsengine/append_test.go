package fsengine_test

import (
	"bytes"
	"testing"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToEmptyFileUsesThePreAllocatedCluster(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Create("/f"))
	require.NoError(t, e.Append("/f", []byte("hello")))

	got, err := e.Read("/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	result, err := e.Ls("/f")
	require.NoError(t, err)
	assert.Equal(t, fatsim.DataClusterStart, result.Entry.FirstBlock)
}

func TestAppendTwiceConcatenates(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Create("/f"))
	require.NoError(t, e.Append("/f", []byte("foo")))
	require.NoError(t, e.Append("/f", []byte("bar")))

	got, err := e.Read("/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("foobar"), got)
}

func TestAppendAcrossClusterBoundary(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Create("/f"))

	first := bytes.Repeat([]byte{1}, fatsim.ClusterSize-2)
	second := []byte("xxxx")
	require.NoError(t, e.Append("/f", first))
	require.NoError(t, e.Append("/f", second))

	got, err := e.Read("/f")
	require.NoError(t, err)
	assert.Equal(t, append(first, second...), got)
}

func TestAppendOnFullClusterAllocatesFreshTail(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Create("/f"))
	require.NoError(t, e.Write("/f", bytes.Repeat([]byte{2}, fatsim.ClusterSize)))
	require.NoError(t, e.Append("/f", []byte("tail")))

	got, err := e.Read("/f")
	require.NoError(t, err)
	assert.Equal(t, fatsim.ClusterSize+4, len(got))
	assert.Equal(t, []byte("tail"), got[fatsim.ClusterSize:])
}

func TestAppendEmptyContentIsANoOp(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Create("/f"))
	require.NoError(t, e.Write("/f", []byte("keep")))
	require.NoError(t, e.Append("/f", nil))

	got, err := e.Read("/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), got)
}

func TestAppendRejectsDirectory(t *testing.T) {
	e := newMountedEngine(t)
	require.NoError(t, e.Mkdir("/d"))

	err := e.Append("/d", []byte("x"))
	assert.ErrorIs(t, err, errors.ErrNotAFile)
}

func TestAppendRejectsMissingPath(t *testing.T) {
	e := newMountedEngine(t)
	err := e.Append("/nope", []byte("x"))
	assert.ErrorIs(t, err, errors.ErrPathNotFound)
}
