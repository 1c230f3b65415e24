package blockdev_test

import (
	"bytes"
	"testing"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/blockdev"
	"github.com/FromCaio/fat16-fs-simulator/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func newImage(t *testing.T) *blockdev.Device {
	t.Helper()
	buf := make([]byte, fatsim.PartitionSize)
	stream := bytesextra.NewReadWriteSeeker(buf)
	return blockdev.New(stream)
}

func TestReadWriteRoundTrip(t *testing.T) {
	dev := newImage(t)

	want := bytes.Repeat([]byte{0x42}, fatsim.ClusterSize)
	require.NoError(t, dev.WriteCluster(10, want))

	got := make([]byte, fatsim.ClusterSize)
	require.NoError(t, dev.ReadCluster(10, got))
	assert.Equal(t, want, got)
}

func TestWriteClusterBadIndex(t *testing.T) {
	dev := newImage(t)
	buf := make([]byte, fatsim.ClusterSize)
	err := dev.WriteCluster(fatsim.ClusterCount, buf)
	assert.ErrorIs(t, err, errors.ErrBadIndex)
}

func TestReadClusterWrongBufferSize(t *testing.T) {
	dev := newImage(t)
	err := dev.ReadCluster(10, make([]byte, 10))
	assert.ErrorIs(t, err, errors.ErrIO)
}

func TestWriteLastByteOnFullSizeImage(t *testing.T) {
	stream := bytesextra.NewReadWriteSeeker(make([]byte, fatsim.PartitionSize))
	dev := blockdev.New(stream)
	require.NoError(t, dev.WriteLastByte())
}
