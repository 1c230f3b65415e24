// Package blockdev treats the partition image as an array of fixed-size
// clusters addressable by a 16-bit index, the bottom layer described in the
// specification's system overview. It is grounded in the teacher repo's
// drivers/common/blockdevice.go, narrowed to the simulator's single fixed
// cluster size instead of a configurable block size.
package blockdev

import (
	"fmt"
	"io"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// syncer is implemented by *os.File but not by the in-memory streams tests
// build with bytesextra; WriteCluster and WriteLastByte treat its absence as
// "nothing to sync".
type syncer interface {
	Sync() error
}

// Device is a block device backed by any seekable read/writer: the real
// partition file in production, or an in-memory buffer in tests.
type Device struct {
	stream io.ReadWriteSeeker
}

// New wraps stream as a cluster-addressable block device. stream must
// already be exactly fatsim.PartitionSize bytes long, or be brought to that
// size by a Format call (which truncates it and then writes its last byte).
func New(stream io.ReadWriteSeeker) *Device {
	return &Device{stream: stream}
}

func (d *Device) offsetFor(index fatsim.ClusterID) (int64, error) {
	if uint(index) >= fatsim.ClusterCount {
		return -1, errors.ErrBadIndex.WithMessage(
			fmt.Sprintf("cluster %d not in [0, %d)", index, fatsim.ClusterCount))
	}
	return int64(index) * fatsim.ClusterSize, nil
}

// ReadCluster fills buf (which must be exactly fatsim.ClusterSize bytes)
// with the contents of cluster index.
func (d *Device) ReadCluster(index fatsim.ClusterID, buf []byte) error {
	if len(buf) != fatsim.ClusterSize {
		return errors.ErrIO.WithMessage(
			fmt.Sprintf("read buffer must be %d bytes, got %d", fatsim.ClusterSize, len(buf)))
	}

	offset, err := d.offsetFor(index)
	if err != nil {
		return err
	}

	if _, err := d.stream.Seek(offset, io.SeekStart); err != nil {
		return errors.ErrIO.WrapError(err)
	}

	if _, err := io.ReadFull(d.stream, buf); err != nil {
		return errors.ErrIO.WrapError(err)
	}
	return nil
}

// WriteCluster writes buf (which must be exactly fatsim.ClusterSize bytes)
// to cluster index and flushes it before returning, so that a crash right
// after this call leaves the write durable.
func (d *Device) WriteCluster(index fatsim.ClusterID, buf []byte) error {
	if len(buf) != fatsim.ClusterSize {
		return errors.ErrIO.WithMessage(
			fmt.Sprintf("write buffer must be %d bytes, got %d", fatsim.ClusterSize, len(buf)))
	}

	offset, err := d.offsetFor(index)
	if err != nil {
		return err
	}

	if _, err := d.stream.Seek(offset, io.SeekStart); err != nil {
		return errors.ErrIO.WrapError(err)
	}

	if _, err := d.stream.Write(buf); err != nil {
		return errors.ErrIO.WrapError(err)
	}

	if s, ok := d.stream.(syncer); ok {
		if err := s.Sync(); err != nil {
			return errors.ErrIO.WrapError(err)
		}
	}
	return nil
}

// WriteLastByte extends the backing stream to exactly fatsim.PartitionSize
// bytes by writing a single zero byte at the final offset, the same trick
// the original simulator uses to size the freshly created image file.
func (d *Device) WriteLastByte() error {
	if _, err := d.stream.Seek(fatsim.PartitionSize-1, io.SeekStart); err != nil {
		return errors.ErrIO.WrapError(err)
	}
	if _, err := d.stream.Write([]byte{0}); err != nil {
		return errors.ErrIO.WrapError(err)
	}
	if s, ok := d.stream.(syncer); ok {
		if err := s.Sync(); err != nil {
			return errors.ErrIO.WrapError(err)
		}
	}
	return nil
}
