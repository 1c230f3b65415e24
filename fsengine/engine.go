// Package fsengine composes the block device, FAT manager, and directory
// layers into the command surface the specification assigns to the core:
// format, mount, ls, mkdir, create, unlink, read, write, append, and the
// supplemented consistency check. Grounded in the teacher repo's
// drivers/fat8/driver.go (Format/Mount lifecycle, writing the FAT cluster by
// cluster) and original_source/src/fat_fs.c for the exact operation
// semantics this engine must reproduce.
package fsengine

import (
	"bytes"
	"io"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/blockdev"
	"github.com/FromCaio/fat16-fs-simulator/errors"
	"github.com/FromCaio/fat16-fs-simulator/fat"
)

// truncator is implemented by *os.File; in-memory test streams don't need
// it because they're already allocated at fatsim.PartitionSize.
type truncator interface {
	Truncate(size int64) error
}

// Engine owns the single open partition stream and the in-memory FAT for
// the lifetime of the process, exactly the shared mutable state the
// specification's concurrency model describes. It is not safe for
// concurrent use, by design: this is a single-threaded simulator.
type Engine struct {
	stream  io.ReadWriteSeeker
	dev     *blockdev.Device
	table   *fat.Table
	mounted bool
}

// New wraps stream (typically an *os.File opened read/write on fat.part, or
// an in-memory buffer in tests) as a fresh, unmounted Engine.
func New(stream io.ReadWriteSeeker) *Engine {
	return &Engine{
		stream: stream,
		dev:    blockdev.New(stream),
		table:  fat.New(),
	}
}

// Mounted reports whether Mount has completed successfully since the last
// Format.
func (e *Engine) Mounted() bool {
	return e.mounted
}

// requireMounted is the guard every operation other than Format/Mount uses.
func (e *Engine) requireMounted() error {
	if !e.mounted {
		return errors.ErrNotMounted
	}
	return nil
}

// Format truncates/recreates the partition image: it initializes the FAT in
// memory, writes the boot cluster (filled 0xBB), persists the 8 FAT
// clusters, writes a zeroed root directory cluster, and extends the image
// to exactly fatsim.PartitionSize bytes. Format implies un-mount: callers
// must Mount again before any other operation is permitted.
func (e *Engine) Format() error {
	e.mounted = false

	if t, ok := e.stream.(truncator); ok {
		if err := t.Truncate(0); err != nil {
			return errors.ErrIO.WrapError(err)
		}
	}

	e.table.Format()

	bootBlock := bytes.Repeat([]byte{0xBB}, fatsim.ClusterSize)
	if err := e.dev.WriteCluster(fatsim.BootCluster, bootBlock); err != nil {
		return err
	}

	if err := e.table.Persist(e.dev); err != nil {
		return err
	}

	if err := e.dev.WriteCluster(fatsim.RootDirCluster, make([]byte, fatsim.ClusterSize)); err != nil {
		return err
	}

	return e.dev.WriteLastByte()
}

// Mount loads the FAT from disk into memory. After this, every other
// operation is permitted.
func (e *Engine) Mount() error {
	if err := e.table.Load(e.dev); err != nil {
		return err
	}
	e.mounted = true
	return nil
}
