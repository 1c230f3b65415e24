package fsengine

import (
	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/directory"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// Append adds content to the end of an existing file without rewriting its
// earlier clusters. Unlike Write, a mid-stream NO_SPACE here does NOT roll
// back clusters already allocated and linked during this call: the file is
// left with whatever prefix of content made it to disk before space ran
// out, and the directory entry's size is only updated at the very end, so a
// failed append leaves the reported size unchanged even though extra
// clusters may now hang off the chain. This mirrors fs_append in
// original_source/src/fat_fs.c exactly, including that asymmetry with
// fs_write.
func (e *Engine) Append(path string, content []byte) error {
	if err := e.requireMounted(); err != nil {
		return err
	}

	result, err := directory.FindEntryByPath(e.dev, path)
	if err != nil {
		return err
	}
	if !result.Found {
		return errors.ErrPathNotFound.WithMessage(path)
	}
	if result.Entry.IsDirectory() {
		return errors.ErrNotAFile.WithMessage(path)
	}

	if len(content) == 0 {
		return nil
	}

	originalSize := result.Entry.Size
	currentCluster := result.Entry.FirstBlock

	if originalSize > 0 {
		tail, err := e.table.ChainTail(currentCluster)
		if err != nil {
			return err
		}
		currentCluster = tail
	}

	offset := int(originalSize % fatsim.ClusterSize)

	buf := make([]byte, fatsim.ClusterSize)
	if offset == 0 && originalSize > 0 {
		newCluster, ok := e.table.FindFree()
		if !ok {
			return errors.ErrNoSpace.WithMessage(path)
		}
		e.table.Set(currentCluster, newCluster)
		currentCluster = newCluster
		e.table.Set(currentCluster, fatsim.FATEndOfChain)
	} else {
		if err := e.dev.ReadCluster(currentCluster, buf); err != nil {
			return err
		}
	}

	p := 0
	remaining := len(content)
	for remaining > 0 {
		spaceInBuffer := fatsim.ClusterSize - offset
		bytesToCopy := remaining
		if bytesToCopy > spaceInBuffer {
			bytesToCopy = spaceInBuffer
		}

		copy(buf[offset:offset+bytesToCopy], content[p:p+bytesToCopy])
		p += bytesToCopy
		remaining -= bytesToCopy

		if err := e.dev.WriteCluster(currentCluster, buf); err != nil {
			return err
		}

		if remaining > 0 {
			newCluster, ok := e.table.FindFree()
			if !ok {
				return errors.ErrNoSpace.WithMessage(path)
			}
			e.table.Set(currentCluster, newCluster)
			currentCluster = newCluster
			e.table.Set(currentCluster, fatsim.FATEndOfChain)
			offset = 0
			buf = make([]byte, fatsim.ClusterSize)
		}
	}

	parentBuf, err := directory.ReadCluster(e.dev, result.ParentCluster)
	if err != nil {
		return err
	}
	result.Entry.Size = originalSize + uint32(len(content))
	if err := directory.WriteEntryAt(parentBuf, result.EntryIndex, result.Entry); err != nil {
		return err
	}

	if err := e.dev.WriteCluster(result.ParentCluster, parentBuf); err != nil {
		return err
	}
	return e.table.Persist(e.dev)
}
