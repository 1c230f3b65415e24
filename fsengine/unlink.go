package fsengine

import (
	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/dirent"
	"github.com/FromCaio/fat16-fs-simulator/directory"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// Unlink deletes a file, or a directory if it is empty. The root directory
// has no parent slot to clear and can never be removed.
func (e *Engine) Unlink(path string) error {
	if err := e.requireMounted(); err != nil {
		return err
	}
	if path == "/" {
		return errors.ErrInvalidPath.WithMessage("cannot remove the root directory")
	}

	result, err := directory.FindEntryByPath(e.dev, path)
	if err != nil {
		return err
	}
	if !result.Found {
		return errors.ErrPathNotFound.WithMessage(path)
	}

	if result.Entry.IsDirectory() {
		contentBuf, err := directory.ReadCluster(e.dev, result.EntryCluster)
		if err != nil {
			return err
		}
		for i := 0; i < fatsim.DirEntriesPerCluster; i++ {
			if !dirent.IsEmptySlot(directory.SlotAt(contentBuf, i)) {
				return errors.ErrNotEmpty.WithMessage(path)
			}
		}
	}

	e.table.FreeChain(result.Entry.FirstBlock)

	parentBuf, err := directory.ReadCluster(e.dev, result.ParentCluster)
	if err != nil {
		return err
	}
	directory.ClearEntryAt(parentBuf, result.EntryIndex)

	if err := e.dev.WriteCluster(result.ParentCluster, parentBuf); err != nil {
		return err
	}
	return e.table.Persist(e.dev)
}
