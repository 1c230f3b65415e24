package fsengine

import (
	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/dirent"
	"github.com/FromCaio/fat16-fs-simulator/directory"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// createObject implements the shared shape of mkdir and create: split the
// path, reject an existing target (the EEXIST correction the specification
// calls for, absent from original_source/src/fat_fs.c), find a free parent
// slot and a free cluster, populate the entry, and write data cluster (if
// any), parent cluster, and FAT in that fixed order.
func (e *Engine) createObject(path string, attr fatsim.Attribute) error {
	if err := e.requireMounted(); err != nil {
		return err
	}

	existing, err := directory.FindEntryByPath(e.dev, path)
	if err != nil {
		return err
	}
	if existing.Found {
		return errors.ErrExists.WithMessage(path)
	}

	parentPath, name, err := directory.SplitParentAndName(path)
	if err != nil {
		return err
	}

	parent, err := directory.FindEntryByPath(e.dev, parentPath)
	if err != nil {
		return err
	}
	if !parent.Found {
		return errors.ErrPathNotFound.WithMessage(parentPath)
	}
	if !parent.Entry.IsDirectory() {
		return errors.ErrNotADirectory.WithMessage(parentPath)
	}

	parentCluster := parent.EntryCluster
	parentBuf, err := directory.ReadCluster(e.dev, parentCluster)
	if err != nil {
		return err
	}

	slot, ok := directory.FindFreeSlot(parentBuf)
	if !ok {
		return errors.ErrDirFull.WithMessage(path)
	}

	newCluster, ok := e.table.FindFree()
	if !ok {
		return errors.ErrNoSpace.WithMessage(path)
	}
	e.table.Set(newCluster, fatsim.FATEndOfChain)

	entry := dirent.Entry{
		Filename:   name,
		Attribute:  attr,
		FirstBlock: newCluster,
		Size:       0,
	}
	if err := directory.WriteEntryAt(parentBuf, slot, entry); err != nil {
		e.table.Set(newCluster, fatsim.FATFree)
		return err
	}

	if attr == fatsim.AttrDirectory {
		// A new directory's own cluster is its (empty) body and must exist
		// on disk; a new file's pre-allocated cluster holds arbitrary bytes
		// until the first write, since its size is 0.
		if err := e.dev.WriteCluster(newCluster, make([]byte, fatsim.ClusterSize)); err != nil {
			e.table.Set(newCluster, fatsim.FATFree)
			return err
		}
	}

	if err := e.dev.WriteCluster(parentCluster, parentBuf); err != nil {
		e.table.Set(newCluster, fatsim.FATFree)
		return err
	}

	return e.table.Persist(e.dev)
}

// Mkdir creates a new, empty directory at path. Parent must already exist
// and be a directory with a free slot; a new data cluster is allocated for
// the directory's own (empty) body. No `.` or `..` entries are created.
func (e *Engine) Mkdir(path string) error {
	return e.createObject(path, fatsim.AttrDirectory)
}

// Create creates a new, empty file at path. No data cluster is written; the
// pre-allocated cluster in the FAT chain contains arbitrary bytes, which is
// harmless because the entry's size is 0.
func (e *Engine) Create(path string) error {
	return e.createObject(path, fatsim.AttrFile)
}
