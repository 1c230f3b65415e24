package fsengine

import (
	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/directory"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// Write replaces a file's entire contents with content. The previous chain
// is freed first; if allocating the new chain runs out of space partway
// through, every cluster newly allocated for this call is released and the
// previous chain is relinked, so the FAT and the file's directory entry are
// left exactly as they were before the call.
func (e *Engine) Write(path string, content []byte) error {
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

	oldChain, err := e.table.ChainWalk(result.Entry.FirstBlock)
	if err != nil {
		return err
	}
	e.table.FreeChain(result.Entry.FirstBlock)

	clustersNeeded := 1
	if len(content) > 0 {
		clustersNeeded = (len(content) + fatsim.ClusterSize - 1) / fatsim.ClusterSize
	}

	chain := make([]fatsim.ClusterID, 0, clustersNeeded)
	rollback := func() {
		for _, c := range chain {
			e.table.Set(c, fatsim.FATFree)
		}
		for i, c := range oldChain {
			next := fatsim.FATEndOfChain
			if i+1 < len(oldChain) {
				next = oldChain[i+1]
			}
			e.table.Set(c, next)
		}
	}

	for i := 0; i < clustersNeeded; i++ {
		cluster, ok := e.table.FindFree()
		if !ok {
			rollback()
			return errors.ErrNoSpace.WithMessage(path)
		}
		e.table.Set(cluster, fatsim.FATEndOfChain)
		if len(chain) > 0 {
			e.table.Set(chain[len(chain)-1], cluster)
		}
		chain = append(chain, cluster)
	}

	for i, cluster := range chain {
		buf := make([]byte, fatsim.ClusterSize)
		start := i * fatsim.ClusterSize
		end := start + fatsim.ClusterSize
		if end > len(content) {
			end = len(content)
		}
		copy(buf, content[start:end])
		if err := e.dev.WriteCluster(cluster, buf); err != nil {
			rollback()
			return err
		}
	}

	firstBlock := fatsim.ClusterID(0)
	if len(chain) > 0 {
		firstBlock = chain[0]
	}

	parentBuf, err := directory.ReadCluster(e.dev, result.ParentCluster)
	if err != nil {
		rollback()
		return err
	}
	result.Entry.FirstBlock = firstBlock
	result.Entry.Size = uint32(len(content))
	if err := directory.WriteEntryAt(parentBuf, result.EntryIndex, result.Entry); err != nil {
		rollback()
		return err
	}

	if err := e.dev.WriteCluster(result.ParentCluster, parentBuf); err != nil {
		rollback()
		return err
	}
	return e.table.Persist(e.dev)
}
