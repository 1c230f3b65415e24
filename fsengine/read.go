package fsengine

import (
	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/directory"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// Read returns the full contents of the file at path, exactly Size bytes
// taken from its cluster chain in chain order.
func (e *Engine) Read(path string) ([]byte, error) {
	if err := e.requireMounted(); err != nil {
		return nil, err
	}

	result, err := directory.FindEntryByPath(e.dev, path)
	if err != nil {
		return nil, err
	}
	if !result.Found {
		return nil, errors.ErrPathNotFound.WithMessage(path)
	}
	if result.Entry.IsDirectory() {
		return nil, errors.ErrNotAFile.WithMessage(path)
	}

	size := int(result.Entry.Size)
	if size == 0 {
		return []byte{}, nil
	}

	chain, err := e.table.ChainWalk(result.Entry.FirstBlock)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, size)
	clusterBuf := make([]byte, fatsim.ClusterSize)
	for _, cluster := range chain {
		if err := e.dev.ReadCluster(cluster, clusterBuf); err != nil {
			return nil, err
		}
		remaining := size - len(out)
		if remaining > fatsim.ClusterSize {
			remaining = fatsim.ClusterSize
		}
		out = append(out, clusterBuf[:remaining]...)
	}
	return out, nil
}
