package fsengine

import (
	"fmt"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/directory"
	"github.com/FromCaio/fat16-fs-simulator/errors"
	multierror "github.com/hashicorp/go-multierror"
)

// Check walks the whole directory tree from the root and validates every
// entry's cluster chain against the FAT, accumulating every violation found
// rather than stopping at the first one. It is a supplemented operation:
// original_source/src/fat_fs.c has no equivalent, but every invariant it
// checks is one the rest of this package already depends on for correctness.
func (e *Engine) Check() error {
	if err := e.requireMounted(); err != nil {
		return err
	}

	var result *multierror.Error
	e.checkDirectory("/", fatsim.RootDirCluster, &result)
	return result.ErrorOrNil()
}

func (e *Engine) checkDirectory(path string, cluster fatsim.ClusterID, result **multierror.Error) {
	entries, err := directory.List(e.dev, cluster)
	if err != nil {
		*result = multierror.Append(*result, errors.ErrIO.WithMessage(
			fmt.Sprintf("reading directory %q", path)).WrapError(err))
		return
	}

	for _, entry := range entries {
		childPath := path + entry.Filename
		if path != "/" {
			childPath = path + "/" + entry.Filename
		}

		chain, err := e.table.ChainWalk(entry.FirstBlock)
		if err != nil {
			*result = multierror.Append(*result, errors.ErrIO.WithMessage(
				fmt.Sprintf("%s: broken cluster chain", childPath)).WrapError(err))
			continue
		}

		if entry.IsDirectory() {
			if entry.Size != 0 {
				*result = multierror.Append(*result, errors.ErrIO.WithMessage(
					fmt.Sprintf("%s: directory has non-zero size %d", childPath, entry.Size)))
			}
			if len(chain) != 1 {
				*result = multierror.Append(*result, errors.ErrIO.WithMessage(
					fmt.Sprintf("%s: directory chain has %d clusters, want 1", childPath, len(chain))))
				continue
			}
			e.checkDirectory(childPath, entry.FirstBlock, result)
			continue
		}

		wantClusters := 1
		if entry.Size > 0 {
			wantClusters = (int(entry.Size) + fatsim.ClusterSize - 1) / fatsim.ClusterSize
		}
		if len(chain) != wantClusters {
			*result = multierror.Append(*result, errors.ErrIO.WithMessage(
				fmt.Sprintf("%s: size %d implies %d clusters, chain has %d",
					childPath, entry.Size, wantClusters, len(chain))))
		}
	}
}
