package fsengine

import (
	"github.com/FromCaio/fat16-fs-simulator/dirent"
	"github.com/FromCaio/fat16-fs-simulator/directory"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// LsResult is what Ls returns: either a single file's own entry, or the
// listing of a directory's children. Exactly one of the two is meaningful,
// selected by IsFile.
type LsResult struct {
	IsFile  bool
	Entry   dirent.Entry
	Entries []dirent.Entry
}

// Ls resolves path and reports either the file's own entry or its
// directory's children.
func (e *Engine) Ls(path string) (LsResult, error) {
	if err := e.requireMounted(); err != nil {
		return LsResult{}, err
	}

	result, err := directory.FindEntryByPath(e.dev, path)
	if err != nil {
		return LsResult{}, err
	}
	if !result.Found {
		return LsResult{}, errors.ErrPathNotFound.WithMessage(path)
	}

	if !result.Entry.IsDirectory() {
		return LsResult{IsFile: true, Entry: result.Entry}, nil
	}

	entries, err := directory.List(e.dev, result.EntryCluster)
	if err != nil {
		return LsResult{}, err
	}
	return LsResult{Entries: entries}, nil
}
