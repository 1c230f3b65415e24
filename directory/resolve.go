// Package directory implements the directory/path layer: reading and
// mutating directory clusters, locating entries by absolute path, and
// allocating/clearing slots. Grounded in the teacher repo's
// drivers/common/basedriver/driver.go (normalizePath/path resolution style)
// and, for the exact search semantics, original_source/src/fat_fs.c's
// find_entry_by_path — reimplemented with non-destructive path slicing
// instead of strtok-style destructive tokenization, per the specification's
// design notes.
package directory

import (
	"strings"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/blockdev"
	"github.com/FromCaio/fat16-fs-simulator/dirent"
	"github.com/FromCaio/fat16-fs-simulator/errors"
)

// SearchResult is the core-internal result of a path lookup, matching the
// specification's path_search_result shape.
type SearchResult struct {
	// Name is the last path component searched for.
	Name string
	// Found is true only if every component resolved, including the last.
	Found bool
	// ParentCluster is the directory cluster the last component was (or
	// should have been) found in.
	ParentCluster fatsim.ClusterID
	// EntryCluster is entry.FirstBlock, valid only if Found is true.
	EntryCluster fatsim.ClusterID
	// EntryIndex is the slot (0..31) the entry occupies in ParentCluster,
	// valid only if Found is true.
	EntryIndex int
	// Entry is a copy of the resolved directory entry, valid only if Found.
	Entry dirent.Entry
}

// SplitPath splits an absolute path into its non-empty components, slicing
// the original string rather than mutating a copy the way strtok would.
// Leading, trailing, and repeated slashes produce no empty components.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	components := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			components = append(components, p)
		}
	}
	return components
}

// SplitParentAndName splits path at its last '/' into a parent path and a
// final component name, the shape mkdir and create need. A path with no '/'
// at all is invalid since every path handled by the core is absolute.
func SplitParentAndName(path string) (parent string, name string, err error) {
	lastSlash := strings.LastIndex(path, "/")
	if lastSlash < 0 {
		return "", "", errors.ErrInvalidPath.WithMessage(path)
	}

	name = path[lastSlash+1:]
	if lastSlash == 0 {
		parent = "/"
	} else {
		parent = path[:lastSlash]
	}
	return parent, name, nil
}

// ReadCluster reads the 1024-byte contents of a directory cluster.
func ReadCluster(dev *blockdev.Device, cluster fatsim.ClusterID) ([]byte, error) {
	buf := make([]byte, fatsim.ClusterSize)
	if err := dev.ReadCluster(cluster, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// SlotAt returns the 32-byte slice for directory entry index within a
// cluster buffer previously returned by ReadCluster.
func SlotAt(clusterBuf []byte, index int) []byte {
	start := index * fatsim.DirEntrySize
	return clusterBuf[start : start+fatsim.DirEntrySize]
}

// rootResult synthesizes the SearchResult for the special path "/", which
// has no backing directory entry of its own.
func rootResult() SearchResult {
	return SearchResult{
		Name:          "/",
		Found:         true,
		ParentCluster: fatsim.RootDirCluster,
		EntryCluster:  fatsim.RootDirCluster,
		EntryIndex:    -1,
		Entry: dirent.Entry{
			Filename:   "/",
			Attribute:  fatsim.AttrDirectory,
			FirstBlock: fatsim.RootDirCluster,
			Size:       0,
		},
	}
}

// FindEntryByPath resolves an absolute path starting at the root directory.
// It returns Found=false (not an error) when some component along the way
// doesn't exist; only I/O failures reading a directory cluster are reported
// as errors.
func FindEntryByPath(dev *blockdev.Device, path string) (SearchResult, error) {
	if path == "/" {
		return rootResult(), nil
	}

	components := SplitPath(path)
	if len(components) == 0 {
		// Nothing but slashes; same as "/".
		return rootResult(), nil
	}

	result := SearchResult{ParentCluster: fatsim.RootDirCluster}
	currentCluster := fatsim.RootDirCluster

	for _, token := range components {
		result.Name = token

		clusterBuf, err := ReadCluster(dev, currentCluster)
		if err != nil {
			return SearchResult{}, err
		}

		matched := false
		for i := 0; i < fatsim.DirEntriesPerCluster; i++ {
			slot := SlotAt(clusterBuf, i)
			if dirent.IsEmptySlot(slot) {
				continue
			}
			entry, err := dirent.Decode(slot)
			if err != nil {
				return SearchResult{}, err
			}
			if entry.Filename != token {
				continue
			}

			result.ParentCluster = currentCluster
			result.EntryCluster = entry.FirstBlock
			result.EntryIndex = i
			result.Entry = entry
			currentCluster = entry.FirstBlock
			matched = true
			break
		}

		if !matched {
			result.Found = false
			result.ParentCluster = currentCluster
			return result, nil
		}
	}

	result.Found = true
	return result, nil
}

// FindFreeSlot returns the index of the first empty slot (filename[0] == 0)
// in a directory cluster buffer, or ok=false if all 32 slots are occupied.
func FindFreeSlot(clusterBuf []byte) (index int, ok bool) {
	for i := 0; i < fatsim.DirEntriesPerCluster; i++ {
		if dirent.IsEmptySlot(SlotAt(clusterBuf, i)) {
			return i, true
		}
	}
	return 0, false
}

// List returns every live (non-empty) entry in a directory cluster, in slot
// order.
func List(dev *blockdev.Device, cluster fatsim.ClusterID) ([]dirent.Entry, error) {
	clusterBuf, err := ReadCluster(dev, cluster)
	if err != nil {
		return nil, err
	}

	entries := make([]dirent.Entry, 0, fatsim.DirEntriesPerCluster)
	for i := 0; i < fatsim.DirEntriesPerCluster; i++ {
		slot := SlotAt(clusterBuf, i)
		if dirent.IsEmptySlot(slot) {
			continue
		}
		entry, err := dirent.Decode(slot)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntryAt copies the encoded form of entry into slot index of
// clusterBuf.
func WriteEntryAt(clusterBuf []byte, index int, entry dirent.Entry) error {
	raw, err := dirent.Encode(entry)
	if err != nil {
		return err
	}
	copy(SlotAt(clusterBuf, index), raw)
	return nil
}

// ClearEntryAt zeroes the 32 bytes at slot index of clusterBuf, freeing it.
func ClearEntryAt(clusterBuf []byte, index int) {
	slot := SlotAt(clusterBuf, index)
	for i := range slot {
		slot[i] = 0
	}
}
