// Package fat owns the in-memory copy of the File Allocation Table and the
// chain semantics built on top of it: load/persist against a block device,
// deterministic free-cluster lookup, and chain walking/freeing. Grounded in
// the teacher repo's drivers/common/blockmanager.go (bitmap-backed allocator)
// and drivers/fat8/driver.go (readFATs/persist-by-cluster pattern).
package fat

import (
	"encoding/binary"
	"fmt"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/blockdev"
	"github.com/FromCaio/fat16-fs-simulator/errors"
	bitmap "github.com/boljen/go-bitmap"
	"github.com/noxer/bytewriter"
)

// Table is the process-wide mutable array of fatsim.ClusterCount entries
// mirroring the on-disk FAT. It is uninitialized until Format or Load
// completes.
type Table struct {
	entries [fatsim.ClusterCount]uint16
	// free mirrors entries: bit i is set whenever entries[i] != FATFree. It
	// exists so that FindFree's lowest-index-first scan tests one bitmap bit
	// per cluster instead of re-deriving free/used status from raw FAT
	// values every call, the same role go-bitmap plays in the teacher's
	// BlockManager/Allocator types.
	free bitmap.Bitmap
}

// New returns an empty, unformatted Table. Call Format or Load before use.
func New() *Table {
	return &Table{free: bitmap.New(fatsim.ClusterCount)}
}

// Get returns the raw FAT entry for cluster i.
func (t *Table) Get(i fatsim.ClusterID) uint16 {
	return t.entries[i]
}

// Set stores value as the FAT entry for cluster i and keeps the free-cluster
// bitmap cache in sync.
func (t *Table) Set(i fatsim.ClusterID, value uint16) {
	t.entries[i] = value
	t.free.Set(int(i), value != fatsim.FATFree)
}

// Format initializes the table in memory: every entry is set FREE, then the
// system clusters are set explicitly one by one. The original simulator this
// is based on filled the table with FAT_ENTRY_FREE via a raw byte-fill that
// happened to work only because FAT_ENTRY_FREE is 0; here every entry is
// assigned explicitly so the correctness doesn't depend on that coincidence.
func (t *Table) Format() {
	for i := fatsim.ClusterID(0); i < fatsim.ClusterCount; i++ {
		t.Set(i, fatsim.FATFree)
	}

	t.Set(fatsim.BootCluster, fatsim.FATBoot)
	for i := fatsim.FATClusterStart; i < fatsim.FATClusterStart+fatsim.FATClusterCount; i++ {
		t.Set(i, fatsim.FATReserved)
	}
	t.Set(fatsim.RootDirCluster, fatsim.FATEndOfChain)
}

// Load reads clusters FATClusterStart..FATClusterStart+FATClusterCount from
// dev, in order, into the in-memory table.
func (t *Table) Load(dev *blockdev.Device) error {
	raw := make([]byte, fatsim.FATClusterCount*fatsim.ClusterSize)
	for c := 0; c < fatsim.FATClusterCount; c++ {
		start := c * fatsim.ClusterSize
		clusterID := fatsim.FATClusterStart + fatsim.ClusterID(c)
		if err := dev.ReadCluster(clusterID, raw[start:start+fatsim.ClusterSize]); err != nil {
			return errors.ErrIO.WithMessage(
				fmt.Sprintf("loading FAT cluster %d", clusterID)).WrapError(err)
		}
	}

	for i := fatsim.ClusterID(0); i < fatsim.ClusterCount; i++ {
		value := binary.LittleEndian.Uint16(raw[int(i)*2 : int(i)*2+2])
		t.Set(i, value)
	}
	return nil
}

// Persist writes the full in-memory FAT back to dev, one cluster at a time,
// in order. Every mutating file operation calls this last, after the
// affected data and directory clusters have already been written.
func (t *Table) Persist(dev *blockdev.Device) error {
	raw := make([]byte, fatsim.FATClusterCount*fatsim.ClusterSize)
	writer := bytewriter.New(raw)
	for i := 0; i < fatsim.ClusterCount; i++ {
		if err := binary.Write(writer, binary.LittleEndian, t.entries[i]); err != nil {
			return errors.ErrIO.WrapError(err)
		}
	}

	for c := 0; c < fatsim.FATClusterCount; c++ {
		start := c * fatsim.ClusterSize
		clusterID := fatsim.FATClusterStart + fatsim.ClusterID(c)
		if err := dev.WriteCluster(clusterID, raw[start:start+fatsim.ClusterSize]); err != nil {
			return errors.ErrIO.WithMessage(
				fmt.Sprintf("persisting FAT cluster %d", clusterID)).WrapError(err)
		}
	}
	return nil
}

// FindFree scans the free-cluster bitmap from DataClusterStart upward and
// returns the first free cluster index, deterministically favoring the
// lowest index, or ok=false if the image is full.
func (t *Table) FindFree() (cluster fatsim.ClusterID, ok bool) {
	for i := int(fatsim.DataClusterStart); i < fatsim.ClusterCount; i++ {
		if !t.free.Get(i) {
			return fatsim.ClusterID(i), true
		}
	}
	return 0, false
}

// FreeChain walks the chain starting at start, setting every visited entry
// FREE, stopping once the next value read is END-OF-CHAIN or FREE. A chain
// of length 1 (a lone END-OF-CHAIN entry) is handled correctly.
func (t *Table) FreeChain(start fatsim.ClusterID) {
	current := start
	for current != fatsim.FATFree && current < fatsim.FATEndOfChain {
		next := t.Get(current)
		t.Set(current, fatsim.FATFree)
		current = next
	}
}

// ChainTail walks from start to the entry whose value is END-OF-CHAIN and
// returns that index. It guards against cycles: a chain can never be longer
// than ClusterCount entries, and a back-edge into a system cluster is
// reported as corruption rather than followed.
func (t *Table) ChainTail(start fatsim.ClusterID) (fatsim.ClusterID, error) {
	current := start
	for steps := 0; steps < fatsim.ClusterCount; steps++ {
		next := t.Get(current)
		if next == fatsim.FATEndOfChain {
			return current, nil
		}
		if fatsim.IsSystemCluster(next) {
			return 0, errors.ErrIO.WithMessage(
				fmt.Sprintf("chain from cluster %d enters system cluster %d", start, next))
		}
		current = next
	}
	return 0, errors.ErrIO.WithMessage(
		fmt.Sprintf("chain from cluster %d does not terminate (cycle detected)", start))
}

// ChainWalk returns every cluster index in the chain starting at start, in
// order, not including the terminating END-OF-CHAIN marker (which isn't a
// cluster index). It fails the same way ChainTail does on a cycle or a
// back-edge into a system cluster.
func (t *Table) ChainWalk(start fatsim.ClusterID) ([]fatsim.ClusterID, error) {
	chain := make([]fatsim.ClusterID, 0, 1)
	current := start
	for steps := 0; steps < fatsim.ClusterCount; steps++ {
		chain = append(chain, current)
		next := t.Get(current)
		if next == fatsim.FATEndOfChain {
			return chain, nil
		}
		if fatsim.IsSystemCluster(next) {
			return nil, errors.ErrIO.WithMessage(
				fmt.Sprintf("chain from cluster %d enters system cluster %d", start, next))
		}
		current = next
	}
	return nil, errors.ErrIO.WithMessage(
		fmt.Sprintf("chain from cluster %d does not terminate (cycle detected)", start))
}
