// Package dirent implements the 32-byte on-disk directory entry format:
// encoding, decoding, and the name-field truncation rules. Grounded in the
// teacher repo's file_systems/fat/dirent.go (RawDirent <-> Dirent conversion
// via encoding/binary) and file_systems/unixv1/format.go's use of
// noxer/bytewriter to assemble a fixed-size buffer before writing it out.
package dirent

import (
	"bytes"
	"encoding/binary"
	"fmt"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/errors"
	"github.com/noxer/bytewriter"
)

// Entry is the decoded, user-friendly form of a 32-byte directory entry.
type Entry struct {
	Filename   string
	Attribute  fatsim.Attribute
	FirstBlock fatsim.ClusterID
	Size       uint32
}

// IsDirectory reports whether this entry names a directory.
func (e Entry) IsDirectory() bool {
	return e.Attribute == fatsim.AttrDirectory
}

// NameToFilenameField converts name to its 18-byte on-disk representation:
// truncated to MaxNameLength (17) bytes if necessary and NUL-terminated.
// truncated reports whether the name didn't fit and was shortened; callers
// may surface errors.ErrNameTooLong as a non-fatal warning, per the
// specification's "truncation warning, silent by design" classification.
func NameToFilenameField(name string) (field [18]byte, truncated bool) {
	raw := []byte(name)
	if len(raw) > fatsim.MaxNameLength {
		raw = raw[:fatsim.MaxNameLength]
		truncated = true
	}
	copy(field[:], raw)
	// field is zero-initialized, so the NUL terminator (and every byte past
	// it) is already in place.
	return field, truncated
}

// FilenameFieldToName converts the 18-byte on-disk filename field back into
// a Go string, stopping at the first NUL byte.
func FilenameFieldToName(field []byte) string {
	n := bytes.IndexByte(field, 0)
	if n < 0 {
		n = len(field)
	}
	return string(field[:n])
}

// Encode serializes e into the fixed 32-byte on-disk layout:
// filename[18], attributes[1], reserved[7], first_block[2] LE, size[4] LE.
func Encode(e Entry) ([]byte, error) {
	buf := make([]byte, fatsim.DirEntrySize)
	writer := bytewriter.New(buf)

	nameField, _ := NameToFilenameField(e.Filename)
	if err := binary.Write(writer, binary.LittleEndian, nameField); err != nil {
		return nil, errors.ErrIO.WrapError(err)
	}
	if err := binary.Write(writer, binary.LittleEndian, uint8(e.Attribute)); err != nil {
		return nil, errors.ErrIO.WrapError(err)
	}
	var reserved [7]byte
	if err := binary.Write(writer, binary.LittleEndian, reserved); err != nil {
		return nil, errors.ErrIO.WrapError(err)
	}
	if err := binary.Write(writer, binary.LittleEndian, e.FirstBlock); err != nil {
		return nil, errors.ErrIO.WrapError(err)
	}
	if err := binary.Write(writer, binary.LittleEndian, e.Size); err != nil {
		return nil, errors.ErrIO.WrapError(err)
	}

	return buf, nil
}

// IsEmptySlot reports whether a raw 32-byte directory entry is unused
// (its first filename byte is 0x00).
func IsEmptySlot(raw []byte) bool {
	return raw[0] == 0x00
}

// Decode parses a raw 32-byte directory entry. It is the caller's
// responsibility to check IsEmptySlot first; decoding an empty slot still
// succeeds but yields a zero-value Entry with an empty Filename.
func Decode(raw []byte) (Entry, error) {
	if len(raw) != fatsim.DirEntrySize {
		return Entry{}, errors.ErrIO.WithMessage(
			fmt.Sprintf("directory entry must be %d bytes, got %d", fatsim.DirEntrySize, len(raw)))
	}

	attr := fatsim.Attribute(raw[18])
	firstBlock := binary.LittleEndian.Uint16(raw[26:28])
	size := binary.LittleEndian.Uint32(raw[28:32])

	return Entry{
		Filename:   FilenameFieldToName(raw[0:18]),
		Attribute:  attr,
		FirstBlock: firstBlock,
		Size:       size,
	}, nil
}
