package dirent_test

import (
	"testing"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/dirent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameExactlySeventeenBytesIsPreserved(t *testing.T) {
	name := "12345678901234567" // 17 bytes
	field, truncated := dirent.NameToFilenameField(name)
	assert.False(t, truncated)
	assert.Equal(t, name, dirent.FilenameFieldToName(field[:]))
}

func TestNameLongerThanSeventeenBytesIsTruncated(t *testing.T) {
	name := "123456789012345678" // 18 bytes
	field, truncated := dirent.NameToFilenameField(name)
	assert.True(t, truncated)
	assert.Equal(t, "12345678901234567", dirent.FilenameFieldToName(field[:]))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	entry := dirent.Entry{
		Filename:   "notes.txt",
		Attribute:  fatsim.AttrFile,
		FirstBlock: 42,
		Size:       1025,
	}

	raw, err := dirent.Encode(entry)
	require.NoError(t, err)
	require.Len(t, raw, fatsim.DirEntrySize)

	decoded, err := dirent.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestEmptySlotDetection(t *testing.T) {
	raw := make([]byte, fatsim.DirEntrySize)
	assert.True(t, dirent.IsEmptySlot(raw))

	raw[0] = 'a'
	assert.False(t, dirent.IsEmptySlot(raw))
}

func TestDecodeWrongSize(t *testing.T) {
	_, err := dirent.Decode(make([]byte, 10))
	assert.Error(t, err)
}
