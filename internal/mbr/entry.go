// Package mbr encodes and decodes the classic four-entry Master Boot Record partition table.
package mbr

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

// Entry is one 16-byte MBR partition entry.
type Entry struct {
	Status   uint8        `json:"status" yaml:"status"`
	StartCHS geometry.CHS `json:"start_chs" yaml:"start_chs"`
	Type     uint8        `json:"type" yaml:"type"`
	EndCHS   geometry.CHS `json:"end_chs" yaml:"end_chs"`
	StartLBA uint32       `json:"start_lba" yaml:"start_lba"`
	Length   uint32       `json:"length" yaml:"length"`
}

// IsEmpty reports whether the entry is an unused slot.
func (e Entry) IsEmpty() bool {
	return e == Entry{}
}

// IsActive reports whether the entry carries the bootable flag.
func (e Entry) IsActive() bool {
	return e.Status == types.MBRActiveFlag
}

// MarshalBinary returns the 16-byte on-disk form of the entry.
func (e Entry) MarshalBinary() ([]byte, error) {
	b := make([]byte, types.MBRPartitionEntrySize)
	e.put(b)
	return b, nil
}

func (e Entry) put(b []byte) {
	b[0] = e.Status
	copy(b[1:4], e.StartCHS[:])
	b[4] = e.Type
	copy(b[5:8], e.EndCHS[:])
	binary.LittleEndian.PutUint32(b[8:12], e.StartLBA)
	binary.LittleEndian.PutUint32(b[12:16], e.Length)
}

// ParseEntry decodes a 16-byte MBR partition entry.
func ParseEntry(b []byte) (Entry, error) {
	if len(b) < types.MBRPartitionEntrySize {
		return Entry{}, fmt.Errorf("partition entry needs %d bytes, got %d", types.MBRPartitionEntrySize, len(b))
	}
	var e Entry
	e.Status = b[0]
	copy(e.StartCHS[:], b[1:4])
	e.Type = b[4]
	copy(e.EndCHS[:], b[5:8])
	e.StartLBA = binary.LittleEndian.Uint32(b[8:12])
	e.Length = binary.LittleEndian.Uint32(b[12:16])
	return e, nil
}
