package mbr

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-ptgen/internal/device"
	"github.com/deploymenttheory/go-ptgen/internal/interfaces"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

// Table is the part of sector 0 owned by the partition table: the disk signature, the
// four entries and the boot signature. The boot code area is never touched.
type Table struct {
	Signature uint32                              `json:"signature" yaml:"signature"`
	Entries   [types.MBRPartitionEntryCount]Entry `json:"entries" yaml:"entries"`
}

var _ interfaces.PartitionTable = (*Table)(nil)

// EntryBytes returns the 64-byte partition table area.
func (t *Table) EntryBytes() []byte {
	b := make([]byte, types.MBRPartitionEntryCount*types.MBRPartitionEntrySize)
	for i, e := range t.Entries {
		e.put(b[i*types.MBRPartitionEntrySize:])
	}
	return b
}

// Bytes returns the full 512-byte sector with zeroed boot code.
func (t *Table) Bytes() []byte {
	sector := make([]byte, types.SectorSize)
	binary.LittleEndian.PutUint32(sector[types.MBRSignatureOffset:], t.Signature)
	copy(sector[types.MBRPartitionTableOffset:], t.EntryBytes())
	copy(sector[types.MBRBootSignatureOffset:], types.MBRBootSignature[:])
	return sector
}

// WriteTo writes the signature at byte 440, the entries at 446 and 55 AA at 510.
func (t *Table) WriteTo(w io.WriterAt) error {
	sig := make([]byte, 4)
	binary.LittleEndian.PutUint32(sig, t.Signature)
	if _, err := device.WriteFull(w, sig, types.MBRSignatureOffset); err != nil {
		return fmt.Errorf("failed to write disk signature: %w", err)
	}
	if _, err := device.WriteFull(w, t.EntryBytes(), types.MBRPartitionTableOffset); err != nil {
		return fmt.Errorf("failed to write partition table: %w", err)
	}
	if _, err := device.WriteFull(w, types.MBRBootSignature[:], types.MBRBootSignatureOffset); err != nil {
		return fmt.Errorf("failed to write boot signature: %w", err)
	}
	return nil
}

// ImageSize returns the size of the written image: one sector.
func (t *Table) ImageSize() int64 {
	return types.SectorSize
}

// ParseSector decodes sector 0 of an image. It fails when the 55 AA boot signature is missing.
func ParseSector(sector []byte) (*Table, error) {
	if len(sector) < types.SectorSize {
		return nil, fmt.Errorf("boot sector needs %d bytes, got %d", types.SectorSize, len(sector))
	}
	if sector[types.MBRBootSignatureOffset] != types.MBRBootSignature[0] ||
		sector[types.MBRBootSignatureOffset+1] != types.MBRBootSignature[1] {
		return nil, fmt.Errorf("missing boot signature: found %02X %02X",
			sector[types.MBRBootSignatureOffset], sector[types.MBRBootSignatureOffset+1])
	}

	t := &Table{Signature: binary.LittleEndian.Uint32(sector[types.MBRSignatureOffset:])}
	for i := range t.Entries {
		off := types.MBRPartitionTableOffset + i*types.MBRPartitionEntrySize
		e, err := ParseEntry(sector[off : off+types.MBRPartitionEntrySize])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		t.Entries[i] = e
	}
	return t, nil
}

// Read loads and decodes sector 0 from r.
func Read(r interfaces.ImageReader) (*Table, error) {
	sector, err := r.ReadFull(types.SectorSize, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read boot sector: %w", err)
	}
	return ParseSector(sector)
}
