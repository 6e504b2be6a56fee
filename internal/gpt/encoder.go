package gpt

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-ptgen/internal/device"
	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/interfaces"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
	"github.com/deploymenttheory/go-ptgen/internal/mbr"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

// BIOSBootSlot is the entry slot reserved for the BIOS boot partition.
const BIOSBootSlot = types.GPTEntryCount - 1

// Options configure an Encoder.
type Options struct {
	Geometry  geometry.Geometry
	Alignment layout.Alignment
	// Signature is written to the protective MBR.
	Signature uint32
	// DiskGUID identifies the disk. Partition GUIDs are derived from it.
	DiskGUID guid.GUID
}

// Encoder builds GPT tables from planned layouts.
type Encoder struct {
	opts Options
}

var _ interfaces.TableEncoder = (*Encoder)(nil)

// NewEncoder validates the options and returns an encoder.
func NewEncoder(opts Options) (*Encoder, error) {
	if err := opts.Geometry.Validate(); err != nil {
		return nil, err
	}
	if opts.Geometry.SectorsPerTrack < layout.GPTLimits.MinSectorsPerTrack {
		return nil, fmt.Errorf("%w: gpt tables need at least %d sectors per track, got %d",
			geometry.ErrInvalidGeometry, layout.GPTLimits.MinSectorsPerTrack, opts.Geometry.SectorsPerTrack)
	}
	return &Encoder{opts: opts}, nil
}

// Name returns "gpt".
func (e *Encoder) Name() string {
	return layout.GPTLimits.Name
}

// Limits returns the GPT planning limits.
func (e *Encoder) Limits() layout.Limits {
	return layout.GPTLimits
}

// Table is a fully encoded GPT, ready to be written.
type Table struct {
	ProtectiveMBR *mbr.Table  `json:"protective_mbr" yaml:"protective_mbr"`
	Primary       *Header     `json:"primary" yaml:"primary"`
	Backup        *Header     `json:"backup" yaml:"backup"`
	Entries       *EntryArray `json:"-" yaml:"-"`
}

var _ interfaces.PartitionTable = (*Table)(nil)

// Encode builds the complete table in memory.
func (e *Encoder) Encode(l *layout.Layout) (interfaces.PartitionTable, error) {
	t, err := e.EncodeTable(l)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeTable is Encode with the concrete result type.
//
// Data partitions keep their slot. Slot 127 always holds the BIOS boot partition. The
// backup header sits one track minus one sector past the last partition, and the backup
// entry array fills the 32 sectors right before it.
func (e *Encoder) EncodeTable(l *layout.Layout) (*Table, error) {
	var entries EntryArray
	for _, p := range l.Partitions {
		if p.Slot < 0 || p.Slot >= types.GPTMaxDataPartitions {
			return nil, fmt.Errorf("%w: slot %d outside the %d gpt data entries",
				layout.ErrTooManyPartitions, p.Slot, types.GPTMaxDataPartitions)
		}
		if p.LengthSectors == 0 {
			return nil, fmt.Errorf("%w in partition %d: zero length", layout.ErrInvalidPartitionSize, p.Slot)
		}
		entries[p.Slot] = e.entryFor(p)
	}
	entries[BIOSBootSlot] = e.biosBootEntry()

	spt := uint64(e.opts.Geometry.SectorsPerTrack)
	end := l.Cursor + spt - 1

	primary := &Header{
		Signature:      types.GPTSignature,
		Revision:       types.GPTRevision,
		HeaderSize:     types.GPTHeaderSize,
		MyLBA:          types.GPTPrimaryHeaderLBA,
		AlternateLBA:   types.LBA(end),
		FirstUsableLBA: types.GPTFirstUsableLBA,
		LastUsableLBA:  types.LBA(end - types.GPTEntryArraySectors - 1),
		DiskGUID:       e.opts.DiskGUID,
		EntryLBA:       types.GPTPrimaryEntriesLBA,
		EntryCount:     types.GPTEntryCount,
		EntrySize:      types.GPTEntrySize,
		EntriesCRC:     entries.CRC(),
	}
	primary.Seal()

	return &Table{
		ProtectiveMBR: mbr.ProtectiveTable(e.opts.Geometry, e.opts.Signature, end),
		Primary:       primary,
		Backup:        primary.Mirror(types.LBA(end - types.GPTEntryArraySectors)),
		Entries:       &entries,
	}, nil
}

func (e *Encoder) entryFor(p layout.Partition) Entry {
	typeGUID := TypeBasicData
	if p.TypeCode == types.MBRTypeEFISystem || p.Active {
		typeGUID = TypeEFISystem
	}
	return Entry{
		TypeGUID:   typeGUID,
		UniqueGUID: e.opts.DiskGUID.Partition(p.Slot),
		FirstLBA:   types.LBA(p.StartSector),
		LastLBA:    types.LBA(p.LastSector()),
	}
}

// biosBootEntry covers the gap between the primary entry array and the first track
// boundary (or the first KB boundary past it under KB alignment).
func (e *Encoder) biosBootEntry() Entry {
	spt := uint64(e.opts.Geometry.SectorsPerTrack)
	return Entry{
		TypeGUID:   TypeBIOSBoot,
		UniqueGUID: e.opts.DiskGUID.Partition(BIOSBootSlot),
		FirstLBA:   types.GPTFirstUsableLBA,
		LastLBA:    types.LBA(e.opts.Alignment.RoundUp(spt) - 1),
	}
}

// End returns the LBA of the backup header, the last sector of the image.
func (t *Table) End() types.LBA {
	return t.Primary.AlternateLBA
}

// ImageSize returns the size of the written image in bytes.
func (t *Table) ImageSize() int64 {
	return (t.End() + 1).Offset()
}

// WriteTo writes the protective MBR, the primary header and entries, the backup entries
// and header, and finally a zero byte in the last sector so the image reaches its full
// size. The first failed write aborts the rest.
func (t *Table) WriteTo(w io.WriterAt) error {
	if err := t.ProtectiveMBR.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write protective mbr: %w", err)
	}

	primary, _ := t.Primary.MarshalBinary()
	backup, _ := t.Backup.MarshalBinary()
	entries := t.Entries.Bytes()

	writes := []struct {
		name string
		data []byte
		off  int64
	}{
		{name: "primary header", data: primary, off: t.Primary.MyLBA.Offset()},
		{name: "primary entries", data: entries, off: t.Primary.EntryLBA.Offset()},
		{name: "backup entries", data: entries, off: t.Backup.EntryLBA.Offset()},
		{name: "backup header", data: backup, off: t.Backup.MyLBA.Offset()},
		{name: "image tail", data: []byte{0}, off: t.ImageSize() - 1},
	}
	for _, wr := range writes {
		if _, err := device.WriteFull(w, wr.data, wr.off); err != nil {
			return fmt.Errorf("failed to write %s: %w", wr.name, err)
		}
	}
	return nil
}
