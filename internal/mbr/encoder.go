package mbr

import (
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/interfaces"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

// Encoder builds MBR tables from planned layouts.
type Encoder struct {
	geometry  geometry.Geometry
	signature uint32
}

var _ interfaces.TableEncoder = (*Encoder)(nil)

// NewEncoder returns an encoder for the given geometry and disk signature.
func NewEncoder(g geometry.Geometry, signature uint32) (*Encoder, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{geometry: g, signature: signature}, nil
}

// Name returns "mbr".
func (e *Encoder) Name() string {
	return layout.MBRLimits.Name
}

// Limits returns the MBR planning limits.
func (e *Encoder) Limits() layout.Limits {
	return layout.MBRLimits
}

// Encode places every planned partition in the entry of its slot. Slots without a
// partition stay zero.
func (e *Encoder) Encode(l *layout.Layout) (interfaces.PartitionTable, error) {
	t, err := e.EncodeTable(l)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeTable is Encode with the concrete result type.
func (e *Encoder) EncodeTable(l *layout.Layout) (*Table, error) {
	t := &Table{Signature: e.signature}
	for _, p := range l.Partitions {
		if p.Slot < 0 || p.Slot >= types.MBRPartitionEntryCount {
			return nil, fmt.Errorf("%w: slot %d outside the %d mbr entries",
				layout.ErrTooManyPartitions, p.Slot, types.MBRPartitionEntryCount)
		}
		entry, err := e.EntryFor(p)
		if err != nil {
			return nil, err
		}
		t.Entries[p.Slot] = entry
	}
	return t, nil
}

// EntryFor encodes one planned partition.
func (e *Encoder) EntryFor(p layout.Partition) (Entry, error) {
	if p.LengthSectors == 0 {
		return Entry{}, fmt.Errorf("%w in partition %d: zero length", layout.ErrInvalidPartitionSize, p.Slot)
	}
	if p.StartSector > layout.MBRLimits.MaxSector || p.LengthSectors > layout.MBRLimits.MaxSector {
		return Entry{}, fmt.Errorf("%w in partition %d: start %d or length %d does not fit 32 bits",
			layout.ErrInvalidPartitionSize, p.Slot, p.StartSector, p.LengthSectors)
	}

	entry := Entry{
		StartCHS: e.geometry.CHS(p.StartSector),
		Type:     p.TypeCode,
		EndCHS:   e.geometry.CHS(p.LastSector()),
		StartLBA: uint32(p.StartSector),
		Length:   uint32(p.LengthSectors),
	}
	if p.Active {
		entry.Status = types.MBRActiveFlag
	}
	return entry, nil
}

// ProtectiveEntry returns the single 0xEE entry of a GPT disk whose backup header sits at
// sector end. The length saturates at the largest 32-bit value on disks beyond 2 TiB.
func ProtectiveEntry(g geometry.Geometry, end uint64) Entry {
	length := end
	if length > layout.MBRLimits.MaxSector {
		length = layout.MBRLimits.MaxSector
	}
	return Entry{
		StartCHS: g.CHS(uint64(types.GPTPrimaryHeaderLBA)),
		Type:     types.MBRTypeProtective,
		EndCHS:   g.CHS(end),
		StartLBA: uint32(types.GPTPrimaryHeaderLBA),
		Length:   uint32(length),
	}
}

// ProtectiveTable returns the protective MBR of a GPT disk.
func ProtectiveTable(g geometry.Geometry, signature uint32, end uint64) *Table {
	t := &Table{Signature: signature}
	t.Entries[0] = ProtectiveEntry(g, end)
	return t
}
