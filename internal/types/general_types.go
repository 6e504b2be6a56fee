// Package types holds the on-disk constants shared by the partition table encoders.
package types

// General-purpose sizes and addresses.

// SectorSize is the logical block size every table is laid out in.
const SectorSize = 512

// SectorsPerKB is the number of sectors in one kilobyte.
const SectorsPerKB = 1024 / SectorSize

// LBA is a zero-based absolute sector number.
type LBA uint64

// Offset returns the byte offset of the sector.
func (l LBA) Offset() int64 {
	return int64(l) * SectorSize
}

// DefaultSignature is the disk signature used when none is supplied ("OWRT").
const DefaultSignature uint32 = 0x5452574F

// DefaultTypeCode is the MBR type code applied to partitions before any -t flag (Linux).
const DefaultTypeCode uint8 = 0x83

// DefaultActive is the 1-based slot marked active when the caller does not choose one.
const DefaultActive = 1

// MaxActive is the highest slot number accepted as the active slot; anything else means none.
const MaxActive = 4
