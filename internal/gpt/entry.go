package gpt

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/checksum"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

// Well-known partition type GUIDs.
var (
	TypeEFISystem = guid.MustParse(types.GPTTypeEFISystem)
	TypeBasicData = guid.MustParse(types.GPTTypeBasicData)
	TypeBIOSBoot  = guid.MustParse(types.GPTTypeBIOSBoot)
)

// NameSize is the size of the UTF-16LE partition name field.
const NameSize = 72

// Entry is one 128-byte GPT partition entry.
type Entry struct {
	TypeGUID   guid.GUID      `json:"type_guid" yaml:"type_guid"`
	UniqueGUID guid.GUID      `json:"unique_guid" yaml:"unique_guid"`
	FirstLBA   types.LBA      `json:"first_lba" yaml:"first_lba"`
	LastLBA    types.LBA      `json:"last_lba" yaml:"last_lba"`
	Attributes uint64         `json:"attributes" yaml:"attributes"`
	Name       [NameSize]byte `json:"-" yaml:"-"`
}

// IsEmpty reports whether the entry is unused.
func (e Entry) IsEmpty() bool {
	return e.TypeGUID.IsZero()
}

// TypeName returns a short name for well-known type GUIDs.
func (e Entry) TypeName() string {
	switch e.TypeGUID {
	case TypeEFISystem:
		return "EFI System"
	case TypeBasicData:
		return "Basic data"
	case TypeBIOSBoot:
		return "BIOS boot"
	case guid.GUID{}:
		return "unused"
	default:
		return e.TypeGUID.String()
	}
}

func (e Entry) put(b []byte) {
	copy(b[0:16], e.TypeGUID[:])
	copy(b[16:32], e.UniqueGUID[:])
	binary.LittleEndian.PutUint64(b[32:40], uint64(e.FirstLBA))
	binary.LittleEndian.PutUint64(b[40:48], uint64(e.LastLBA))
	binary.LittleEndian.PutUint64(b[48:56], e.Attributes)
	copy(b[56:128], e.Name[:])
}

func parseEntry(b []byte) Entry {
	var e Entry
	copy(e.TypeGUID[:], b[0:16])
	copy(e.UniqueGUID[:], b[16:32])
	e.FirstLBA = types.LBA(binary.LittleEndian.Uint64(b[32:40]))
	e.LastLBA = types.LBA(binary.LittleEndian.Uint64(b[40:48]))
	e.Attributes = binary.LittleEndian.Uint64(b[48:56])
	copy(e.Name[:], b[56:128])
	return e
}

// EntryArray is the full 128-entry partition array, identical in both copies.
type EntryArray [types.GPTEntryCount]Entry

// Bytes returns the 16384-byte on-disk array.
func (a *EntryArray) Bytes() []byte {
	b := make([]byte, types.GPTEntryArraySize)
	for i := range a {
		a[i].put(b[i*types.GPTEntrySize:])
	}
	return b
}

// CRC returns the CRC-32 of the on-disk array.
func (a *EntryArray) CRC() uint32 {
	return checksum.CRC32(a.Bytes())
}

// ParseEntryArray decodes a 16384-byte entry array.
func ParseEntryArray(b []byte) (*EntryArray, error) {
	if len(b) < types.GPTEntryArraySize {
		return nil, fmt.Errorf("entry array needs %d bytes, got %d", types.GPTEntryArraySize, len(b))
	}
	var a EntryArray
	for i := range a {
		a[i] = parseEntry(b[i*types.GPTEntrySize : (i+1)*types.GPTEntrySize])
	}
	return &a, nil
}
