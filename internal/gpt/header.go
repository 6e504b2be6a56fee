// Package gpt encodes and decodes GUID Partition Tables: the protective MBR, the primary
// and backup headers and the two copies of the partition entry array.
package gpt

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/checksum"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

// Header field offsets.
const (
	offSignature      = 0
	offRevision       = 8
	offHeaderSize     = 12
	offHeaderCRC      = 16
	offReserved       = 20
	offMyLBA          = 24
	offAlternateLBA   = 32
	offFirstUsableLBA = 40
	offLastUsableLBA  = 48
	offDiskGUID       = 56
	offEntryLBA       = 72
	offEntryCount     = 80
	offEntrySize      = 84
	offEntriesCRC     = 88
)

// Header is a GPT header.
type Header struct {
	Signature      uint64    `json:"signature" yaml:"signature"`
	Revision       uint32    `json:"revision" yaml:"revision"`
	HeaderSize     uint32    `json:"header_size" yaml:"header_size"`
	HeaderCRC      uint32    `json:"header_crc" yaml:"header_crc"`
	Reserved       uint32    `json:"-" yaml:"-"`
	MyLBA          types.LBA `json:"my_lba" yaml:"my_lba"`
	AlternateLBA   types.LBA `json:"alternate_lba" yaml:"alternate_lba"`
	FirstUsableLBA types.LBA `json:"first_usable_lba" yaml:"first_usable_lba"`
	LastUsableLBA  types.LBA `json:"last_usable_lba" yaml:"last_usable_lba"`
	DiskGUID       guid.GUID `json:"disk_guid" yaml:"disk_guid"`
	EntryLBA       types.LBA `json:"entry_lba" yaml:"entry_lba"`
	EntryCount     uint32    `json:"entry_count" yaml:"entry_count"`
	EntrySize      uint32    `json:"entry_size" yaml:"entry_size"`
	EntriesCRC     uint32    `json:"entries_crc" yaml:"entries_crc"`
}

// MarshalBinary returns the 92-byte on-disk header with HeaderCRC as stored.
func (h *Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, types.GPTHeaderSize)
	binary.LittleEndian.PutUint64(b[offSignature:], h.Signature)
	binary.LittleEndian.PutUint32(b[offRevision:], h.Revision)
	binary.LittleEndian.PutUint32(b[offHeaderSize:], h.HeaderSize)
	binary.LittleEndian.PutUint32(b[offHeaderCRC:], h.HeaderCRC)
	binary.LittleEndian.PutUint32(b[offReserved:], h.Reserved)
	binary.LittleEndian.PutUint64(b[offMyLBA:], uint64(h.MyLBA))
	binary.LittleEndian.PutUint64(b[offAlternateLBA:], uint64(h.AlternateLBA))
	binary.LittleEndian.PutUint64(b[offFirstUsableLBA:], uint64(h.FirstUsableLBA))
	binary.LittleEndian.PutUint64(b[offLastUsableLBA:], uint64(h.LastUsableLBA))
	copy(b[offDiskGUID:offDiskGUID+16], h.DiskGUID[:])
	binary.LittleEndian.PutUint64(b[offEntryLBA:], uint64(h.EntryLBA))
	binary.LittleEndian.PutUint32(b[offEntryCount:], h.EntryCount)
	binary.LittleEndian.PutUint32(b[offEntrySize:], h.EntrySize)
	binary.LittleEndian.PutUint32(b[offEntriesCRC:], h.EntriesCRC)
	return b, nil
}

// Seal computes HeaderCRC over the header with its own CRC field zeroed.
func (h *Header) Seal() {
	b, _ := h.MarshalBinary()
	h.HeaderCRC = checksum.FieldCRC32(b, offHeaderCRC)
}

// Mirror returns the backup copy of h: MyLBA and AlternateLBA swapped, the entry array
// moved to entryLBA and the CRC recomputed.
func (h *Header) Mirror(entryLBA types.LBA) *Header {
	m := *h
	m.MyLBA, m.AlternateLBA = h.AlternateLBA, h.MyLBA
	m.EntryLBA = entryLBA
	m.Seal()
	return &m
}

// VerifyCRC checks the stored header CRC.
func (h *Header) VerifyCRC() error {
	b, _ := h.MarshalBinary()
	if err := checksum.VerifyField(b, offHeaderCRC); err != nil {
		return fmt.Errorf("header at LBA %d: %w", h.MyLBA, err)
	}
	return nil
}

// ParseHeader decodes a GPT header and checks its signature and size fields.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < types.GPTHeaderSize {
		return nil, fmt.Errorf("gpt header needs %d bytes, got %d", types.GPTHeaderSize, len(b))
	}

	h := &Header{
		Signature:      binary.LittleEndian.Uint64(b[offSignature:]),
		Revision:       binary.LittleEndian.Uint32(b[offRevision:]),
		HeaderSize:     binary.LittleEndian.Uint32(b[offHeaderSize:]),
		HeaderCRC:      binary.LittleEndian.Uint32(b[offHeaderCRC:]),
		Reserved:       binary.LittleEndian.Uint32(b[offReserved:]),
		MyLBA:          types.LBA(binary.LittleEndian.Uint64(b[offMyLBA:])),
		AlternateLBA:   types.LBA(binary.LittleEndian.Uint64(b[offAlternateLBA:])),
		FirstUsableLBA: types.LBA(binary.LittleEndian.Uint64(b[offFirstUsableLBA:])),
		LastUsableLBA:  types.LBA(binary.LittleEndian.Uint64(b[offLastUsableLBA:])),
		EntryLBA:       types.LBA(binary.LittleEndian.Uint64(b[offEntryLBA:])),
		EntryCount:     binary.LittleEndian.Uint32(b[offEntryCount:]),
		EntrySize:      binary.LittleEndian.Uint32(b[offEntrySize:]),
		EntriesCRC:     binary.LittleEndian.Uint32(b[offEntriesCRC:]),
	}
	copy(h.DiskGUID[:], b[offDiskGUID:offDiskGUID+16])

	if h.Signature != types.GPTSignature {
		return nil, fmt.Errorf("invalid gpt signature 0x%016X", h.Signature)
	}
	if h.HeaderSize != types.GPTHeaderSize {
		return nil, fmt.Errorf("unsupported gpt header size %d", h.HeaderSize)
	}
	if h.EntrySize != types.GPTEntrySize || h.EntryCount != types.GPTEntryCount {
		return nil, fmt.Errorf("unsupported entry array: %d entries of %d bytes", h.EntryCount, h.EntrySize)
	}
	return h, nil
}
