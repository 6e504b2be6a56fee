// Package checksum computes the CRC-32 values protecting GPT headers and entry arrays.
//
// GPT uses the reflected IEEE 802.3 CRC-32 with initial value 0xFFFFFFFF and a final XOR of
// 0xFFFFFFFF, which is exactly hash/crc32's IEEE table.
package checksum

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// CRC32 returns the GPT CRC-32 of b.
func CRC32(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// FieldCRC32 returns the CRC-32 of region computed with the 4-byte field at fieldOffset
// treated as zero. region itself is not modified.
func FieldCRC32(region []byte, fieldOffset int) uint32 {
	tmp := make([]byte, len(region))
	copy(tmp, region)
	binary.LittleEndian.PutUint32(tmp[fieldOffset:fieldOffset+4], 0)
	return crc32.ChecksumIEEE(tmp)
}

// VerifyField checks that the CRC-32 stored at fieldOffset matches the region it lives in.
func VerifyField(region []byte, fieldOffset int) error {
	if len(region) < fieldOffset+4 {
		return fmt.Errorf("region of %d bytes too small for crc field at offset %d", len(region), fieldOffset)
	}
	stored := binary.LittleEndian.Uint32(region[fieldOffset : fieldOffset+4])
	calculated := FieldCRC32(region, fieldOffset)
	if calculated != stored {
		return fmt.Errorf("crc mismatch: calculated 0x%08X, stored 0x%08X", calculated, stored)
	}
	return nil
}

// Verify checks that region hashes to expected.
func Verify(region []byte, expected uint32) error {
	calculated := crc32.ChecksumIEEE(region)
	if calculated != expected {
		return fmt.Errorf("crc mismatch: calculated 0x%08X, expected 0x%08X", calculated, expected)
	}
	return nil
}
