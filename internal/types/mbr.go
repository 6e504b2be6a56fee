package types

// Master Boot Record layout (sector 0).

const (
	// MBRSignatureOffset is the byte offset of the 32-bit disk signature.
	MBRSignatureOffset = 440
	// MBRPartitionTableOffset is the byte offset of the first partition entry.
	MBRPartitionTableOffset = 446
	// MBRBootSignatureOffset is the byte offset of the 0x55 0xAA boot signature.
	MBRBootSignatureOffset = 510

	// MBRPartitionEntrySize is the size of one partition entry.
	MBRPartitionEntrySize = 16
	// MBRPartitionEntryCount is the number of primary partition slots.
	MBRPartitionEntryCount = 4

	// MBRActiveFlag marks the bootable partition.
	MBRActiveFlag uint8 = 0x80

	// MBRTypeProtective is the type code of the single protective entry on GPT disks.
	MBRTypeProtective uint8 = 0xEE
	// MBRTypeEFISystem is the type code that selects the EFI System Partition GUID in GPT mode.
	MBRTypeEFISystem uint8 = 0xEF
)

// MBRBootSignature is written at MBRBootSignatureOffset.
var MBRBootSignature = [2]byte{0x55, 0xAA}
