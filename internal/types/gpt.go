package types

// GUID Partition Table layout. Based on UEFI Specification 2.10, Section 5.3.

const (
	// GPTSignature is "EFI PART" read as a little-endian uint64.
	GPTSignature uint64 = 0x5452415020494645
	// GPTRevision is revision 1.0.
	GPTRevision uint32 = 0x00010000

	// GPTHeaderSize is the number of header bytes covered by the header CRC.
	GPTHeaderSize = 92
	// GPTEntrySize is the size of one partition entry.
	GPTEntrySize = 128
	// GPTEntryCount is the number of entries in each entry array.
	GPTEntryCount = 128
	// GPTMaxDataPartitions is the number of slots available to callers; the last slot holds
	// the BIOS boot partition.
	GPTMaxDataPartitions = GPTEntryCount - 1

	// GPTEntryArraySize is the size in bytes of one entry array.
	GPTEntryArraySize = GPTEntrySize * GPTEntryCount
	// GPTEntryArraySectors is the number of sectors one entry array occupies.
	GPTEntryArraySectors = GPTEntryArraySize / SectorSize

	// GPTPrimaryHeaderLBA is where the primary header lives.
	GPTPrimaryHeaderLBA LBA = 1
	// GPTPrimaryEntriesLBA is where the primary entry array starts.
	GPTPrimaryEntriesLBA LBA = 2
	// GPTFirstUsableLBA is the first sector after the primary entry array.
	GPTFirstUsableLBA LBA = GPTPrimaryEntriesLBA + GPTEntryArraySectors
)

// Well-known partition type GUIDs in canonical text form.
const (
	GPTTypeEFISystem = "C12A7328-F81F-11D2-BA4B-00A0C93EC93B"
	GPTTypeBasicData = "EBD0A0A2-B9E5-4433-87C0-68B6B72699C7"
	GPTTypeBIOSBoot  = "21686148-6449-6E6F-744E-656564454649"
)
