package gpt

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/checksum"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/interfaces"
	"github.com/deploymenttheory/go-ptgen/internal/mbr"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

// Read loads a GPT image: the protective MBR, the primary header and entry array, and
// the backup header and entry array the primary points at. Structural problems are
// returned as errors; consistency between the copies is left to Verify.
func Read(r interfaces.ImageReader) (*Table, error) {
	protective, err := mbr.Read(r)
	if err != nil {
		return nil, err
	}
	if protective.Entries[0].Type != types.MBRTypeProtective {
		return nil, fmt.Errorf("not a gpt disk: first mbr entry has type 0x%02X", protective.Entries[0].Type)
	}

	primary, err := readHeader(r, types.GPTPrimaryHeaderLBA)
	if err != nil {
		return nil, fmt.Errorf("primary header: %w", err)
	}
	entries, err := readEntries(r, primary.EntryLBA)
	if err != nil {
		return nil, fmt.Errorf("primary entries: %w", err)
	}
	backup, err := readHeader(r, primary.AlternateLBA)
	if err != nil {
		return nil, fmt.Errorf("backup header: %w", err)
	}

	return &Table{
		ProtectiveMBR: protective,
		Primary:       primary,
		Backup:        backup,
		Entries:       entries,
	}, nil
}

func readHeader(r interfaces.ImageReader, lba types.LBA) (*Header, error) {
	b, err := r.ReadFull(types.GPTHeaderSize, lba.Offset())
	if err != nil {
		return nil, err
	}
	return ParseHeader(b)
}

func readEntries(r interfaces.ImageReader, lba types.LBA) (*EntryArray, error) {
	b, err := r.ReadFull(types.GPTEntryArraySize, lba.Offset())
	if err != nil {
		return nil, err
	}
	return ParseEntryArray(b)
}

// Verify checks a table read from an image: both header CRCs, both entry array CRCs, the
// mirroring of the backup header, and that every used entry has a unique GUID and lies in
// the usable range. All problems found are joined into the returned error.
func Verify(r interfaces.ImageReader, t *Table) error {
	var errs []error

	if err := t.Primary.VerifyCRC(); err != nil {
		errs = append(errs, err)
	}
	if err := t.Backup.VerifyCRC(); err != nil {
		errs = append(errs, err)
	}

	primaryEntries := t.Entries.Bytes()
	if err := checksum.Verify(primaryEntries, t.Primary.EntriesCRC); err != nil {
		errs = append(errs, fmt.Errorf("primary entries: %w", err))
	}
	backupEntries, err := r.ReadFull(types.GPTEntryArraySize, t.Backup.EntryLBA.Offset())
	if err != nil {
		errs = append(errs, fmt.Errorf("backup entries: %w", err))
	} else if err := checksum.Verify(backupEntries, t.Backup.EntriesCRC); err != nil {
		errs = append(errs, fmt.Errorf("backup entries: %w", err))
	}

	if t.Backup.MyLBA != t.Primary.AlternateLBA || t.Backup.AlternateLBA != t.Primary.MyLBA {
		errs = append(errs, fmt.Errorf("backup header at LBA %d does not mirror primary (alternate %d)",
			t.Backup.MyLBA, t.Primary.AlternateLBA))
	}
	if t.Backup.EntryLBA != t.Primary.AlternateLBA-types.GPTEntryArraySectors {
		errs = append(errs, fmt.Errorf("backup entries at LBA %d, expected %d",
			t.Backup.EntryLBA, t.Primary.AlternateLBA-types.GPTEntryArraySectors))
	}
	if t.Backup.DiskGUID != t.Primary.DiskGUID {
		errs = append(errs, errors.New("backup header disk guid differs from primary"))
	}
	if want := (t.Primary.AlternateLBA + 1).Offset(); r.Size() != want {
		errs = append(errs, fmt.Errorf("image is %d bytes, expected %d", r.Size(), want))
	}

	seen := make(map[guid.GUID]int)
	for i, e := range t.Entries {
		if e.IsEmpty() {
			continue
		}
		if prev, ok := seen[e.UniqueGUID]; ok {
			errs = append(errs, fmt.Errorf("entries %d and %d share guid %s", prev, i, e.UniqueGUID))
		}
		seen[e.UniqueGUID] = i
		if i != BIOSBootSlot && (e.FirstLBA < t.Primary.FirstUsableLBA || e.LastLBA > t.Primary.LastUsableLBA) {
			errs = append(errs, fmt.Errorf("entry %d [%d, %d] outside usable range [%d, %d]",
				i, e.FirstLBA, e.LastLBA, t.Primary.FirstUsableLBA, t.Primary.LastUsableLBA))
		}
	}

	return errors.Join(errs...)
}
