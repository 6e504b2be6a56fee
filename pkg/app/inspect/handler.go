package inspect

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/device"
	"github.com/deploymenttheory/go-ptgen/internal/gpt"
	"github.com/deploymenttheory/go-ptgen/internal/mbr"
	"github.com/deploymenttheory/go-ptgen/internal/types"
	"github.com/deploymenttheory/go-ptgen/pkg/app"
)

// Handle reads an image and decodes the partition table it holds. Verification
// failures are reported in the response; only unreadable images are errors.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := ctx.Log("inspect").WithField("image", req.ImagePath)

	r, err := device.Open(ctx.Fs, req.ImagePath)
	if err != nil {
		return nil, app.NewError(app.ErrCodeIO, "failed to open image", err)
	}
	defer r.Close()

	table, err := mbr.Read(r)
	if err != nil {
		return nil, app.NewError(app.ErrCodeCorruptImage, "no partition table found", err)
	}

	resp := &Response{
		Path:       req.ImagePath,
		Size:       r.Size(),
		Signature:  fmt.Sprintf("0x%08X", table.Signature),
		Partitions: []PartitionResult{},
	}

	if table.Entries[0].Type != types.MBRTypeProtective {
		log.Debug("decoding mbr")
		resp.Table = "mbr"
		describeMBR(resp, table)
		resp.Valid = true
		return resp, nil
	}

	log.Debug("decoding gpt")
	resp.Table = "gpt"
	gt, err := gpt.Read(r)
	if err != nil {
		return nil, app.NewError(app.ErrCodeCorruptImage, "failed to read gpt", err)
	}
	describeGPT(resp, gt)

	if err := gpt.Verify(r, gt); err != nil {
		resp.Problems = flatten(err)
		log.WithField("problems", len(resp.Problems)).Warn("gpt verification failed")
	}
	resp.Valid = len(resp.Problems) == 0
	return resp, nil
}

func describeMBR(resp *Response, table *mbr.Table) {
	for i, e := range table.Entries {
		if e.IsEmpty() {
			continue
		}
		resp.Partitions = append(resp.Partitions, PartitionResult{
			Slot:        i,
			FirstSector: uint64(e.StartLBA),
			LastSector:  uint64(e.StartLBA) + uint64(e.Length) - 1,
			Start:       uint64(e.StartLBA) * types.SectorSize,
			Size:        uint64(e.Length) * types.SectorSize,
			Type:        fmt.Sprintf("%02x", e.Type),
			Active:      e.IsActive(),
			StartCHS:    e.StartCHS.String(),
			EndCHS:      e.EndCHS.String(),
		})
	}
}

func describeGPT(resp *Response, t *gpt.Table) {
	resp.GPT = &GPTInfo{
		DiskGUID:       t.Primary.DiskGUID.String(),
		PrimaryLBA:     uint64(t.Primary.MyLBA),
		BackupLBA:      uint64(t.Primary.AlternateLBA),
		FirstUsableLBA: uint64(t.Primary.FirstUsableLBA),
		LastUsableLBA:  uint64(t.Primary.LastUsableLBA),
		HeaderCRC:      fmt.Sprintf("0x%08X", t.Primary.HeaderCRC),
		EntriesCRC:     fmt.Sprintf("0x%08X", t.Primary.EntriesCRC),
	}

	for i, e := range t.Entries {
		if e.IsEmpty() {
			continue
		}
		pr := PartitionResult{
			Slot:        i,
			FirstSector: uint64(e.FirstLBA),
			LastSector:  uint64(e.LastLBA),
			Start:       uint64(e.FirstLBA.Offset()),
			Type:        e.TypeName(),
			GUID:        e.UniqueGUID.String(),
		}
		if e.LastLBA >= e.FirstLBA {
			pr.Size = uint64(e.LastLBA-e.FirstLBA+1) * types.SectorSize
		}
		resp.Partitions = append(resp.Partitions, pr)
	}
}

// flatten splits an errors.Join result into one message per problem
func flatten(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
