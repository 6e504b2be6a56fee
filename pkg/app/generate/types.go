package generate

import (
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
)

// Table formats
const (
	FormatMBR = "mbr"
	FormatGPT = "gpt"
)

// Request is an immutable, fully parsed generate run
type Request struct {
	Output      string
	Geometry    geometry.Geometry
	AlignKB     uint64
	Active      int
	Signature   uint32
	GUID        guid.GUID
	GPT         bool
	IgnoreEmpty bool
	Partitions  []layout.Request
}

// TableFormat returns "gpt" or "mbr"
func (r *Request) TableFormat() string {
	if r.GPT {
		return FormatGPT
	}
	return FormatMBR
}

// Alignment returns the alignment policy selected by AlignKB
func (r *Request) Alignment() layout.Alignment {
	return layout.KBAlignment(r.AlignKB)
}

// Response describes a planned, and possibly written, partition table
type Response struct {
	Table      string            `json:"table" yaml:"table"`
	Output     string            `json:"output,omitempty" yaml:"output,omitempty"`
	Geometry   geometry.Geometry `json:"geometry" yaml:"geometry"`
	Alignment  string            `json:"alignment" yaml:"alignment"`
	AlignKB    uint64            `json:"align_kb,omitempty" yaml:"align_kb,omitempty"`
	Active     int               `json:"active" yaml:"active"`
	Signature  string            `json:"signature" yaml:"signature"`
	DiskGUID   string            `json:"disk_guid,omitempty" yaml:"disk_guid,omitempty"`
	Partitions []PartitionResult `json:"partitions" yaml:"partitions"`
	ImageSize  int64             `json:"image_size" yaml:"image_size"`
	Written    bool              `json:"written" yaml:"written"`
}

// PartitionResult is one emitted partition
type PartitionResult struct {
	Slot          int    `json:"slot" yaml:"slot"`
	Start         uint64 `json:"start" yaml:"start"`
	Size          uint64 `json:"size" yaml:"size"`
	StartSector   uint64 `json:"start_sector" yaml:"start_sector"`
	LengthSectors uint64 `json:"length_sectors" yaml:"length_sectors"`
	Type          string `json:"type" yaml:"type"`
	Active        bool   `json:"active" yaml:"active"`
	GUID          string `json:"guid,omitempty" yaml:"guid,omitempty"`
}

// FormatSignature renders a disk signature the way -S accepts it
func FormatSignature(sig uint32) string {
	return fmt.Sprintf("0x%08X", sig)
}

// FormatType renders an MBR type code as two hex digits
func FormatType(code uint8) string {
	return fmt.Sprintf("%02x", code)
}

func newPartitionResult(p layout.Partition) PartitionResult {
	return PartitionResult{
		Slot:          p.Slot,
		Start:         p.Offset(),
		Size:          p.Size(),
		StartSector:   p.StartSector,
		LengthSectors: p.LengthSectors,
		Type:          FormatType(p.TypeCode),
		Active:        p.Active,
	}
}
