// Package layout plans where each requested partition starts and how long it is.
//
// The same planner serves both table formats; Limits carries the per-format slot
// ceiling and LBA field width.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/types"
)

var (
	// ErrInvalidPartitionSize is returned for an empty request when empty requests are not
	// ignored, and for a partition that does not fit the table's LBA fields.
	ErrInvalidPartitionSize = errors.New("invalid partition size")
	// ErrTooManyPartitions is returned when more partitions are requested than the table holds.
	ErrTooManyPartitions = errors.New("too many partitions")
)

// Limits describes what a table format can address.
type Limits struct {
	// Name is used in error messages.
	Name string
	// MaxPartitions is the number of slots callers may fill.
	MaxPartitions int
	// MaxSector is the largest value the start and length fields can hold.
	MaxSector uint64
	// MinSectorsPerTrack is the smallest track size that keeps the first partition and the
	// trailing gap clear of the format's own structures.
	MinSectorsPerTrack uint32
}

// MBRLimits are the limits of a classic MBR: four slots and 32-bit LBA fields.
var MBRLimits = Limits{
	Name:               "mbr",
	MaxPartitions:      types.MBRPartitionEntryCount,
	MaxSector:          math.MaxUint32,
	MinSectorsPerTrack: 1,
}

// GPTLimits are the limits of the GPT layout: 127 caller slots and 64-bit LBA fields. The
// one-track gaps before the first partition and after the last one hold the primary and
// backup entry arrays, so a track must be at least as long as the primary structures.
var GPTLimits = Limits{
	Name:               "gpt",
	MaxPartitions:      types.GPTMaxDataPartitions,
	MaxSector:          math.MaxUint64,
	MinSectorsPerTrack: uint32(types.GPTFirstUsableLBA),
}

// Request is one requested partition. Its index in the request list is its slot.
type Request struct {
	SizeKB   uint64 `json:"size_kb" yaml:"size_kb"`
	TypeCode uint8  `json:"type" yaml:"type"`
}

// Partition is a planned partition.
type Partition struct {
	Slot          int    `json:"slot" yaml:"slot"`
	StartSector   uint64 `json:"start_sector" yaml:"start_sector"`
	LengthSectors uint64 `json:"length_sectors" yaml:"length_sectors"`
	TypeCode      uint8  `json:"type" yaml:"type"`
	Active        bool   `json:"active" yaml:"active"`
}

// EndSector returns the first sector after the partition.
func (p Partition) EndSector() uint64 {
	return p.StartSector + p.LengthSectors
}

// LastSector returns the last sector inside the partition.
func (p Partition) LastSector() uint64 {
	return p.EndSector() - 1
}

// Offset returns the byte offset of the partition start.
func (p Partition) Offset() uint64 {
	return p.StartSector * types.SectorSize
}

// Size returns the partition length in bytes.
func (p Partition) Size() uint64 {
	return p.LengthSectors * types.SectorSize
}

// Options configure a Planner. They are copied on construction and never change.
type Options struct {
	Geometry    geometry.Geometry
	Alignment   Alignment
	Active      int
	IgnoreEmpty bool
	Limits      Limits
}

// Layout is the result of planning.
type Layout struct {
	// Partitions holds the emitted partitions in slot order. Skipped slots are absent.
	Partitions []Partition `json:"partitions" yaml:"partitions"`
	// Cursor is the first sector after the last partition, or 0 when none was emitted.
	Cursor uint64 `json:"cursor" yaml:"cursor"`
}

// Planner turns requests into partitions in a single pass.
type Planner struct {
	opts Options
}

// NormalizeActive maps an out-of-range 1-based active slot to 0 (no active partition).
func NormalizeActive(active int) int {
	if active < 0 || active > types.MaxActive {
		return 0
	}
	return active
}

// NewPlanner validates the options and returns a planner.
func NewPlanner(opts Options) (*Planner, error) {
	if err := opts.Geometry.Validate(); err != nil {
		return nil, err
	}
	if opts.Limits.MaxPartitions == 0 {
		return nil, fmt.Errorf("table limits are not set")
	}
	if opts.Geometry.SectorsPerTrack < opts.Limits.MinSectorsPerTrack {
		return nil, fmt.Errorf("%w: %s tables need at least %d sectors per track, got %d",
			geometry.ErrInvalidGeometry, opts.Limits.Name, opts.Limits.MinSectorsPerTrack, opts.Geometry.SectorsPerTrack)
	}
	opts.Active = NormalizeActive(opts.Active)
	return &Planner{opts: opts}, nil
}

// Options returns the normalized options the planner runs with.
func (p *Planner) Options() Options {
	return p.opts
}

// Plan lays out the requests in order. Each partition starts one track after the end of
// the previous one (or after sector 0), rounded per the alignment policy, so partitions
// never overlap and never start at sector 0.
func (p *Planner) Plan(requests []Request) (*Layout, error) {
	if len(requests) > p.opts.Limits.MaxPartitions {
		return nil, fmt.Errorf("%w: %d requested, %s tables hold %d",
			ErrTooManyPartitions, len(requests), p.opts.Limits.Name, p.opts.Limits.MaxPartitions)
	}

	spt := uint64(p.opts.Geometry.SectorsPerTrack)
	layout := &Layout{Partitions: make([]Partition, 0, len(requests))}
	var sect uint64

	for i, req := range requests {
		if req.SizeKB == 0 {
			if p.opts.IgnoreEmpty {
				continue
			}
			return nil, fmt.Errorf("%w in partition %d", ErrInvalidPartitionSize, i)
		}

		start := p.opts.Alignment.RoundUp(sect + spt)
		if req.SizeKB > (math.MaxUint64-start)/types.SectorsPerKB {
			return nil, fmt.Errorf("%w in partition %d: %d KB overflows the sector count", ErrInvalidPartitionSize, i, req.SizeKB)
		}
		end := start + req.SizeKB*types.SectorsPerKB
		if !p.opts.Alignment.IsKB() {
			end = p.opts.Geometry.RoundToCylinder(end)
			if end <= start {
				return nil, fmt.Errorf("%w in partition %d: %d KB overflows the sector count", ErrInvalidPartitionSize, i, req.SizeKB)
			}
		}

		part := Partition{
			Slot:          i,
			StartSector:   start,
			LengthSectors: end - start,
			TypeCode:      req.TypeCode,
			Active:        i+1 == p.opts.Active,
		}
		if part.StartSector > p.opts.Limits.MaxSector || part.LengthSectors > p.opts.Limits.MaxSector {
			return nil, fmt.Errorf("%w in partition %d: start %d or length %d exceeds the %s sector range",
				ErrInvalidPartitionSize, i, part.StartSector, part.LengthSectors, p.opts.Limits.Name)
		}

		layout.Partitions = append(layout.Partitions, part)
		sect = end
	}

	layout.Cursor = sect
	return layout, nil
}
