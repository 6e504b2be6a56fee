// Package geometry models the legacy heads/sectors-per-track disk geometry and the
// Cylinder-Head-Sector addressing derived from it.
package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned for a geometry with zero heads or sectors per track.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is the caller-supplied disk geometry. It is immutable for a run.
type Geometry struct {
	Heads           uint32 `json:"heads" yaml:"heads"`
	SectorsPerTrack uint32 `json:"sectors_per_track" yaml:"sectors_per_track"`
}

// New returns a validated geometry.
func New(heads, sectorsPerTrack uint32) (Geometry, error) {
	g := Geometry{Heads: heads, SectorsPerTrack: sectorsPerTrack}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Validate checks that both dimensions are non-zero.
func (g Geometry) Validate() error {
	if g.Heads == 0 {
		return fmt.Errorf("%w: heads must be greater than zero", ErrInvalidGeometry)
	}
	if g.SectorsPerTrack == 0 {
		return fmt.Errorf("%w: sectors per track must be greater than zero", ErrInvalidGeometry)
	}
	return nil
}

// CylinderSize returns the number of sectors in one cylinder.
func (g Geometry) CylinderSize() uint64 {
	return uint64(g.Heads) * uint64(g.SectorsPerTrack)
}

// RoundToCylinder moves sect forward to the next cylinder boundary. A sector already on a
// boundary still advances by a full cylinder.
func (g Geometry) RoundToCylinder(sect uint64) uint64 {
	cyl := g.CylinderSize()
	return sect + cyl - sect%cyl
}

// CHS encodes an absolute sector number. Cylinders above 1023, heads above 255 and
// sectors above 63 wrap; that loss is part of the legacy format.
func (g Geometry) CHS(sect uint64) CHS {
	spt := uint64(g.SectorsPerTrack)
	s := sect%spt + 1
	track := sect / spt
	h := track % uint64(g.Heads)
	c := track / uint64(g.Heads)

	return CHS{
		byte(h),
		byte(s) | byte((c>>2)&0xC0),
		byte(c),
	}
}

// LBA decodes a CHS triple back into an absolute sector number.
func (g Geometry) LBA(chs CHS) uint64 {
	return (uint64(chs.Cylinder())*uint64(g.Heads)+uint64(chs.Head()))*uint64(g.SectorsPerTrack) +
		uint64(chs.Sector()) - 1
}

// CHS is a packed 3-byte Cylinder-Head-Sector address as stored in an MBR entry.
type CHS [3]byte

// Head returns the head number.
func (c CHS) Head() uint8 {
	return c[0]
}

// Sector returns the 1-based sector number.
func (c CHS) Sector() uint8 {
	return c[1] & 0x3F
}

// Cylinder returns the 10-bit cylinder number.
func (c CHS) Cylinder() uint16 {
	return uint16(c[2]) | uint16(c[1]&0xC0)<<2
}

func (c CHS) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Cylinder(), c.Head(), c.Sector())
}
