package layout

import "github.com/deploymenttheory/go-ptgen/internal/types"

// Alignment selects how partition boundaries are rounded. The zero value is cylinder
// alignment: every partition end is rounded up to the next cylinder boundary. A non-zero
// sector count switches to KB alignment: every partition start is rounded up to a multiple
// of that many sectors and ends are left alone.
type Alignment struct {
	sectors uint64
}

// CylinderAlignment returns the cylinder-aligned policy.
func CylinderAlignment() Alignment {
	return Alignment{}
}

// KBAlignment returns a policy aligning starts to kb kilobytes. Zero means cylinder alignment.
func KBAlignment(kb uint64) Alignment {
	return Alignment{sectors: kb * types.SectorsPerKB}
}

// IsKB reports whether KB alignment is in force.
func (a Alignment) IsKB() bool {
	return a.sectors != 0
}

// Sectors returns the KB alignment in sectors, or 0 under cylinder alignment.
func (a Alignment) Sectors() uint64 {
	return a.sectors
}

// RoundUp rounds sect up to the next multiple of the KB alignment. Under cylinder alignment
// it returns sect unchanged.
func (a Alignment) RoundUp(sect uint64) uint64 {
	if a.sectors == 0 || sect == 0 {
		return sect
	}
	return ((sect-1)/a.sectors + 1) * a.sectors
}

func (a Alignment) String() string {
	if !a.IsKB() {
		return "cylinder"
	}
	return "kb"
}
