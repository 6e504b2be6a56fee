package interfaces

import (
	"io"

	"github.com/deploymenttheory/go-ptgen/internal/layout"
)

// TableEncoder turns a planned layout into an on-disk partition table
type TableEncoder interface {
	// Name returns the table format name ("mbr" or "gpt")
	Name() string

	// Limits returns the slot ceiling and field width the planner must respect for this format
	Limits() layout.Limits

	// Encode builds the complete table in memory without touching any output
	Encode(l *layout.Layout) (PartitionTable, error)
}

// PartitionTable is an encoded table ready to be written
type PartitionTable interface {
	// WriteTo writes every structure of the table at its prescribed byte offset.
	// The first failed or short write aborts the remaining writes.
	WriteTo(w io.WriterAt) error

	// ImageSize returns the size in bytes the output has once the table is written
	ImageSize() int64
}
