package mbr

import (
	"testing"

	"github.com/deploymenttheory/go-ptgen/internal/device"
	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
	"github.com/deploymenttheory/go-ptgen/internal/types"
	diskmbr "github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_ReadableByDiskfs(t *testing.T) {
	g := geometry.Geometry{Heads: 16, SectorsPerTrack: 63}
	l := planMBR(t, g, 2,
		layout.Request{SizeKB: 1024, TypeCode: 0x83},
		layout.Request{SizeKB: 4096, TypeCode: 0x0C},
	)
	enc, err := NewEncoder(g, types.DefaultSignature)
	require.NoError(t, err)
	table, err := enc.EncodeTable(l)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, device.WithImage(fs, "mbr.img", table.WriteTo))
	f, err := fs.Open("mbr.img")
	require.NoError(t, err)
	defer f.Close()

	decoded, err := diskmbr.Read(f, types.SectorSize, types.SectorSize)
	require.NoError(t, err)
	require.Len(t, decoded.Partitions, types.MBRPartitionEntryCount)

	for i, e := range table.Entries {
		got := decoded.Partitions[i]
		assert.Equal(t, e.IsActive(), got.Bootable, "entry %d", i)
		assert.Equal(t, diskmbr.Type(e.Type), got.Type, "entry %d", i)
		assert.Equal(t, e.StartLBA, got.Start, "entry %d", i)
		assert.Equal(t, e.Length, got.Size, "entry %d", i)
		assert.Equal(t, e.StartCHS, geometry.CHS{got.StartHead, got.StartSector, got.StartCylinder}, "entry %d", i)
		assert.Equal(t, e.EndCHS, geometry.CHS{got.EndHead, got.EndSector, got.EndCylinder}, "entry %d", i)
	}
}
