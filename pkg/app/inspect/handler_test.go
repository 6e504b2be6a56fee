package inspect

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
	"github.com/deploymenttheory/go-ptgen/pkg/app"
	"github.com/deploymenttheory/go-ptgen/pkg/app/generate"
)

func newTestContext() *app.Context {
	ctx := app.NewContext()
	ctx.Fs = afero.NewMemMapFs()
	ctx.Logger.SetOutput(io.Discard)
	return ctx
}

func generateImage(t *testing.T, ctx *app.Context, gpt bool) {
	t.Helper()
	req := &generate.Request{
		Output:    "/disk.img",
		Geometry:  geometry.Geometry{Heads: 16, SectorsPerTrack: 63},
		AlignKB:   64,
		Active:    1,
		Signature: 0x5452574F,
		GUID:      guid.FromSignature(0x5452574F),
		GPT:       gpt,
		Partitions: []layout.Request{
			{SizeKB: 64, TypeCode: 0xEF},
			{SizeKB: 128, TypeCode: 0x83},
		},
	}
	_, err := generate.Handle(ctx, req)
	require.NoError(t, err)
}

func TestHandle_MBR(t *testing.T) {
	ctx := newTestContext()
	generateImage(t, ctx, false)

	resp, err := Handle(ctx, &Request{ImagePath: "/disk.img"})
	require.NoError(t, err)
	assert.Equal(t, "mbr", resp.Table)
	assert.True(t, resp.Valid)
	assert.Equal(t, "0x5452574F", resp.Signature)
	assert.Nil(t, resp.GPT)
	require.Len(t, resp.Partitions, 2)

	p := resp.Partitions[0]
	assert.Equal(t, uint64(128), p.FirstSector)
	assert.Equal(t, uint64(255), p.LastSector)
	assert.Equal(t, "ef", p.Type)
	assert.True(t, p.Active)
	assert.Equal(t, "0/2/3", p.StartCHS)
	assert.False(t, resp.Partitions[1].Active)
}

func TestHandle_GPT(t *testing.T) {
	ctx := newTestContext()
	generateImage(t, ctx, true)

	resp, err := Handle(ctx, &Request{ImagePath: "/disk.img"})
	require.NoError(t, err)
	assert.Equal(t, "gpt", resp.Table)
	assert.True(t, resp.Valid, "problems: %v", resp.Problems)
	require.NotNil(t, resp.GPT)
	assert.Equal(t, "5452574F-2211-4433-5566-778899AABB00", resp.GPT.DiskGUID)
	assert.Equal(t, uint64(1), resp.GPT.PrimaryLBA)
	assert.Equal(t, uint64(34), resp.GPT.FirstUsableLBA)

	require.Len(t, resp.Partitions, 3)
	assert.Equal(t, "EFI System", resp.Partitions[0].Type)
	assert.Equal(t, "Basic data", resp.Partitions[1].Type)
	assert.Equal(t, 127, resp.Partitions[2].Slot)
	assert.Equal(t, "BIOS boot", resp.Partitions[2].Type)
}

func TestHandle_CorruptGPT(t *testing.T) {
	ctx := newTestContext()
	generateImage(t, ctx, true)

	data, err := afero.ReadFile(ctx.Fs, "/disk.img")
	require.NoError(t, err)
	// corrupt the backup entry array
	backupEntries := len(data) - 512 - 16384
	data[backupEntries] ^= 0xFF
	require.NoError(t, afero.WriteFile(ctx.Fs, "/disk.img", data, 0o644))

	resp, err := Handle(ctx, &Request{ImagePath: "/disk.img"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Problems, 1)
	assert.Contains(t, resp.Problems[0], "backup entries")

	var buf bytes.Buffer
	require.NoError(t, FormatOutput(&buf, resp, "table"))
	assert.Contains(t, buf.String(), "Status: INVALID")
}

func TestHandle_Errors(t *testing.T) {
	ctx := newTestContext()

	_, err := Handle(ctx, &Request{})
	assert.Equal(t, app.ErrCodeUsage, app.ErrorCode(err))

	_, err = Handle(ctx, &Request{ImagePath: "/missing.img"})
	assert.Equal(t, app.ErrCodeIO, app.ErrorCode(err))

	require.NoError(t, afero.WriteFile(ctx.Fs, "/blank.img", make([]byte, 1024), 0o644))
	_, err = Handle(ctx, &Request{ImagePath: "/blank.img"})
	assert.Equal(t, app.ErrCodeCorruptImage, app.ErrorCode(err))
}

func TestFormatOutput(t *testing.T) {
	ctx := newTestContext()
	generateImage(t, ctx, false)
	resp, err := Handle(ctx, &Request{ImagePath: "/disk.img"})
	require.NoError(t, err)

	for _, format := range app.ValidFormats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, FormatOutput(&buf, resp, format))
			assert.Contains(t, buf.String(), "0x5452574F")
		})
	}
	assert.Error(t, FormatOutput(&bytes.Buffer{}, resp, "xml"))
}
