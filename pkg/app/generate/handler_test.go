package generate

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ptgen/internal/device"
	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/gpt"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
	"github.com/deploymenttheory/go-ptgen/internal/mbr"
	"github.com/deploymenttheory/go-ptgen/internal/types"
	"github.com/deploymenttheory/go-ptgen/pkg/app"
)

func newTestContext() *app.Context {
	ctx := app.NewContext()
	ctx.Fs = afero.NewMemMapFs()
	ctx.Stdout = &bytes.Buffer{}
	ctx.Logger.SetOutput(io.Discard)
	return ctx
}

func mbrRequest(parts ...layout.Request) *Request {
	return &Request{
		Output:     "/out/disk.img",
		Geometry:   geometry.Geometry{Heads: 4, SectorsPerTrack: 32},
		Active:     1,
		Signature:  types.DefaultSignature,
		GUID:       guid.FromSignature(types.DefaultSignature),
		Partitions: parts,
	}
}

func gptRequest(parts ...layout.Request) *Request {
	return &Request{
		Output:     "/out/disk.img",
		Geometry:   geometry.Geometry{Heads: 16, SectorsPerTrack: 63},
		AlignKB:    1024,
		Active:     1,
		Signature:  types.DefaultSignature,
		GUID:       guid.FromSignature(types.DefaultSignature),
		GPT:        true,
		Partitions: parts,
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		request  *Request
		wantErr  bool
		errCode  string
		validate func(*testing.T, afero.Fs, *Response)
	}{
		{
			name:    "single mbr partition",
			request: mbrRequest(layout.Request{SizeKB: 1024, TypeCode: 0x83}),
			validate: func(t *testing.T, fs afero.Fs, resp *Response) {
				require.Len(t, resp.Partitions, 1)
				assert.Equal(t, uint64(16384), resp.Partitions[0].Start)
				assert.Equal(t, uint64(1097728), resp.Partitions[0].Size)
				assert.True(t, resp.Partitions[0].Active)
				assert.True(t, resp.Written)
				assert.Equal(t, FormatMBR, resp.Table)
				assert.Empty(t, resp.DiskGUID)

				r, err := device.Open(fs, "/out/disk.img")
				require.NoError(t, err)
				defer r.Close()
				assert.Equal(t, int64(512), r.Size())
				table, err := mbr.Read(r)
				require.NoError(t, err)
				assert.Equal(t, uint32(32), table.Entries[0].StartLBA)
				assert.Equal(t, uint32(2144), table.Entries[0].Length)
			},
		},
		{
			name: "empty partitions skipped",
			request: func() *Request {
				r := mbrRequest(layout.Request{SizeKB: 0, TypeCode: 0x83}, layout.Request{SizeKB: 512, TypeCode: 0x0C})
				r.IgnoreEmpty = true
				return r
			}(),
			validate: func(t *testing.T, fs afero.Fs, resp *Response) {
				require.Len(t, resp.Partitions, 1)
				assert.Equal(t, 1, resp.Partitions[0].Slot)
				assert.Equal(t, "0c", resp.Partitions[0].Type)
				assert.False(t, resp.Partitions[0].Active, "slot 1 is not the active slot")
			},
		},
		{
			name:    "two empty partitions fail before writing",
			request: mbrRequest(layout.Request{TypeCode: 0x83}, layout.Request{TypeCode: 0x83}),
			wantErr: true,
			errCode: app.ErrCodeInvalidPartitionSize,
		},
		{
			name: "too many mbr partitions",
			request: mbrRequest(
				layout.Request{SizeKB: 64}, layout.Request{SizeKB: 64}, layout.Request{SizeKB: 64},
				layout.Request{SizeKB: 64}, layout.Request{SizeKB: 64},
			),
			wantErr: true,
			errCode: app.ErrCodeTooManyPartitions,
		},
		{
			name: "missing output",
			request: func() *Request {
				r := mbrRequest(layout.Request{SizeKB: 64})
				r.Output = ""
				return r
			}(),
			wantErr: true,
			errCode: app.ErrCodeUsage,
		},
		{
			name: "zero heads",
			request: func() *Request {
				r := mbrRequest(layout.Request{SizeKB: 64})
				r.Geometry.Heads = 0
				return r
			}(),
			wantErr: true,
			errCode: app.ErrCodeUsage,
		},
		{
			name: "gpt track too short",
			request: func() *Request {
				r := gptRequest(layout.Request{SizeKB: 64})
				r.Geometry.SectorsPerTrack = 32
				return r
			}(),
			wantErr: true,
			errCode: app.ErrCodeInvalidGeometry,
		},
		{
			name:    "gpt image",
			request: gptRequest(layout.Request{SizeKB: 1024, TypeCode: 0x83}, layout.Request{SizeKB: 2048, TypeCode: 0x83}),
			validate: func(t *testing.T, fs afero.Fs, resp *Response) {
				assert.Equal(t, FormatGPT, resp.Table)
				assert.Equal(t, int64(10303*512), resp.ImageSize)
				assert.Equal(t, "5452574F-2211-4433-5566-778899AABB00", resp.DiskGUID)
				require.Len(t, resp.Partitions, 2)
				assert.Equal(t, uint64(2048*512), resp.Partitions[0].Start)
				assert.Equal(t, "5452574F-2211-4433-5566-778899AABB02", resp.Partitions[1].GUID)

				r, err := device.Open(fs, "/out/disk.img")
				require.NoError(t, err)
				defer r.Close()
				assert.Equal(t, resp.ImageSize, r.Size())
				table, err := gpt.Read(r)
				require.NoError(t, err)
				assert.NoError(t, gpt.Verify(r, table))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			resp, err := Handle(ctx, tt.request)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errCode, app.ErrorCode(err))
				assert.Nil(t, resp)
				if tt.request.Output != "" {
					exists, _ := afero.Exists(ctx.Fs, tt.request.Output)
					assert.False(t, exists, "no output on failure")
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			if tt.validate != nil {
				tt.validate(t, ctx.Fs, resp)
			}
		})
	}
}

func TestHandle_WriteFailure(t *testing.T) {
	ctx := newTestContext()
	ctx.Fs = afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := Handle(ctx, mbrRequest(layout.Request{SizeKB: 64}))
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeIO, app.ErrorCode(err))
	assert.Contains(t, err.Error(), "can't open output file")
}

func TestHandle_Cancelled(t *testing.T) {
	ctx := newTestContext()
	cancelled, cancel := ctx.WithCancel()
	cancel()

	_, err := Handle(cancelled, mbrRequest(layout.Request{SizeKB: 64}))
	require.Error(t, err)
	exists, _ := afero.Exists(ctx.Fs, "/out/disk.img")
	assert.False(t, exists)
}

func TestPlan_DoesNotWrite(t *testing.T) {
	ctx := newTestContext()
	req := gptRequest(layout.Request{SizeKB: 1024, TypeCode: 0xEF})
	req.Output = ""

	resp, err := Plan(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Written)
	require.Len(t, resp.Partitions, 1)
	assert.Equal(t, "ef", resp.Partitions[0].Type)

	files, err := afero.ReadDir(ctx.Fs, "/")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestNewEncoder(t *testing.T) {
	enc, err := NewEncoder(mbrRequest())
	require.NoError(t, err)
	assert.Equal(t, "mbr", enc.Name())
	assert.Equal(t, layout.MBRLimits, enc.Limits())

	enc, err = NewEncoder(gptRequest())
	require.NoError(t, err)
	assert.Equal(t, "gpt", enc.Name())
	assert.Equal(t, layout.GPTLimits, enc.Limits())
}
