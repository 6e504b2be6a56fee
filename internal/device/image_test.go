package device

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shortWriter struct {
	limit int
}

func (s shortWriter) WriteAt(p []byte, off int64) (int, error) {
	if len(p) > s.limit {
		return s.limit, nil
	}
	return len(p), nil
}

type failingWriter struct{}

func (failingWriter) WriteAt(p []byte, off int64) (int, error) {
	return 0, errors.New("device gone")
}

func TestWithImage_WritesAtOffsets(t *testing.T) {
	fs := afero.NewMemMapFs()

	err := WithImage(fs, "/out/table.img", func(w io.WriterAt) error {
		if _, err := w.WriteAt([]byte{0x55, 0xAA}, 510); err != nil {
			return err
		}
		_, err := w.WriteAt([]byte{0x01}, 2)
		return err
	})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/table.img")
	require.NoError(t, err)
	require.Len(t, data, 512)
	assert.Equal(t, byte(0x01), data[2])
	assert.Equal(t, []byte{0x55, 0xAA}, data[510:])
	assert.Zero(t, data[0])
}

func TestWithImage_TruncatesExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "table.img", make([]byte, 4096), 0o644))

	err := WithImage(fs, "table.img", func(w io.WriterAt) error {
		_, err := w.WriteAt([]byte{1, 2, 3, 4}, 0)
		return err
	})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "table.img")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestWithImage_RemovesOnFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	boom := errors.New("encoder failed")

	err := WithImage(fs, "table.img", func(w io.WriterAt) error {
		if _, err := w.WriteAt(make([]byte, 512), 0); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	exists, err := afero.Exists(fs, "table.img")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWithImage_OpenFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	called := false

	err := WithImage(fs, "table.img", func(w io.WriterAt) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't open output file")
	assert.False(t, called)
}

func TestWriteFull(t *testing.T) {
	n, err := WriteFull(shortWriter{limit: 8}, make([]byte, 8), 0)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = WriteFull(shortWriter{limit: 4}, make([]byte, 8), 440)
	assert.ErrorIs(t, err, ErrShortWrite)
	assert.Equal(t, 4, n)
	assert.Contains(t, err.Error(), "offset 440")

	_, err = WriteFull(failingWriter{}, make([]byte, 2), 510)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device gone")
}

func TestImage_Written(t *testing.T) {
	fs := afero.NewMemMapFs()
	img, err := Create(fs, "table.img")
	require.NoError(t, err)

	_, err = img.WriteAt(make([]byte, 92), 512)
	require.NoError(t, err)
	_, err = img.WriteAt(make([]byte, 4), 440)
	require.NoError(t, err)
	assert.Equal(t, int64(96), img.Written())
	assert.Equal(t, "table.img", img.Path())

	require.NoError(t, img.Close())
	require.NoError(t, img.Close())
}

func TestReader(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := make([]byte, 1024)
	content[512] = 'E'
	require.NoError(t, afero.WriteFile(fs, "table.img", content, 0o644))

	r, err := Open(fs, "table.img")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(1024), r.Size())
	buf, err := r.ReadFull(8, 512)
	require.NoError(t, err)
	assert.Equal(t, byte('E'), buf[0])

	_, err = r.ReadFull(16, 1020)
	assert.Error(t, err)

	_, err = Open(fs, "missing.img")
	assert.Error(t, err)
}
