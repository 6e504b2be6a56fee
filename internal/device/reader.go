package device

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-ptgen/internal/interfaces"
	"github.com/spf13/afero"
)

// Reader gives read-only access to an existing image.
type Reader struct {
	file afero.File
	size int64
}

var _ interfaces.ImageReader = (*Reader)(nil)

// Open opens path for reading.
func Open(fs afero.Fs, path string) (*Reader, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	return &Reader{file: file, size: stat.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	return r.file.ReadAt(p, off)
}

// ReadFull reads exactly n bytes at off.
func (r *Reader) ReadFull(n int, off int64) ([]byte, error) {
	if off < 0 || off+int64(n) > r.size {
		return nil, fmt.Errorf("range [%d, %d) outside image of %d bytes", off, off+int64(n), r.size)
	}
	buf := make([]byte, n)
	if _, err := r.file.ReadAt(buf, off); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, off, err)
	}
	return buf, nil
}

// Size returns the image size in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// Close closes the image.
func (r *Reader) Close() error {
	return r.file.Close()
}
