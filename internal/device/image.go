// Package device owns the output image file: it is the only code that opens, writes,
// closes or removes it.
package device

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// ErrShortWrite is returned when a write stores fewer bytes than requested.
var ErrShortWrite = errors.New("short write")

// Image is an output image opened for writing.
type Image struct {
	fs      afero.Fs
	path    string
	file    afero.File
	written int64
}

// Create opens path for writing, truncating any existing content.
func Create(fs afero.Fs, path string) (*Image, error) {
	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("can't open output file '%s': %w", path, err)
	}
	return &Image{fs: fs, path: path, file: file}, nil
}

// WriteAt writes all of p at byte offset off. Anything less than a full write is an error.
func (i *Image) WriteAt(p []byte, off int64) (int, error) {
	n, err := WriteFull(i.file, p, off)
	i.written += int64(n)
	return n, err
}

// Written returns the number of bytes written so far.
func (i *Image) Written() int64 {
	return i.written
}

// Path returns the image path.
func (i *Image) Path() string {
	return i.path
}

// Close closes the image file.
func (i *Image) Close() error {
	if i.file == nil {
		return nil
	}
	err := i.file.Close()
	i.file = nil
	return err
}

// Discard closes the image and removes it so no partial table is left behind.
func (i *Image) Discard() error {
	closeErr := i.Close()
	if err := i.fs.Remove(i.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove partial image '%s': %w", i.path, err)
	}
	return closeErr
}

// WithImage creates the image, hands it to write and closes it on every path. If write or
// the final close fails the image is removed.
func WithImage(fs afero.Fs, path string, write func(w io.WriterAt) error) (err error) {
	img, err := Create(fs, path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if discardErr := img.Discard(); discardErr != nil {
				err = errors.Join(err, discardErr)
			}
			return
		}
		if closeErr := img.Close(); closeErr != nil {
			err = fmt.Errorf("close output file '%s': %w", path, closeErr)
			_ = fs.Remove(path)
		}
	}()

	return write(img)
}

// WriteFull writes p at off and turns a short write into ErrShortWrite.
func WriteFull(w io.WriterAt, p []byte, off int64) (int, error) {
	n, err := w.WriteAt(p, off)
	if err != nil {
		return n, fmt.Errorf("write %d bytes at offset %d: %w", len(p), off, err)
	}
	if n != len(p) {
		return n, fmt.Errorf("%w: %d of %d bytes at offset %d", ErrShortWrite, n, len(p), off)
	}
	return n, nil
}
