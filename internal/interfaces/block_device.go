// File: internal/interfaces/block_device.go
package interfaces

import "io"

// ImageReader provides read access to an image produced by a table encoder
type ImageReader interface {
	io.ReaderAt

	// ReadFull reads exactly n bytes starting at byte offset off
	ReadFull(n int, off int64) ([]byte, error)

	// Size returns the total size of the image in bytes
	Size() int64
}
