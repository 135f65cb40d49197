// Package imageio handles the image I/O collaborators of the extraction
// pipeline: decoding source files, saving crops, and listing candidate
// images in a directory tree.
package imageio

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
)

// ErrDecode reports a corrupt or unsupported image file.
var ErrDecode = errors.New("image decode failed")

// Frame is one decoded source image. Close must be called to release the
// underlying Mat.
type Frame struct {
	Mat  gocv.Mat
	Dims crop.Dims
}

// Close releases the decoded pixel data.
func (f *Frame) Close() {
	if !f.Mat.Closed() {
		f.Mat.Close()
	}
}

// Decode reads and decodes an image file.
func Decode(path string) (*Frame, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: %s", ErrDecode, path)
	}
	return &Frame{
		Mat:  mat,
		Dims: crop.Dims{Width: mat.Cols(), Height: mat.Rows()},
	}, nil
}

// SaveCrop writes the region r of the frame to path as a new image. The
// format follows the path extension.
func SaveCrop(f *Frame, r crop.Rect, path string) error {
	roi := f.Mat.Region(image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
	defer roi.Close()

	if ok := gocv.IMWrite(path, roi); !ok {
		return fmt.Errorf("failed to write crop: %s", path)
	}
	return nil
}

// EncodeCropJPEG returns the region r of the frame encoded as JPEG bytes.
// Used by the HTTP crop endpoint, which never touches the filesystem.
func EncodeCropJPEG(f *Frame, r crop.Rect) ([]byte, error) {
	roi := f.Mat.Region(image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
	defer roi.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, roi)
	if err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// DecodeBytes decodes an in-memory image, for the HTTP crop endpoint.
func DecodeBytes(data []byte) (*Frame, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrDecode
	}
	return &Frame{
		Mat:  mat,
		Dims: crop.Dims{Width: mat.Cols(), Height: mat.Rows()},
	}, nil
}
