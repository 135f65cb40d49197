package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/imageio"
)

// FilePipeline is the production Pipeline: gocv decode, a pluggable
// detector, and crop files written under OutputDir.
type FilePipeline struct {
	Detector  detection.Detector
	OutputDir string
}

type fileImage struct {
	frame *imageio.Frame
}

func (f *fileImage) Bounds() crop.Dims { return f.frame.Dims }
func (f *fileImage) Close()            { f.frame.Close() }

// Load decodes the image at path.
func (p *FilePipeline) Load(path string) (Image, error) {
	frame, err := imageio.Decode(path)
	if err != nil {
		return nil, err
	}
	return &fileImage{frame: frame}, nil
}

// Detect runs the detector over the decoded image.
func (p *FilePipeline) Detect(img Image) ([]detection.Detection, error) {
	fi, ok := img.(*fileImage)
	if !ok {
		return nil, fmt.Errorf("detect: unexpected image type %T", img)
	}
	return p.Detector.Detect(fi.frame.Mat)
}

// Save writes the crop rectangle of img to OutputDir under name.
func (p *FilePipeline) Save(img Image, r crop.Rect, name string) error {
	fi, ok := img.(*fileImage)
	if !ok {
		return fmt.Errorf("save: unexpected image type %T", img)
	}
	return imageio.SaveCrop(fi.frame, r, filepath.Join(p.OutputDir, name))
}
