package detection

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// CascadeScore is the synthetic confidence assigned to Haar cascade hits.
// Cascades do not score their detections, so callers pairing this backend
// with a confidence filter should use a threshold of 0.
const CascadeScore = 1.0

// CascadeDetector uses a Haar cascade classifier. Slower to reject false
// positives than YuNet but needs no ONNX runtime, which makes it the
// fallback on minimal OpenCV builds.
type CascadeDetector struct {
	cls gocv.CascadeClassifier
	mu  sync.Mutex
}

// NewCascade loads a Haar cascade XML file.
func NewCascade(modelPath string) (*CascadeDetector, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("cascade model path is empty")
	}
	cls := gocv.NewCascadeClassifier()
	if !cls.Load(modelPath) {
		cls.Close()
		return nil, fmt.Errorf("failed to load cascade: %s", modelPath)
	}
	return &CascadeDetector{cls: cls}, nil
}

// Detect finds faces in the decoded image
func (d *CascadeDetector) Detect(img gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rects := d.cls.DetectMultiScale(gray)

	var detections []Detection
	for _, r := range rects {
		detections = append(detections, Detection{
			Box:   Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()},
			Score: CascadeScore,
		})
	}

	return detections, nil
}

// Close releases the classifier resources
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cls.Close()
	return nil
}
