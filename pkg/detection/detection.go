// Package detection provides face detection backends using computer vision
package detection

import "gocv.io/x/gocv"

// Box is a face bounding box in source-image pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the area of the box in pixels.
func (b Box) Area() int {
	return b.Width * b.Height
}

// AspectRatio returns width/height, or 0 for a zero-height box.
func (b Box) AspectRatio() float64 {
	if b.Height == 0 {
		return 0
	}
	return float64(b.Width) / float64(b.Height)
}

// Detection represents a detected face
type Detection struct {
	Box   Box     `json:"box"`
	Score float64 `json:"score"` // Detector confidence
}

// YuNetMaxScore is the upper bound of YuNet's sigmoid score range.
// A confidence threshold at or above it rejects every detection.
const YuNetMaxScore = 1.0

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in the image. A face-free image yields an
	// empty slice, not an error.
	Detect(img gocv.Mat) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath      string  // Path to ONNX model or cascade XML
	ScoreThreshold float64 // Minimum confidence kept by the backend
	NMSThreshold   float64 // Non-maximum suppression threshold (YuNet)
	TopK           int     // Max candidates kept before NMS (YuNet)
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:      "models/face_detection_yunet.onnx",
		ScoreThreshold: 0.5,
		NMSThreshold:   0.3,
		TopK:           5000,
	}
}

// SelectBest picks the best face from multiple detections.
// Priority: confidence * 0.7 + relative area * 0.3.
func SelectBest(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}

	if len(dets) == 1 {
		return &dets[0]
	}

	// Find max area for normalization
	maxArea := 0
	for _, d := range dets {
		if d.Box.Area() > maxArea {
			maxArea = d.Box.Area()
		}
	}
	if maxArea == 0 {
		return &dets[0]
	}

	// Score each detection
	bestScore := -1.0
	var best *Detection

	for i := range dets {
		score := dets[i].Score*0.7 + (float64(dets[i].Box.Area())/float64(maxArea))*0.3
		if score > bestScore {
			bestScore = score
			best = &dets[i]
		}
	}

	return best
}
