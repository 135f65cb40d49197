package web

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"gocv.io/x/gocv"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/quality"
)

type stubDetector struct {
	dets []detection.Detection
}

func (d *stubDetector) Detect(img gocv.Mat) ([]detection.Detection, error) {
	return d.dets, nil
}

func (d *stubDetector) Close() error { return nil }

func newTestServer(dets []detection.Detection) *Server {
	return NewServer("0", &stubDetector{dets: dets}, quality.DefaultConfig(), 0.2)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestHandleCrop_BadRequests(t *testing.T) {
	srv := newTestServer(nil)

	tests := []struct {
		name   string
		body   []byte
		status int
	}{
		{
			name:   "empty body",
			body:   nil,
			status: 400,
		},
		{
			name:   "not an image",
			body:   []byte("definitely text"),
			status: 415,
		},
		{
			name:   "wrong image format",
			body:   []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"),
			status: 415,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/crop", bytes.NewReader(tc.body))
			resp, err := srv.App().Test(req)
			if err != nil {
				t.Fatalf("Test: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Errorf("status: got %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestBestAccepted(t *testing.T) {
	srv := newTestServer(nil)

	dets := []detection.Detection{
		{Box: detection.Box{X: 0, Y: 0, Width: 20, Height: 20}, Score: 3.0},      // too small
		{Box: detection.Box{X: 100, Y: 100, Width: 80, Height: 80}, Score: 2.5},  // accepted
		{Box: detection.Box{X: 200, Y: 200, Width: 100, Height: 100}, Score: 90}, // accepted, better
	}

	best := srv.bestAccepted(dets, crop.Dims{Width: 400, Height: 400})
	if best == nil {
		t.Fatal("bestAccepted: got nil, want a detection")
	}
	if best.Box.Width != 100 {
		t.Errorf("best width: got %d, want 100", best.Box.Width)
	}
}
