package main

import (
	"testing"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
)

func TestResolveThreshold(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		value   float64
		want    float64
		wantErr bool
	}{
		{
			name:    "yunet unset uses the 0-1 scale default",
			backend: "yunet",
			value:   -1,
			want:    defaultYuNetThreshold,
		},
		{
			name:    "yunet explicit value within range",
			backend: "yunet",
			value:   0.4,
			want:    0.4,
		},
		{
			name:    "yunet accepts zero",
			backend: "yunet",
			value:   0,
			want:    0,
		},
		{
			name:    "yunet refuses a 0-5 scale threshold",
			backend: "yunet",
			value:   2.0,
			wantErr: true,
		},
		{
			name:    "yunet refuses its own ceiling",
			backend: "yunet",
			value:   detection.YuNetMaxScore,
			wantErr: true,
		},
		{
			name:    "cascade unset defaults to zero",
			backend: "cascade",
			value:   -1,
			want:    0,
		},
		{
			name:    "cascade accepts the synthetic score",
			backend: "cascade",
			value:   detection.CascadeScore,
			want:    detection.CascadeScore,
		},
		{
			name:    "cascade refuses an impossible threshold",
			backend: "cascade",
			value:   2.0,
			wantErr: true,
		},
		{
			name:    "unknown backend",
			backend: "yolo",
			value:   -1,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveThreshold(tc.backend, tc.value)
			if (err != nil) != tc.wantErr {
				t.Fatalf("resolveThreshold: got err=%v, wantErr=%v", err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("resolveThreshold: got %v, want %v", got, tc.want)
			}
		})
	}
}

// The resolved default must be something YuNet can actually emit,
// otherwise a default run rejects every detection and produces an
// empty dataset.
func TestResolveThreshold_DefaultBelowYuNetCeiling(t *testing.T) {
	got, err := resolveThreshold("yunet", -1)
	if err != nil {
		t.Fatalf("resolveThreshold: %v", err)
	}
	if got >= detection.YuNetMaxScore {
		t.Errorf("default yunet threshold %v is not below the score ceiling %v", got, detection.YuNetMaxScore)
	}
}
