package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/quality"
)

func TestWriteManifest_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	in := Manifest{
		Result: Result{
			RunID:      "test-run",
			Outcome:    OutcomeTargetReached,
			Stats:      RunStats{ImagesProcessed: 3, FacesAccepted: 5},
			StartedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 8, 1, 12, 1, 0, 0, time.UTC),
		},
		Filter:  quality.DefaultConfig(),
		Padding: 0.2,
		Target:  5,
	}

	if err := WriteManifest(dir, in); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	var out Manifest
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}

	if out.Result.RunID != in.Result.RunID {
		t.Errorf("RunID: got %q, want %q", out.Result.RunID, in.Result.RunID)
	}
	if out.Result.Stats != in.Result.Stats {
		t.Errorf("Stats: got %+v, want %+v", out.Result.Stats, in.Result.Stats)
	}
	if out.Target != in.Target {
		t.Errorf("Target: got %d, want %d", out.Target, in.Target)
	}
}

func TestWriteManifest_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()

	if err := WriteManifest(dir, Manifest{Target: 1}); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != ManifestName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("output dir contents: got %v, want [%s]", names, ManifestName)
	}
}
