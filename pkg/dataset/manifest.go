package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/quality"
)

// ManifestName is the file written next to the crops after every run.
const ManifestName = "manifest.json"

// Manifest records what produced the crops in an output directory, so a
// dataset can be traced back to the run and criteria that built it.
type Manifest struct {
	Result  Result         `json:"result"`
	Filter  quality.Config `json:"filter"`
	Padding float64        `json:"padding"`
	Target  int            `json:"target"`
}

// WriteManifest serializes the manifest into dir. Written via a temp
// file and rename so a crash never leaves a half-written manifest.
func WriteManifest(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ManifestName+".*")
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close manifest: %w", err)
	}

	return os.Rename(tmp.Name(), filepath.Join(dir, ManifestName))
}
