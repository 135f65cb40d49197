// Package dataset drives the face-extraction run: it walks an ordered
// list of candidate images through decode, detect, filter, crop, and
// save, and stops the whole run once the target face count is reached.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/internal/log"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/quality"
)

// Image is one decoded source image as the runner sees it. The concrete
// type is Pipeline-specific; the runner only needs dimensions and cleanup.
type Image interface {
	Bounds() crop.Dims
	Close()
}

// Pipeline supplies the per-image externals: decoding, detection, and
// crop persistence. Implementations must treat a face-free image as a
// successful detection with zero results.
type Pipeline interface {
	Load(path string) (Image, error)
	Detect(img Image) ([]detection.Detection, error)
	Save(img Image, r crop.Rect, name string) error
}

// Outcome says how a run ended.
type Outcome string

const (
	// OutcomeTargetReached means the run halted mid-list (possibly
	// mid-image) because the target face count was hit.
	OutcomeTargetReached Outcome = "target_reached"

	// OutcomeListExhausted means every candidate image was visited.
	OutcomeListExhausted Outcome = "list_exhausted"

	// OutcomeCanceled means the context was canceled between images.
	OutcomeCanceled Outcome = "canceled"
)

// RunStats accumulates per-run accounting. Owned exclusively by the
// runner and returned in the Result; never shared while the run is live.
//
// Counting convention: an image counts as processed once decode and
// detect both succeed, even if a later save fails; decode and detect
// failures count as skipped, never as processed.
type RunStats struct {
	ImagesProcessed int `json:"images_processed"`
	ImagesSkipped   int `json:"images_skipped"`
	FacesAccepted   int `json:"faces_accepted"`
	FacesRejected   int `json:"faces_rejected"`
	CropsDegenerate int `json:"crops_degenerate"`
	WriteFailures   int `json:"write_failures"`
}

// Result is the final report of one run.
type Result struct {
	RunID      string    `json:"run_id"`
	Outcome    Outcome   `json:"outcome"`
	Stats      RunStats  `json:"stats"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Runner holds the immutable configuration of one extraction run.
type Runner struct {
	Pipeline Pipeline
	Filter   quality.Config
	Padding  float64
	Target   int
}

// Validate rejects a configuration the run must never start with.
func (r *Runner) Validate() error {
	if r.Pipeline == nil {
		return errors.New("runner: pipeline is required")
	}
	if r.Target < 1 {
		return fmt.Errorf("runner: target must be >= 1, got %d", r.Target)
	}
	if r.Padding < 0 {
		return fmt.Errorf("runner: padding must be >= 0, got %v", r.Padding)
	}
	if err := r.Filter.Validate(); err != nil {
		return err
	}
	return nil
}

// Run processes paths in order until the list is exhausted, the target is
// reached, or ctx is canceled. Per-image failures are recorded and
// skipped; Run only returns an error for an invalid configuration.
func (r *Runner) Run(ctx context.Context, paths []string) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:     uuid.NewString(),
		Outcome:   OutcomeListExhausted,
		StartedAt: time.Now().UTC(),
	}

	log.Info("run started", "run_id", res.RunID, "images", len(paths), "target", r.Target)

	for i, path := range paths {
		if ctx.Err() != nil {
			res.Outcome = OutcomeCanceled
			break
		}

		log.Debug("processing image", "index", i+1, "total", len(paths), "path", path)

		if halt := r.processImage(path, &res.Stats); halt {
			res.Outcome = OutcomeTargetReached
			break
		}
	}

	res.FinishedAt = time.Now().UTC()
	log.Info("run finished",
		"run_id", res.RunID,
		"outcome", string(res.Outcome),
		"processed", res.Stats.ImagesProcessed,
		"skipped", res.Stats.ImagesSkipped,
		"accepted", res.Stats.FacesAccepted,
		"rejected", res.Stats.FacesRejected,
	)
	return res, nil
}

// processImage runs one image through the pipeline. The returned halt
// flag tells the outer loop to stop the run: it is set as soon as the
// accepted count reaches the target, before any remaining detection in
// the same image is looked at.
func (r *Runner) processImage(path string, stats *RunStats) bool {
	img, err := r.Pipeline.Load(path)
	if err != nil {
		stats.ImagesSkipped++
		log.Warn("decode failed, skipping", "path", path, "error", err)
		return false
	}
	defer img.Close()

	dets, err := r.Pipeline.Detect(img)
	if err != nil {
		stats.ImagesSkipped++
		log.Warn("detection failed, skipping", "path", path, "error", err)
		return false
	}

	stats.ImagesProcessed++

	dims := img.Bounds()
	stem := stemOf(path)

	for _, det := range dets {
		dec := quality.Evaluate(det, dims, r.Filter)
		if !dec.Accepted {
			stats.FacesRejected++
			log.Debug("face rejected", "path", path, "reason", string(dec.Reason), "score", det.Score)
			continue
		}

		rect, err := crop.Compute(det.Box, dims, r.Padding)
		if err != nil {
			stats.CropsDegenerate++
			log.Warn("degenerate crop, skipping detection", "path", path, "error", err)
			continue
		}

		name := cropName(stem, stats.FacesAccepted+1, det.Score)
		if err := r.Pipeline.Save(img, rect, name); err != nil {
			stats.WriteFailures++
			log.Warn("save failed, abandoning image", "path", path, "error", err)
			return false
		}

		stats.FacesAccepted++
		if stats.FacesAccepted >= r.Target {
			return true
		}
	}

	return false
}

// cropName builds the output file name: source stem, run-wide sequence
// number, and the confidence scaled to an integer.
func cropName(stem string, seq int, score float64) string {
	return fmt.Sprintf("%s_%04d_%.0f.jpg", stem, seq, score*100)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
