// facegen extracts a face dataset from a directory of images: detect,
// filter, crop with context padding, and save until the target count is
// reached.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/internal/config"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/internal/log"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/dataset"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/imageio"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/models"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/quality"
)

func main() {
	_ = godotenv.Load()

	// Command line flags
	input := flag.String("input", config.Env("FACEGEN_INPUT", "./images"), "Input directory containing images")
	output := flag.String("output", config.Env("FACEGEN_OUTPUT", "./faces"), "Output directory for face crops")
	modelDir := flag.String("model-dir", config.Env("FACEGEN_MODEL_DIR", "./models"), "Directory holding the detection model")
	backend := flag.String("detector", "yunet", "Detector backend: yunet or cascade")
	cascade := flag.String("cascade", "", "Haar cascade XML path (cascade backend)")
	targetFaces := flag.Int("target-faces", config.EnvInt("FACEGEN_TARGET", 5000), "Target number of faces to extract")
	minFaceSize := flag.Int("min-face-size", 40, "Minimum face size (pixels)")
	threshold := flag.Float64("threshold", -1, "Detector confidence threshold (default: per backend)")
	minArea := flag.Float64("min-area", 0.02, "Minimum face area as a fraction of the image")
	maxArea := flag.Float64("max-area", 0.40, "Maximum face area as a fraction of the image")
	minAspect := flag.Float64("min-aspect", 0.5, "Minimum face width/height ratio")
	maxAspect := flag.Float64("max-aspect", 2.0, "Maximum face width/height ratio")
	padding := flag.Float64("padding", crop.DefaultPadding, "Context padding around each face, per side")
	logLevel := flag.String("log-level", config.Env("FACEGEN_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	confidence, err := resolveThreshold(*backend, *threshold)
	if err != nil {
		log.Error("invalid threshold", "error", err)
		os.Exit(1)
	}

	fmt.Println("Face Dataset Generator")
	fmt.Printf("  Input:  %s\n", *input)
	fmt.Printf("  Output: %s\n", *output)
	fmt.Printf("  Target: %d faces\n", *targetFaces)
	fmt.Println()

	if err := run(*input, *output, *modelDir, *backend, *cascade, quality.Config{
		MinFaceSize: *minFaceSize,
		Confidence:  confidence,
		MinAreaFrac: *minArea,
		MaxAreaFrac: *maxArea,
		MinAspect:   *minAspect,
		MaxAspect:   *maxAspect,
	}, *padding, *targetFaces); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// defaultYuNetThreshold matches the serve path: YuNet scores live in
// the sigmoid (0,1) range, nothing like the 0-5 scales other
// detectors use.
const defaultYuNetThreshold = 0.6

// resolveThreshold picks the confidence threshold for the chosen
// backend. A negative value means unset: YuNet defaults to
// defaultYuNetThreshold, cascades to 0 since they emit no scores. An
// explicit threshold above the backend's score ceiling would silently
// reject every detection, so it is refused instead.
func resolveThreshold(backend string, v float64) (float64, error) {
	switch backend {
	case "yunet":
		if v < 0 {
			return defaultYuNetThreshold, nil
		}
		if v >= detection.YuNetMaxScore {
			return 0, fmt.Errorf("threshold %v would reject every YuNet detection; scores stay below %v", v, detection.YuNetMaxScore)
		}
		return v, nil
	case "cascade":
		if v < 0 {
			return 0, nil
		}
		if v > detection.CascadeScore {
			return 0, fmt.Errorf("threshold %v would reject every cascade detection; use 0", v)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("unknown detector backend: %s", backend)
	}
}

func run(input, output, modelDir, backend, cascade string, filter quality.Config, padding float64, target int) error {
	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted, finishing current image...")
		cancel()
	}()

	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	det, err := newDetector(ctx, backend, cascade, modelDir, filter)
	if err != nil {
		return err
	}
	defer det.Close()

	paths, err := imageio.List(input)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d images to process\n", len(paths))
	if len(paths) == 0 {
		fmt.Printf("No images found in %s\n", input)
		return nil
	}

	runner := &dataset.Runner{
		Pipeline: &dataset.FilePipeline{Detector: det, OutputDir: output},
		Filter:   filter,
		Padding:  padding,
		Target:   target,
	}

	res, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}

	if err := dataset.WriteManifest(output, dataset.Manifest{
		Result:  res,
		Filter:  filter,
		Padding: padding,
		Target:  target,
	}); err != nil {
		log.Warn("manifest not written", "error", err)
	}

	fmt.Println("\nProcessing complete!")
	fmt.Printf("  Outcome:          %s\n", res.Outcome)
	fmt.Printf("  Images processed: %d\n", res.Stats.ImagesProcessed)
	fmt.Printf("  Images skipped:   %d\n", res.Stats.ImagesSkipped)
	fmt.Printf("  Faces extracted:  %d\n", res.Stats.FacesAccepted)
	fmt.Printf("  Faces rejected:   %d\n", res.Stats.FacesRejected)
	fmt.Printf("  Output directory: %s\n", output)
	return nil
}

// newDetector builds the requested backend. The threshold has already
// been resolved against the backend's score range.
func newDetector(ctx context.Context, backend, cascade, modelDir string, filter quality.Config) (detection.Detector, error) {
	switch backend {
	case "yunet":
		modelPath, err := models.Ensure(ctx, modelDir)
		if err != nil {
			return nil, err
		}
		cfg := detection.DefaultConfig()
		cfg.ModelPath = modelPath
		cfg.ScoreThreshold = filter.Confidence
		return detection.NewYuNet(cfg)
	case "cascade":
		if cascade == "" {
			return nil, fmt.Errorf("cascade backend requires -cascade")
		}
		return detection.NewCascade(cascade)
	default:
		return nil, fmt.Errorf("unknown detector backend: %s", backend)
	}
}
