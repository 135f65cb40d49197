// faceserve exposes the face crop pipeline over HTTP. POST an image to
// /crop and receive the best accepted face back as JPEG.
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
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/models"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/quality"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/web"
)

func main() {
	_ = godotenv.Load()

	port := flag.String("port", config.Env("FACEGEN_PORT", "8080"), "HTTP listen port")
	modelDir := flag.String("model-dir", config.Env("FACEGEN_MODEL_DIR", "./models"), "Directory holding the detection model")
	threshold := flag.Float64("threshold", 0.6, "Detector confidence threshold")
	padding := flag.Float64("padding", crop.DefaultPadding, "Context padding around the face, per side")
	logLevel := flag.String("log-level", config.Env("FACEGEN_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	modelPath, err := models.Ensure(ctx, *modelDir)
	if err != nil {
		log.Error("model unavailable", "error", err)
		os.Exit(1)
	}

	detCfg := detection.DefaultConfig()
	detCfg.ModelPath = modelPath
	detCfg.ScoreThreshold = *threshold
	det, err := detection.NewYuNet(detCfg)
	if err != nil {
		log.Error("detector init failed", "error", err)
		os.Exit(1)
	}
	defer det.Close()

	// The threshold feeds both the detector pre-filter and the quality
	// filter; both speak YuNet's 0-1 score range.
	filter := quality.DefaultConfig()
	filter.Confidence = *threshold
	if err := filter.Validate(); err != nil {
		log.Error("invalid filter config", "error", err)
		os.Exit(1)
	}

	srv := web.NewServer(*port, det, filter, *padding)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
