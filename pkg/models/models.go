// Package models fetches the face detection model when it is not
// already on disk. A missing model is fatal at startup: the run never
// begins without one.
package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/internal/httpc"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/internal/log"
)

// YuNet release artifact from the OpenCV zoo.
const (
	YuNetFileName = "face_detection_yunet_2023mar.onnx"
	YuNetURL      = "https://github.com/opencv/opencv_zoo/raw/main/models/face_detection_yunet/face_detection_yunet_2023mar.onnx"
)

// Ensure returns the path of the YuNet model inside dir, downloading it
// first if absent.
func Ensure(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}

	path := filepath.Join(dir, YuNetFileName)
	if _, err := os.Stat(path); err == nil {
		log.Debug("model already present", "path", path)
		return path, nil
	}

	log.Info("downloading face detection model", "url", YuNetURL)
	if err := download(ctx, YuNetURL, path); err != nil {
		return "", fmt.Errorf("download model: %w", err)
	}
	log.Info("model downloaded", "path", path)
	return path, nil
}

// download streams url into path via a temp file and rename, so an
// interrupted download never leaves a truncated model behind.
func download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
