// Package web exposes the crop pipeline over HTTP: POST an image,
// receive the best accepted face crop back as JPEG.
package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/internal/log"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/quality"
)

// ErrNoFace reports an image with no detection passing the acceptance
// criteria.
var ErrNoFace = errors.New("no acceptable face in image")

// Server is the single-image crop service.
type Server struct {
	app      *fiber.App
	port     string
	detector detection.Detector
	filter   quality.Config
	padding  float64
}

// NewServer wires the crop routes around a detector and filter config.
func NewServer(port string, det detection.Detector, filter quality.Config, padding float64) *Server {
	s := &Server{
		port:     port,
		detector: det,
		filter:   filter,
		padding:  padding,
	}

	app := fiber.New(fiber.Config{
		AppName:               "facegen crop service",
		DisableStartupMessage: true,
		BodyLimit:             32 << 20, // photos can be large
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/healthz", s.handleHealth)
	app.Post("/crop", s.handleCrop)

	s.app = app
	return s
}

// App returns the underlying fiber app, for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	log.Info("crop service listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// bestAccepted filters detections and picks the one to crop.
func (s *Server) bestAccepted(dets []detection.Detection, dims crop.Dims) *detection.Detection {
	accepted := make([]detection.Detection, 0, len(dets))
	for _, d := range dets {
		if dec := quality.Evaluate(d, dims, s.filter); dec.Accepted {
			accepted = append(accepted, d)
		}
	}
	return detection.SelectBest(accepted)
}
