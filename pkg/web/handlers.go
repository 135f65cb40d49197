package web

import (
	"errors"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/internal/log"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/imageio"
)

var acceptedTypes = []string{"image/jpeg", "image/png"}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleCrop accepts a raw JPEG/PNG body and returns the best accepted
// face crop as JPEG.
func (s *Server) handleCrop(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty request body")
	}

	mime := mimetype.Detect(body)
	if !slices.Contains(acceptedTypes, mime.String()) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "only JPEG and PNG images are accepted")
	}

	frame, err := imageio.DecodeBytes(body)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image could not be decoded")
	}
	defer frame.Close()

	dets, err := s.detector.Detect(frame.Mat)
	if err != nil {
		log.Error("detection failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "face detection failed")
	}

	best := s.bestAccepted(dets, frame.Dims)
	if best == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrNoFace.Error())
	}

	rect, err := crop.Compute(best.Box, frame.Dims, s.padding)
	if err != nil {
		if errors.Is(err, crop.ErrDegenerateCrop) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "crop computation failed")
	}

	out, err := imageio.EncodeCropJPEG(frame, rect)
	if err != nil {
		log.Error("encode failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "crop encoding failed")
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(out)
}
