package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/pointtoexplain/go-jetcam/pkg/camera"
	"github.com/pointtoexplain/go-jetcam/pkg/hub"
	"github.com/pointtoexplain/go-jetcam/pkg/stream"
)

// handleStatus returns the capture loop counters.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.svc.Stats())
}

// handleGetConfig returns the live camera configuration.
func (s *Server) handleGetConfig(c *fiber.Ctx) error {
	return c.JSON(s.svc.Manager().GetConfig())
}

// handleUpdateConfig applies a partial config update or a preset.
// Body: {"preset": "1080p"} or {"framerate": 15, "flip_method": 2, ...}
func (s *Server) handleUpdateConfig(c *fiber.Ctx) error {
	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	if err := s.svc.Manager().UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(s.svc.Manager().GetConfig())
}

// handlePresets returns the available preset configurations.
func (s *Server) handlePresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"names":   camera.PresetNames(),
		"presets": camera.Presets(),
	})
}

// handleCapabilities returns the sensor capabilities.
func (s *Server) handleCapabilities(c *fiber.Ctx) error {
	return c.JSON(camera.Capabilities())
}

// handleDevices returns the discovered video devices.
func (s *Server) handleDevices(c *fiber.Ctx) error {
	devices, err := camera.Discover(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if devices == nil {
		devices = []camera.DeviceInfo{}
	}
	return c.JSON(devices)
}

// handleFrame returns the latest JPEG frame.
func (s *Server) handleFrame(c *fiber.Ctx) error {
	data, ok := s.svc.Latest()
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no frame captured yet",
		})
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(data)
}

// handleSnapshot persists the latest frame to disk.
func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	path, err := s.svc.SaveSnapshot(s.snapshotDir)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, stream.ErrNoFrame) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"path": path,
	})
}

// handleCameraWS streams binary JPEG frames to the client.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.frameHub, c).Run()
}
