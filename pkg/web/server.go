// Package web exposes the camera service over HTTP and websocket.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/pointtoexplain/go-jetcam/internal/log"
	"github.com/pointtoexplain/go-jetcam/pkg/hub"
	"github.com/pointtoexplain/go-jetcam/pkg/stream"
)

// Server is the camera HTTP/websocket server.
type Server struct {
	app  *fiber.App
	port string

	svc         *stream.Service
	frameHub    *hub.Hub
	snapshotDir string
}

// NewServer creates the server and wires up the routes.
func NewServer(port, snapshotDir string, svc *stream.Service, frameHub *hub.Hub) *Server {
	s := &Server{
		port:        port,
		svc:         svc,
		frameHub:    frameHub,
		snapshotDir: snapshotDir,
	}

	app := fiber.New(fiber.Config{
		AppName:               "jetcam",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleGetConfig)
	api.Post("/config", s.handleUpdateConfig)
	api.Get("/presets", s.handlePresets)
	api.Get("/capabilities", s.handleCapabilities)
	api.Get("/devices", s.handleDevices)
	api.Get("/frame", s.handleFrame)
	api.Post("/snapshot", s.handleSnapshot)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start starts the web server and blocks.
func (s *Server) Start() error {
	log.Info("camera API listening", "addr", "http://localhost:"+s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
