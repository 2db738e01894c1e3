// Package camera provides configurable frame capture for Jetson-class
// edge devices. It supports CSI sensors through a hardware-accelerated
// GStreamer pipeline and generic USB (UVC) cameras through the standard
// capture API.
package camera

// Source selects the capture backend.
type Source string

const (
	// SourceCSI is a Camera Serial Interface sensor (IMX219 and similar),
	// captured through nvarguscamerasrc.
	SourceCSI Source = "csi"

	// SourceUSB is a UVC device captured through the generic API.
	SourceUSB Source = "usb"
)

// Flip methods understood by nvvidconv.
const (
	FlipNone       = 0
	FlipRotateCCW  = 1
	FlipRotate180  = 2
	FlipRotateCW   = 3
	FlipHorizontal = 4
	FlipUpperRight = 5
	FlipVertical   = 6
	FlipUpperLeft  = 7
)

// Sensor capabilities for the IMX219 camera module.
const (
	SensorMaxWidth     = 3280
	SensorMaxHeight    = 2464
	SensorMaxFramerate = 120
)

// Config holds all camera configuration parameters.
// These can be modified via the camera API at runtime.
type Config struct {
	// Source selects the backend: "csi" or "usb".
	Source Source `json:"source" yaml:"source"`

	// Device is the CSI sensor id or USB device index (0 for the first
	// camera, 1 for the second, and so on).
	Device int `json:"device" yaml:"device"`

	// === Resolution ===
	Width     int `json:"width" yaml:"width"`         // Frame width in pixels
	Height    int `json:"height" yaml:"height"`       // Frame height in pixels
	Framerate int `json:"framerate" yaml:"framerate"` // Target FPS

	// FlipMethod rotates or mirrors CSI frames in hardware (0-7,
	// nvvidconv semantics). Ignored for USB cameras.
	FlipMethod int `json:"flip_method" yaml:"flip_method"`

	// Quality is the JPEG quality (1-100) used by the streaming encoder.
	Quality int `json:"quality" yaml:"quality"`
}

// DefaultConfig returns the recommended configuration: the first CSI
// sensor at 720p30, no flip.
func DefaultConfig() Config {
	return Config{
		Source:     SourceCSI,
		Device:     0,
		Width:      1280,
		Height:     720,
		Framerate:  30,
		FlipMethod: FlipNone,
		Quality:    85,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Source != SourceCSI && c.Source != SourceUSB {
		errors = append(errors, "source must be csi or usb")
	}

	if c.Device < 0 {
		errors = append(errors, "device must be >= 0")
	}

	if c.Width < 160 || c.Width > SensorMaxWidth {
		errors = append(errors, "width must be between 160 and 3280")
	}
	if c.Height < 120 || c.Height > SensorMaxHeight {
		errors = append(errors, "height must be between 120 and 2464")
	}
	if c.Framerate < 1 || c.Framerate > SensorMaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}

	if c.FlipMethod < FlipNone || c.FlipMethod > FlipUpperLeft {
		errors = append(errors, "flip_method must be between 0 and 7")
	}

	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}

// Capabilities returns the camera sensor capabilities.
func Capabilities() map[string]interface{} {
	return map[string]interface{}{
		"sensor":        "imx219",
		"max_width":     SensorMaxWidth,
		"max_height":    SensorMaxHeight,
		"max_framerate": SensorMaxFramerate,
		"sources":       []string{string(SourceCSI), string(SourceUSB)},
		"flip_methods":  []int{0, 1, 2, 3, 4, 5, 6, 7},
	}
}
