package camera

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("camera: invalid config")

	// ErrNotOpened is returned when reading from a camera that has not
	// been opened or has been closed.
	ErrNotOpened = errors.New("camera: not opened")

	// ErrOpenFailed is returned when the device refuses to open.
	ErrOpenFailed = errors.New("camera: device did not open")

	// ErrReadFailed is returned when the device delivers no frame.
	ErrReadFailed = errors.New("camera: frame read failed")
)
