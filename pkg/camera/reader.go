package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/pointtoexplain/go-jetcam/internal/log"
)

// capture is the slice of the gocv.VideoCapture API the Reader needs.
// Tests swap in a fake so the package can be exercised without hardware.
type capture interface {
	IsOpened() bool
	Read(*gocv.Mat) bool
	Set(gocv.VideoCaptureProperties, float64)
	Close() error
}

// openBackend opens the underlying capture handle for a Config.
// CSI sensors go through the GStreamer pipeline; USB devices open by
// index and have their properties applied afterwards.
var openBackend = func(cfg Config) (capture, error) {
	if cfg.Source == SourceCSI {
		return gocv.OpenVideoCaptureWithAPI(cfg.CSIPipeline(), gocv.VideoCaptureGstreamer)
	}
	return gocv.OpenVideoCapture(cfg.Device)
}

// Reader captures frames from a single camera. All methods are safe for
// concurrent use; the underlying handle is guarded by a mutex.
type Reader struct {
	cfg Config

	mu     sync.Mutex
	cap    capture
	opened bool
}

// NewReader creates a Reader for the given configuration.
// The device is not touched until Open is called.
func NewReader(cfg Config) (*Reader, error) {
	if violations := cfg.Validate(); len(violations) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, violations)
	}
	return &Reader{cfg: cfg}, nil
}

// Open acquires the capture device. Opening an already-open reader is a
// no-op.
func (r *Reader) Open() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.opened {
		return nil
	}

	cap, err := openBackend(r.cfg)
	if err != nil {
		return fmt.Errorf("open %s camera %d: %w", r.cfg.Source, r.cfg.Device, err)
	}

	if !cap.IsOpened() {
		cap.Close()
		return fmt.Errorf("open %s camera %d: %w", r.cfg.Source, r.cfg.Device, ErrOpenFailed)
	}

	// USB devices negotiate resolution and framerate via properties.
	// For CSI both are baked into the pipeline caps.
	if r.cfg.Source == SourceUSB {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(r.cfg.Width))
		cap.Set(gocv.VideoCaptureFrameHeight, float64(r.cfg.Height))
		cap.Set(gocv.VideoCaptureFPS, float64(r.cfg.Framerate))
	}

	r.cap = cap
	r.opened = true

	log.Info("camera opened",
		"source", r.cfg.Source,
		"device", r.cfg.Device,
		"width", r.cfg.Width,
		"height", r.cfg.Height,
		"framerate", r.cfg.Framerate)

	return nil
}

// Read captures the next frame into dst. The call blocks until the
// device delivers a frame or fails.
func (r *Reader) Read(dst *gocv.Mat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.opened {
		return ErrNotOpened
	}

	if ok := r.cap.Read(dst); !ok {
		return ErrReadFailed
	}
	if dst.Empty() {
		return ErrReadFailed
	}

	return nil
}

// Close releases the capture device. Closing a closed reader is a no-op.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.opened {
		return nil
	}

	err := r.cap.Close()
	r.cap = nil
	r.opened = false

	log.Info("camera released", "source", r.cfg.Source, "device", r.cfg.Device)
	return err
}

// IsOpened reports whether the device is currently open.
func (r *Reader) IsOpened() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opened
}

// FrameSize returns the configured frame dimensions.
func (r *Reader) FrameSize() (width, height int) {
	return r.cfg.Width, r.cfg.Height
}

// Config returns the configuration the reader was created with.
func (r *Reader) Config() Config {
	return r.cfg
}
