// Package stream runs the capture loop: frames come off the camera,
// get JPEG-encoded, and fan out to websocket subscribers through a hub.
package stream

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/pointtoexplain/go-jetcam/internal/log"
	"github.com/pointtoexplain/go-jetcam/pkg/camera"
	"github.com/pointtoexplain/go-jetcam/pkg/debug"
	"github.com/pointtoexplain/go-jetcam/pkg/hub"
)

// ErrNoFrame is returned when no frame has been captured yet.
var ErrNoFrame = errors.New("stream: no frame captured yet")

// maxConsecutiveFailures is how many back-to-back read failures the
// loop tolerates before giving up on the device.
const maxConsecutiveFailures = 30

// readRetryDelay is the pause after a failed read, so a glitching
// device doesn't spin the loop.
const readRetryDelay = 100 * time.Millisecond

// Stats are the service counters exposed over the API.
type Stats struct {
	FramesTotal  uint64  `json:"frames_total"`
	DroppedReads uint64  `json:"dropped_reads"`
	FPS          float64 `json:"fps"`
	UptimeSec    float64 `json:"uptime_sec"`
	CameraOpen   bool    `json:"camera_open"`
	Clients      int     `json:"clients"`
}

// Service owns the camera reader and the capture loop.
type Service struct {
	frameHub *hub.Hub
	mgr      *camera.Manager

	mu     sync.RWMutex
	reader *camera.Reader
	latest []byte

	frames  atomic.Uint64
	dropped atomic.Uint64

	fpsMu       sync.Mutex
	fps         float64
	windowCount int
	windowStart time.Time

	started time.Time
}

// New creates a Service for the given camera configuration.
// The device is not opened until Run.
func New(cfg camera.Config, frameHub *hub.Hub) (*Service, error) {
	reader, err := camera.NewReader(cfg)
	if err != nil {
		return nil, err
	}

	s := &Service{
		frameHub: frameHub,
		reader:   reader,
	}

	s.mgr = camera.NewManager(cfg)
	s.mgr.OnConfigChange = s.applyConfig

	return s, nil
}

// Manager returns the runtime config manager. Updates applied through
// it reopen the camera with the new configuration.
func (s *Service) Manager() *camera.Manager {
	return s.mgr
}

// Run opens the camera and captures frames until ctx is cancelled or
// the device stalls. The camera is released before Run returns.
func (s *Service) Run(ctx context.Context) error {
	s.mu.RLock()
	reader := s.reader
	s.mu.RUnlock()

	if err := reader.Open(); err != nil {
		return err
	}
	defer s.closeReader()

	s.started = time.Now()

	frame := gocv.NewMat()
	defer frame.Close()

	consecutive := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("capture loop stopped", "frames", s.frames.Load())
			return nil
		default:
		}

		s.mu.RLock()
		reader = s.reader
		s.mu.RUnlock()

		if err := reader.Read(&frame); err != nil {
			s.dropped.Add(1)
			consecutive++
			if consecutive >= maxConsecutiveFailures {
				return fmt.Errorf("camera stalled after %d failed reads: %w", consecutive, err)
			}
			time.Sleep(readRetryDelay)
			continue
		}
		consecutive = 0

		data, err := s.encode(frame)
		if err != nil {
			log.Warn("frame encode failed", "err", err)
			continue
		}

		s.mu.Lock()
		s.latest = data
		s.mu.Unlock()

		s.frameHub.BroadcastBinary(data)
		s.countFrame()

		debug.FrameLog("frame %d: %d bytes\n", s.frames.Load(), len(data))
	}
}

// encode compresses a frame to JPEG at the configured quality.
func (s *Service) encode(frame gocv.Mat) ([]byte, error) {
	quality := s.mgr.GetConfig().Quality

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// The buffer is backed by native memory, copy before it's released.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

// Latest returns the most recently captured JPEG frame.
func (s *Service) Latest() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, false
	}
	return s.latest, true
}

// SaveSnapshot writes the latest frame into dir and returns the path.
func (s *Service) SaveSnapshot(dir string) (string, error) {
	data, ok := s.Latest()
	if !ok {
		return "", ErrNoFrame
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%s.jpg", uuid.New().String()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	log.Info("snapshot saved", "path", path, "bytes", len(data))
	return path, nil
}

// Stats returns the current service counters.
func (s *Service) Stats() Stats {
	s.fpsMu.Lock()
	fps := s.fps
	s.fpsMu.Unlock()

	s.mu.RLock()
	open := s.reader.IsOpened()
	s.mu.RUnlock()

	var uptime float64
	if !s.started.IsZero() {
		uptime = time.Since(s.started).Seconds()
	}

	return Stats{
		FramesTotal:  s.frames.Load(),
		DroppedReads: s.dropped.Load(),
		FPS:          fps,
		UptimeSec:    uptime,
		CameraOpen:   open,
		Clients:      s.frameHub.ClientCount(),
	}
}

// applyConfig reopens the camera with a new configuration. The old
// reader keeps serving until the replacement opens successfully.
func (s *Service) applyConfig(cfg camera.Config) error {
	next, err := camera.NewReader(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	wasOpen := s.reader.IsOpened()
	s.mu.Unlock()

	if wasOpen {
		if err := next.Open(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	old := s.reader
	s.reader = next
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		log.Warn("closing replaced camera", "err", err)
	}

	log.Info("camera reconfigured",
		"source", cfg.Source,
		"width", cfg.Width,
		"height", cfg.Height,
		"framerate", cfg.Framerate)
	return nil
}

// closeReader releases whichever reader is current.
func (s *Service) closeReader() {
	s.mu.Lock()
	reader := s.reader
	s.mu.Unlock()

	if err := reader.Close(); err != nil {
		log.Warn("closing camera", "err", err)
	}
}

// countFrame updates the frame counters and the rolling FPS estimate.
func (s *Service) countFrame() {
	s.frames.Add(1)

	s.fpsMu.Lock()
	defer s.fpsMu.Unlock()

	now := time.Now()
	if s.windowStart.IsZero() {
		s.windowStart = now
	}
	s.windowCount++

	if elapsed := now.Sub(s.windowStart); elapsed >= time.Second {
		s.fps = float64(s.windowCount) / elapsed.Seconds()
		s.windowCount = 0
		s.windowStart = now
	}
}
