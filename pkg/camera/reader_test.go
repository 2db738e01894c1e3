package camera

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

// fakeCapture implements the capture interface without hardware.
type fakeCapture struct {
	opened     bool
	readOK     bool
	props      map[gocv.VideoCaptureProperties]float64
	closeCalls int
}

func newFakeCapture() *fakeCapture {
	return &fakeCapture{
		opened: true,
		readOK: true,
		props:  make(map[gocv.VideoCaptureProperties]float64),
	}
}

func (f *fakeCapture) IsOpened() bool { return f.opened }

func (f *fakeCapture) Read(dst *gocv.Mat) bool {
	if !f.readOK {
		return false
	}
	frame := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.CopyTo(dst)
	return true
}

func (f *fakeCapture) Set(p gocv.VideoCaptureProperties, v float64) {
	f.props[p] = v
}

func (f *fakeCapture) Close() error {
	f.closeCalls++
	f.opened = false
	return nil
}

// swapBackend replaces the capture opener for the duration of a test.
func swapBackend(t *testing.T, open func(Config) (capture, error)) {
	t.Helper()
	orig := openBackend
	openBackend = open
	t.Cleanup(func() { openBackend = orig })
}

func usbConfig() Config {
	cfg := DefaultConfig()
	cfg.Source = SourceUSB
	return cfg
}

func TestNewReader_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0

	_, err := NewReader(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewReader: got %v, want ErrInvalidConfig", err)
	}
}

func TestReader_OpenCSI(t *testing.T) {
	fake := newFakeCapture()
	var gotCfg Config
	swapBackend(t, func(cfg Config) (capture, error) {
		gotCfg = cfg
		return fake, nil
	})

	r, err := NewReader(DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	if err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !r.IsOpened() {
		t.Error("IsOpened: got false after Open")
	}
	if gotCfg.Source != SourceCSI {
		t.Errorf("backend opened with source %q, want csi", gotCfg.Source)
	}

	// CSI bakes resolution into the pipeline, no properties are set.
	if len(fake.props) != 0 {
		t.Errorf("CSI open set %d properties, want 0", len(fake.props))
	}
}

func TestReader_OpenUSB_SetsProperties(t *testing.T) {
	fake := newFakeCapture()
	swapBackend(t, func(Config) (capture, error) { return fake, nil })

	cfg := usbConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	cfg.Framerate = 60

	r, err := NewReader(cfg)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if got := fake.props[gocv.VideoCaptureFrameWidth]; got != 1920 {
		t.Errorf("frame width property = %v, want 1920", got)
	}
	if got := fake.props[gocv.VideoCaptureFrameHeight]; got != 1080 {
		t.Errorf("frame height property = %v, want 1080", got)
	}
	if got := fake.props[gocv.VideoCaptureFPS]; got != 60 {
		t.Errorf("fps property = %v, want 60", got)
	}
}

func TestReader_OpenFailure(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		swapBackend(t, func(Config) (capture, error) {
			return nil, errors.New("no such device")
		})

		r, _ := NewReader(usbConfig())
		if err := r.Open(); err == nil {
			t.Error("Open: expected error from backend")
		}
		if r.IsOpened() {
			t.Error("IsOpened: got true after failed Open")
		}
	})

	t.Run("device did not open", func(t *testing.T) {
		fake := newFakeCapture()
		fake.opened = false
		swapBackend(t, func(Config) (capture, error) { return fake, nil })

		r, _ := NewReader(usbConfig())
		err := r.Open()
		if !errors.Is(err, ErrOpenFailed) {
			t.Errorf("Open: got %v, want ErrOpenFailed", err)
		}
		if fake.closeCalls != 1 {
			t.Errorf("half-open handle closed %d times, want 1", fake.closeCalls)
		}
	})
}

func TestReader_OpenTwice(t *testing.T) {
	opens := 0
	swapBackend(t, func(Config) (capture, error) {
		opens++
		return newFakeCapture(), nil
	})

	r, _ := NewReader(usbConfig())
	if err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Open(); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if opens != 1 {
		t.Errorf("backend opened %d times, want 1", opens)
	}
}

func TestReader_ReadSuccess(t *testing.T) {
	swapBackend(t, func(Config) (capture, error) { return newFakeCapture(), nil })

	r, _ := NewReader(usbConfig())
	if err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if err := r.Read(&frame); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if frame.Cols() != 1280 || frame.Rows() != 720 {
		t.Errorf("frame size = %dx%d, want 1280x720", frame.Cols(), frame.Rows())
	}
}

func TestReader_ReadFailure(t *testing.T) {
	fake := newFakeCapture()
	fake.readOK = false
	swapBackend(t, func(Config) (capture, error) { return fake, nil })

	r, _ := NewReader(usbConfig())
	if err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if err := r.Read(&frame); !errors.Is(err, ErrReadFailed) {
		t.Errorf("Read: got %v, want ErrReadFailed", err)
	}
}

func TestReader_ReadWithoutOpen(t *testing.T) {
	r, _ := NewReader(usbConfig())

	frame := gocv.NewMat()
	defer frame.Close()

	if err := r.Read(&frame); !errors.Is(err, ErrNotOpened) {
		t.Errorf("Read: got %v, want ErrNotOpened", err)
	}
}

func TestReader_CloseIdempotent(t *testing.T) {
	fake := newFakeCapture()
	swapBackend(t, func(Config) (capture, error) { return fake, nil })

	r, _ := NewReader(usbConfig())
	if err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if fake.closeCalls != 1 {
		t.Errorf("capture closed %d times, want 1", fake.closeCalls)
	}

	// Reading after Close behaves like never-opened.
	frame := gocv.NewMat()
	defer frame.Close()
	if err := r.Read(&frame); !errors.Is(err, ErrNotOpened) {
		t.Errorf("Read after Close: got %v, want ErrNotOpened", err)
	}
}

func TestReader_FrameSize(t *testing.T) {
	cfg := usbConfig()
	cfg.Width = 1920
	cfg.Height = 1080

	r, _ := NewReader(cfg)
	w, h := r.FrameSize()
	if w != 1920 || h != 1080 {
		t.Errorf("FrameSize = %dx%d, want 1920x1080", w, h)
	}
}
