package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/pointtoexplain/go-jetcam/pkg/camera"
	"github.com/pointtoexplain/go-jetcam/pkg/hub"
	"github.com/pointtoexplain/go-jetcam/pkg/stream"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	frameHub := hub.New("camera")
	svc, err := stream.New(camera.DefaultConfig(), frameHub)
	if err != nil {
		t.Fatalf("stream.New: %v", err)
	}

	return NewServer("0", t.TempDir(), svc, frameHub)
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stats stream.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.FramesTotal != 0 {
		t.Errorf("FramesTotal = %d, want 0", stats.FramesTotal)
	}
	if stats.CameraOpen {
		t.Error("CameraOpen: got true, camera never opened")
	}
}

func TestHandleGetConfig(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/config", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var cfg camera.Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("config = %dx%d, want defaults 1280x720", cfg.Width, cfg.Height)
	}
}

func TestHandleUpdateConfig(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid update",
			body:       `{"framerate": 15}`,
			wantStatus: 200,
		},
		{
			name:       "preset",
			body:       `{"preset": "480p"}`,
			wantStatus: 200,
		},
		{
			name:       "unknown preset",
			body:       `{"preset": "8k"}`,
			wantStatus: 400,
		},
		{
			name:       "out of range",
			body:       `{"flip_method": 42}`,
			wantStatus: 400,
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			wantStatus: 400,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)

			req := httptest.NewRequest("POST", "/api/config", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.app.Test(req)
			if err != nil {
				t.Fatalf("Test: %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("status = %d, want %d (body: %s)", resp.StatusCode, tc.wantStatus, body)
			}
		})
	}
}

func TestHandleUpdateConfig_Applies(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/config", bytes.NewBufferString(`{"preset": "1080p"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if got := s.svc.Manager().GetConfig(); got.Width != 1920 {
		t.Errorf("config not applied, Width = %d", got.Width)
	}
}

func TestHandlePresets(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/presets", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Names   []string                 `json:"names"`
		Presets map[string]camera.Config `json:"presets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Names) == 0 || len(body.Presets) != len(body.Names) {
		t.Errorf("presets response: %d names, %d presets", len(body.Names), len(body.Presets))
	}
}

func TestHandleFrame_NoFrame(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/frame", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503 before first capture", resp.StatusCode)
	}
}

func TestHandleSnapshot_NoFrame(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/snapshot", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503 before first capture", resp.StatusCode)
	}
}

func TestWebSocketRoute_RequiresUpgrade(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/ws/camera", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 426 {
		t.Errorf("status = %d, want 426 without upgrade headers", resp.StatusCode)
	}
}
