package camera

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DeviceInfo describes a discovered video device.
type DeviceInfo struct {
	Path  string `json:"path"`  // e.g. /dev/video0
	Index int    `json:"index"` // device index for Config.Device
	Name  string `json:"name"`  // card name when v4l2-ctl is available
}

var videoDevRe = regexp.MustCompile(`video(\d+)$`)

// Discover scans /dev/video* for readable capture devices, ordered by
// index. The card name is resolved through v4l2-ctl when the tool is
// installed; a generated name is used otherwise.
func Discover(ctx context.Context) ([]DeviceInfo, error) {
	matches, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, fmt.Errorf("scan devices: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return deviceIndex(matches[i]) < deviceIndex(matches[j])
	})

	var devices []DeviceInfo
	for _, path := range matches {
		select {
		case <-ctx.Done():
			return devices, ctx.Err()
		default:
		}

		if !deviceReadable(path) {
			continue
		}

		idx := deviceIndex(path)
		name := cardName(ctx, path)
		if name == "" {
			name = fmt.Sprintf("camera %d", idx)
		}

		devices = append(devices, DeviceInfo{
			Path:  path,
			Index: idx,
			Name:  name,
		})
	}

	return devices, nil
}

// deviceReadable checks the device node exists and can be opened.
func deviceReadable(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return false
	}
	f.Close()

	return true
}

// cardName asks v4l2-ctl for the device's card type line.
// Returns "" when the tool is missing or the device has no name.
func cardName(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "v4l2-ctl", "--device", path, "--info").Output()
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Card type") {
			if parts := strings.SplitN(line, ":", 2); len(parts) == 2 {
				return strings.TrimSpace(parts[1])
			}
		}
	}

	return ""
}

// deviceIndex extracts the numeric index from a /dev/videoN path.
func deviceIndex(path string) int {
	m := videoDevRe.FindStringSubmatch(path)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
