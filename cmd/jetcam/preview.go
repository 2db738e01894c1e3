package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/pointtoexplain/go-jetcam/internal/log"
	"github.com/pointtoexplain/go-jetcam/pkg/camera"
)

func newPreviewCmd() *cobra.Command {
	var getConfig func() camera.Config

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the live camera feed in a window",
		Long: `Opens the camera and displays frames in a window with a
running frame counter.

Key bindings:
  q  quit
  s  save a snapshot (snapshot_NNN.jpg in the working directory)`,
		Example: `  # Preview the first CSI sensor at the defaults
  jetcam preview

  # USB camera at 1080p, rotated 180 degrees
  jetcam preview --source usb --device 0 --width 1920 --height 1080 --flip 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(getConfig())
		},
	}

	getConfig = cameraFlags(cmd)
	return cmd
}

func runPreview(cfg camera.Config) error {
	reader, err := camera.NewReader(cfg)
	if err != nil {
		return err
	}
	if err := reader.Open(); err != nil {
		return err
	}
	defer reader.Close()

	window := gocv.NewWindow("jetcam preview")
	defer window.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	green := color.RGBA{G: 255}
	frameCount := 0
	snapshots := 0

	for {
		if err := reader.Read(&frame); err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		frameCount++

		gocv.PutText(&frame, fmt.Sprintf("Frame: %d", frameCount),
			image.Pt(10, 30), gocv.FontHersheySimplex, 1, green, 2)

		window.IMShow(frame)

		switch window.WaitKey(1) {
		case 'q':
			log.Info("preview stopped", "frames", frameCount)
			return nil
		case 's':
			name := fmt.Sprintf("snapshot_%03d.jpg", snapshots)
			if !gocv.IMWrite(name, frame) {
				log.Warn("snapshot write failed", "file", name)
				continue
			}
			fmt.Printf("saved %s\n", name)
			snapshots++
		}
	}
}
