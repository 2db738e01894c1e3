package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pointtoexplain/go-jetcam/internal/config"
	"github.com/pointtoexplain/go-jetcam/internal/log"
	"github.com/pointtoexplain/go-jetcam/pkg/camera"
	"github.com/pointtoexplain/go-jetcam/pkg/debug"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jetcam",
		Short: "Camera capture toolkit for Jetson-class edge devices",
		Long: `jetcam captures frames from CSI sensors (through the
hardware-accelerated nvarguscamerasrc pipeline) and USB cameras.

It can preview the feed in a window, serve frames over HTTP and
websocket, list attached video devices, and grab one-shot snapshots.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			log.Init(config.LogLevel())
		},
	}

	cmd.PersistentFlags().BoolVar(&debug.Enabled, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&debug.Frames, "debug-frames", false, "log every captured frame (very verbose)")

	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDevicesCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

// cameraFlags registers the shared camera flags on cmd and returns a
// builder for the resulting Config. Env vars provide the defaults so
// flags always win.
func cameraFlags(cmd *cobra.Command) func() camera.Config {
	cfg := camera.DefaultConfig()
	source := config.Source(string(cfg.Source))

	cmd.Flags().StringVar(&source, "source", source, "camera source: csi or usb")
	cmd.Flags().IntVar(&cfg.Device, "device", config.Device(cfg.Device), "sensor id or device index")
	cmd.Flags().IntVar(&cfg.Width, "width", cfg.Width, "frame width in pixels")
	cmd.Flags().IntVar(&cfg.Height, "height", cfg.Height, "frame height in pixels")
	cmd.Flags().IntVar(&cfg.Framerate, "fps", cfg.Framerate, "frames per second")
	cmd.Flags().IntVar(&cfg.FlipMethod, "flip", cfg.FlipMethod, "flip method for CSI cameras (0-7)")
	cmd.Flags().IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality (1-100)")

	return func() camera.Config {
		cfg.Source = camera.Source(source)
		return cfg
	}
}
