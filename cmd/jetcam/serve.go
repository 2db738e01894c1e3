package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pointtoexplain/go-jetcam/internal/config"
	"github.com/pointtoexplain/go-jetcam/internal/log"
	"github.com/pointtoexplain/go-jetcam/pkg/camera"
	"github.com/pointtoexplain/go-jetcam/pkg/hub"
	"github.com/pointtoexplain/go-jetcam/pkg/stream"
	"github.com/pointtoexplain/go-jetcam/pkg/web"
)

func newServeCmd() *cobra.Command {
	var (
		port         string
		snapshotDir  string
		settingsPath string
		getConfig    func() camera.Config
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the camera service with the HTTP/websocket API",
		Long: `Captures frames continuously and serves them over HTTP and
websocket. The camera configuration can be changed at runtime through
POST /api/config; the device is reopened with the new settings.`,
		Example: `  # Serve the first CSI sensor on the default port
  jetcam serve

  # USB camera with a settings file
  jetcam serve --config jetcam.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			settings.Camera = getConfig()

			// A settings file replaces the flag-derived camera
			// config; --port and --snapshot-dir still win when
			// set explicitly.
			if settingsPath != "" {
				loaded, err := config.LoadSettings(settingsPath)
				if err != nil {
					return err
				}
				settings = loaded
			}
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}
			if cmd.Flags().Changed("snapshot-dir") {
				settings.SnapshotDir = snapshotDir
			}

			return runServe(cmd, settings)
		},
	}

	cmd.Flags().StringVar(&port, "port", config.Port(config.DefaultPort), "API port")
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", config.DefaultSnapshotDir, "directory for saved snapshots")
	cmd.Flags().StringVar(&settingsPath, "config", "", "YAML settings file")
	getConfig = cameraFlags(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, settings config.Settings) error {
	frameHub := hub.New("camera")

	svc, err := stream.New(settings.Camera, frameHub)
	if err != nil {
		return err
	}

	server := web.NewServer(settings.Port, settings.SnapshotDir, svc, frameHub)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go frameHub.Run(ctx)

	errCh := make(chan error, 2)
	go func() { errCh <- svc.Run(ctx) }()
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			stop()
			server.Shutdown()
			return err
		}
	}

	return server.Shutdown()
}
