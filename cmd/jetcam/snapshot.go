package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/pointtoexplain/go-jetcam/pkg/camera"
)

func newSnapshotCmd() *cobra.Command {
	var (
		output    string
		getConfig func() camera.Config
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a single frame to a file",
		Example: `  jetcam snapshot --output frame.jpg
  jetcam snapshot --source usb --width 1920 --height 1080 -o frame.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(getConfig(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "snapshot.jpg", "output file")
	getConfig = cameraFlags(cmd)

	return cmd
}

func runSnapshot(cfg camera.Config, output string) error {
	reader, err := camera.NewReader(cfg)
	if err != nil {
		return err
	}
	if err := reader.Open(); err != nil {
		return err
	}
	defer reader.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	if err := reader.Read(&frame); err != nil {
		return fmt.Errorf("read frame: %w", err)
	}

	if !gocv.IMWrite(output, frame) {
		return fmt.Errorf("write %s failed", output)
	}

	fmt.Printf("saved %s (%dx%d)\n", output, frame.Cols(), frame.Rows())
	return nil
}
