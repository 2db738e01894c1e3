package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pointtoexplain/go-jetcam/pkg/camera"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List attached video devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := camera.Discover(cmd.Context())
			if err != nil {
				return err
			}

			if len(devices) == 0 {
				fmt.Println("no video devices found")
				return nil
			}

			for _, d := range devices {
				fmt.Printf("%-14s %3d  %s\n", d.Path, d.Index, d.Name)
			}
			return nil
		},
	}
}
