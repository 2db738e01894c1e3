package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/pointtoexplain/go-jetcam/internal/config"
)

func newWatchCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Measure the frame rate of a running jetcam serve",
		Long: `Connects to the websocket frame stream of a running serve
instance and reports the delivered frame rate once per second.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:"+config.DefaultPort, "host:port of the serve instance")
	return cmd
}

func runWatch(ctx context.Context, addr string) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/camera"}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", u.String(), err)
	}
	defer conn.Close()

	fmt.Printf("connected to %s\n", u.String())

	// Unblock the read loop on Ctrl+C.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	frames := 0
	lastSize := 0
	start := time.Now()
	lastReport := start

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				printWatchSummary(frames, time.Since(start))
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		if msgType != websocket.BinaryMessage {
			continue
		}
		frames++
		lastSize = len(data)

		if time.Since(lastReport) >= time.Second {
			elapsed := time.Since(start).Seconds()
			fmt.Printf("\rframes: %d | fps: %.2f | last: %d bytes   ",
				frames, float64(frames)/elapsed, lastSize)
			lastReport = time.Now()
		}
	}
}

func printWatchSummary(frames int, elapsed time.Duration) {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return
	}
	fmt.Printf("\n%d frames in %.1fs = %.2f fps\n", frames, secs, float64(frames)/secs)
}
