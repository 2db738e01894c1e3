package camera

import "fmt"

// CSIPipeline renders the GStreamer pipeline for a CSI sensor.
// nvarguscamerasrc captures NV12 into NVMM memory, nvvidconv handles
// the flip and the copy out of NVMM, and videoconvert delivers BGR to
// the appsink, which is what the capture API expects.
func (c Config) CSIPipeline() string {
	return fmt.Sprintf(
		"nvarguscamerasrc sensor-id=%d ! "+
			"video/x-raw(memory:NVMM), "+
			"width=(int)%d, height=(int)%d, "+
			"format=(string)NV12, framerate=(fraction)%d/1 ! "+
			"nvvidconv flip-method=%d ! "+
			"video/x-raw, width=(int)%d, height=(int)%d, "+
			"format=(string)BGRx ! "+
			"videoconvert ! "+
			"video/x-raw, format=(string)BGR ! "+
			"appsink",
		c.Device,
		c.Width, c.Height, c.Framerate,
		c.FlipMethod,
		c.Width, c.Height,
	)
}
