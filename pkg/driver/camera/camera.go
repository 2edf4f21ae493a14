/*
Package camera provides a video camera driver.

Frames are captured in NV12 and handed out as NV21, with any row padding the
device adds removed.

Device Label Generation Rules

On Linux, the device label will be in the format of:
	pci-0000:00:00.0-usb-0:0:0.0-video-index0;video0
If /dev/v4l/by-path/* is not available (for example in a docker container without
bindings in /dev/v4l/by-path/), it will be:
	video0;video0
*/
package camera

// LabelSeparator is used to separate labels for a driver that
// is found from multiple locations on a host.
const LabelSeparator = ";"

// frameStride infers the row stride of a single planar NV12 frame of
// frameLen bytes. Devices that don't pad rows produce exactly width bytes per
// row.
func frameStride(frameLen, width, height int) int {
	rows := height + height/2
	if rows == 0 {
		return width
	}
	if stride := frameLen / rows; stride > width {
		return stride
	}
	return width
}
