package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Capability bit constants, the subset the endpoint layer checks.
// See https://elixir.bootlin.com/linux/latest/source/include/uapi/linux/videodev2.h#L451
const (
	CapVideoCapture uint32 = C.V4L2_CAP_VIDEO_CAPTURE
	CapVideoOutput  uint32 = C.V4L2_CAP_VIDEO_OUTPUT
	CapStreaming    uint32 = C.V4L2_CAP_STREAMING
)

// Capability mirrors struct v4l2_capability (the fields this bridge consults).
type Capability struct {
	Driver       string
	Card         string
	BusInfo      string
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
}

// HasCapability reports whether the device-level (or, if set, the
// device-specific) capability bitset contains all of want.
func (c Capability) HasCapability(want uint32) bool {
	caps := c.Capabilities
	if c.DeviceCaps != 0 && c.Capabilities&C.V4L2_CAP_DEVICE_CAPS != 0 {
		caps = c.DeviceCaps
	}
	return caps&want == want
}

// GetCapability issues VIDIOC_QUERYCAP against fd.
func GetCapability(fd uintptr) (Capability, error) {
	var cap C.struct_v4l2_capability
	if err := send(fd, C.VIDIOC_QUERYCAP, uintptr(unsafe.Pointer(&cap))); err != nil {
		return Capability{}, fmt.Errorf("query capability: %w", err)
	}
	return Capability{
		Driver:       C.GoString((*C.char)(unsafe.Pointer(&cap.driver[0]))),
		Card:         C.GoString((*C.char)(unsafe.Pointer(&cap.card[0]))),
		BusInfo:      C.GoString((*C.char)(unsafe.Pointer(&cap.bus_info[0]))),
		Version:      uint32(cap.version),
		Capabilities: uint32(cap.capabilities),
		DeviceCaps:   uint32(cap.device_caps),
	}, nil
}
