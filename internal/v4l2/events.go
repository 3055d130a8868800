package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// RawEvent mirrors struct v4l2_event: a type tag plus an opaque 64-byte
// union payload. The uvc package overlays UVC-specific structures on top
// of Data, the same way the original C source casts `&v4l2_event.u.data`
// to `struct uvc_event *`.
type RawEvent struct {
	Type uint32
	Data [64]byte
}

// SubscribeEvent issues VIDIOC_SUBSCRIBE_EVENT for eventType.
func SubscribeEvent(fd uintptr, eventType uint32) error {
	var sub C.struct_v4l2_event_subscription
	sub._type = C.uint(eventType)
	if err := send(fd, C.VIDIOC_SUBSCRIBE_EVENT, uintptr(unsafe.Pointer(&sub))); err != nil {
		return fmt.Errorf("subscribe event %d: %w", eventType, err)
	}
	return nil
}

// DequeueEvent issues VIDIOC_DQEVENT. ErrWouldBlock means no event was pending.
func DequeueEvent(fd uintptr) (RawEvent, error) {
	var ev C.struct_v4l2_event
	if err := send(fd, C.VIDIOC_DQEVENT, uintptr(unsafe.Pointer(&ev))); err != nil {
		return RawEvent{}, err
	}
	out := RawEvent{Type: uint32(ev._type)}
	copy(out.Data[:], (*[64]byte)(unsafe.Pointer(&ev.u[0]))[:])
	return out, nil
}
