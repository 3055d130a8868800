package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// StreamOn issues VIDIOC_STREAMON for bufType.
func StreamOn(fd uintptr, bufType uint32) error {
	t := C.uint(bufType)
	if err := send(fd, C.VIDIOC_STREAMON, uintptr(unsafe.Pointer(&t))); err != nil {
		return fmt.Errorf("stream on: %w", err)
	}
	return nil
}

// StreamOff issues VIDIOC_STREAMOFF for bufType.
func StreamOff(fd uintptr, bufType uint32) error {
	t := C.uint(bufType)
	if err := send(fd, C.VIDIOC_STREAMOFF, uintptr(unsafe.Pointer(&t))); err != nil {
		return fmt.Errorf("stream off: %w", err)
	}
	return nil
}
