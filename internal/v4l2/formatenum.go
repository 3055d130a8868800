package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	sys "golang.org/x/sys/unix"
)

// FormatDescription is the subset of v4l2_fmtdesc LogAvailableFormats needs
// (spec.md 15's supplemented v4l2_get_available_formats).
type FormatDescription struct {
	Index       uint32
	PixelFormat uint32
	Description string
}

func makeFormatDescription(d C.struct_v4l2_fmtdesc) FormatDescription {
	return FormatDescription{
		Index:       uint32(d.index),
		PixelFormat: uint32(d.pixelformat),
		Description: C.GoString((*C.char)(unsafe.Pointer(&d.description[0]))),
	}
}

// EnumFormats issues VIDIOC_ENUM_FMT for bufType from index 0 until the
// driver returns EINVAL, the same stop condition the teacher's
// GetAllFormatDescriptions uses.
func EnumFormats(fd uintptr, bufType uint32) ([]FormatDescription, error) {
	var result []FormatDescription
	for index := uint32(0); ; index++ {
		var d C.struct_v4l2_fmtdesc
		d.index = C.uint(index)
		d._type = C.uint(bufType)

		err := send(fd, C.VIDIOC_ENUM_FMT, uintptr(unsafe.Pointer(&d)))
		if err != nil {
			if err == sys.EINVAL && len(result) > 0 {
				break
			}
			if err == sys.EINVAL {
				return result, nil
			}
			return result, fmt.Errorf("enum formats: %w", err)
		}
		result = append(result, makeFormatDescription(d))
	}
	return result, nil
}

// FrameSize is one discrete size a driver advertises for a pixel format
// (v4l2_frmsize_discrete, the only frame size type this bridge logs).
type FrameSize struct {
	Width  uint32
	Height uint32
}

// EnumFrameSizes issues VIDIOC_ENUM_FRAMESIZES for encoding from index 0
// until the driver returns EINVAL or reports a non-discrete type, the
// same traversal the teacher's GetFormatFrameSizes uses. Non-discrete
// (stepwise/continuous) frame size ranges are not logged; this bridge
// only needs the largest discrete size the capture device offers.
func EnumFrameSizes(fd uintptr, encoding uint32) ([]FrameSize, error) {
	var result []FrameSize
	for index := uint32(0); ; index++ {
		var e C.struct_v4l2_frmsizeenum
		e.index = C.uint(index)
		e.pixel_format = C.uint(encoding)

		err := send(fd, C.VIDIOC_ENUM_FRAMESIZES, uintptr(unsafe.Pointer(&e)))
		if err != nil {
			if err == sys.EINVAL {
				return result, nil
			}
			return result, fmt.Errorf("enum frame sizes: %w", err)
		}
		if uint32(e._type) != C.V4L2_FRMSIZE_TYPE_DISCRETE {
			break
		}
		discrete := (*struct{ Width, Height C.uint })(unsafe.Pointer(&e.anon0[0]))
		result = append(result, FrameSize{Width: uint32(discrete.Width), Height: uint32(discrete.Height)})
	}
	return result, nil
}
