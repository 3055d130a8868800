package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// FourCC pixel-format constants for the two formats this gadget advertises.
// See https://www.kernel.org/doc/html/latest/userspace-api/media/v4l/pixfmt.html
const (
	PixFmtMJPEG uint32 = C.V4L2_PIX_FMT_MJPEG
	PixFmtYUYV  uint32 = C.V4L2_PIX_FMT_YUYV
)

// FieldAny corresponds to V4L2_FIELD_ANY, used when setting format.
const FieldAny uint32 = C.V4L2_FIELD_ANY

// PixFormat is the subset of v4l2_pix_format this bridge negotiates.
type PixFormat struct {
	Width       uint32
	Height      uint32
	PixelFormat uint32
	Field       uint32
	SizeImage   uint32
}

// GetFormat issues VIDIOC_G_FMT for bufType (capture or output) against fd.
func GetFormat(fd uintptr, bufType uint32) (PixFormat, error) {
	var fmtReq C.struct_v4l2_format
	fmtReq._type = C.uint(bufType)
	if err := send(fd, C.VIDIOC_G_FMT, uintptr(unsafe.Pointer(&fmtReq))); err != nil {
		return PixFormat{}, fmt.Errorf("get format: %w", err)
	}
	pix := (*C.struct_v4l2_pix_format)(unsafe.Pointer(&fmtReq.fmt[0]))
	return PixFormat{
		Width:       uint32(pix.width),
		Height:      uint32(pix.height),
		PixelFormat: uint32(pix.pixelformat),
		Field:       uint32(pix.field),
		SizeImage:   uint32(pix.sizeimage),
	}, nil
}

// SetFormat issues VIDIOC_S_FMT for bufType against fd.
func SetFormat(fd uintptr, bufType uint32, pixFmt PixFormat) (PixFormat, error) {
	var fmtReq C.struct_v4l2_format
	fmtReq._type = C.uint(bufType)
	pix := (*C.struct_v4l2_pix_format)(unsafe.Pointer(&fmtReq.fmt[0]))
	pix.width = C.uint(pixFmt.Width)
	pix.height = C.uint(pixFmt.Height)
	pix.pixelformat = C.uint(pixFmt.PixelFormat)
	pix.field = C.uint(FieldAny)
	pix.sizeimage = C.uint(pixFmt.SizeImage)

	if err := send(fd, C.VIDIOC_S_FMT, uintptr(unsafe.Pointer(&fmtReq))); err != nil {
		return PixFormat{}, fmt.Errorf("set format: %w", err)
	}
	return GetFormat(fd, bufType)
}

// FrameSize returns the packed frame size in bytes for pixfmt at width x
// height: W*H*2 for YUYV, W*H for MJPEG (spec.md 4.3's
// dwMaxVideoFrameSize formula).
func FrameSize(pixfmt, width, height uint32) uint32 {
	if pixfmt == PixFmtYUYV {
		return width * height * 2
	}
	return width * height
}
