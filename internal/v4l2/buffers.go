package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Buffer type and memory constants. The bridge only ever deals in the
// single-planar capture/output buffer types.
const (
	BufTypeVideoCapture uint32 = C.V4L2_BUF_TYPE_VIDEO_CAPTURE
	BufTypeVideoOutput  uint32 = C.V4L2_BUF_TYPE_VIDEO_OUTPUT

	MemoryMMAP    uint32 = C.V4L2_MEMORY_MMAP
	MemoryUserPtr uint32 = C.V4L2_MEMORY_USERPTR

	BufFlagError uint32 = C.V4L2_BUF_FLAG_ERROR
)

// RequestBuffers mirrors struct v4l2_requestbuffers.
type RequestBuffers struct {
	Count   uint32
	BufType uint32
	Memory  uint32
}

// ReqBufs issues VIDIOC_REQBUFS, requesting count buffers of bufType/memory.
// A count of 0 releases the pool.
func ReqBufs(fd uintptr, bufType, memory, count uint32) (uint32, error) {
	var req C.struct_v4l2_requestbuffers
	req.count = C.uint(count)
	req._type = C.uint(bufType)
	req.memory = C.uint(memory)

	if err := send(fd, C.VIDIOC_REQBUFS, uintptr(unsafe.Pointer(&req))); err != nil {
		return 0, fmt.Errorf("request buffers: %w", err)
	}
	return uint32(req.count), nil
}

// BufferDesc is the subset of struct v4l2_buffer the bridge needs, for
// both MMAP query results and USERPTR/MMAP queue/dequeue operations.
type BufferDesc struct {
	Index     uint32
	BytesUsed uint32
	Flags     uint32
	Offset    uint32 // valid for MMAP, from QueryBuf
	Length    uint32
	UserPtr   uintptr // valid for MEMORY_USERPTR queue requests
}

// QueryBuf issues VIDIOC_QUERYBUF for index, returning the kernel-assigned
// mmap offset and length.
func QueryBuf(fd uintptr, bufType, memory, index uint32) (BufferDesc, error) {
	var buf C.struct_v4l2_buffer
	buf._type = C.uint(bufType)
	buf.memory = C.uint(memory)
	buf.index = C.uint(index)

	if err := send(fd, C.VIDIOC_QUERYBUF, uintptr(unsafe.Pointer(&buf))); err != nil {
		return BufferDesc{}, fmt.Errorf("query buffer %d: %w", index, err)
	}
	offset := *(*uint32)(unsafe.Pointer(&buf.m[0]))
	return BufferDesc{
		Index:  uint32(buf.index),
		Flags:  uint32(buf.flags),
		Offset: offset,
		Length: uint32(buf.length),
	}, nil
}

// QBuf issues VIDIOC_QBUF. For MEMORY_MMAP it queues by index; for
// MEMORY_USERPTR it queues the supplied userptr/length/bytesused.
func QBuf(fd uintptr, bufType, memory uint32, desc BufferDesc) error {
	var buf C.struct_v4l2_buffer
	buf._type = C.uint(bufType)
	buf.memory = C.uint(memory)
	buf.index = C.uint(desc.Index)
	buf.bytesused = C.uint(desc.BytesUsed)

	switch memory {
	case MemoryUserPtr:
		buf.length = C.uint(desc.Length)
		*(*uintptr)(unsafe.Pointer(&buf.m[0])) = desc.UserPtr
	default:
	}

	if err := send(fd, C.VIDIOC_QBUF, uintptr(unsafe.Pointer(&buf))); err != nil {
		return fmt.Errorf("queue buffer %d: %w", desc.Index, err)
	}
	return nil
}

// DQBuf issues VIDIOC_DQBUF, non-blocking (the fd is opened O_NONBLOCK).
// ErrWouldBlock means no buffer was ready; that is not a failure.
func DQBuf(fd uintptr, bufType, memory uint32) (BufferDesc, error) {
	var buf C.struct_v4l2_buffer
	buf._type = C.uint(bufType)
	buf.memory = C.uint(memory)

	if err := send(fd, C.VIDIOC_DQBUF, uintptr(unsafe.Pointer(&buf))); err != nil {
		return BufferDesc{}, err
	}
	return BufferDesc{
		Index:     uint32(buf.index),
		BytesUsed: uint32(buf.bytesused),
		Flags:     uint32(buf.flags),
		Length:    uint32(buf.length),
	}, nil
}
