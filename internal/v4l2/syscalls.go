package v4l2

import (
	"fmt"

	sys "golang.org/x/sys/unix"
)

// OpenDevice opens path non-blocking, read-write, the same posture the
// teacher's v4l2.OpenDevice uses in place of os.OpenFile (some drivers
// return EBUSY against the Go stdlib's open flags).
func OpenDevice(path string) (uintptr, error) {
	fd, err := sys.Openat(sys.AT_FDCWD, path, sys.O_RDWR|sys.O_NONBLOCK, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}
	return uintptr(fd), nil
}

// CloseDevice closes the device file descriptor.
func CloseDevice(fd uintptr) error {
	return sys.Close(int(fd))
}

// ioctl is a thin wrapper around Syscall(SYS_IOCTL), retrying on EINTR.
func ioctl(fd, req, arg uintptr) sys.Errno {
	for {
		_, _, errno := sys.Syscall(sys.SYS_IOCTL, fd, req, arg)
		if errno == sys.EINTR {
			continue
		}
		return errno
	}
}

// send issues an ioctl and translates the errno into a Go error, or nil on success.
func send(fd, req, arg uintptr) error {
	errno := ioctl(fd, req, arg)
	if errno == 0 {
		return nil
	}
	if errno == sys.ENODEV {
		return ErrNoDevice
	}
	if errno == sys.EAGAIN || errno == sys.EWOULDBLOCK {
		return ErrWouldBlock
	}
	return errno
}

// MapBuffer mmaps length bytes of the device's streaming memory at offset.
func MapBuffer(fd uintptr, offset int64, length int) ([]byte, error) {
	return sys.Mmap(int(fd), offset, length, sys.PROT_READ|sys.PROT_WRITE, sys.MAP_SHARED)
}

// UnmapBuffer releases memory mapped by MapBuffer.
func UnmapBuffer(b []byte) error {
	return sys.Munmap(b)
}
