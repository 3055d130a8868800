package uvc

import (
	"errors"
	"fmt"

	sys "golang.org/x/sys/unix"
)

// ioctlSend issues the ioctl, retrying on EINTR, the same convention
// internal/v4l2/syscalls.go uses for the capture side.
func ioctlSend(fd, req, arg uintptr) error {
	for {
		_, _, errno := sys.Syscall(sys.SYS_IOCTL, fd, req, arg)
		switch errno {
		case 0:
			return nil
		case sys.EINTR:
			continue
		case sys.ENODEV:
			return fmt.Errorf("uvc ioctl: %w", errors.New("no such device"))
		default:
			return fmt.Errorf("uvc ioctl %#x: %w", req, errno)
		}
	}
}
