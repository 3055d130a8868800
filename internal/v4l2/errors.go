package v4l2

import "errors"

// Error taxonomy for the capture/output device layer. Mirrors the
// sentinel-error style of the teacher's v4l2/errors.go: callers compare
// with errors.Is rather than switching on raw errno values.
var (
	// ErrOpenFailed means the device node could not be opened non-blocking read-write.
	ErrOpenFailed = errors.New("v4l2: open failed")

	// ErrWrongCapability means the device's reported capability bitset
	// lacks streaming or the role-appropriate direction.
	ErrWrongCapability = errors.New("v4l2: wrong capability")

	// ErrBusy means a format change was attempted while streaming.
	ErrBusy = errors.New("v4l2: device busy (streaming)")

	// ErrTooFewBuffers means a nonzero buffer count below the minimum usable count was requested.
	ErrTooFewBuffers = errors.New("v4l2: too few buffers")

	// ErrWouldBlock means a non-blocking operation had nothing ready; not a failure.
	ErrWouldBlock = errors.New("v4l2: would block")

	// ErrNoDevice means the kernel reported ENODEV, the usual signature of a host-initiated disconnect.
	ErrNoDevice = errors.New("v4l2: no such device")
)
