package bridge

import (
	"errors"
	"log"
	"time"
	"unsafe"

	sys "golang.org/x/sys/unix"

	"uvcbridge/internal/statemachine"
	"uvcbridge/internal/uvc"
	"uvcbridge/internal/v4l2"
)

var logger = log.New(log.Writer(), "bridge: ", log.LstdFlags)

// ErrStall is returned when the readiness wait times out while streaming
// (spec.md 7's Stall: fatal to the loop, clean shutdown).
var ErrStall = errors.New("bridge: capture stall")

const idleSleep = time.Millisecond
const streamingTimeout = time.Second

// Run executes the Bridge Event Loop until termination or a fatal error
// (spec.md 4.4). On return, both endpoints have been stream-off'd, their
// pools released, and closed.
func Run(ctx *Context) error {
	defer shutdown(ctx)

	if err := subscribeAll(ctx.UDev); err != nil {
		return err
	}

	var fpsCount int
	fpsTick := time.Now()

	for {
		if ctx.Terminating() {
			return nil
		}

		time.Sleep(idleSleep)

		ready, err := wait(ctx)
		if err != nil {
			if errors.Is(err, sys.EINTR) {
				continue
			}
			if errors.Is(err, ErrStall) {
				logger.Printf("stall: readiness wait timed out while streaming")
				return nil
			}
			return err
		}

		if ready.exceptional {
			if err := handleEvent(ctx); err != nil {
				logger.Printf("event handling: %v", err)
			}
		}

		if ctx.VDev.IsStreaming {
			if ready.writable {
				if shuttled, err := shuttleUVCToCapture(ctx); err != nil {
					logger.Printf("shuttle uvc->capture: %v", err)
				} else if shuttled && ctx.ShowFPS {
					// buffer returned to capture; no frame counted here,
					// only forward shuttles count toward FPS.
				}
			}
			if ready.readable {
				queued := ctx.UDev.Pool.QBufCount
				if err := shuttleCaptureToUVC(ctx); err != nil {
					logger.Printf("shuttle capture->uvc: %v", err)
				} else if ctx.ShowFPS && ctx.UDev.Pool.QBufCount > queued {
					fpsCount++
				}
			}
		}

		if ctx.ShowFPS && time.Since(fpsTick) >= time.Second {
			logger.Printf("fps: %d", fpsCount)
			fpsCount = 0
			fpsTick = time.Now()
		}
	}
}

type readiness struct {
	exceptional bool
	writable    bool
	readable    bool
}

// wait issues the single readiness wait per loop turn (spec.md 4.4 step 2).
func wait(ctx *Context) (readiness, error) {
	udevFd := int(ctx.UDev.Fd())
	vdevFd := int(ctx.VDev.Fd())

	var r, w, e sys.FdSet
	fdSet(&e, udevFd)
	fdSet(&w, udevFd)

	nfd := udevFd + 1
	if ctx.VDev.IsStreaming {
		fdSet(&r, vdevFd)
		if vdevFd+1 > nfd {
			nfd = vdevFd + 1
		}
		tv := sys.NsecToTimeval(streamingTimeout.Nanoseconds())
		n, err := sys.Select(nfd, &r, &w, &e, &tv)
		if err != nil {
			return readiness{}, err
		}
		if n == 0 {
			return readiness{}, ErrStall
		}
	} else {
		n, err := sys.Select(nfd, nil, &w, &e, nil)
		if err != nil {
			return readiness{}, err
		}
		_ = n
	}

	return readiness{
		exceptional: fdIsSet(&e, udevFd),
		writable:    fdIsSet(&w, udevFd),
		readable:    ctx.VDev.IsStreaming && fdIsSet(&r, vdevFd),
	}, nil
}

func fdSet(set *sys.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdIsSet(set *sys.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}

// handleEvent dequeues one UVC event and dispatches it (spec.md 4.4 step 4).
func handleEvent(ctx *Context) error {
	ev, err := ctx.UDev.DequeueEvent()
	if err != nil {
		if errors.Is(err, v4l2.ErrWouldBlock) {
			return nil
		}
		return err
	}

	switch uvc.EventKind(ev.Type) {
	case uvc.EventConnect:
		// no-op
	case uvc.EventDisconnect:
		ctx.ShutdownRequested = true
	case uvc.EventSetup:
		req := uvc.ParseSetup(ev.Data)
		resp, ok := statemachine.HandleSetup(ctx.UDev, req, ctx.Inventory, ctx.Inventory.Params, ctx.Rows)
		if ok {
			if err := uvc.SendResponse(ctx.UDev.Fd(), resp); err != nil {
				return err
			}
		}
	case uvc.EventData:
		data := uvc.ParseData(ev.Data)
		statemachine.HandleData(ctx.UDev, ctx.VDev, data, ctx.Inventory, ctx.Inventory.Params, ctx.Rows)
	case uvc.EventStreamOn:
		return handleStreamOn(ctx)
	case uvc.EventStreamOff:
		return handleStreamOff(ctx)
	}
	return nil
}

// handleStreamOn requests buffer pools (capture MMAP, UVC USERPTR), maps
// and enqueues capture buffers, and streams on capture (spec.md 4.4 step 4).
func handleStreamOn(ctx *Context) error {
	// A fresh STREAMON ends any shutdown drain.
	ctx.ShutdownRequested = false

	bufferCount := ctx.BufferCount
	if bufferCount == 0 {
		bufferCount = 4
	}

	if err := ctx.VDev.RequestBuffers(bufferCount, v4l2.MemoryMMAP); err != nil {
		return err
	}
	if err := ctx.UDev.RequestBuffers(bufferCount, v4l2.MemoryUserPtr); err != nil {
		return err
	}

	for i, m := range ctx.VDev.Pool.Mapped {
		if err := ctx.VDev.Queue(v4l2.BufferDesc{Index: uint32(i), Length: m.Length}); err != nil {
			return err
		}
	}
	if err := ctx.VDev.StreamOn(); err != nil {
		return err
	}
	ctx.Status.Set(true)
	return nil
}

// handleStreamOff streams off and releases both pools (spec.md 4.4 step 4).
func handleStreamOff(ctx *Context) error {
	if err := ctx.VDev.StreamOff(); err != nil {
		logger.Printf("capture stream off: %v", err)
	}
	if err := ctx.VDev.RequestBuffers(0, ctx.VDev.Pool.Memory); err != nil {
		logger.Printf("capture release pool: %v", err)
	}
	if err := ctx.UDev.StreamOff(); err != nil {
		logger.Printf("uvc stream off: %v", err)
	}
	if err := ctx.UDev.RequestBuffers(0, ctx.UDev.Pool.Memory); err != nil {
		logger.Printf("uvc release pool: %v", err)
	}
	ctx.Status.Set(false)
	return nil
}

// shuttleUVCToCapture dequeues one spent buffer from UVC and re-queues
// its index on capture, under the throttle rule (spec.md 4.4 step 5).
func shuttleUVCToCapture(ctx *Context) (bool, error) {
	// dqbuf_count + 1 >= qbuf_count, i.e. outstanding <= 1, blocks the
	// dequeue unless a shutdown is draining outstanding buffers (spec.md 4.4).
	if ctx.UDev.Pool.Outstanding() <= 1 && !ctx.ShutdownRequested {
		return false, nil
	}
	if ctx.UDev.Pool.Count == 0 {
		return false, nil
	}

	desc, err := ctx.UDev.Dequeue()
	if err != nil {
		if errors.Is(err, v4l2.ErrWouldBlock) {
			return false, nil
		}
		return false, err
	}
	if desc.Flags&v4l2.BufFlagError != 0 {
		ctx.ShutdownRequested = true
		return false, nil
	}

	if err := ctx.VDev.Queue(v4l2.BufferDesc{Index: desc.Index}); err != nil {
		if errors.Is(err, v4l2.ErrNoDevice) {
			ctx.ShutdownRequested = true
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// shuttleCaptureToUVC dequeues one filled buffer from capture and queues
// a USERPTR descriptor pointing at its mapped address on UVC, triggering
// UVC stream-on on the first successful queue (spec.md 4.4 step 6).
// Nothing is forwarded while a shutdown is draining.
func shuttleCaptureToUVC(ctx *Context) error {
	if ctx.ShutdownRequested {
		return nil
	}
	desc, err := ctx.VDev.Dequeue()
	if err != nil {
		if errors.Is(err, v4l2.ErrWouldBlock) {
			return nil
		}
		return err
	}
	if desc.Flags&v4l2.BufFlagError != 0 {
		ctx.ShutdownRequested = true
		return nil
	}
	if int(desc.Index) >= len(ctx.VDev.Pool.Mapped) {
		return nil
	}
	mapped := ctx.VDev.Pool.Mapped[desc.Index]

	err = ctx.UDev.Queue(v4l2.BufferDesc{
		Index:     desc.Index,
		BytesUsed: desc.BytesUsed,
		Length:    mapped.Length,
		UserPtr:   uintptr(unsafe.Pointer(&mapped.Data[0])),
	})
	if err != nil {
		if errors.Is(err, v4l2.ErrNoDevice) {
			ctx.ShutdownRequested = true
			return nil
		}
		return err
	}

	if !ctx.UDev.IsStreaming {
		if err := ctx.UDev.StreamOn(); err != nil {
			return err
		}
	}
	return nil
}

func subscribeAll(udev interface {
	SubscribeEvent(uvc.EventKind) error
}) error {
	kinds := []uvc.EventKind{
		uvc.EventConnect, uvc.EventDisconnect, uvc.EventSetup,
		uvc.EventData, uvc.EventStreamOn, uvc.EventStreamOff,
	}
	for _, k := range kinds {
		if err := udev.SubscribeEvent(k); err != nil {
			return err
		}
	}
	return nil
}

// shutdown stream-offs both endpoints, releases pools, and closes handles
// (spec.md 4.4's Shutdown).
func shutdown(ctx *Context) {
	if err := ctx.UDev.Close(); err != nil {
		logger.Printf("close uvc endpoint: %v", err)
	}
	if err := ctx.VDev.Close(); err != nil {
		logger.Printf("close capture endpoint: %v", err)
	}
}
