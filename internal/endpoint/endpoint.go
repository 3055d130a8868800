// Package endpoint implements the Device Endpoint (spec.md 4.2): a
// uniform typed handle over one kernel video node, capture or UVC
// output, covering format negotiation, buffer pool lifecycle,
// queue/dequeue, streaming, event subscription, and camera control
// access.
package endpoint

import (
	"errors"
	"fmt"
	"log"

	"uvcbridge/internal/controlmap"
	"uvcbridge/internal/uvc"
	"uvcbridge/internal/v4l2"
)

// Role selects which direction/capability a path is opened for.
type Role int

const (
	RoleCapture Role = iota
	RoleOutput
)

// ActiveControl mirrors the UVC state machine's active_control variable
// (spec.md 4.3). It lives on the endpoint because it is UVC-endpoint
// state, not loop state.
type ActiveControl int

const (
	ActiveNone ActiveControl = iota
	ActiveProbe
	ActiveCommit
)

// ActiveInterface mirrors active_interface (spec.md 4.3).
type ActiveInterface int

const (
	InterfaceNone ActiveInterface = iota
	InterfaceInputTerminal
	InterfaceProcessingUnit
)

var logger = log.New(log.Writer(), "endpoint: ", log.LstdFlags)

const minBufferCount = 2

// Indirections over the v4l2 package, overridden by endpoint_test.go the
// same way the teacher's device package tests mock v4l2 calls.
var (
	openDevice        = v4l2.OpenDevice
	closeDevice       = v4l2.CloseDevice
	getCapability     = v4l2.GetCapability
	getFormat         = v4l2.GetFormat
	setFormat         = v4l2.SetFormat
	reqBufs           = v4l2.ReqBufs
	queryBuf          = v4l2.QueryBuf
	mapBuffer         = v4l2.MapBuffer
	unmapBuffer       = v4l2.UnmapBuffer
	qBuf              = v4l2.QBuf
	dqBuf             = v4l2.DQBuf
	streamOn          = v4l2.StreamOn
	streamOff         = v4l2.StreamOff
	subscribeEvent    = v4l2.SubscribeEvent
	dequeueEvent      = v4l2.DequeueEvent
	setControlValue   = v4l2.SetControlValue
	getControlValue   = v4l2.GetControlValue
	nextControl       = v4l2.NextControl
	enumFormats       = v4l2.EnumFormats
	enumFrameSizes    = v4l2.EnumFrameSizes
)

// MappedBuffer is one MMAP-backed buffer region owned by this endpoint.
type MappedBuffer struct {
	Data   []byte
	Offset uint32
	Length uint32
}

// Pool tracks one endpoint's buffer pool (spec.md 3's Buffer Pool).
type Pool struct {
	Memory     uint32
	Count      uint32
	Mapped     []MappedBuffer // populated only for MemoryMMAP
	QBufCount  uint64
	DQBufCount uint64
}

// Outstanding returns qbuf_count - dqbuf_count, the buffers currently
// owned by the kernel driver (BP1's invariant quantity).
func (p Pool) Outstanding() uint64 {
	return p.QBufCount - p.DQBufCount
}

// Endpoint is a typed handle to one kernel video node.
type Endpoint struct {
	Path    string
	Role    Role
	fd      uintptr
	bufType uint32

	IsStreaming bool
	Format      v4l2.PixFormat
	Pool        Pool

	// UVC control-plane state (spec.md 4.3); meaningful only for the
	// UVC output endpoint, harmless and unused on the capture endpoint.
	Probe            uvc.StreamingControl
	Commit           uvc.StreamingControl
	ActiveCtrl       ActiveControl
	ActiveIface      ActiveInterface
	ActiveSelector   uint8
	RequestErrorCode uvc.ErrorCode
}

// Open opens path non-blocking read-write and verifies the capability
// bitset includes streaming and the role-appropriate direction
// (spec.md 4.2).
func Open(path string, role Role) (*Endpoint, error) {
	fd, err := openDevice(path)
	if err != nil {
		return nil, err
	}

	cap, err := getCapability(fd)
	if err != nil {
		closeDevice(fd)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	want := v4l2.CapStreaming
	var bufType uint32
	switch role {
	case RoleCapture:
		want |= v4l2.CapVideoCapture
		bufType = v4l2.BufTypeVideoCapture
	case RoleOutput:
		want |= v4l2.CapVideoOutput
		bufType = v4l2.BufTypeVideoOutput
	}
	if !cap.HasCapability(want) {
		closeDevice(fd)
		return nil, fmt.Errorf("%s: %w", path, v4l2.ErrWrongCapability)
	}

	return &Endpoint{Path: path, Role: role, fd: fd, bufType: bufType}, nil
}

// Fd returns the underlying file descriptor, for the loop's readiness wait.
func (e *Endpoint) Fd() uintptr { return e.fd }

// SetFormat applies pixfmt/width/height. Legal only while not streaming.
func (e *Endpoint) SetFormat(pixfmt, width, height uint32) (v4l2.PixFormat, error) {
	if e.IsStreaming {
		return v4l2.PixFormat{}, v4l2.ErrBusy
	}
	want := v4l2.PixFormat{
		Width:       width,
		Height:      height,
		PixelFormat: pixfmt,
		Field:       v4l2.FieldAny,
		SizeImage:   v4l2.FrameSize(pixfmt, width, height),
	}
	got, err := setFormat(e.fd, e.bufType, want)
	if err != nil {
		return v4l2.PixFormat{}, err
	}
	e.Format = got
	return got, nil
}

// GetFormat returns the endpoint's currently negotiated format.
func (e *Endpoint) GetFormat() (v4l2.PixFormat, error) {
	if e.IsStreaming {
		return v4l2.PixFormat{}, v4l2.ErrBusy
	}
	return getFormat(e.fd, e.bufType)
}

// RequestBuffers reserves count kernel-side descriptors. For MMAP, each
// descriptor is mapped into the process address space. count == 0
// releases the pool (spec.md 4.2).
func (e *Endpoint) RequestBuffers(count, memory uint32) error {
	if count != 0 && count < minBufferCount {
		return v4l2.ErrTooFewBuffers
	}

	if count == 0 {
		for _, m := range e.Pool.Mapped {
			if m.Data != nil {
				if err := unmapBuffer(m.Data); err != nil {
					logger.Printf("unmap buffer on release: %v", err)
				}
			}
		}
		if _, err := reqBufs(e.fd, e.bufType, e.Pool.Memory, 0); err != nil {
			return err
		}
		e.Pool = Pool{}
		return nil
	}

	got, err := reqBufs(e.fd, e.bufType, memory, count)
	if err != nil {
		return err
	}

	pool := Pool{Memory: memory, Count: got}
	if memory == v4l2.MemoryMMAP {
		pool.Mapped = make([]MappedBuffer, got)
		for i := uint32(0); i < got; i++ {
			desc, err := queryBuf(e.fd, e.bufType, memory, i)
			if err != nil {
				return fmt.Errorf("query buffer %d: %w", i, err)
			}
			data, err := mapBuffer(e.fd, int64(desc.Offset), int(desc.Length))
			if err != nil {
				return fmt.Errorf("map buffer %d: %w", i, err)
			}
			pool.Mapped[i] = MappedBuffer{Data: data, Offset: desc.Offset, Length: desc.Length}
		}
	}
	e.Pool = pool
	return nil
}

// Queue hands a descriptor to the kernel and increments qbuf_count. On
// ENODEV (a host-initiated disconnect), the error is returned unwrapped
// so the bridge loop can set the peer's shutdown flag (spec.md 4.2, 4.4).
func (e *Endpoint) Queue(desc v4l2.BufferDesc) error {
	if err := qBuf(e.fd, e.bufType, e.Pool.Memory, desc); err != nil {
		if errors.Is(err, v4l2.ErrNoDevice) {
			return err
		}
		return fmt.Errorf("%s queue: %w", e.Path, err)
	}
	e.Pool.QBufCount++
	return nil
}

// Dequeue reaps one buffer. v4l2.ErrWouldBlock means none was ready;
// callers must not treat that as failure (spec.md 4.2).
func (e *Endpoint) Dequeue() (v4l2.BufferDesc, error) {
	desc, err := dqBuf(e.fd, e.bufType, e.Pool.Memory)
	if err != nil {
		return v4l2.BufferDesc{}, err
	}
	e.Pool.DQBufCount++
	return desc, nil
}

// StreamOn is idempotent: a no-op if already streaming.
func (e *Endpoint) StreamOn() error {
	if e.IsStreaming {
		return nil
	}
	if err := streamOn(e.fd, e.bufType); err != nil {
		return err
	}
	e.IsStreaming = true
	return nil
}

// StreamOff is idempotent: a no-op if not streaming.
func (e *Endpoint) StreamOff() error {
	if !e.IsStreaming {
		return nil
	}
	if err := streamOff(e.fd, e.bufType); err != nil {
		return err
	}
	e.IsStreaming = false
	return nil
}

// SubscribeEvent subscribes to one UVC event kind.
func (e *Endpoint) SubscribeEvent(kind uvc.EventKind) error {
	return subscribeEvent(e.fd, uint32(kind))
}

// DequeueEvent returns the next pending UVC event, or v4l2.ErrWouldBlock.
func (e *Endpoint) DequeueEvent() (v4l2.RawEvent, error) {
	return dequeueEvent(e.fd)
}

// ApplyCameraControl inverse-maps rawValue through row and writes the
// resulting V4L2 value (and, if row couples to a second control, mirrors
// the write there too). A disabled row logs and returns without error
// (spec.md 4.2).
func (e *Endpoint) ApplyCameraControl(row *controlmap.Row, rawValue int32) error {
	if !row.Enabled {
		logger.Printf("control %s disabled, ignoring write", row.Name)
		return nil
	}
	value := row.ApplyUVCValue(rawValue)
	if err := setControlValue(e.fd, row.V4L2ID, value); err != nil {
		return fmt.Errorf("apply control %s: %w", row.Name, err)
	}
	if row.CoupledV4L2ID != 0 {
		if err := setControlValue(e.fd, row.CoupledV4L2ID, value); err != nil {
			return fmt.Errorf("apply coupled control for %s: %w", row.Name, err)
		}
	}
	return nil
}

// EnumerateControls walks the device's V4L2 control list, restricted to
// the user-control class (spec.md 9's Open Question resolution), and
// populates the UVC side of every Control Mapping row whose V4L2ID
// matches a user-class control found on this device. Rows for
// camera-class controls (exposure, focus, zoom) are never populated and
// stay disabled.
func (e *Endpoint) EnumerateControls(rows []*controlmap.Row) error {
	byID := map[uint32]*controlmap.Row{}
	for _, r := range rows {
		byID[r.V4L2ID] = r
	}

	var lastID uint32
	for {
		q, err := nextControl(e.fd, lastID)
		if err != nil {
			if errors.Is(err, v4l2.ErrWouldBlock) {
				break
			}
			break
		}
		lastID = q.ID
		if !v4l2.IsUserClass(q.ID) {
			continue
		}
		row, ok := byID[q.ID]
		if !ok {
			continue
		}
		current, err := getControlValue(e.fd, q.ID)
		if err != nil {
			logger.Printf("get control %s: %v", row.Name, err)
			continue
		}
		row.PopulateFromQuery(q, current)
	}
	return nil
}

// LogAvailableFormats logs the capture device's advertised pixel formats
// and, for each, its largest discrete frame size (spec.md 15's
// supplemented v4l2_get_available_formats). Purely informational: the
// result does not feed the advertised inventory, which stays sourced
// from configfs (spec.md 4.1).
func (e *Endpoint) LogAvailableFormats() {
	descs, err := enumFormats(e.fd, e.bufType)
	if err != nil {
		logger.Printf("%s: enumerate formats: %v", e.Path, err)
		return
	}
	for _, d := range descs {
		sizes, err := enumFrameSizes(e.fd, d.PixelFormat)
		if err != nil {
			logger.Printf("%s: enumerate frame sizes for %s: %v", e.Path, d.Description, err)
			continue
		}
		var maxW, maxH uint32
		for _, s := range sizes {
			if s.Width*s.Height > maxW*maxH {
				maxW, maxH = s.Width, s.Height
			}
		}
		logger.Printf("%s: format %q largest frame size %dx%d", e.Path, d.Description, maxW, maxH)
	}
}

// Close releases the buffer pool and stream, then closes the file
// descriptor (spec.md 4.2: close must be preceded by stream-off and
// request_buffers(0); this enforces that itself, defensively).
func (e *Endpoint) Close() error {
	if err := e.StreamOff(); err != nil {
		logger.Printf("%s: stream off on close: %v", e.Path, err)
	}
	if err := e.RequestBuffers(0, e.Pool.Memory); err != nil {
		logger.Printf("%s: release buffers on close: %v", e.Path, err)
	}
	return closeDevice(e.fd)
}
