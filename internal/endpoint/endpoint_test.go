package endpoint

import (
	"errors"
	"testing"

	"uvcbridge/internal/controlmap"
	"uvcbridge/internal/v4l2"
)

// saveHooks snapshots the package-level v4l2 indirections and registers a
// t.Cleanup that restores them, the same pattern the teacher's
// device_test.go uses for v4l2 package vars. setControlValue is not
// covered; the tests that override it restore it themselves.
func saveHooks(t *testing.T) {
	t.Helper()
	openDeviceSaved := openDevice
	closeDeviceSaved := closeDevice
	getCapabilitySaved := getCapability
	reqBufsSaved := reqBufs
	qBufSaved := qBuf
	dqBufSaved := dqBuf
	streamOnSaved := streamOn
	streamOffSaved := streamOff

	t.Cleanup(func() {
		openDevice = openDeviceSaved
		closeDevice = closeDeviceSaved
		getCapability = getCapabilitySaved
		reqBufs = reqBufsSaved
		qBuf = qBufSaved
		dqBuf = dqBufSaved
		streamOn = streamOnSaved
		streamOff = streamOffSaved
	})
}

func TestOpen_WrongCapability(t *testing.T) {
	saveHooks(t)
	openDevice = func(path string) (uintptr, error) { return 42, nil }
	closeDevice = func(fd uintptr) error { return nil }
	getCapability = func(fd uintptr) (v4l2.Capability, error) {
		return v4l2.Capability{Capabilities: v4l2.CapStreaming}, nil // missing CapVideoCapture
	}

	_, err := Open("/dev/video0", RoleCapture)
	if !errors.Is(err, v4l2.ErrWrongCapability) {
		t.Fatalf("expected ErrWrongCapability, got %v", err)
	}
}

func TestOpen_Success(t *testing.T) {
	saveHooks(t)
	openDevice = func(path string) (uintptr, error) { return 7, nil }
	getCapability = func(fd uintptr) (v4l2.Capability, error) {
		return v4l2.Capability{Capabilities: v4l2.CapStreaming | v4l2.CapVideoCapture}, nil
	}

	e, err := Open("/dev/video0", RoleCapture)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if e.Fd() != 7 {
		t.Errorf("expected fd 7, got %d", e.Fd())
	}
}

func TestRequestBuffers_TooFew(t *testing.T) {
	e := &Endpoint{}
	if err := e.RequestBuffers(1, v4l2.MemoryMMAP); !errors.Is(err, v4l2.ErrTooFewBuffers) {
		t.Fatalf("expected ErrTooFewBuffers, got %v", err)
	}
}

func TestQueue_TracksCount(t *testing.T) {
	saveHooks(t)
	qBuf = func(fd uintptr, bufType, memory uint32, desc v4l2.BufferDesc) error { return nil }

	e := &Endpoint{}
	for i := 0; i < 3; i++ {
		if err := e.Queue(v4l2.BufferDesc{Index: uint32(i)}); err != nil {
			t.Fatalf("Queue: %v", err)
		}
	}
	if e.Pool.QBufCount != 3 {
		t.Errorf("expected qbuf_count 3, got %d", e.Pool.QBufCount)
	}
}

// TestQueue_ENODEVPropagates verifies the bridge's contract: Queue
// propagates v4l2.ErrNoDevice unwrapped so the loop can set
// shutdown_requested (spec.md 4.2, 4.4).
func TestQueue_ENODEVPropagates(t *testing.T) {
	saveHooks(t)
	qBuf = func(fd uintptr, bufType, memory uint32, desc v4l2.BufferDesc) error {
		return v4l2.ErrNoDevice
	}

	e := &Endpoint{}
	err := e.Queue(v4l2.BufferDesc{})
	if !errors.Is(err, v4l2.ErrNoDevice) {
		t.Fatalf("expected ErrNoDevice, got %v", err)
	}
}

func TestStreamOnOff_Idempotent(t *testing.T) {
	saveHooks(t)
	calls := 0
	streamOn = func(fd uintptr, bufType uint32) error { calls++; return nil }

	e := &Endpoint{}
	if err := e.StreamOn(); err != nil {
		t.Fatalf("StreamOn: %v", err)
	}
	if err := e.StreamOn(); err != nil {
		t.Fatalf("StreamOn (second): %v", err)
	}
	if calls != 1 {
		t.Errorf("expected stream on issued once, got %d calls", calls)
	}

	streamOff = func(fd uintptr, bufType uint32) error {
		t.Fatal("StreamOff should not be called on a non-streaming endpoint")
		return nil
	}
	e2 := &Endpoint{}
	if err := e2.StreamOff(); err != nil {
		t.Fatalf("StreamOff on idle endpoint: %v", err)
	}
}

func TestApplyCameraControl_Disabled(t *testing.T) {
	saveHooks(t)
	setControlValue = func(fd uintptr, id uint32, value int32) error {
		t.Fatal("disabled control must not be written")
		return nil
	}
	defer func() { setControlValue = v4l2.SetControlValue }()

	e := &Endpoint{}
	row := &controlmap.Row{Name: "brightness", Enabled: false}
	if err := e.ApplyCameraControl(row, 10); err != nil {
		t.Fatalf("ApplyCameraControl: %v", err)
	}
}

func TestApplyCameraControl_Coupled(t *testing.T) {
	saveHooks(t)
	var written []uint32
	setControlValue = func(fd uintptr, id uint32, value int32) error {
		written = append(written, id)
		return nil
	}
	defer func() { setControlValue = v4l2.SetControlValue }()

	e := &Endpoint{}
	row := &controlmap.Row{
		Enabled: true, V4L2ID: v4l2.CIDRedBalance, CoupledV4L2ID: v4l2.CIDBlueBalance,
		V4L2Min: 0, V4L2Max: 100, UVCMin: 0, UVCMax: 100,
	}
	if err := e.ApplyCameraControl(row, 50); err != nil {
		t.Fatalf("ApplyCameraControl: %v", err)
	}
	if len(written) != 2 || written[0] != v4l2.CIDRedBalance || written[1] != v4l2.CIDBlueBalance {
		t.Errorf("expected both red and blue balance written, got %v", written)
	}
}
