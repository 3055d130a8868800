// Package statemachine implements the Control-Plane State Machine
// (spec.md 4.3): SETUP/DATA dispatch, the Probe/Commit builder, and the
// commit side effect that applies a negotiated format to both endpoints.
package statemachine

import (
	"encoding/binary"
	"log"

	"uvcbridge/internal/controlmap"
	"uvcbridge/internal/endpoint"
	"uvcbridge/internal/inventory"
	"uvcbridge/internal/uvc"
	"uvcbridge/internal/v4l2"
)

var logger = log.New(log.Writer(), "uvc: ", log.LstdFlags)

// errNotSup is -ENOTSUP (Linux errno 95), the reply length a UVC protocol
// violation carries (spec.md 7).
const errNotSup int32 = -95

// BuilderAction selects which Probe/Commit builder variant to run
// (spec.md 4.3).
type BuilderAction int

const (
	ActionSet BuilderAction = iota // INIT / SET
	ActionMin
	ActionMax
)

const minFrameInterval = 100000 // 100ns ticks == 10ms
const defaultFrameInterval = 400000

func toV4L2Pixfmt(p inventory.PixelFormat) uint32 {
	if p == inventory.PixelFormatYUYV {
		return v4l2.PixFmtYUYV
	}
	return v4l2.PixFmtMJPEG
}

// BuildControlBlock implements the Probe/Commit builder (spec.md 4.3).
func BuildControlBlock(inv inventory.Inventory, params inventory.StreamingParams, formatIndex, frameIndex uint32, action BuilderAction) uvc.StreamingControl {
	fmin, fmax := inv.FormatIndexBounds()

	switch action {
	case ActionMin:
		formatIndex = fmin
		frameIndex, _ = inv.GlobalFrameIndexBounds()
	case ActionMax:
		formatIndex = fmax
		_, frameIndex = inv.GlobalFrameIndexBounds()
	default: // ActionSet (INIT/SET)
		formatIndex = clampU32(formatIndex, fmin, fmax)
		fmin2, fmax2 := inv.FrameIndexBounds(formatIndex)
		frameIndex = clampU32(frameIndex, fmin2, fmax2)
	}

	row, ok := inv.Lookup(formatIndex, frameIndex)
	if !ok {
		logger.Printf("probe/commit builder: no descriptor for format=%d frame=%d, using zero-value row", formatIndex, frameIndex)
	}

	interval := row.DefaultInterval
	if interval < minFrameInterval {
		interval = defaultFrameInterval
	}

	pixfmt := toV4L2Pixfmt(row.Pixel)
	return uvc.StreamingControl{
		Hint:                   1,
		FormatIndex:            uint8(formatIndex),
		FrameIndex:             uint8(frameIndex),
		FrameInterval:          interval,
		MaxVideoFrameSize:      v4l2.FrameSize(pixfmt, row.Width, row.Height),
		MaxPayloadTransferSize: params.MaxPacket,
		FramingInfo:            3,
		PreferedVersion:        uint8(formatIndex),
		MinVersion:             uint8(fmin),
		MaxVersion:             uint8(fmax),
	}
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HandleSetup dispatches a SETUP event per spec.md 4.3, mutating udev's
// control-plane state and returning the response to send, or ok=false if
// the request should be silently ignored.
func HandleSetup(udev *endpoint.Endpoint, req uvc.CtrlRequest, inv inventory.Inventory, params inventory.StreamingParams, rows []*controlmap.Row) (resp uvc.RequestData, ok bool) {
	if !req.IsClassInterfaceRequest() {
		return uvc.RequestData{}, false
	}

	switch req.IndexLo {
	case uvc.IntfControl:
		return handleControlSetup(udev, req, rows)
	case uvc.IntfStreaming:
		return handleStreamingSetup(udev, req, inv, params)
	default:
		return uvc.RequestData{}, false
	}
}

func handleControlSetup(udev *endpoint.Endpoint, req uvc.CtrlRequest, rows []*controlmap.Row) (uvc.RequestData, bool) {
	selector := req.ValueHi
	entity := req.IndexHi

	if entity == uvc.EntityErrorCode && selector == uvc.SelectorRequestErrorCode && req.Request == uvc.ReqGetCur {
		return byteResponse(byte(udev.RequestErrorCode)), true
	}

	iface, ok := entityToInterface(entity)
	if !ok {
		return uvc.RequestData{}, false
	}
	row := controlmap.Find(rows, iface, selector)
	if row == nil || !row.Enabled {
		udev.RequestErrorCode = uvc.ErrorCodeInvalidControl
		return errorResponse(), true
	}

	switch req.Request {
	case uvc.ReqSetCur:
		udev.ActiveCtrl = endpoint.ActiveNone
		udev.ActiveIface = iface
		udev.ActiveSelector = selector
		return int32Response(int32(row.Length)), true
	case uvc.ReqGetMin:
		return int32Response(row.UVCMin), true
	case uvc.ReqGetMax:
		return int32Response(row.UVCMax), true
	case uvc.ReqGetCur:
		return int32Response(row.UVCValue), true
	case uvc.ReqGetDef:
		return int32Response(row.UVCDefault), true
	case uvc.ReqGetRes:
		return int32Response(row.UVCStep), true
	case uvc.ReqGetInfo:
		return byteResponse(uvc.ControlCapGet | uvc.ControlCapSet), true
	default:
		udev.RequestErrorCode = uvc.ErrorCodeInvalidRequest
		return errorResponse(), true
	}
}

// entityToInterface maps a request's entity id onto the interface the
// Control Mapping table keys on. Only the two gadget-assigned entities
// spec.md 4.3 defines (Input Terminal, Processing Unit) are valid here;
// entity 0 (error-code) is handled by the caller before this is reached,
// and any other entity has no defined behavior (original_source/
// uvc-gadget.c's uvc_events_process_class falls through to its default
// case, sending no response).
func entityToInterface(entity uint8) (endpoint.ActiveInterface, bool) {
	switch entity {
	case uvc.EntityInputTerminal:
		return endpoint.InterfaceInputTerminal, true
	case uvc.EntityProcessingUnit:
		return endpoint.InterfaceProcessingUnit, true
	default:
		return endpoint.InterfaceNone, false
	}
}

func handleStreamingSetup(udev *endpoint.Endpoint, req uvc.CtrlRequest, inv inventory.Inventory, params inventory.StreamingParams) (uvc.RequestData, bool) {
	selector := req.ValueHi
	if selector != uvc.VSProbeControl && selector != uvc.VSCommitControl {
		return uvc.RequestData{}, false
	}

	switch req.Request {
	case uvc.ReqSetCur:
		if selector == uvc.VSProbeControl {
			udev.ActiveCtrl = endpoint.ActiveProbe
		} else {
			udev.ActiveCtrl = endpoint.ActiveCommit
		}
		return int32Response(int32(uvc.StreamingControlSize)), true
	case uvc.ReqGetCur:
		if selector == uvc.VSProbeControl {
			return blockResponse(udev.Probe), true
		}
		return blockResponse(udev.Commit), true
	case uvc.ReqGetMin, uvc.ReqGetDef:
		return blockResponse(BuildControlBlock(inv, params, 0, 0, ActionMin)), true
	case uvc.ReqGetMax:
		return blockResponse(BuildControlBlock(inv, params, 0, 0, ActionMax)), true
	case uvc.ReqGetRes:
		return blockResponse(uvc.StreamingControl{}), true
	case uvc.ReqGetLen:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uvc.StreamingControlSize)
		return bytesResponse(b[:]), true
	case uvc.ReqGetInfo:
		return byteResponse(uvc.ControlCapGet | uvc.ControlCapSet), true
	default:
		return uvc.RequestData{}, false
	}
}

// HandleData dispatches a DATA event per spec.md 4.3. udev is the UVC
// output endpoint carrying the active-control state; vdev is the V4L2
// capture endpoint, the commit side effect's second target.
func HandleData(udev, vdev *endpoint.Endpoint, data uvc.RequestData, inv inventory.Inventory, params inventory.StreamingParams, rows []*controlmap.Row) {
	switch udev.ActiveCtrl {
	case endpoint.ActiveProbe:
		sc := uvc.UnmarshalStreamingControl(data.Data[:])
		udev.Probe = BuildControlBlock(inv, params, uint32(sc.FormatIndex), uint32(sc.FrameIndex), ActionSet)
	case endpoint.ActiveCommit:
		sc := uvc.UnmarshalStreamingControl(data.Data[:])
		udev.Commit = BuildControlBlock(inv, params, uint32(sc.FormatIndex), uint32(sc.FrameIndex), ActionSet)
		commitFormat(udev, vdev, inv, udev.Commit)
	default:
		applyControlWrite(udev, data, rows)
	}
}

// commitFormat applies the negotiated (pixfmt, W, H) to both endpoints
// (spec.md 4.3's commit side effect). Failures are logged and abandoned,
// not retried.
func commitFormat(udev, vdev *endpoint.Endpoint, inv inventory.Inventory, commit uvc.StreamingControl) {
	row, ok := inv.Lookup(uint32(commit.FormatIndex), uint32(commit.FrameIndex))
	if !ok {
		logger.Printf("commit: no descriptor for format=%d frame=%d, abandoning", commit.FormatIndex, commit.FrameIndex)
		return
	}
	pixfmt := toV4L2Pixfmt(row.Pixel)

	if _, err := vdev.SetFormat(pixfmt, row.Width, row.Height); err != nil {
		logger.Printf("commit: capture set format: %v", err)
		return
	}
	if _, err := udev.SetFormat(pixfmt, row.Width, row.Height); err != nil {
		logger.Printf("commit: uvc set format: %v", err)
		return
	}
}

// applyControlWrite handles the active_control == NONE DATA case: a
// camera-control write (spec.md 4.3).
func applyControlWrite(udev *endpoint.Endpoint, data uvc.RequestData, rows []*controlmap.Row) {
	row := controlmap.Find(rows, udev.ActiveIface, udev.ActiveSelector)
	if row == nil || !row.Enabled {
		return
	}
	length := data.Length
	if length < 1 {
		return
	}
	if length > 4 {
		length = 4
	}
	row.Length = int(length)

	var buf [4]byte
	copy(buf[:], data.Data[:length])
	value := int32(binary.LittleEndian.Uint32(buf[:]))

	if err := udev.ApplyCameraControl(row, value); err != nil {
		logger.Printf("apply camera control %s: %v", row.Name, err)
	}
}

func byteResponse(b byte) uvc.RequestData {
	var rd uvc.RequestData
	rd.Length = 1
	rd.Data[0] = b
	return rd
}

func int32Response(v int32) uvc.RequestData {
	var rd uvc.RequestData
	rd.Length = 4
	binary.LittleEndian.PutUint32(rd.Data[0:4], uint32(v))
	return rd
}

func bytesResponse(b []byte) uvc.RequestData {
	var rd uvc.RequestData
	rd.Length = int32(len(b))
	copy(rd.Data[:], b)
	return rd
}

func blockResponse(sc uvc.StreamingControl) uvc.RequestData {
	var rd uvc.RequestData
	rd.Length = uvc.StreamingControlSize
	copy(rd.Data[:], sc.Marshal())
	return rd
}

func errorResponse() uvc.RequestData {
	var rd uvc.RequestData
	rd.Length = errNotSup
	return rd
}
