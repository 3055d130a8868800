// Package uvc wraps the Linux UVC-gadget kernel interface: the private
// V4L2 events (SETUP/DATA/STREAMON/STREAMOFF/CONNECT/DISCONNECT) the
// uvcvideo gadget function raises on the output device node, and the
// UVCIOC_SEND_RESPONSE ioctl used to answer a SETUP stage.
package uvc

/*
#include <linux/usb/ch9.h>
#include <linux/usb/video.h>
*/
import "C"

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// EventKind enumerates the UVC gadget private events (spec.md 4.2, 4.4).
type EventKind uint32

const (
	EventConnect    EventKind = C.UVC_EVENT_CONNECT
	EventDisconnect EventKind = C.UVC_EVENT_DISCONNECT
	EventSetup      EventKind = C.UVC_EVENT_SETUP
	EventData       EventKind = C.UVC_EVENT_DATA
	EventStreamOn   EventKind = C.UVC_EVENT_STREAMON
	EventStreamOff  EventKind = C.UVC_EVENT_STREAMOFF
)

// Interface kinds carried in the low byte of wIndex for a class,
// interface-recipient request (UVC_INTF_CONTROL / UVC_INTF_STREAMING).
const (
	IntfControl   uint8 = C.UVC_INTF_CONTROL
	IntfStreaming uint8 = C.UVC_INTF_STREAMING
)

// Entity ids carried in wIndex.hi for a VideoControl-interface request.
// These are the gadget's own assigned topology ids (the descriptor
// ordering uvc-gadget.c's default configuration uses: 1 = Camera/Input
// Terminal, 2 = Processing Unit), not the UVC_VC_* descriptor subtype
// codes from <linux/usb/video.h> — a different namespace entirely.
const (
	EntityErrorCode      uint8 = 0
	EntityInputTerminal  uint8 = 1
	EntityProcessingUnit uint8 = 2
)

// Streaming control selectors.
const (
	VSProbeControl  uint8 = C.UVC_VS_PROBE_CONTROL
	VSCommitControl uint8 = C.UVC_VS_COMMIT_CONTROL
)

// Control-plane request codes.
const (
	ReqSetCur  uint8 = C.UVC_SET_CUR
	ReqGetCur  uint8 = C.UVC_GET_CUR
	ReqGetMin  uint8 = C.UVC_GET_MIN
	ReqGetMax  uint8 = C.UVC_GET_MAX
	ReqGetRes  uint8 = C.UVC_GET_RES
	ReqGetLen  uint8 = C.UVC_GET_LEN
	ReqGetInfo uint8 = C.UVC_GET_INFO
	ReqGetDef  uint8 = C.UVC_GET_DEF
)

// GET_INFO capability bits.
const (
	ControlCapGet uint8 = C.UVC_CONTROL_CAP_GET
	ControlCapSet uint8 = C.UVC_CONTROL_CAP_SET
)

const (
	usbTypeMask      uint8 = C.USB_TYPE_MASK
	usbTypeClass     uint8 = C.USB_TYPE_CLASS
	usbRecipMask     uint8 = C.USB_RECIP_MASK
	usbRecipInterface uint8 = C.USB_RECIP_INTERFACE
)

// ErrorCode is the one-byte UVC_VC_REQUEST_ERROR_CODE_CONTROL register
// value (spec.md 4.3's request_error_code).
type ErrorCode uint8

const (
	ErrorCodeNoError        ErrorCode = 0x00
	ErrorCodeNotReady       ErrorCode = 0x01
	ErrorCodeWrongState     ErrorCode = 0x02
	ErrorCodeOutOfRange     ErrorCode = 0x04
	ErrorCodeInvalidUnit    ErrorCode = 0x05
	ErrorCodeInvalidControl ErrorCode = 0x06
	ErrorCodeInvalidRequest ErrorCode = 0x07
)

// Selector carried at entity 0: the request-error-code control.
const SelectorRequestErrorCode uint8 = C.UVC_VC_REQUEST_ERROR_CODE_CONTROL

// CtrlRequest mirrors the fields of struct usb_ctrlrequest this bridge
// dispatches on (spec.md 4.3): bRequestType, wIndex split into interface
// kind/entity, wValue split into selector, wLength, and bRequest.
type CtrlRequest struct {
	RequestType uint8
	Request     uint8
	ValueHi     uint8 // selector
	ValueLo     uint8
	IndexLo     uint8 // interface kind (Control/Streaming)
	IndexHi     uint8 // entity id
	Length      uint16
}

// IsClassInterfaceRequest reports whether the request is a class,
// interface-recipient request (spec.md 4.3 step 1).
func (r CtrlRequest) IsClassInterfaceRequest() bool {
	return r.RequestType&usbTypeMask == usbTypeClass && r.RequestType&usbRecipMask == usbRecipInterface
}

// ParseSetup decodes the usb_ctrlrequest embedded in a SETUP event's raw payload.
func ParseSetup(data [64]byte) CtrlRequest {
	req := (*C.struct_usb_ctrlrequest)(unsafe.Pointer(&data[0]))
	wValue := binary.LittleEndian.Uint16(data[2:4])
	wIndex := binary.LittleEndian.Uint16(data[4:6])
	wLength := binary.LittleEndian.Uint16(data[6:8])
	return CtrlRequest{
		RequestType: uint8(req.bRequestType),
		Request:     uint8(req.bRequest),
		ValueLo:     uint8(wValue),
		ValueHi:     uint8(wValue >> 8),
		IndexLo:     uint8(wIndex),
		IndexHi:     uint8(wIndex >> 8),
		Length:      wLength,
	}
}

// RequestData mirrors struct uvc_request_data: a response/payload buffer
// of at most 60 bytes plus a signed length (negative lengths encode
// -errno, per UVCIOC_SEND_RESPONSE's convention).
type RequestData struct {
	Length int32
	Data   [60]byte
}

// ParseData decodes the uvc_request_data embedded in a DATA event's raw payload.
func ParseData(data [64]byte) RequestData {
	var rd RequestData
	rd.Length = int32(binary.LittleEndian.Uint32(data[0:4]))
	copy(rd.Data[:], data[4:64])
	return rd
}

// SendResponse issues UVCIOC_SEND_RESPONSE with resp, replying to a pending SETUP stage.
func SendResponse(fd uintptr, resp RequestData) error {
	var raw C.struct_uvc_request_data
	raw.length = C.__s32(resp.Length)
	for i := range resp.Data {
		raw.data[i] = C.__u8(resp.Data[i])
	}
	if err := ioctlSend(fd, uintptr(C.UVCIOC_SEND_RESPONSE), uintptr(unsafe.Pointer(&raw))); err != nil {
		return fmt.Errorf("send response: %w", err)
	}
	return nil
}
