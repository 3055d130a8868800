package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Control class mask/value used to restrict enumeration to user controls.
// See the Open Question in spec.md 9: the original source's
// `if (id && V4L2_CTRL_CLASS_USER)` is a no-op logical AND of two nonzero
// constants; the evidently-intended check is implemented here.
const (
	// CtrlClassMask isolates the control-class bits of a control id (V4L2_CTRL_ID2CLASS).
	CtrlClassMask uint32 = 0x0fff0000
	CtrlClassUser uint32 = C.V4L2_CTRL_CLASS_USER

	ctrlFlagNextCtrl     uint32 = C.V4L2_CTRL_FLAG_NEXT_CTRL
	ctrlFlagNextCompound uint32 = C.V4L2_CTRL_FLAG_NEXT_COMPOUND
	ctrlFlagDisabled     uint32 = C.V4L2_CTRL_FLAG_DISABLED
)

// QueryInfo is the subset of struct v4l2_queryctrl the control mapping needs.
type QueryInfo struct {
	ID       uint32
	Type     uint32
	Name     string
	Minimum  int32
	Maximum  int32
	Step     int32
	Default  int32
	Flags    uint32
	Disabled bool
}

// QueryControl issues VIDIOC_QUERYCTRL for a specific control id, optionally
// ORed with the NEXT_CTRL/NEXT_COMPOUND flags to walk the control list.
func QueryControl(fd uintptr, id uint32) (QueryInfo, error) {
	var q C.struct_v4l2_queryctrl
	q.id = C.uint(id)

	if err := send(fd, C.VIDIOC_QUERYCTRL, uintptr(unsafe.Pointer(&q))); err != nil {
		return QueryInfo{}, err
	}
	return QueryInfo{
		ID:       uint32(q.id),
		Type:     uint32(q._type),
		Name:     C.GoString((*C.char)(unsafe.Pointer(&q.name[0]))),
		Minimum:  int32(q.minimum),
		Maximum:  int32(q.maximum),
		Step:     int32(q.step),
		Default:  int32(q.default_value),
		Flags:    uint32(q.flags),
		Disabled: uint32(q.flags)&ctrlFlagDisabled != 0,
	}, nil
}

// NextControl walks the control list starting after lastID using
// V4L2_CTRL_FLAG_NEXT_CTRL/NEXT_COMPOUND, matching v4l2_get_controls's
// traversal in the original source. Pass 0 to start from the beginning.
func NextControl(fd uintptr, lastID uint32) (QueryInfo, error) {
	return QueryControl(fd, lastID|ctrlFlagNextCtrl|ctrlFlagNextCompound)
}

// IsUserClass reports whether id belongs to the V4L2_CTRL_CLASS_USER class.
func IsUserClass(id uint32) bool {
	return id&CtrlClassMask == CtrlClassUser
}

// GetControlValue issues VIDIOC_G_CTRL for id.
func GetControlValue(fd uintptr, id uint32) (int32, error) {
	var ctrl C.struct_v4l2_control
	ctrl.id = C.uint(id)
	if err := send(fd, C.VIDIOC_G_CTRL, uintptr(unsafe.Pointer(&ctrl))); err != nil {
		return 0, fmt.Errorf("get control %d: %w", id, err)
	}
	return int32(ctrl.value), nil
}

// SetControlValue issues VIDIOC_S_CTRL for id.
func SetControlValue(fd uintptr, id uint32, value int32) error {
	var ctrl C.struct_v4l2_control
	ctrl.id = C.uint(id)
	ctrl.value = C.int(value)
	if err := send(fd, C.VIDIOC_S_CTRL, uintptr(unsafe.Pointer(&ctrl))); err != nil {
		return fmt.Errorf("set control %d: %w", id, err)
	}
	return nil
}
