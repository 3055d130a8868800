package v4l2

/*
#include <linux/videodev2.h>
*/
import "C"

// Control identifiers the Control Mapping catalog pairs with UVC
// selectors (internal/controlmap). Subset of V4L2_CID_* actually
// exercised by a UVC Processing/Camera Terminal unit. The exposure, focus
// and zoom ids belong to the camera control class; the rest are
// user-class.
const (
	CIDBrightness           uint32 = C.V4L2_CID_BRIGHTNESS
	CIDContrast             uint32 = C.V4L2_CID_CONTRAST
	CIDSaturation           uint32 = C.V4L2_CID_SATURATION
	CIDHue                  uint32 = C.V4L2_CID_HUE
	CIDSharpness            uint32 = C.V4L2_CID_SHARPNESS
	CIDGamma                uint32 = C.V4L2_CID_GAMMA
	CIDGain                 uint32 = C.V4L2_CID_GAIN
	CIDBacklightCompensation uint32 = C.V4L2_CID_BACKLIGHT_COMPENSATION
	CIDWhiteBalanceTemperature uint32 = C.V4L2_CID_WHITE_BALANCE_TEMPERATURE
	CIDAutoWhiteBalance     uint32 = C.V4L2_CID_AUTO_WHITE_BALANCE
	CIDRedBalance           uint32 = C.V4L2_CID_RED_BALANCE
	CIDBlueBalance          uint32 = C.V4L2_CID_BLUE_BALANCE
	CIDExposureAbsolute     uint32 = C.V4L2_CID_EXPOSURE_ABSOLUTE
	CIDFocusAbsolute        uint32 = C.V4L2_CID_FOCUS_ABSOLUTE
	CIDZoomAbsolute         uint32 = C.V4L2_CID_ZOOM_ABSOLUTE
)
