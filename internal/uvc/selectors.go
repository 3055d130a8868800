package uvc

/*
#include <linux/usb/video.h>
*/
import "C"

// Processing Unit control selectors (UVC_PU_*), consulted when
// active_interface == EntityProcessingUnit.
const (
	SelectorBrightness             uint8 = C.UVC_PU_BRIGHTNESS_CONTROL
	SelectorContrast               uint8 = C.UVC_PU_CONTRAST_CONTROL
	SelectorHue                    uint8 = C.UVC_PU_HUE_CONTROL
	SelectorSaturation             uint8 = C.UVC_PU_SATURATION_CONTROL
	SelectorSharpness              uint8 = C.UVC_PU_SHARPNESS_CONTROL
	SelectorGamma                  uint8 = C.UVC_PU_GAMMA_CONTROL
	SelectorGain                   uint8 = C.UVC_PU_GAIN_CONTROL
	SelectorBacklightCompensation  uint8 = C.UVC_PU_BACKLIGHT_COMPENSATION_CONTROL
	SelectorWhiteBalanceTemperature uint8 = C.UVC_PU_WHITE_BALANCE_TEMPERATURE_CONTROL
	SelectorWhiteBalanceTemperatureAuto uint8 = C.UVC_PU_WHITE_BALANCE_TEMPERATURE_AUTO_CONTROL
	// SelectorWhiteBalanceComponent is the combined blue/red-balance
	// control (D0-D1 blue, D2-D3 red per the UVC spec); this bridge
	// treats it as the UVC-side home for V4L2_CID_RED_BALANCE and
	// mirrors writes to V4L2_CID_BLUE_BALANCE (spec.md 4.2).
	SelectorWhiteBalanceComponent uint8 = C.UVC_PU_WHITE_BALANCE_COMPONENT_CONTROL
)

// Camera (Input) Terminal control selectors (UVC_CT_*), consulted when
// active_interface == EntityInputTerminal.
const (
	SelectorExposureTimeAbsolute uint8 = C.UVC_CT_EXPOSURE_TIME_ABSOLUTE_CONTROL
	SelectorFocusAbsolute        uint8 = C.UVC_CT_FOCUS_ABSOLUTE_CONTROL
	SelectorZoomAbsolute         uint8 = C.UVC_CT_ZOOM_ABSOLUTE_CONTROL
)
