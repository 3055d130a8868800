// Package controlmap is the Control Mapping catalog (spec.md 3, 4.2): a
// static table pairing V4L2 control identifiers with UVC control
// selectors and interface kind, with mutable per-row ranges populated at
// runtime by the Device Endpoint's control enumeration.
package controlmap

import (
	"uvcbridge/internal/uvc"
	"uvcbridge/internal/v4l2"
)

// Row is one Control Mapping entry. The V4L2Type/V4L2Min/Max/Step/Default
// fields and the mirrored UVC-domain fields are populated at runtime by
// enumerate_controls (spec.md 4.2); Enabled gates whether the row answers
// a SETUP request at all.
type Row struct {
	Name      string
	Interface uint8 // uvc.EntityInputTerminal or uvc.EntityProcessingUnit
	Selector  uint8
	V4L2ID    uint32

	// CoupledV4L2ID, if nonzero, receives the same inverse-mapped value
	// as V4L2ID on every write (spec.md 4.2's red-balance -> blue-balance
	// coupling).
	CoupledV4L2ID uint32

	Enabled bool
	V4L2Type uint32

	V4L2Min, V4L2Max, V4L2Step, V4L2Default int32

	UVCMin, UVCMax, UVCStep, UVCDefault, UVCValue int32
	Length                                        int
}

// Catalog is the bridge's full, static list of Control Mapping rows
// (spec.md 3). Runtime fields start zeroed/disabled until enumerate_controls
// populates them.
func Catalog() []*Row {
	return []*Row{
		{Name: "brightness", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorBrightness, V4L2ID: v4l2.CIDBrightness, Length: 2},
		{Name: "contrast", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorContrast, V4L2ID: v4l2.CIDContrast, Length: 2},
		{Name: "hue", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorHue, V4L2ID: v4l2.CIDHue, Length: 2},
		{Name: "saturation", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorSaturation, V4L2ID: v4l2.CIDSaturation, Length: 2},
		{Name: "sharpness", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorSharpness, V4L2ID: v4l2.CIDSharpness, Length: 2},
		{Name: "gamma", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorGamma, V4L2ID: v4l2.CIDGamma, Length: 2},
		{Name: "gain", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorGain, V4L2ID: v4l2.CIDGain, Length: 2},
		{Name: "backlight_compensation", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorBacklightCompensation, V4L2ID: v4l2.CIDBacklightCompensation, Length: 2},
		{Name: "white_balance_temperature", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorWhiteBalanceTemperature, V4L2ID: v4l2.CIDWhiteBalanceTemperature, Length: 2},
		{Name: "white_balance_temperature_auto", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorWhiteBalanceTemperatureAuto, V4L2ID: v4l2.CIDAutoWhiteBalance, Length: 1},
		{Name: "white_balance_component", Interface: uvc.EntityProcessingUnit, Selector: uvc.SelectorWhiteBalanceComponent, V4L2ID: v4l2.CIDRedBalance, CoupledV4L2ID: v4l2.CIDBlueBalance, Length: 4},
		{Name: "exposure_time_absolute", Interface: uvc.EntityInputTerminal, Selector: uvc.SelectorExposureTimeAbsolute, V4L2ID: v4l2.CIDExposureAbsolute, Length: 4},
		{Name: "focus_absolute", Interface: uvc.EntityInputTerminal, Selector: uvc.SelectorFocusAbsolute, V4L2ID: v4l2.CIDFocusAbsolute, Length: 2},
		{Name: "zoom_absolute", Interface: uvc.EntityInputTerminal, Selector: uvc.SelectorZoomAbsolute, V4L2ID: v4l2.CIDZoomAbsolute, Length: 2},
	}
}

// Find returns the row matching (iface, selector), or nil.
func Find(rows []*Row, iface, selector uint8) *Row {
	for _, r := range rows {
		if r.Interface == iface && r.Selector == selector {
			return r
		}
	}
	return nil
}

// PopulateFromQuery folds a V4L2 control query and current value into the
// row's UVC-domain fields using the linear mapping in spec.md 4.2:
//
//	uvc_min = 0
//	uvc_max = v4l2_max - v4l2_min
//	uvc_default = v4l2_default - v4l2_min
//	uvc_value = v4l2_current - v4l2_min
func (r *Row) PopulateFromQuery(q v4l2.QueryInfo, current int32) {
	r.V4L2Type = q.Type
	r.V4L2Min = q.Minimum
	r.V4L2Max = q.Maximum
	r.V4L2Step = q.Step
	r.V4L2Default = q.Default

	r.UVCMin = 0
	r.UVCMax = q.Maximum - q.Minimum
	r.UVCStep = q.Step
	r.UVCDefault = q.Default - q.Minimum
	r.UVCValue = current - q.Minimum
	r.Enabled = !q.Disabled
}

// ApplyUVCValue clamps raw to [UVCMin, UVCMax], stores it as UVCValue, and
// returns the inverse-mapped V4L2 value to write (spec.md 4.2):
//
//	v4l2_value = (value - uvc_min) * (v4l2_max - v4l2_min) / (uvc_max - uvc_min) + v4l2_min
func (r *Row) ApplyUVCValue(raw int32) int32 {
	clamped := raw
	if clamped < r.UVCMin {
		clamped = r.UVCMin
	}
	if clamped > r.UVCMax {
		clamped = r.UVCMax
	}
	r.UVCValue = clamped

	span := r.UVCMax - r.UVCMin
	if span == 0 {
		return r.V4L2Min
	}
	return (clamped-r.UVCMin)*(r.V4L2Max-r.V4L2Min)/span + r.V4L2Min
}
