package controlmap

import (
	"testing"

	"uvcbridge/internal/uvc"
	"uvcbridge/internal/v4l2"
)

// TestApplyUVCValue_Clamp is scenario 4 from spec.md 8: V4L2 range
// [-100,100], UVC value received 250 clamps to 200, V4L2 value written is 100.
func TestApplyUVCValue_Clamp(t *testing.T) {
	r := &Row{}
	r.PopulateFromQuery(v4l2.QueryInfo{Minimum: -100, Maximum: 100}, 0)

	if r.UVCMin != 0 || r.UVCMax != 200 {
		t.Fatalf("expected uvc range [0,200], got [%d,%d]", r.UVCMin, r.UVCMax)
	}

	got := r.ApplyUVCValue(250)
	if r.UVCValue != 200 {
		t.Errorf("expected clamped uvc value 200, got %d", r.UVCValue)
	}
	if got != 100 {
		t.Errorf("expected v4l2 value 100, got %d", got)
	}
}

// TestCC1_RoundTrip checks the CC1 invariant: clamp, then forward mapping,
// then inverse mapping is the identity modulo integer truncation.
func TestCC1_RoundTrip(t *testing.T) {
	cases := []struct {
		v4l2Min, v4l2Max, v4l2Current int32
	}{
		{0, 255, 128},
		{-50, 50, 0},
		{10, 20, 15},
	}
	for _, c := range cases {
		r := &Row{}
		r.PopulateFromQuery(v4l2.QueryInfo{Minimum: c.v4l2Min, Maximum: c.v4l2Max}, c.v4l2Current)

		if r.UVCMin != 0 {
			t.Errorf("uvc_min must be 0, got %d", r.UVCMin)
		}
		if r.UVCMax != c.v4l2Max-c.v4l2Min {
			t.Errorf("uvc_max mismatch: got %d want %d", r.UVCMax, c.v4l2Max-c.v4l2Min)
		}

		forward := r.UVCValue
		v4l2Value := r.ApplyUVCValue(forward)
		if v4l2Value != c.v4l2Current {
			t.Errorf("round trip mismatch for %+v: got %d want %d", c, v4l2Value, c.v4l2Current)
		}
	}
}

func TestFind(t *testing.T) {
	rows := Catalog()
	r := Find(rows, uvc.EntityProcessingUnit, uvc.SelectorBrightness)
	if r == nil {
		t.Fatal("expected brightness row")
	}
	if r.V4L2ID != v4l2.CIDBrightness {
		t.Errorf("unexpected v4l2 id: %d", r.V4L2ID)
	}

	if Find(rows, uvc.EntityProcessingUnit, 0xFF) != nil {
		t.Error("expected no match for unknown selector")
	}
}

func TestRedBalanceCoupling(t *testing.T) {
	r := Find(Catalog(), uvc.EntityProcessingUnit, uvc.SelectorWhiteBalanceComponent)
	if r == nil {
		t.Fatal("expected white balance component row")
	}
	if r.CoupledV4L2ID != v4l2.CIDBlueBalance {
		t.Errorf("expected coupled blue balance id, got %d", r.CoupledV4L2ID)
	}
}
