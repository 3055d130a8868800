package uvc

import "testing"

func TestStreamingControlRoundTrip(t *testing.T) {
	sc := StreamingControl{
		Hint:                   1,
		FormatIndex:            2,
		FrameIndex:             1,
		FrameInterval:          400000,
		MaxVideoFrameSize:      1843200,
		MaxPayloadTransferSize: 1024,
	}
	got := UnmarshalStreamingControl(sc.Marshal())
	if got != sc {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, sc)
	}
}

func TestUnmarshalStreamingControl_ShortBufferZeroExtends(t *testing.T) {
	short := []byte{0x00, 0x00, 0x02, 0x01}
	got := UnmarshalStreamingControl(short)
	if got.FormatIndex != 2 || got.FrameIndex != 1 {
		t.Fatalf("expected format=2 frame=1 from a truncated buffer, got format=%d frame=%d", got.FormatIndex, got.FrameIndex)
	}
	if got.ClockFrequency != 0 {
		t.Errorf("expected zero-extension past the supplied bytes, got %d", got.ClockFrequency)
	}
}

func TestMarshalLength(t *testing.T) {
	if n := len(StreamingControl{}.Marshal()); n != StreamingControlSize {
		t.Fatalf("expected marshaled length %d, got %d", StreamingControlSize, n)
	}
}
