package bridge

import (
	"testing"

	sys "golang.org/x/sys/unix"

	"uvcbridge/internal/endpoint"
)

func TestFdSetRoundTrip(t *testing.T) {
	var set sys.FdSet
	for _, fd := range []int{0, 3, 63, 64, 65, 200} {
		fdSet(&set, fd)
	}
	for _, fd := range []int{0, 3, 63, 64, 65, 200} {
		if !fdIsSet(&set, fd) {
			t.Errorf("expected fd %d to be set", fd)
		}
	}
	if fdIsSet(&set, 1) {
		t.Errorf("fd 1 should not be set")
	}
}

// TestThrottle_BlocksUntilTwoOutstanding checks the throttle rule from
// spec.md 4.4/8 (SH1 is the companion "unless shutdown" case): with at
// most 1 buffer outstanding, shuttleUVCToCapture must not attempt a
// dequeue at all.
func TestThrottle_BlocksUntilTwoOutstanding(t *testing.T) {
	ctx := &Context{
		UDev: &endpoint.Endpoint{Pool: endpoint.Pool{Count: 4, QBufCount: 1, DQBufCount: 0}},
		VDev: &endpoint.Endpoint{},
	}
	shuttled, err := shuttleUVCToCapture(ctx)
	if err != nil {
		t.Fatalf("expected no error from a throttle-blocked call, got %v", err)
	}
	if shuttled {
		t.Fatal("expected no shuttle while outstanding <= 1")
	}
}

// TestThrottle_NoOutstandingBuffersIsNoop covers the zero-pool case
// (bridge not yet streaming) without touching a real file descriptor.
func TestThrottle_NoOutstandingBuffersIsNoop(t *testing.T) {
	ctx := &Context{
		UDev: &endpoint.Endpoint{},
		VDev: &endpoint.Endpoint{},
	}
	shuttled, err := shuttleUVCToCapture(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if shuttled {
		t.Fatal("expected no shuttle with an empty pool")
	}
}
