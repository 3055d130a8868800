package inventory

import "testing"

// TestGlobalFrameIndexBounds is the fixture behind spec.md 8 scenario 2:
// both formats share frame index 1, so the global max is 1, not the
// count of formats.
func TestGlobalFrameIndexBounds(t *testing.T) {
	inv := Inventory{Rows: []Row{
		{FormatIndex: 1, FrameIndex: 1},
		{FormatIndex: 2, FrameIndex: 1},
	}}
	min, max := inv.GlobalFrameIndexBounds()
	if min != 1 || max != 1 {
		t.Fatalf("expected bounds [1,1], got [%d,%d]", min, max)
	}
}

func TestGlobalFrameIndexBounds_Empty(t *testing.T) {
	inv := Inventory{}
	min, max := inv.GlobalFrameIndexBounds()
	if min != 0 || max != 0 {
		t.Fatalf("expected bounds [0,0] for an empty inventory, got [%d,%d]", min, max)
	}
}
