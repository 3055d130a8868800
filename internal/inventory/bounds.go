package inventory

// GlobalFrameIndexBounds returns the min/max frame index across every row,
// regardless of format — the "global extremes" the Probe/Commit builder
// uses for MIN/MAX requests (spec.md 4.3).
func (inv Inventory) GlobalFrameIndexBounds() (min, max uint32) {
	min = ^uint32(0)
	for _, r := range inv.Rows {
		if r.FrameIndex < min {
			min = r.FrameIndex
		}
		if r.FrameIndex > max {
			max = r.FrameIndex
		}
	}
	if min == ^uint32(0) {
		min = 0
	}
	return min, max
}
