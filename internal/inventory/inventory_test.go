package inventory

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates path (and its parent directories) under root with contents.
func writeFile(t *testing.T, root, path, contents string) {
	t.Helper()
	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", full, err)
	}
	if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", full, err)
	}
}

// TestBuild_SingleRow is scenario 1 from spec.md 8: a single MJPEG row at full speed.
func TestBuild_SingleRow(t *testing.T) {
	root := t.TempDir()
	base := "uvc0/streaming/class/fs/header/h/m/1"
	writeFile(t, root, base+"/bFormatIndex", "1")
	writeFile(t, root, base+"/f/1/bFrameIndex", "1")
	writeFile(t, root, base+"/f/1/wWidth", "640")
	writeFile(t, root, base+"/f/1/wHeight", "480")
	writeFile(t, root, base+"/f/1/dwDefaultFrameInterval", "333333")

	inv, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(inv.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d: %+v", len(inv.Rows), inv.Rows)
	}
	r := inv.Rows[0]
	if r.Speed != SpeedFull || r.Pixel != PixelFormatMJPEG {
		t.Errorf("unexpected speed/pixel: %+v", r)
	}
	if r.FormatIndex != 1 || r.FrameIndex != 1 {
		t.Errorf("unexpected indices: %+v", r)
	}
	if r.Width != 640 || r.Height != 480 {
		t.Errorf("unexpected dimensions: %+v", r)
	}
	if r.DefaultInterval != 333333 {
		t.Errorf("unexpected interval: %+v", r)
	}
}

// TestBuild_TwoFormats is the fixture behind scenario 2 (Probe GET_MAX).
func TestBuild_TwoFormats(t *testing.T) {
	root := t.TempDir()

	mBase := "uvc0/streaming/class/fs/header/hm/m/1"
	writeFile(t, root, mBase+"/bFormatIndex", "1")
	writeFile(t, root, mBase+"/f/1/bFrameIndex", "1")
	writeFile(t, root, mBase+"/f/1/wWidth", "640")
	writeFile(t, root, mBase+"/f/1/wHeight", "480")

	uBase := "uvc0/streaming/class/fs/header/hu/u/2"
	writeFile(t, root, uBase+"/bFormatIndex", "2")
	writeFile(t, root, uBase+"/f/1/bFrameIndex", "1")
	writeFile(t, root, uBase+"/f/1/wWidth", "1280")
	writeFile(t, root, uBase+"/f/1/wHeight", "720")

	inv, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(inv.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(inv.Rows))
	}
	min, max := inv.FormatIndexBounds()
	if min != 1 || max != 2 {
		t.Errorf("expected format bounds [1,2], got [%d,%d]", min, max)
	}
}

func TestBuild_NoRowsIsConfigMissing(t *testing.T) {
	root := t.TempDir()
	_, err := Build(root)
	if err != ErrConfigMissing {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}

func TestBuild_StreamingParamsClamped(t *testing.T) {
	root := t.TempDir()
	base := "uvc0/streaming/class/fs/header/h/m/1"
	writeFile(t, root, base+"/bFormatIndex", "1")
	writeFile(t, root, base+"/f/1/bFrameIndex", "1")
	writeFile(t, root, "uvc0/streaming/streaming_maxburst", "99")
	writeFile(t, root, "uvc0/streaming/streaming_maxpacket", "0")
	writeFile(t, root, "uvc0/streaming/streaming_interval", "99")

	inv, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if inv.Params.MaxBurst != 15 {
		t.Errorf("expected maxburst clamped to 15, got %d", inv.Params.MaxBurst)
	}
	if inv.Params.MaxPacket != 1 {
		t.Errorf("expected maxpacket clamped to 1, got %d", inv.Params.MaxPacket)
	}
	if inv.Params.Interval != 16 {
		t.Errorf("expected interval clamped to 16, got %d", inv.Params.Interval)
	}
}

func TestBuild_MalformedFileSkipped(t *testing.T) {
	root := t.TempDir()
	base := "uvc0/streaming/class/fs/header/h/m/1"
	writeFile(t, root, base+"/bFormatIndex", "1")
	writeFile(t, root, base+"/f/1/bFrameIndex", "1")
	writeFile(t, root, base+"/f/1/wWidth", "not-a-number")

	inv, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(inv.Rows) != 1 {
		t.Fatalf("expected 1 row despite malformed attribute, got %d", len(inv.Rows))
	}
	if inv.Rows[0].Width != 0 {
		t.Errorf("expected width to stay zero, got %d", inv.Rows[0].Width)
	}
}

// TestReadInt_OverLongValueRejected matches the original
// configfs_read_value's `ret > 10` check (original_source/
// uvc-gadget.c:1539): a value longer than 10 digits is invalid, not a
// value to silently truncate into a different, smaller integer.
func TestReadInt_OverLongValueRejected(t *testing.T) {
	root := t.TempDir()
	base := "uvc0/streaming/class/fs/header/h/m/1"
	writeFile(t, root, base+"/bFormatIndex", "1")
	writeFile(t, root, base+"/f/1/bFrameIndex", "1")
	writeFile(t, root, base+"/f/1/wWidth", "123456789012")

	inv, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(inv.Rows) != 1 {
		t.Fatalf("expected 1 row despite the over-long attribute, got %d", len(inv.Rows))
	}
	if inv.Rows[0].Width != 0 {
		t.Errorf("expected width to stay zero (value rejected, not truncated), got %d", inv.Rows[0].Width)
	}
}
