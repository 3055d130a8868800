package status

import (
	"os"
	"path/filepath"
	"testing"
)

// withTempPaths redirects gpioRoot/ledBrightnessPath to a temp dir and
// restores them on cleanup, the same snapshot/restore shape
// endpoint_test.go's saveHooks uses for its mockable vars.
func withTempPaths(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origRoot, origLED := gpioRoot, ledBrightnessPath
	gpioRoot = dir
	ledBrightnessPath = filepath.Join(dir, "led0-brightness")
	t.Cleanup(func() { gpioRoot, ledBrightnessPath = origRoot, origLED })
	return dir
}

func TestNew_PinDisabledIsNoop(t *testing.T) {
	withTempPaths(t)
	c := New(0, false)
	c.Enable()
	c.Set(true) // must not panic or write anything
}

func TestEnable_ExportsConfiguredPin(t *testing.T) {
	dir := withTempPaths(t)
	c := New(7, false)
	c.Enable()

	got, err := os.ReadFile(filepath.Join(dir, "export"))
	if err != nil {
		t.Fatalf("expected export file to be written: %v", err)
	}
	if string(got) != "7" {
		t.Errorf("expected export value 7, got %q", got)
	}
}

func TestSet_WritesGPIOAndLED(t *testing.T) {
	dir := withTempPaths(t)
	// Set writes to <gpioRoot>/gpio<pin>/value; create the directory Set expects.
	if err := os.MkdirAll(filepath.Join(dir, "gpio3"), 0o755); err != nil {
		t.Fatal(err)
	}
	c := New(3, true)

	c.Set(true)
	gpioVal, err := os.ReadFile(filepath.Join(dir, "gpio3", "value"))
	if err != nil {
		t.Fatalf("expected gpio value file: %v", err)
	}
	if string(gpioVal) != "1\n" {
		t.Errorf("expected gpio value 1, got %q", gpioVal)
	}
	ledVal, err := os.ReadFile(ledBrightnessPath)
	if err != nil {
		t.Fatalf("expected led brightness file: %v", err)
	}
	if string(ledVal) != "1\n" {
		t.Errorf("expected led brightness 1, got %q", ledVal)
	}

	c.Set(false)
	gpioVal, _ = os.ReadFile(filepath.Join(dir, "gpio3", "value"))
	if string(gpioVal) != "0\n" {
		t.Errorf("expected gpio value 0 after Set(false), got %q", gpioVal)
	}
}
