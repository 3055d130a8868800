// Package status is the streaming status side channel (spec.md 6, 14):
// a GPIO pin and/or an LED brightness file the bridge writes 0/1 to on
// stream transitions. Both outputs are optional; whether anything is
// written is entirely this collaborator's decision.
package status

import (
	"fmt"
	"log"
	"os"
)

var logger = log.New(log.Writer(), "status: ", log.LstdFlags)

// gpioRoot and ledBrightnessPath are vars, not consts, so status_test.go
// can point them at a temp directory instead of the real sysfs tree.
var (
	gpioRoot          = "/sys/class/gpio"
	ledBrightnessPath = "/sys/class/leds/led0/brightness"
)

// Channel writes stream transitions to a GPIO pin and/or an LED.
type Channel struct {
	pin        int
	ledEnabled bool
	gpioPath   string
	ledPath    string
}

// New configures a Channel. pin <= 0 disables the GPIO output; led
// enables the onboard LED output ("-l"/"-p" flags, spec.md 6).
func New(pin int, led bool) *Channel {
	c := &Channel{pin: pin, ledEnabled: led}
	if pin > 0 {
		c.gpioPath = fmt.Sprintf("%s/gpio%d/value", gpioRoot, pin)
	}
	if led {
		c.ledPath = ledBrightnessPath
	}
	return c
}

// Enable exports the configured GPIO pin, if any, so Set can write to it.
func (c *Channel) Enable() {
	if c.pin <= 0 {
		return
	}
	exportPath := gpioRoot + "/export"
	if err := os.WriteFile(exportPath, []byte(fmt.Sprintf("%d", c.pin)), 0o644); err != nil {
		logger.Printf("export gpio %d: %v", c.pin, err)
	}
}

// Set writes the streaming boolean to every configured output.
func (c *Channel) Set(streaming bool) {
	value := []byte("0\n")
	if streaming {
		value = []byte("1\n")
	}
	if c.gpioPath != "" {
		if err := os.WriteFile(c.gpioPath, value, 0o644); err != nil {
			logger.Printf("write gpio value: %v", err)
		}
	}
	if c.ledPath != "" {
		if err := os.WriteFile(c.ledPath, value, 0o644); err != nil {
			logger.Printf("write led brightness: %v", err)
		}
	}
}
