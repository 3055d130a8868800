// Command uvcbridge bridges a V4L2 capture device to a UVC gadget
// output device (spec.md 1): it builds the Format Inventory from
// configfs, opens both device endpoints, and runs the Bridge Event
// Loop until terminated.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"uvcbridge/internal/bridge"
	"uvcbridge/internal/controlmap"
	"uvcbridge/internal/endpoint"
	"uvcbridge/internal/inventory"
	"uvcbridge/internal/status"
)

const defaultConfigfsRoot = "/sys/kernel/config/usb_gadget"

const usage = `Usage: uvcbridge [options]

  -h          show this help and exit
  -l          enable onboard LED for status
  -n <2..32>  buffer count (default 4)
  -p <pin>    GPIO pin for status
  -u <path>   UVC output device node (default /dev/video1)
  -v <path>   V4L2 capture device node (default /dev/video0)
  -x          show FPS

The following flags are accepted for command-line compatibility with
the original uvc-gadget tool but are not implemented; they are parsed
and ignored (spec.md 9's Open Question, resolved in DESIGN.md):

  -b -d -f -i -m -o -r -s -t
`

func main() {
	os.Exit(run())
}

func run() int {
	var (
		help        bool
		led         bool
		bufCount    int
		gpioPin     int
		uvcPath     string
		v4l2Path    string
		showFPS     bool
		ignoredStr  string
		ignoredBool bool
	)

	flag.BoolVar(&help, "h", false, "show help")
	flag.BoolVar(&led, "l", false, "enable onboard LED for status")
	flag.IntVar(&bufCount, "n", 4, "buffer count")
	flag.IntVar(&gpioPin, "p", 0, "GPIO pin for status")
	flag.StringVar(&uvcPath, "u", "/dev/video1", "UVC output device node")
	flag.StringVar(&v4l2Path, "v", "/dev/video0", "V4L2 capture device node")
	flag.BoolVar(&showFPS, "x", false, "show FPS")

	// Placeholder flags from the original tool's getopt surface, accepted
	// and ignored (spec.md 9, Open Question Resolution 2).
	flag.StringVar(&ignoredStr, "b", "", "")
	flag.StringVar(&ignoredStr, "d", "", "")
	flag.StringVar(&ignoredStr, "f", "", "")
	flag.BoolVar(&ignoredBool, "i", false, "")
	flag.StringVar(&ignoredStr, "m", "", "")
	flag.StringVar(&ignoredStr, "o", "", "")
	flag.StringVar(&ignoredStr, "r", "", "")
	flag.StringVar(&ignoredStr, "s", "", "")
	flag.StringVar(&ignoredStr, "t", "", "")

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if help {
		fmt.Print(usage)
		return 0
	}

	if bufCount < 2 || bufCount > 32 {
		fmt.Fprintf(os.Stderr, "error: -n must be in range 2..32, got %d\n", bufCount)
		flag.Usage()
		return 1
	}

	inv, err := inventory.Build(defaultConfigfsRoot)
	if err != nil {
		log.Printf("format inventory: %v", err)
		return 1
	}

	rows := controlmap.Catalog()

	vdev, err := endpoint.Open(v4l2Path, endpoint.RoleCapture)
	if err != nil {
		log.Printf("open capture endpoint %s: %v", v4l2Path, err)
		return 1
	}
	vdev.LogAvailableFormats()

	if err := vdev.EnumerateControls(rows); err != nil {
		log.Printf("enumerate controls: %v", err)
	}

	udev, err := endpoint.Open(uvcPath, endpoint.RoleOutput)
	if err != nil {
		log.Printf("open uvc endpoint %s: %v", uvcPath, err)
		vdev.Close()
		return 1
	}

	statusChan := status.New(gpioPin, led)
	statusChan.Enable()

	ctx := &bridge.Context{
		Inventory:   inv,
		Rows:        rows,
		UDev:        udev,
		VDev:        vdev,
		Status:      statusChan,
		BufferCount: uint32(bufCount),
		ShowFPS:     showFPS,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctx.RequestTermination()
	}()

	if err := bridge.Run(ctx); err != nil {
		log.Printf("bridge: %v", err)
		return 1
	}
	return 0
}
