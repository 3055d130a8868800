// Package bridge implements the Bridge Event Loop (spec.md 4.4, 5, 9):
// the single-threaded readiness loop that shuttles buffers between the
// capture and UVC output endpoints and drives the control-plane state
// machine from UVC events.
package bridge

import (
	"sync/atomic"

	"uvcbridge/internal/controlmap"
	"uvcbridge/internal/endpoint"
	"uvcbridge/internal/inventory"
	"uvcbridge/internal/status"
)

// Context is the single bridge context value owned by the loop
// (spec.md 9's design note): the Format Inventory, Control Mapping,
// Streaming Parameters, and the terminate/shutdown_requested flags,
// lifted out of global state into one value passed by the caller.
type Context struct {
	Inventory inventory.Inventory
	Rows      []*controlmap.Row

	UDev *endpoint.Endpoint // UVC output endpoint
	VDev *endpoint.Endpoint // V4L2 capture endpoint

	Status *status.Channel

	// BufferCount is the pool size requested on STREAMON ("-n", spec.md 6).
	BufferCount uint32

	ShowFPS bool

	// ShutdownRequested is set by the loop itself (host disconnect,
	// buffer error) and only ever read/cleared by the loop.
	ShutdownRequested bool

	// terminate is set from the signal-handling goroutine and read once
	// per loop turn (spec.md 9: "the loop reads it once per turn").
	terminate int32
}

// RequestTermination is called from the process's signal handler.
func (c *Context) RequestTermination() {
	atomic.StoreInt32(&c.terminate, 1)
}

// Terminating reports whether termination has been requested.
func (c *Context) Terminating() bool {
	return atomic.LoadInt32(&c.terminate) != 0
}
