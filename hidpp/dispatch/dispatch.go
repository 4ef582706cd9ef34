// Package dispatch multiplexes HID++ request/response/event traffic over a
// single shared RawDevice. It provides two interchangeable implementations
// of the same Dispatcher interface (spec §4.3): a cooperative single-thread
// pump and a background-thread multiplexer.
package dispatch

import (
	"time"

	"github.com/Alia5/gohidpp/hidpp"
)

// EventHandler is a persistent listener for HID++ events. Returning false
// unregisters it.
type EventHandler func(r hidpp.Report) bool

// ListenerHandle identifies a registered EventHandler so it can be removed.
type ListenerHandle uint64

// key identifies an outstanding call or a one-shot/persistent listener by
// the fields the matching rules in spec §4.3 compare against.
type key struct {
	device hidpp.DeviceIndex
	subID  uint8 // v1 sub_id == v2 feature_index
	addr   uint8 // v1 address == v2 (function<<4|sw_id); ignored for listeners
}

// AsyncReport is a future-like handle for a call's eventual result.
type AsyncReport interface {
	// Get blocks until the call resolves, the timeout elapses, or the
	// dispatcher stops.
	Get(timeout time.Duration) (hidpp.Report, error)
	// Cancel removes the pending entry early. Matching reports that arrive
	// afterward fall through to the event path.
	Cancel()
}

// Dispatcher is the shared contract implemented by Pump and Threaded.
type Dispatcher interface {
	// SendFireAndForget writes a report and returns without waiting for a
	// reply.
	SendFireAndForget(r hidpp.Report) error

	// Call writes a request and returns a handle resolving to the matching
	// response or an Error.
	Call(r hidpp.Report) (AsyncReport, error)

	// SubscribeNotification registers a one-shot listener for the next
	// event matching (device, subID).
	SubscribeNotification(device hidpp.DeviceIndex, subID uint8) AsyncReport

	// RegisterEventHandler installs a persistent listener.
	RegisterEventHandler(device hidpp.DeviceIndex, subID uint8, h EventHandler) ListenerHandle

	// UnregisterEventHandler removes a persistent listener.
	UnregisterEventHandler(h ListenerHandle)

	// ReportInfo reports which report types the underlying device exposes.
	ReportInfo() hidpp.ReportInfo

	// Stop shuts the dispatcher down, failing every pending call with
	// ErrNotRunning, and releases the reader resource (thread or none).
	Stop()
}

// DefaultSwID is the process-wide software id used for outgoing calls
// unless the caller picks another (spec §4.3: "single cooperation point
// with other software processes").
const DefaultSwID uint8 = 1
