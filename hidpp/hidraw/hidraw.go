// Package hidraw adapts github.com/karalabe/hid to the hidpp.RawDevice
// interface: enumeration, open/close and blocking read/write over a real OS
// HID backend (spec §1 "device access itself... is out of scope of this
// module"; the DOMAIN STACK calls for a concrete, optional adapter).
package hidraw

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Alia5/gohidpp/hidpp"
	"github.com/karalabe/hid"
)

// VendorID is Logitech's USB vendor id, used to restrict enumeration to
// devices that can plausibly speak HID++.
const VendorID = 0x046d

// Info describes one enumerated HID++ candidate device, mirroring
// hid.DeviceInfo's fields that matter for device selection.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
	Interface    int
}

// Enumerate lists Logitech HID devices. productID of 0 matches any product.
func Enumerate(productID uint16) ([]Info, error) {
	if !hid.Supported() {
		return nil, errors.New("hidraw: hid backend not supported on this platform")
	}
	var out []Info
	for _, d := range hid.Enumerate(VendorID, productID) {
		out = append(out, Info{
			Path:         d.Path,
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Product:      d.Product,
			Manufacturer: d.Manufacturer,
			Interface:    d.Interface,
		})
	}
	return out, nil
}

// Device is a hidpp.RawDevice backed by an open OS HID handle.
//
// karalabe/hid does not expose the raw HID report descriptor portably
// across its backends, so ReportDescriptor always returns nil here;
// callers that need ReportInfo should either probe it out-of-band or
// fall back to a conservative default (assume only Short reports), the
// same choice the original makes when report-descriptor probing is
// unavailable.
type Device struct {
	info   Info
	handle hid.Device

	mu sync.Mutex
}

// Open opens the HID device described by info.
func Open(info Info) (*Device, error) {
	handle, err := (hid.DeviceInfo{
		Path:      info.Path,
		VendorID:  info.VendorID,
		ProductID: info.ProductID,
	}).Open()
	if err != nil {
		return nil, fmt.Errorf("hidraw: open %s: %w", info.Path, err)
	}
	return &Device{info: info, handle: handle}, nil
}

func (d *Device) Close() error {
	return d.handle.Close()
}

func (d *Device) WriteReport(b []byte) error {
	_, err := d.handle.Write(b)
	if err != nil {
		return fmt.Errorf("hidraw: write: %w", err)
	}
	return nil
}

// ReadReport reads one report, blocking for up to timeoutMs (0 = block
// indefinitely, matching hidapi's ReadTimeout(-1) convention inverted at
// this boundary since RawDevice spells "no timeout" as 0).
func (d *Device) ReadReport(timeoutMs int) ([]byte, error) {
	timeout := timeoutMs
	if timeout <= 0 {
		timeout = -1
	}
	buf := make([]byte, 64)
	n, err := d.handle.ReadTimeout(buf, timeout)
	if err != nil {
		return nil, fmt.Errorf("hidraw: read: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return buf[:n], nil
}

// InterruptRead has no effect on this backend: karalabe/hid exposes no way
// to cancel an in-flight blocking Read from another goroutine. A blocked
// ReadReport returns only when a report arrives, its timeout elapses, or the
// device is closed with Close; the dispatchers never close the device.
func (d *Device) InterruptRead() {}

func (d *Device) VendorID() uint16  { return d.info.VendorID }
func (d *Device) ProductID() uint16 { return d.info.ProductID }
func (d *Device) Name() string      { return d.info.Product }

func (d *Device) ReportDescriptor() []byte { return nil }

var _ hidpp.RawDevice = (*Device)(nil)
