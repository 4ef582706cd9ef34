package dispatch_test

import (
	"sync"
	"testing"
	"time"

	"github.com/Alia5/gohidpp/hidpp"
	"github.com/Alia5/gohidpp/hidpp/dispatch"
	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRawDevice is an in-memory hidpp.RawDevice: writes are captured, reads
// are served from a queue, and InterruptRead unblocks a pending read exactly
// once by closing the queue, matching the documented (nil, nil) contract.
type fakeRawDevice struct {
	mu        sync.Mutex
	writes    [][]byte
	reads     chan []byte
	closeOnce sync.Once
}

func newFakeRawDevice() *fakeRawDevice {
	return &fakeRawDevice{reads: make(chan []byte, 16)}
}

func (d *fakeRawDevice) push(b []byte) { d.reads <- b }

func (d *fakeRawDevice) WriteReport(b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, append([]byte(nil), b...))
	return nil
}

func (d *fakeRawDevice) lastWrite() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.writes) == 0 {
		return nil
	}
	return d.writes[len(d.writes)-1]
}

func (d *fakeRawDevice) ReadReport(timeoutMs int) ([]byte, error) {
	if timeoutMs <= 0 {
		b, ok := <-d.reads
		if !ok {
			return nil, nil
		}
		return b, nil
	}
	select {
	case b, ok := <-d.reads:
		if !ok {
			return nil, nil
		}
		return b, nil
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return nil, nil
	}
}

func (d *fakeRawDevice) InterruptRead() {
	d.closeOnce.Do(func() { close(d.reads) })
}

func (d *fakeRawDevice) VendorID() uint16       { return 0x046d }
func (d *fakeRawDevice) ProductID() uint16      { return 0xc068 }
func (d *fakeRawDevice) Name() string           { return "fake" }
func (d *fakeRawDevice) ReportDescriptor() []byte { return nil }

var _ hidpp.RawDevice = (*fakeRawDevice)(nil)

func request() hidpp.Report {
	return hidpp.Report{Type: hidpp.Short, Device: hidpp.WirelessDevice1, SubID: 0x81, Address: 0x01, Parameters: []byte{0, 0, 0}}
}

func response(req hidpp.Report, payload byte) hidpp.Report {
	return hidpp.Report{Type: req.Type, Device: req.Device, SubID: req.SubID, Address: req.Address, Parameters: []byte{payload, 0, 0}}
}

func errorResponse(req hidpp.Report, code uint8) hidpp.Report {
	return hidpp.Report{
		Type: hidpp.Short, Device: req.Device, SubID: hidpp.SubIDError,
		Address: 0, Parameters: []byte{req.SubID, req.Address, code},
	}
}

func TestPumpCallResolvesOnMatchingResponse(t *testing.T) {
	dev := newFakeRawDevice()
	p := dispatch.NewPump(dev, hidpp.ReportInfo{HasShort: true}, hlog.Nop())
	defer p.Stop()

	req := request()
	call, err := p.Call(req)
	require.NoError(t, err)
	require.Equal(t, req.Encode(), dev.lastWrite())

	dev.push(response(req, 0x2a).Encode())

	got, err := call.Get(time.Second)
	require.NoError(t, err)
	assert.Equal(t, byte(0x2a), got.Parameters[0])
}

func TestPumpCallResolvesOnMatchingV1Error(t *testing.T) {
	dev := newFakeRawDevice()
	p := dispatch.NewPump(dev, hidpp.ReportInfo{HasShort: true}, hlog.Nop())
	defer p.Stop()

	req := request()
	call, err := p.Call(req)
	require.NoError(t, err)

	dev.push(errorResponse(req, 5).Encode())

	_, err = call.Get(time.Second)
	require.Error(t, err)
	var hErr *hidpp.Hidpp1Error
	require.ErrorAs(t, err, &hErr)
	assert.Equal(t, hidpp.ErrorCodeV1(5), hErr.Code)
}

func TestPumpListenDispatchesEventsToHandler(t *testing.T) {
	dev := newFakeRawDevice()
	p := dispatch.NewPump(dev, hidpp.ReportInfo{HasShort: true}, hlog.Nop())
	defer p.Stop()

	var got hidpp.Report
	seen := make(chan struct{}, 1)
	p.RegisterEventHandler(hidpp.WirelessDevice1, 0x02, func(r hidpp.Report) bool {
		got = r
		seen <- struct{}{}
		return true
	})

	event := hidpp.Report{Type: hidpp.Short, Device: hidpp.WirelessDevice1, SubID: 0x02, Address: 0, Parameters: []byte{1, 2, 3}}
	dev.push(event.Encode())

	err := p.Listen(50 * time.Millisecond)
	require.NoError(t, err)

	select {
	case <-seen:
	default:
		t.Fatal("event handler was not invoked")
	}
	assert.Equal(t, byte(1), got.Parameters[0])
}

func TestThreadedCallResolvesOnMatchingResponse(t *testing.T) {
	dev := newFakeRawDevice()
	d := dispatch.NewThreaded(dev, hidpp.ReportInfo{HasShort: true}, hlog.Nop())
	defer d.Stop()

	req := request()
	call, err := d.Call(req)
	require.NoError(t, err)

	dev.push(response(req, 0x7b).Encode())

	got, err := call.Get(time.Second)
	require.NoError(t, err)
	assert.Equal(t, byte(0x7b), got.Parameters[0])
}

func TestThreadedCallTimesOut(t *testing.T) {
	dev := newFakeRawDevice()
	d := dispatch.NewThreaded(dev, hidpp.ReportInfo{HasShort: true}, hlog.Nop())
	defer d.Stop()

	call, err := d.Call(request())
	require.NoError(t, err)

	_, err = call.Get(20 * time.Millisecond)
	assert.ErrorIs(t, err, hidpp.ErrTimeout)
}

func TestThreadedRegisterEventHandlerDispatchesOnReaderGoroutine(t *testing.T) {
	dev := newFakeRawDevice()
	d := dispatch.NewThreaded(dev, hidpp.ReportInfo{HasShort: true}, hlog.Nop())
	defer d.Stop()

	seen := make(chan hidpp.Report, 1)
	handle := d.RegisterEventHandler(hidpp.WirelessDevice1, 0x02, func(r hidpp.Report) bool {
		seen <- r
		return true
	})
	defer d.UnregisterEventHandler(handle)

	event := hidpp.Report{Type: hidpp.Short, Device: hidpp.WirelessDevice1, SubID: 0x02, Address: 0, Parameters: []byte{9, 0, 0}}
	dev.push(event.Encode())

	select {
	case r := <-seen:
		assert.Equal(t, byte(9), r.Parameters[0])
	case <-time.After(time.Second):
		t.Fatal("event handler was not invoked")
	}
}

func TestThreadedStopFailsPendingCalls(t *testing.T) {
	dev := newFakeRawDevice()
	d := dispatch.NewThreaded(dev, hidpp.ReportInfo{HasShort: true}, hlog.Nop())

	call, err := d.Call(request())
	require.NoError(t, err)

	d.Stop()

	_, err = call.Get(time.Second)
	assert.ErrorIs(t, err, hidpp.ErrNotRunning)
}
