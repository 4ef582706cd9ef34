package dispatch

import (
	"time"

	"github.com/Alia5/gohidpp/hidpp"
	"github.com/Alia5/gohidpp/hidpp/hlog"
)

// Pump is the single-threaded cooperative dispatcher variant. Calls invoked
// from the same goroutine work because the implementation services the
// pump inline between send and response: each Call writes, then Get
// repeatedly reads and routes the raw device until it sees its own match or
// its timeout elapses.
//
// Limitation (documented, spec §4.3): an event handler invoked from Listen
// must not issue a Call on the same Pump: the Call's Get would read and
// dispatch further reports from inside the handler's own dispatch.
type Pump struct {
	dev     hidpp.RawDevice
	info    hidpp.ReportInfo
	log     hlog.Logger
	stopped bool

	handlers map[key][]handlerEntry
	nextID   ListenerHandle
}

type handlerEntry struct {
	id ListenerHandle
	fn EventHandler
}

// NewPump builds a Pump over dev. info is used as given: NewPump does not
// parse or probe the device's report descriptor.
func NewPump(dev hidpp.RawDevice, info hidpp.ReportInfo, log hlog.Logger) *Pump {
	return &Pump{
		dev:      dev,
		info:     info,
		log:      log,
		handlers: make(map[key][]handlerEntry),
	}
}

func (p *Pump) ReportInfo() hidpp.ReportInfo { return p.info }

func (p *Pump) SendFireAndForget(r hidpp.Report) error {
	raw := r.Encode()
	p.log.Raw(false, raw)
	return p.dev.WriteReport(raw)
}

func (p *Pump) Call(r hidpp.Report) (AsyncReport, error) {
	raw := r.Encode()
	p.log.Raw(false, raw)
	if err := p.dev.WriteReport(raw); err != nil {
		return nil, err
	}
	return &pumpCall{p: p, req: r}, nil
}

func (p *Pump) SubscribeNotification(device hidpp.DeviceIndex, subID uint8) AsyncReport {
	return &pumpNotification{p: p, device: device, subID: subID}
}

func (p *Pump) RegisterEventHandler(device hidpp.DeviceIndex, subID uint8, h EventHandler) ListenerHandle {
	k := key{device: device, subID: subID}
	p.nextID++
	id := p.nextID
	p.handlers[k] = append(p.handlers[k], handlerEntry{id: id, fn: h})
	return id
}

func (p *Pump) UnregisterEventHandler(h ListenerHandle) {
	for k, entries := range p.handlers {
		for i, e := range entries {
			if e.id == h {
				p.handlers[k] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (p *Pump) Stop() {
	p.stopped = true
	p.dev.InterruptRead()
}

// Listen blocks the caller, reading and routing reports (dispatching
// events, ignoring everything else) until the transport is interrupted or
// the timeout elapses.
func (p *Pump) Listen(timeout time.Duration) error {
	for {
		_, err := p.getReport(timeoutMs(timeout))
		if err != nil {
			if err == hidpp.ErrTimeout {
				return nil
			}
			return err
		}
	}
}

func timeoutMs(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Millisecond)
}

// getReport reads one raw report, decodes it, and if it is a normal
// (non-error) report dispatches it as an event. It returns the decoded
// report either way so callers matching against a specific call can inspect
// it themselves.
func (p *Pump) getReport(timeoutMs int) (hidpp.Report, error) {
	for {
		if p.stopped {
			return hidpp.Report{}, hidpp.ErrNotRunning
		}
		raw, err := p.dev.ReadReport(timeoutMs)
		if err != nil {
			return hidpp.Report{}, err
		}
		if raw == nil {
			return hidpp.Report{}, hidpp.ErrTimeout
		}
		p.log.Raw(true, raw)
		report, err := hidpp.DecodeReport(raw)
		if err != nil {
			if _, ok := err.(*hidpp.InvalidReportIDError); ok {
				continue
			}
			p.log.Warn("ignored report with invalid length", nil)
			continue
		}
		if _, _, _, ok := hidpp.CheckErrorV1(report); ok {
			return report, nil
		}
		if _, _, _, _, ok := hidpp.CheckErrorV2(report); ok {
			return report, nil
		}
		p.dispatchEvent(report)
		return report, nil
	}
}

func (p *Pump) dispatchEvent(r hidpp.Report) {
	if !hidpp.IsEvent(r) {
		return
	}
	k := key{device: r.Device, subID: r.SubID}
	entries := p.handlers[k]
	kept := entries[:0]
	for _, e := range entries {
		if e.fn(r) {
			kept = append(kept, e)
		}
	}
	p.handlers[k] = kept
}

type pumpCall struct {
	p   *Pump
	req hidpp.Report
}

func (c *pumpCall) Get(timeout time.Duration) (hidpp.Report, error) {
	for {
		resp, err := c.p.getReport(timeoutMs(timeout))
		if err != nil {
			return hidpp.Report{}, err
		}
		m := classify(c.req, resp)
		switch m {
		case matchOK:
			return resp, nil
		case matchErrV1, matchErrV2:
			return hidpp.Report{}, errorFor(m, resp)
		default:
			continue
		}
	}
}

func (c *pumpCall) Cancel() {}

type pumpNotification struct {
	p      *Pump
	device hidpp.DeviceIndex
	subID  uint8
}

func (n *pumpNotification) Get(timeout time.Duration) (hidpp.Report, error) {
	for {
		resp, err := n.p.getReport(timeoutMs(timeout))
		if err != nil {
			return hidpp.Report{}, err
		}
		if resp.Device == n.device && resp.SubID == n.subID {
			return resp, nil
		}
	}
}

func (n *pumpNotification) Cancel() {}
