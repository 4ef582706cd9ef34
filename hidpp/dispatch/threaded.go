package dispatch

import (
	"sync"
	"time"

	"github.com/Alia5/gohidpp/hidpp"
	"github.com/Alia5/gohidpp/hidpp/hlog"
)

// Threaded is the background-thread multiplexer variant. A dedicated
// goroutine loops on ReadReport and classifies each frame; calls enqueue
// themselves on a command list under commandMu with a result channel, and
// the reader goroutine resolves it when it matches. Notifications register
// separately under listenerMu and resolve on the first matching event.
// Event handlers run on the reader goroutine and may freely issue further
// calls.
type Threaded struct {
	dev  hidpp.RawDevice
	info hidpp.ReportInfo
	log  hlog.Logger

	commandMu sync.Mutex
	commands  []*pendingCall

	listenerMu sync.Mutex
	handlers   map[key][]handlerEntry
	oneShots   []*pendingNotification
	nextID     ListenerHandle

	stopOnce sync.Once
	stopCh   chan struct{}
	stopErr  error
	stopErrMu sync.Mutex
	wg       sync.WaitGroup
}

type pendingCall struct {
	req    hidpp.Report
	result chan callResult
	done   bool
}

type callResult struct {
	report hidpp.Report
	err    error
}

type pendingNotification struct {
	device hidpp.DeviceIndex
	subID  uint8
	result chan callResult
	done   bool
}

// NewThreaded starts the reader goroutine and returns a running Threaded
// dispatcher.
func NewThreaded(dev hidpp.RawDevice, info hidpp.ReportInfo, log hlog.Logger) *Threaded {
	t := &Threaded{
		dev:      dev,
		info:     info,
		log:      log,
		handlers: make(map[key][]handlerEntry),
		stopCh:   make(chan struct{}),
	}
	t.wg.Add(1)
	go t.readLoop()
	return t
}

func (t *Threaded) ReportInfo() hidpp.ReportInfo { return t.info }

func (t *Threaded) SendFireAndForget(r hidpp.Report) error {
	raw := r.Encode()
	t.log.Raw(false, raw)
	return t.dev.WriteReport(raw)
}

// Call writes the report then enqueues the matcher under commandMu before
// returning, so the response cannot arrive before the matcher is installed.
// Once the reader has stopped on a transport error, Call returns that error;
// after Stop it returns ErrNotRunning. In both cases nothing is written.
func (t *Threaded) Call(r hidpp.Report) (AsyncReport, error) {
	pc := &pendingCall{req: r, result: make(chan callResult, 1)}
	t.commandMu.Lock()
	t.stopErrMu.Lock()
	stopErr := t.stopErr
	t.stopErrMu.Unlock()
	if stopErr == nil {
		select {
		case <-t.stopCh:
			stopErr = hidpp.ErrNotRunning
		default:
		}
	}
	if stopErr != nil {
		t.commandMu.Unlock()
		return nil, stopErr
	}
	raw := r.Encode()
	t.log.Raw(false, raw)
	if err := t.dev.WriteReport(raw); err != nil {
		t.commandMu.Unlock()
		return nil, err
	}
	t.commands = append(t.commands, pc)
	t.commandMu.Unlock()
	return &threadedCall{t: t, pc: pc}, nil
}

func (t *Threaded) SubscribeNotification(device hidpp.DeviceIndex, subID uint8) AsyncReport {
	pn := &pendingNotification{device: device, subID: subID, result: make(chan callResult, 1)}
	t.listenerMu.Lock()
	t.oneShots = append(t.oneShots, pn)
	t.listenerMu.Unlock()
	return &threadedNotification{t: t, pn: pn}
}

func (t *Threaded) RegisterEventHandler(device hidpp.DeviceIndex, subID uint8, h EventHandler) ListenerHandle {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	k := key{device: device, subID: subID}
	t.nextID++
	id := t.nextID
	t.handlers[k] = append(t.handlers[k], handlerEntry{id: id, fn: h})
	return id
}

func (t *Threaded) UnregisterEventHandler(h ListenerHandle) {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	for k, entries := range t.handlers {
		for i, e := range entries {
			if e.id == h {
				t.handlers[k] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Stop interrupts the reader and joins it. It is safe to call more than
// once.
func (t *Threaded) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
		t.dev.InterruptRead()
	})
	t.wg.Wait()
}

func (t *Threaded) readLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.stopCh:
			t.fail(hidpp.ErrNotRunning)
			return
		default:
		}
		raw, err := t.dev.ReadReport(0)
		if err != nil {
			t.setStopErr(err)
			t.fail(err)
			return
		}
		if raw == nil {
			// interrupted with no data; loop will observe stopCh if stopping.
			continue
		}
		t.log.Raw(true, raw)
		report, err := hidpp.DecodeReport(raw)
		if err != nil {
			if _, ok := err.(*hidpp.InvalidReportIDError); ok {
				continue
			}
			t.log.Warn("ignored report with invalid length", nil)
			continue
		}
		t.route(report)
	}
}

func (t *Threaded) route(r hidpp.Report) {
	if t.routeToCommand(r) {
		return
	}
	if !hidpp.IsEvent(r) {
		return
	}
	t.routeEvent(r)
}

func (t *Threaded) routeToCommand(r hidpp.Report) bool {
	t.commandMu.Lock()
	defer t.commandMu.Unlock()
	for i, pc := range t.commands {
		m := classify(pc.req, r)
		switch m {
		case matchOK:
			pc.done = true
			pc.result <- callResult{report: r}
			t.commands = append(t.commands[:i], t.commands[i+1:]...)
			return true
		case matchErrV1, matchErrV2:
			pc.done = true
			pc.result <- callResult{err: errorFor(m, r)}
			t.commands = append(t.commands[:i], t.commands[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Threaded) routeEvent(r hidpp.Report) {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	for i := 0; i < len(t.oneShots); {
		pn := t.oneShots[i]
		if r.Device == pn.device && r.SubID == pn.subID {
			pn.done = true
			pn.result <- callResult{report: r}
			t.oneShots = append(t.oneShots[:i], t.oneShots[i+1:]...)
			continue
		}
		i++
	}
	k := key{device: r.Device, subID: r.SubID}
	entries := t.handlers[k]
	kept := entries[:0]
	for _, e := range entries {
		if e.fn(r) {
			kept = append(kept, e)
		}
	}
	t.handlers[k] = kept
}

// fail resolves every pending call and one-shot notification with err, the
// fatal-transport-error / stop path (spec §4.3, §5).
func (t *Threaded) fail(err error) {
	t.commandMu.Lock()
	cmds := t.commands
	t.commands = nil
	t.commandMu.Unlock()
	for _, pc := range cmds {
		if !pc.done {
			pc.done = true
			pc.result <- callResult{err: err}
		}
	}

	t.listenerMu.Lock()
	ones := t.oneShots
	t.oneShots = nil
	t.listenerMu.Unlock()
	for _, pn := range ones {
		if !pn.done {
			pn.done = true
			pn.result <- callResult{err: err}
		}
	}
}

func (t *Threaded) setStopErr(err error) {
	t.stopErrMu.Lock()
	t.stopErr = err
	t.stopErrMu.Unlock()
}

type threadedCall struct {
	t  *Threaded
	pc *pendingCall
}

func (c *threadedCall) Get(timeout time.Duration) (hidpp.Report, error) {
	if timeout <= 0 {
		res := <-c.pc.result
		return res.report, res.err
	}
	select {
	case res := <-c.pc.result:
		return res.report, res.err
	case <-time.After(timeout):
		c.t.commandMu.Lock()
		// Race check: the reader may have resolved it while we waited for
		// the lock.
		if c.pc.done {
			c.t.commandMu.Unlock()
			res := <-c.pc.result
			return res.report, res.err
		}
		for i, pc := range c.t.commands {
			if pc == c.pc {
				c.t.commands = append(c.t.commands[:i], c.t.commands[i+1:]...)
				break
			}
		}
		c.t.commandMu.Unlock()
		return hidpp.Report{}, hidpp.ErrTimeout
	}
}

func (c *threadedCall) Cancel() {
	c.t.commandMu.Lock()
	defer c.t.commandMu.Unlock()
	for i, pc := range c.t.commands {
		if pc == c.pc {
			c.t.commands = append(c.t.commands[:i], c.t.commands[i+1:]...)
			break
		}
	}
}

type threadedNotification struct {
	t  *Threaded
	pn *pendingNotification
}

func (n *threadedNotification) Get(timeout time.Duration) (hidpp.Report, error) {
	if timeout <= 0 {
		res := <-n.pn.result
		return res.report, res.err
	}
	select {
	case res := <-n.pn.result:
		return res.report, res.err
	case <-time.After(timeout):
		n.t.listenerMu.Lock()
		if n.pn.done {
			n.t.listenerMu.Unlock()
			res := <-n.pn.result
			return res.report, res.err
		}
		for i, pn := range n.t.oneShots {
			if pn == n.pn {
				n.t.oneShots = append(n.t.oneShots[:i], n.t.oneShots[i+1:]...)
				break
			}
		}
		n.t.listenerMu.Unlock()
		return hidpp.Report{}, hidpp.ErrTimeout
	}
}

func (n *threadedNotification) Cancel() {
	n.t.listenerMu.Lock()
	defer n.t.listenerMu.Unlock()
	for i, pn := range n.t.oneShots {
		if pn == n.pn {
			n.t.oneShots = append(n.t.oneShots[:i], n.t.oneShots[i+1:]...)
			break
		}
	}
}
