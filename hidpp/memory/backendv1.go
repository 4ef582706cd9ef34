package memory

import (
	"time"

	"github.com/Alia5/gohidpp/hidpp"
	"github.com/Alia5/gohidpp/hidpp/dispatch"
)

// V1SectorSize is the v1 flash page size (spec §6.4).
const V1SectorSize = 512

// V1Backend implements Backend over HID++1.0 register access, grounded on
// hidpp10/IMemory.cpp: reads use GetRegisterLong at the MemoryRead
// register, writes reset the sequence number, fill the destination page,
// then stream 16-byte data packets acknowledged one at a time.
type V1Backend struct {
	Dispatcher dispatch.Dispatcher
	Device     hidpp.DeviceIndex
	Timeout    time.Duration
}

func (b *V1Backend) SectorSize() int       { return V1SectorSize }
func (b *V1Backend) WordAddressable() bool { return true }

func (b *V1Backend) ReadPage(memType MemType, page uint8) ([]byte, error) {
	out := make([]byte, 0, V1SectorSize)
	var wordOffset uint8
	for len(out) < V1SectorSize {
		req := hidpp.Report{
			Type:    hidpp.Short,
			Device:  b.Device,
			SubID:   hidpp.SubIDGetRegisterLong,
			Address: hidpp.SubIDMemoryRead,
			Parameters: []byte{page, wordOffset, 0},
		}
		call, err := b.Dispatcher.Call(req)
		if err != nil {
			return nil, err
		}
		resp, err := call.Get(b.Timeout)
		if err != nil {
			return nil, err
		}
		n := len(resp.Parameters)
		if remain := V1SectorSize - len(out); n > remain {
			n = remain
		}
		out = append(out, resp.Parameters[:n]...)
		wordOffset += uint8(n / 2)
	}
	return out, nil
}

func (b *V1Backend) WritePage(memType MemType, page uint8, data []byte) error {
	if err := b.resetSeqNum(); err != nil {
		return err
	}
	if err := b.fillPage(page); err != nil {
		return err
	}
	return b.sendData(page, data)
}

func (b *V1Backend) resetSeqNum() error {
	req := hidpp.Report{
		Type:       hidpp.Short,
		Device:     b.Device,
		SubID:      hidpp.SubIDSetRegisterShort,
		Address:    hidpp.SubIDResetSeqNum,
		Parameters: []byte{1, 0, 0},
	}
	call, err := b.Dispatcher.Call(req)
	if err != nil {
		return err
	}
	_, err = call.Get(b.Timeout)
	return err
}

func (b *V1Backend) fillPage(page uint8) error {
	params := make([]byte, 16)
	params[0] = 2 // MemoryOp Fill
	params[6] = page
	req := hidpp.Report{
		Type:       hidpp.Long,
		Device:     b.Device,
		SubID:      hidpp.SubIDSetRegisterLong,
		Address:    hidpp.SubIDMemoryOperation,
		Parameters: params,
	}
	call, err := b.Dispatcher.Call(req)
	if err != nil {
		return err
	}
	_, err = call.Get(b.Timeout)
	return err
}

// sendData streams data in 16-byte packets: sub_id 0x90 for the first
// packet, 0x91 for the rest, with an incrementing 1-byte sequence number.
// Each packet is followed by an acknowledgement report with sub_id 0x50
// whose Address equals the sequence number on success, or the error code
// on failure (spec concrete scenario 3).
func (b *V1Backend) sendData(page uint8, data []byte) error {
	var seq uint8
	for sent := 0; sent < len(data); sent += 16 {
		end := sent + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := make([]byte, 16)
		copy(chunk, data[sent:end])

		subID := hidpp.SubIDSendDataContinue
		if sent == 0 {
			subID = hidpp.SubIDSendDataBegin
		}
		ackWait := b.Dispatcher.SubscribeNotification(b.Device, hidpp.SubIDSendDataAck)
		req := hidpp.Report{
			Type:       hidpp.Long,
			Device:     b.Device,
			SubID:      subID,
			Address:    seq,
			Parameters: chunk,
		}
		if err := b.Dispatcher.SendFireAndForget(req); err != nil {
			return err
		}
		ack, err := ackWait.Get(b.Timeout)
		if err != nil {
			return err
		}
		if ack.Address != seq {
			return &hidpp.WriteError{Code: ack.Address}
		}
		seq++
	}
	return nil
}
