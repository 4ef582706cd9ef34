package macro

import "github.com/Alia5/gohidpp/hidpp/memory"

// v2 opcodes (spec §6.5). v2 jumps carry a full 4-byte address and several
// v1 instructions have no v2 equivalent.
const (
	v2NoOp               = 0x00
	v2WaitRelease        = 0x01
	v2RepeatUntilRelease = 0x02
	v2RepeatForever      = 0x03
	v2MouseWheel         = 0x20
	v2MouseHWheel        = 0x21
	v2Delay              = 0x40
	v2MouseButtonPress   = 0x41
	v2MouseButtonRelease = 0x42
	v2ModifiersKeyPress  = 0x43
	v2ModifiersKeyRel    = 0x44
	v2ConsumerPress      = 0x45
	v2ConsumerRelease    = 0x46
	v2Jump               = 0x60
	v2MousePointer       = 0x61
	v2End                = 0xFF
)

// V2Format is the HID++2.0 macro encoding.
type V2Format struct{}

func (V2Format) JumpLength() int { return 5 }

func (V2Format) Length(it Item) int {
	switch it.Instr {
	case NoOp, WaitRelease, RepeatUntilRelease, RepeatForever, End:
		return 1
	case MouseWheel, MouseHWheel:
		return 2
	case Delay, MouseButtonPress, MouseButtonRelease,
		ModifiersKeyPress, ModifiersKeyRelease,
		ConsumerControlPress, ConsumerControlRelease:
		return 3
	case Jump, MousePointer:
		return 5
	default:
		return 0
	}
}

func (V2Format) WriteAddress(slot []byte, addr memory.Address) {
	slot[0] = byte(addr.MemType)
	slot[1] = addr.Page
	putBE16(slot[2:], addr.Offset)
}

func (f V2Format) Write(buf []byte, off int, it Item) (int, []byte, error) {
	switch it.Instr {
	case NoOp:
		buf[off] = v2NoOp
		return 1, nil, nil
	case WaitRelease:
		buf[off] = v2WaitRelease
		return 1, nil, nil
	case RepeatUntilRelease:
		buf[off] = v2RepeatUntilRelease
		return 1, nil, nil
	case RepeatForever:
		buf[off] = v2RepeatForever
		return 1, nil, nil
	case End:
		buf[off] = v2End
		return 1, nil, nil
	case MouseWheel:
		buf[off], buf[off+1] = v2MouseWheel, byte(int8(it.Wheel))
		return 2, nil, nil
	case MouseHWheel:
		buf[off], buf[off+1] = v2MouseHWheel, byte(int8(it.Wheel))
		return 2, nil, nil
	case Delay:
		buf[off] = v2Delay
		putBE16(buf[off+1:], uint16(it.Delay))
		return 3, nil, nil
	case MouseButtonPress:
		buf[off] = v2MouseButtonPress
		putBE16(buf[off+1:], it.Buttons)
		return 3, nil, nil
	case MouseButtonRelease:
		buf[off] = v2MouseButtonRelease
		putBE16(buf[off+1:], it.Buttons)
		return 3, nil, nil
	case ModifiersKeyPress:
		buf[off], buf[off+1], buf[off+2] = v2ModifiersKeyPress, it.Modifiers, it.Key
		return 3, nil, nil
	case ModifiersKeyRelease:
		buf[off], buf[off+1], buf[off+2] = v2ModifiersKeyRel, it.Modifiers, it.Key
		return 3, nil, nil
	case ConsumerControlPress:
		buf[off] = v2ConsumerPress
		putBE16(buf[off+1:], it.CC)
		return 3, nil, nil
	case ConsumerControlRelease:
		buf[off] = v2ConsumerRelease
		putBE16(buf[off+1:], it.CC)
		return 3, nil, nil
	case Jump:
		buf[off] = v2Jump
		return 5, buf[off+1 : off+5], nil
	case MousePointer:
		buf[off] = v2MousePointer
		putBE16signed(buf[off+1:], it.MouseX)
		putBE16signed(buf[off+3:], it.MouseY)
		return 5, nil, nil
	default:
		return 0, nil, &UnsupportedInstructionError{Instr: it.Instr}
	}
}

func (f V2Format) Parse(buf []byte, off int) (Item, memory.Address, bool, int, error) {
	if off >= len(buf) {
		return Item{}, memory.Address{}, false, 0, &SyntaxError{Reason: "out of bounds"}
	}
	op := buf[off]
	mk := func(instr Instruction) Item { return Item{Instr: instr, JumpTarget: -1} }

	switch op {
	case v2NoOp:
		return mk(NoOp), memory.Address{}, false, 1, nil
	case v2WaitRelease:
		return mk(WaitRelease), memory.Address{}, false, 1, nil
	case v2RepeatUntilRelease:
		return mk(RepeatUntilRelease), memory.Address{}, false, 1, nil
	case v2RepeatForever:
		return mk(RepeatForever), memory.Address{}, false, 1, nil
	case v2End:
		return mk(End), memory.Address{}, false, 1, nil
	case v2MouseWheel:
		it := mk(MouseWheel)
		it.Wheel = int(int8(buf[off+1]))
		return it, memory.Address{}, false, 2, nil
	case v2MouseHWheel:
		it := mk(MouseHWheel)
		it.Wheel = int(int8(buf[off+1]))
		return it, memory.Address{}, false, 2, nil
	case v2Delay:
		it := mk(Delay)
		it.Delay = uint(getBE16(buf[off+1:]))
		return it, memory.Address{}, false, 3, nil
	case v2MouseButtonPress:
		it := mk(MouseButtonPress)
		it.Buttons = getBE16(buf[off+1:])
		return it, memory.Address{}, false, 3, nil
	case v2MouseButtonRelease:
		it := mk(MouseButtonRelease)
		it.Buttons = getBE16(buf[off+1:])
		return it, memory.Address{}, false, 3, nil
	case v2ModifiersKeyPress:
		it := mk(ModifiersKeyPress)
		it.Modifiers = buf[off+1]
		it.Key = buf[off+2]
		return it, memory.Address{}, false, 3, nil
	case v2ModifiersKeyRel:
		it := mk(ModifiersKeyRelease)
		it.Modifiers = buf[off+1]
		it.Key = buf[off+2]
		return it, memory.Address{}, false, 3, nil
	case v2ConsumerPress:
		it := mk(ConsumerControlPress)
		it.CC = getBE16(buf[off+1:])
		return it, memory.Address{}, false, 3, nil
	case v2ConsumerRelease:
		it := mk(ConsumerControlRelease)
		it.CC = getBE16(buf[off+1:])
		return it, memory.Address{}, false, 3, nil
	case v2Jump:
		it := mk(Jump)
		addr := memory.Address{
			MemType: memory.MemType(buf[off+1]),
			Page:    buf[off+2],
			Offset:  getBE16(buf[off+3:]),
		}
		return it, addr, true, 5, nil
	case v2MousePointer:
		it := mk(MousePointer)
		it.MouseX = getBE16signed(buf[off+1:])
		it.MouseY = getBE16signed(buf[off+3:])
		return it, memory.Address{}, false, 5, nil
	default:
		return Item{}, memory.Address{}, false, 0, &SyntaxError{Reason: "unknown v2 opcode"}
	}
}
