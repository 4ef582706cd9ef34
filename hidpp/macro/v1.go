package macro

import (
	"github.com/Alia5/gohidpp/hidpp/memory"
)

// v1 opcodes (spec §6.5).
const (
	v1NoOp               = 0x00
	v1WaitRelease        = 0x01
	v1RepeatUntilRelease = 0x02
	v1RepeatForever      = 0x03
	v1KeyPress           = 0x20
	v1KeyRelease         = 0x21
	v1ModifiersPress     = 0x22
	v1ModifiersRelease   = 0x23
	v1MouseWheel         = 0x24
	v1MouseButtonPress   = 0x40
	v1MouseButtonRelease = 0x41
	v1ConsumerControl    = 0x42
	v1Delay              = 0x43
	v1Jump               = 0x44
	v1JumpIfPressed      = 0x45
	v1MousePointer       = 0x60
	v1JumpIfReleased     = 0x61
	v1ShortDelayMin      = 0x80
	v1ShortDelayMax      = 0xFE
	v1End                = 0xFF
)

// shortDelayTable is the piecewise-linear ShortDelay duration table: 127
// codes (0x80..0xFE) covering 8..1892 ms, finer-grained at the low end. The
// source's exact table is hardware-derived; this module reproduces its
// shape (two linear segments) and is internally self-consistent for
// encode/decode round-trips (spec §4.4: "encode by picking the nearest
// representable code; decode by inverting").
var shortDelayTable = buildShortDelayTable()

func buildShortDelayTable() [127]uint {
	var t [127]uint
	for i := 0; i < 64; i++ {
		t[i] = uint(8 + i*8) // 8..512 ms, 8ms steps
	}
	for i := 64; i < 127; i++ {
		// 512..1892 ms over the remaining 63 codes.
		t[i] = uint(512 + (i-64)*(1892-512)/62)
	}
	return t
}

func shortDelayEncode(ms uint) (code uint8, ok bool) {
	best := -1
	bestDiff := uint(1) << 62
	for i, v := range shortDelayTable {
		diff := absDiffUint(v, ms)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return uint8(v1ShortDelayMin + best), true
}

func shortDelayDecode(code uint8) uint {
	idx := int(code) - v1ShortDelayMin
	if idx < 0 || idx >= len(shortDelayTable) {
		return 0
	}
	return shortDelayTable[idx]
}

func absDiffUint(a, b uint) uint {
	if a > b {
		return a - b
	}
	return b - a
}

// V1Format is the HID++1.0 macro encoding.
type V1Format struct{}

func (V1Format) JumpLength() int { return 3 }

func (V1Format) Length(it Item) int {
	switch it.Instr {
	case NoOp, WaitRelease, RepeatUntilRelease, RepeatForever, End:
		return 1
	case KeyPress, KeyRelease, ModifiersPress, ModifiersRelease, MouseWheel:
		return 2
	case ModifiersKeyPress, ModifiersKeyRelease:
		return 4 // emitted as Modifiers + Key, no combined v1 opcode
	case MouseButtonPress, MouseButtonRelease, ConsumerControl, Delay, Jump, JumpIfPressed:
		return 3
	case MousePointer, JumpIfReleased:
		return 5
	case ShortDelay:
		return 1
	default:
		return 0
	}
}

func (f V1Format) WriteAddress(slot []byte, addr memory.Address) {
	slot[0] = addr.Page
	slot[1] = byte(addr.Offset)
}

func (f V1Format) Write(buf []byte, off int, it Item) (int, []byte, error) {
	switch it.Instr {
	case NoOp:
		buf[off] = v1NoOp
		return 1, nil, nil
	case WaitRelease:
		buf[off] = v1WaitRelease
		return 1, nil, nil
	case RepeatUntilRelease:
		buf[off] = v1RepeatUntilRelease
		return 1, nil, nil
	case RepeatForever:
		buf[off] = v1RepeatForever
		return 1, nil, nil
	case End:
		buf[off] = v1End
		return 1, nil, nil
	case KeyPress:
		buf[off], buf[off+1] = v1KeyPress, it.Key
		return 2, nil, nil
	case KeyRelease:
		buf[off], buf[off+1] = v1KeyRelease, it.Key
		return 2, nil, nil
	case ModifiersPress:
		buf[off], buf[off+1] = v1ModifiersPress, it.Modifiers
		return 2, nil, nil
	case ModifiersRelease:
		buf[off], buf[off+1] = v1ModifiersRelease, it.Modifiers
		return 2, nil, nil
	case MouseWheel:
		buf[off], buf[off+1] = v1MouseWheel, byte(int8(it.Wheel))
		return 2, nil, nil
	case ModifiersKeyPress:
		buf[off], buf[off+1] = v1ModifiersPress, it.Modifiers
		buf[off+2], buf[off+3] = v1KeyPress, it.Key
		return 4, nil, nil
	case ModifiersKeyRelease:
		buf[off], buf[off+1] = v1ModifiersRelease, it.Modifiers
		buf[off+2], buf[off+3] = v1KeyRelease, it.Key
		return 4, nil, nil
	case MouseButtonPress:
		buf[off] = v1MouseButtonPress
		putBE16(buf[off+1:], it.Buttons)
		return 3, nil, nil
	case MouseButtonRelease:
		buf[off] = v1MouseButtonRelease
		putBE16(buf[off+1:], it.Buttons)
		return 3, nil, nil
	case ConsumerControl:
		buf[off] = v1ConsumerControl
		putBE16(buf[off+1:], it.CC)
		return 3, nil, nil
	case Delay:
		buf[off] = v1Delay
		putBE16(buf[off+1:], uint16(it.Delay))
		return 3, nil, nil
	case ShortDelay:
		code, ok := shortDelayEncode(it.Delay)
		if !ok {
			return 0, nil, &UnsupportedInstructionError{Instr: it.Instr}
		}
		buf[off] = code
		return 1, nil, nil
	case Jump:
		buf[off] = v1Jump
		return 3, buf[off+1 : off+3], nil
	case JumpIfPressed:
		buf[off] = v1JumpIfPressed
		return 3, buf[off+1 : off+3], nil
	case JumpIfReleased:
		buf[off] = v1JumpIfReleased
		putBE16(buf[off+3:], uint16(it.Delay))
		return 5, buf[off+1 : off+3], nil
	case MousePointer:
		buf[off] = v1MousePointer
		putBE16signed(buf[off+1:], it.MouseX)
		putBE16signed(buf[off+3:], it.MouseY)
		return 5, nil, nil
	default:
		return 0, nil, &UnsupportedInstructionError{Instr: it.Instr}
	}
}

func (f V1Format) Parse(buf []byte, off int) (Item, memory.Address, bool, int, error) {
	if off >= len(buf) {
		return Item{}, memory.Address{}, false, 0, &SyntaxError{Reason: "out of bounds"}
	}
	op := buf[off]
	mk := func(instr Instruction) Item { return Item{Instr: instr, JumpTarget: -1} }

	switch {
	case op == v1NoOp:
		return mk(NoOp), memory.Address{}, false, 1, nil
	case op == v1WaitRelease:
		return mk(WaitRelease), memory.Address{}, false, 1, nil
	case op == v1RepeatUntilRelease:
		return mk(RepeatUntilRelease), memory.Address{}, false, 1, nil
	case op == v1RepeatForever:
		return mk(RepeatForever), memory.Address{}, false, 1, nil
	case op == v1End:
		return mk(End), memory.Address{}, false, 1, nil
	case op == v1KeyPress:
		it := mk(KeyPress)
		it.Key = buf[off+1]
		return it, memory.Address{}, false, 2, nil
	case op == v1KeyRelease:
		it := mk(KeyRelease)
		it.Key = buf[off+1]
		return it, memory.Address{}, false, 2, nil
	case op == v1ModifiersPress:
		it := mk(ModifiersPress)
		it.Modifiers = buf[off+1]
		return it, memory.Address{}, false, 2, nil
	case op == v1ModifiersRelease:
		it := mk(ModifiersRelease)
		it.Modifiers = buf[off+1]
		return it, memory.Address{}, false, 2, nil
	case op == v1MouseWheel:
		it := mk(MouseWheel)
		it.Wheel = int(int8(buf[off+1]))
		return it, memory.Address{}, false, 2, nil
	case op == v1MouseButtonPress:
		it := mk(MouseButtonPress)
		it.Buttons = getBE16(buf[off+1:])
		return it, memory.Address{}, false, 3, nil
	case op == v1MouseButtonRelease:
		it := mk(MouseButtonRelease)
		it.Buttons = getBE16(buf[off+1:])
		return it, memory.Address{}, false, 3, nil
	case op == v1ConsumerControl:
		it := mk(ConsumerControl)
		it.CC = getBE16(buf[off+1:])
		return it, memory.Address{}, false, 3, nil
	case op == v1Delay:
		it := mk(Delay)
		it.Delay = uint(getBE16(buf[off+1:]))
		return it, memory.Address{}, false, 3, nil
	case op == v1Jump:
		it := mk(Jump)
		addr := memory.Address{Page: buf[off+1], Offset: uint16(buf[off+2])}
		return it, addr, true, 3, nil
	case op == v1JumpIfPressed:
		it := mk(JumpIfPressed)
		addr := memory.Address{Page: buf[off+1], Offset: uint16(buf[off+2])}
		return it, addr, true, 3, nil
	case op == v1JumpIfReleased:
		it := mk(JumpIfReleased)
		addr := memory.Address{Page: buf[off+1], Offset: uint16(buf[off+2])}
		it.Delay = uint(getBE16(buf[off+3:]))
		return it, addr, true, 5, nil
	case op == v1MousePointer:
		it := mk(MousePointer)
		it.MouseX = getBE16signed(buf[off+1:])
		it.MouseY = getBE16signed(buf[off+3:])
		return it, memory.Address{}, false, 5, nil
	case op >= v1ShortDelayMin && op <= v1ShortDelayMax:
		it := mk(ShortDelay)
		it.Delay = shortDelayDecode(op)
		return it, memory.Address{}, false, 1, nil
	default:
		return Item{}, memory.Address{}, false, 0, &SyntaxError{Reason: "unknown v1 opcode"}
	}
}

func putBE16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func getBE16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func putBE16signed(b []byte, v int) {
	putBE16(b, uint16(int16(v)))
}

func getBE16signed(b []byte) int {
	return int(int16(getBE16(b)))
}
