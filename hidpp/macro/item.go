// Package macro implements the on-device macro instruction set (spec §3,
// §4.4, §4.6): an ordered list of tagged-variant items, two concrete wire
// formats (v1, v2), and the layout engine that lays items into pages,
// resolving jumps and inserting trampoline jumps across page boundaries.
package macro

// Instruction is the macro item's tag. Jumps carry a reference to another
// item in the same macro (an index), not a device address.
type Instruction int

const (
	NoOp Instruction = iota
	WaitRelease
	RepeatUntilRelease
	RepeatForever
	KeyPress
	KeyRelease
	ModifiersPress
	ModifiersRelease
	ModifiersKeyPress
	ModifiersKeyRelease
	MouseWheel
	MouseHWheel
	MouseButtonPress
	MouseButtonRelease
	ConsumerControl
	ConsumerControlPress
	ConsumerControlRelease
	Delay
	ShortDelay
	Jump
	JumpIfPressed
	MousePointer
	JumpIfReleased
	End
)

// Item is one macro instruction. Rather than the source's intrusive linked
// list with a bare iterator to the jump target, items live in a Macro's
// arena (a slice) and a jump target is the index of another item in that
// same slice (spec §9 Design Notes): stable under insertion since indices,
// not pointers, are what's stored.
type Item struct {
	Instr Instruction

	Key       uint8
	Modifiers uint8
	Wheel     int
	Buttons   uint16
	CC        uint16
	Delay     uint // milliseconds
	MouseX    int
	MouseY    int

	// JumpTarget is the index into the owning Macro.Items slice this jump
	// refers to. -1 when Instr is not a jump.
	JumpTarget int
}

// IsJump reports whether the item is any kind of jump instruction.
func (it Item) IsJump() bool {
	switch it.Instr {
	case Jump, JumpIfPressed, JumpIfReleased:
		return true
	default:
		return false
	}
}

// HasSuccessor reports whether the next item in the macro may execute after
// this one. Unconditional jumps and End do not have a successor.
func (it Item) HasSuccessor() bool {
	switch it.Instr {
	case Jump, End, RepeatForever:
		return false
	default:
		return true
	}
}

// IsSimple reports whether the item is a plain action that does not affect
// the macro's control-flow structure.
func (it Item) IsSimple() bool {
	switch it.Instr {
	case NoOp, WaitRelease, RepeatUntilRelease, RepeatForever,
		Jump, JumpIfPressed, JumpIfReleased, End:
		return false
	default:
		return true
	}
}

// Macro is an ordered arena of Items.
type Macro struct {
	Items []Item
}

// New returns an empty macro.
func New() *Macro { return &Macro{} }

// EmplaceBack appends a new item with the given instruction.
func (m *Macro) EmplaceBack(instr Instruction) *Item {
	m.Items = append(m.Items, Item{Instr: instr, JumpTarget: -1})
	return &m.Items[len(m.Items)-1]
}

// Back returns the last item.
func (m *Macro) Back() *Item { return &m.Items[len(m.Items)-1] }

// Simplify erases NoOps and unconditional jumps whose destination is the
// very next item, rewriting back-references to the successor (spec §4.6).
func (m *Macro) Simplify() {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(m.Items); i++ {
			it := m.Items[i]
			remove := false
			switch {
			case it.Instr == NoOp:
				remove = true
			case it.Instr == Jump && it.JumpTarget == i+1:
				remove = true
			}
			if !remove {
				continue
			}
			m.removeAt(i)
			changed = true
			break
		}
	}
}

// removeAt deletes item i and fixes up every jump target that referenced it
// (redirected to its successor) or anything after it (shifted down by one).
func (m *Macro) removeAt(i int) {
	successor := i + 1
	for j := range m.Items {
		if j == i {
			continue
		}
		if m.Items[j].JumpTarget == i {
			m.Items[j].JumpTarget = successor
		}
	}
	m.Items = append(m.Items[:i], m.Items[i+1:]...)
	for j := range m.Items {
		if m.Items[j].JumpTarget > i {
			m.Items[j].JumpTarget--
		}
	}
}

// IsSimple reports whether the macro contains only simple instructions
// except for a trailing End.
func (m *Macro) IsSimple() bool {
	for i, it := range m.Items {
		last := i == len(m.Items)-1
		if last {
			if it.Instr != End {
				return false
			}
			continue
		}
		if !it.IsSimple() {
			return false
		}
	}
	return true
}

// BuildSimple builds a macro from a run of simple items, terminated by End.
func BuildSimple(items []Item) *Macro {
	m := &Macro{}
	for _, it := range items {
		it.JumpTarget = -1
		m.Items = append(m.Items, it)
	}
	m.Items = append(m.Items, Item{Instr: End, JumpTarget: -1})
	return m
}
