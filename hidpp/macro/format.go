package macro

import (
	"fmt"

	"github.com/Alia5/gohidpp/hidpp/memory"
)

// UnsupportedInstructionError is raised when a format cannot encode the
// requested instruction.
type UnsupportedInstructionError struct {
	Instr Instruction
}

func (e *UnsupportedInstructionError) Error() string {
	return fmt.Sprintf("macro: instruction %d is not supported by this format", e.Instr)
}

// SyntaxError is raised when on-device macro bytes cannot be parsed.
type SyntaxError struct {
	Reason string
}

func (e *SyntaxError) Error() string { return "macro: syntax error: " + e.Reason }

// Format is the abstract interface the two concrete macro encodings (v1,
// v2) implement (spec §4.4).
type Format interface {
	// Length returns the encoded size in bytes of item, including any
	// expansion (e.g. ModifiersKeyPress becomes two instructions in a
	// format that lacks a combined one).
	Length(it Item) int

	// JumpLength returns the encoded size of a jump instruction.
	JumpLength() int

	// WriteAddress encodes addr at the jump-address slot previously
	// returned by Write.
	WriteAddress(slot []byte, addr memory.Address)

	// Write emits item's bytes into buf starting at off, returning the
	// number of bytes written and, if item is a jump, the byte range
	// within buf to later fill with WriteAddress (nil otherwise).
	Write(buf []byte, off int, it Item) (n int, jumpSlot []byte, err error)

	// Parse decodes one item starting at buf[off]. For a jump item it also
	// returns the address encoded in the item and the number of bytes
	// consumed.
	Parse(buf []byte, off int) (it Item, addr memory.Address, isJump bool, n int, err error)
}
