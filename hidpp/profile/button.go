// Package profile implements the on-device profile binary format (spec §3,
// §4.7, §4.8): structured read/write of fixed-size profile records binding
// mode tables, button assignments and named/typed settings to a byte range
// of PagedMemory, plus the small profile-directory index table.
package profile

import "github.com/Alia5/gohidpp/hidpp/memory"

// ButtonKind is a Button's tag (spec §3).
type ButtonKind int

const (
	Disabled ButtonKind = iota
	MouseButtons
	Key
	ConsumerControl
	Special
	Macro
)

// Button is the tagged-variant button assignment (spec §3). Only the
// field(s) matching Kind are meaningful.
type Button struct {
	Kind ButtonKind

	// MouseButtons: bitmask of pressed mouse buttons.
	Buttons uint16
	// Key: HID modifier byte + keycode.
	Modifiers uint8
	KeyCode   uint8
	// ConsumerControl / Special: a 16-bit code.
	Code uint16
	// Macro: the address of the first macro item.
	MacroAddr memory.Address
}

// DisabledButton returns a disabled button assignment.
func DisabledButton() Button { return Button{Kind: Disabled} }

// MouseButton returns a mouse-button assignment.
func MouseButton(mask uint16) Button { return Button{Kind: MouseButtons, Buttons: mask} }

// KeyButton returns a key assignment.
func KeyButton(modifiers, key uint8) Button {
	return Button{Kind: Key, Modifiers: modifiers, KeyCode: key}
}

// ConsumerControlButton returns a consumer-control assignment.
func ConsumerControlButton(code uint16) Button { return Button{Kind: ConsumerControl, Code: code} }

// SpecialButton returns a special-action assignment.
func SpecialButton(code uint16) Button { return Button{Kind: Special, Code: code} }

// MacroButton returns an assignment that jumps to a macro at addr.
func MacroButton(addr memory.Address) Button { return Button{Kind: Macro, MacroAddr: addr} }
