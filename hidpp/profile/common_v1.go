package profile

import (
	"fmt"

	"github.com/Alia5/gohidpp/hidpp/memory"
	"github.com/Alia5/gohidpp/hidpp/setting"
)

// v1 special actions (spec §4.7, hidpp10/ProfileFormatCommon.h). Shared by
// every v1 profile family; G500's table is the canonical one, reused
// (tentatively, per spec §9 open question 3) by G9.
const (
	v1WheelLeft            = 0x01
	v1WheelRight           = 0x02
	v1BatteryLevel         = 0x03
	v1ResolutionNext       = 0x04
	v1ResolutionCycleNext  = 0x05
	v1ResolutionPrev       = 0x08
	v1ResolutionCyclePrev  = 0x09
	v1ProfileNext          = 0x10
	v1ProfileCycleNext     = 0x11
	v1ProfilePrev          = 0x20
	v1ProfileCyclePrev     = 0x21
	v1ProfileSwitch        = 0x40
)

func v1CommonSpecialActions() *setting.EnumDesc {
	return setting.NewEnumDesc(
		setting.Pair("WheelLeft", v1WheelLeft),
		setting.Pair("WheelRight", v1WheelRight),
		setting.Pair("ResolutionNext", v1ResolutionNext),
		setting.Pair("ResolutionPrev", v1ResolutionPrev),
		setting.Pair("ProfileNext", v1ProfileNext),
		setting.Pair("ProfilePrev", v1ProfilePrev),
		setting.Pair("ProfileSwitch0", v1ProfileSwitch+(0<<8)),
		setting.Pair("ProfileSwitch1", v1ProfileSwitch+(1<<8)),
		setting.Pair("ProfileSwitch2", v1ProfileSwitch+(2<<8)),
		setting.Pair("ProfileSwitch3", v1ProfileSwitch+(3<<8)),
		setting.Pair("ProfileSwitch4", v1ProfileSwitch+(4<<8)),
	)
}

// g700SpecialActions adds the wheel/resolution/profile cycle variants and
// battery level that G700's richer button table supports.
func g700SpecialActions() *setting.EnumDesc {
	return setting.NewEnumDesc(
		setting.Pair("WheelLeft", v1WheelLeft),
		setting.Pair("WheelRight", v1WheelRight),
		setting.Pair("BatteryLevel", v1BatteryLevel),
		setting.Pair("ResolutionNext", v1ResolutionNext),
		setting.Pair("ResolutionCycleNext", v1ResolutionCycleNext),
		setting.Pair("ResolutionPrev", v1ResolutionPrev),
		setting.Pair("ResolutionCyclePrev", v1ResolutionCyclePrev),
		setting.Pair("ProfileNext", v1ProfileNext),
		setting.Pair("ProfileCycleNext", v1ProfileCycleNext),
		setting.Pair("ProfilePrev", v1ProfilePrev),
		setting.Pair("ProfileCyclePrev", v1ProfileCyclePrev),
		setting.Pair("ProfileSwitch0", v1ProfileSwitch+(0<<8)),
		setting.Pair("ProfileSwitch1", v1ProfileSwitch+(1<<8)),
		setting.Pair("ProfileSwitch2", v1ProfileSwitch+(2<<8)),
		setting.Pair("ProfileSwitch3", v1ProfileSwitch+(3<<8)),
		setting.Pair("ProfileSwitch4", v1ProfileSwitch+(4<<8)),
	)
}

// v1ButtonSize is the on-wire size of a v1 button record (spec §4.7).
const v1ButtonSize = 3

const (
	v1ButtonMouse     = 0x81
	v1ButtonKey       = 0x82
	v1ButtonSpecial   = 0x83
	v1ButtonCC        = 0x84
	v1ButtonDisabled  = 0x8f
)

// parseButtonV1 decodes a 3-byte v1 button record (spec §4.7: "Button
// record v1 uses a different tag set"). Any tag not in the known set is a
// macro reference, (page, offset), matching the original's default case.
func parseButtonV1(b []byte) Button {
	switch b[0] {
	case v1ButtonMouse:
		return MouseButton(readU16LE(b[1:3]))
	case v1ButtonKey:
		return KeyButton(b[1], b[2])
	case v1ButtonSpecial:
		return SpecialButton(readU16LE(b[1:3]))
	case v1ButtonCC:
		return ConsumerControlButton(readU16LE(b[1:3]))
	case v1ButtonDisabled:
		return DisabledButton()
	default:
		return MacroButton(memory.Address{MemType: memory.Writable, Page: b[0], Offset: uint16(b[1])})
	}
}

// writeButtonV1 encodes button into a 3-byte v1 button record.
func writeButtonV1(b []byte, button Button) error {
	b[0], b[1], b[2] = 0, 0, 0
	switch button.Kind {
	case Disabled:
		b[0] = v1ButtonDisabled
	case MouseButtons:
		b[0] = v1ButtonMouse
		writeU16LE(b[1:3], button.Buttons)
	case Key:
		b[0] = v1ButtonKey
		b[1] = button.Modifiers
		b[2] = button.KeyCode
	case ConsumerControl:
		b[0] = v1ButtonCC
		writeU16LE(b[1:3], button.Code)
	case Special:
		b[0] = v1ButtonSpecial
		writeU16LE(b[1:3], button.Code)
	case Macro:
		b[0] = button.MacroAddr.Page
		b[1] = byte(button.MacroAddr.Offset)
	default:
		return fmt.Errorf("profile: unknown button kind %d", button.Kind)
	}
	return nil
}
