package profile

import (
	"fmt"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/memory"
	"github.com/Alia5/gohidpp/hidpp/setting"
)

// V2Format is the HID++2.0 onboard-profile layout (spec §4.7): a 256-byte
// sector with report rate/DPI/color general settings, up to 5 one-field
// DPI modes, a UTF-16LE name, two LED-effect blocks, and 16 button
// records.
//
// The original leaves Write unimplemented (TODO/throw); this module
// supplements it, mirroring the field layout already reverse-engineered
// by Read (spec.md §4.7/§4.8 SUPPLEMENTED FEATURES).
type V2Format struct {
	generalDesc   setting.Schema
	modeDesc      setting.Schema
	specialAction *setting.EnumDesc
	ledEffects    *setting.EnumDesc
	powerModes    *setting.EnumDesc
	log           hlog.Logger
}

const (
	v2ProfileSize    = 256
	v2MaxButtonCount = 16
	v2MaxModeCount   = 5

	v2OffReportRate   = 0
	v2OffDefaultDPI   = 1
	v2OffSwitchedDPI  = 2
	v2OffModes        = 3
	v2ModeSize        = 2
	v2OffColor        = 13
	v2OffPowerMode    = 16
	v2OffAngleSnap    = 17
	v2OffUnknown0     = 18
	v2OffUnknown1     = 19
	v2OffButtons      = 32
	v2ButtonSize      = 4
	v2OffName         = 160
	v2NameChars       = 24
	v2OffLogoEffect   = 208
	v2OffSideEffect   = 219
	v2LEDEffectSize   = 11
)

const (
	v2ButtonHID      = 0x80
	v2ButtonSpecial  = 0x90
	v2ButtonMacro    = 0x00
	v2ButtonDisabled = 0xff

	v2ButtonHIDMouse = 1
	v2ButtonHIDKey   = 2
	v2ButtonHIDCC    = 3
)

const (
	v2EffectOff      = 0
	v2EffectConstant = 0x01
	v2EffectPulse    = 0x0a
	v2EffectCycle    = 0x03
)

func v2LEDEffectDesc(ledEffects *setting.EnumDesc) setting.Desc {
	return setting.ComposedDesc(map[string]setting.Desc{
		"type":       setting.EnumDescOf(ledEffects, v2EffectConstant),
		"color":      setting.ColorDesc(setting.Color{R: 255, G: 255, B: 255}),
		"period":     setting.IntDesc(0, 65535, 10000),
		"brightness": setting.IntDesc(0, 100, 100),
	})
}

// NewV2Format builds a V2Format. It takes no onboard-profile description:
// every device gets the same layout, with no check of profile format or
// button count.
func NewV2Format(log hlog.Logger) *V2Format {
	ledEffects := setting.NewEnumDesc(
		setting.Pair("Off", v2EffectOff),
		setting.Pair("Constant", v2EffectConstant),
		setting.Pair("Pulse", v2EffectPulse),
		setting.Pair("Cycle", v2EffectCycle),
	)
	powerModes := setting.NewEnumDesc(setting.Pair("NotApplicable", 0xff))
	f := &V2Format{
		specialAction: setting.NewEnumDesc(
			setting.Pair("WheelLeft", 1),
			setting.Pair("WheelRight", 2),
			setting.Pair("ResolutionNext", 3),
			setting.Pair("ResolutionPrev", 4),
			setting.Pair("ResolutionDefault", 5),
			setting.Pair("ResolutionCycle", 6),
			setting.Pair("ResolutionSwitch", 7),
			setting.Pair("ProfileCycle", 10),
			setting.Pair("ModeSwitch", 11),
			setting.Pair("BatteryLevel", 12),
		),
		ledEffects: ledEffects,
		powerModes: powerModes,
		modeDesc: setting.Schema{
			"dpi": setting.IntDesc(0, 50000, 1200),
		},
		log: log,
	}
	f.generalDesc = setting.Schema{
		"report_rate":    setting.IntDesc(1, 8, 4),
		"default_dpi":    setting.IntDesc(0, v2MaxModeCount-1, 0),
		"switched_dpi":   setting.IntDesc(0, v2MaxModeCount-1, 0),
		"color":          setting.ColorDesc(setting.Color{R: 255, G: 255, B: 255}),
		"power_mode":     setting.EnumDescOf(powerModes, 0xff),
		"angle_snapping": setting.BoolDesc(false),
		"unknown":        setting.IntDesc(0, 65535, 65535),
		"name":           setting.StringDesc(""),
		"logo_effect":    v2LEDEffectDesc(ledEffects),
		"side_effect":    v2LEDEffectDesc(ledEffects),
	}
	return f
}

func (f *V2Format) Size() int           { return v2ProfileSize }
func (f *V2Format) MaxButtonCount() int { return v2MaxButtonCount }
func (f *V2Format) MaxModeCount() int   { return v2MaxModeCount }
func (f *V2Format) GeneralSettings() setting.Schema   { return f.generalDesc }
func (f *V2Format) ModeSettings() setting.Schema      { return f.modeDesc }
func (f *V2Format) SpecialActions() *setting.EnumDesc { return f.specialAction }

func (f *V2Format) readLEDEffect(b []byte) setting.Setting {
	m := map[string]setting.Setting{}
	switch b[0] {
	case v2EffectOff:
	case v2EffectConstant:
		m["color"] = setting.NewColor(setting.Color{R: b[1], G: b[2], B: b[3]})
	case v2EffectPulse:
		m["color"] = setting.NewColor(setting.Color{R: b[2], G: b[3], B: b[4]})
		m["period"] = setting.NewInt(int(readU16BE(b[5:7])))
		m["brightness"] = setting.NewInt(int(b[8]))
	case v2EffectCycle:
		m["period"] = setting.NewInt(int(readU16BE(b[7:9])))
		m["brightness"] = setting.NewInt(int(b[9]))
	default:
		f.log.Warn("invalid LED effect type byte", map[string]any{"type": b[0]})
		return setting.NewComposed(nil)
	}
	m["type"] = setting.NewEnum(f.ledEffects, int(b[0]))
	return setting.NewComposed(m)
}

func (f *V2Format) Read(buf []byte) (*Profile, error) {
	if len(buf) < v2ProfileSize {
		return nil, fmt.Errorf("profile: v2 buffer too short (%d < %d)", len(buf), v2ProfileSize)
	}
	p := New()
	p.Settings["report_rate"] = setting.NewInt(int(buf[v2OffReportRate]))
	p.Settings["default_dpi"] = setting.NewInt(int(buf[v2OffDefaultDPI]))
	p.Settings["switched_dpi"] = setting.NewInt(int(buf[v2OffSwitchedDPI]))

	for i := 0; i < v2MaxModeCount; i++ {
		dpi := readU16LE(buf[v2OffModes+i*v2ModeSize : v2OffModes+(i+1)*v2ModeSize])
		if dpi == 0x0000 || dpi == 0xFFFF {
			break
		}
		p.Modes = append(p.Modes, map[string]setting.Setting{
			"dpi": setting.NewInt(int(dpi)),
		})
	}

	p.Settings["color"] = setting.NewColor(setting.Color{R: buf[v2OffColor], G: buf[v2OffColor+1], B: buf[v2OffColor+2]})
	p.Settings["power_mode"] = setting.NewEnum(f.powerModes, int(buf[v2OffPowerMode]))
	p.Settings["angle_snapping"] = setting.NewBool(buf[v2OffAngleSnap] == 0x02)
	p.Settings["unknown0"] = setting.NewInt(int(buf[v2OffUnknown0]))
	p.Settings["unknown1"] = setting.NewInt(int(buf[v2OffUnknown1]))

	for i := 0; i < v2MaxButtonCount; i++ {
		b := buf[v2OffButtons+i*v2ButtonSize : v2OffButtons+(i+1)*v2ButtonSize]
		p.Buttons = append(p.Buttons, parseButtonV2(b))
	}

	nameBytes := buf[v2OffName : v2OffName+v2NameChars*2]
	p.Settings["name"] = setting.NewString(decodeUTF16LE(nameBytes))

	p.Settings["logo_effect"] = f.readLEDEffect(buf[v2OffLogoEffect : v2OffLogoEffect+v2LEDEffectSize])
	p.Settings["side_effect"] = f.readLEDEffect(buf[v2OffSideEffect : v2OffSideEffect+v2LEDEffectSize])
	return p, nil
}

func (f *V2Format) Write(p *Profile, buf []byte) error {
	if len(buf) < v2ProfileSize {
		return fmt.Errorf("profile: v2 buffer too short (%d < %d)", len(buf), v2ProfileSize)
	}
	general := setting.NewLookup(p.Settings, f.generalDesc, f.log)

	buf[v2OffReportRate] = byte(general.GetInt("report_rate"))
	defaultDPI := general.GetInt("default_dpi")
	if defaultDPI >= len(p.Modes) && len(p.Modes) > 0 {
		defaultDPI = len(p.Modes) - 1
	}
	buf[v2OffDefaultDPI] = byte(defaultDPI)
	buf[v2OffSwitchedDPI] = byte(general.GetInt("switched_dpi"))

	for i := 0; i < v2MaxModeCount; i++ {
		mode := buf[v2OffModes+i*v2ModeSize : v2OffModes+(i+1)*v2ModeSize]
		if i >= len(p.Modes) {
			writeU16LE(mode, 0xFFFF)
			continue
		}
		ml := setting.NewLookup(p.Modes[i], f.modeDesc, f.log)
		writeU16LE(mode, uint16(ml.GetInt("dpi")))
	}

	color := general.GetColor("color")
	buf[v2OffColor], buf[v2OffColor+1], buf[v2OffColor+2] = color.R, color.G, color.B
	buf[v2OffPowerMode] = byte(general.GetEnum("power_mode").Value)
	if general.GetBool("angle_snapping") {
		buf[v2OffAngleSnap] = 0x02
	} else {
		buf[v2OffAngleSnap] = 0x01
	}

	for i := 0; i < v2MaxButtonCount; i++ {
		b := buf[v2OffButtons+i*v2ButtonSize : v2OffButtons+(i+1)*v2ButtonSize]
		button := DisabledButton()
		if i < len(p.Buttons) {
			button = p.Buttons[i]
		}
		writeButtonV2(b, button)
	}

	name, err := p.Settings["name"].String()
	if err != nil {
		name, _ = f.generalDesc["name"].DefaultValue().String()
	}
	encodeUTF16LE(buf[v2OffName:v2OffName+v2NameChars*2], name)

	f.writeLEDEffectValue(buf[v2OffLogoEffect:v2OffLogoEffect+v2LEDEffectSize], general.Get("logo_effect"))
	f.writeLEDEffectValue(buf[v2OffSideEffect:v2OffSideEffect+v2LEDEffectSize], general.Get("side_effect"))
	return nil
}

func (f *V2Format) writeLEDEffectValue(b []byte, s setting.Setting) {
	for i := range b {
		b[i] = 0
	}
	m, err := s.Composed()
	if err != nil {
		return
	}
	typeSetting, ok := m["type"]
	typ := v2EffectConstant
	if ok {
		if ev, err := typeSetting.Enum(); err == nil {
			typ = ev.Value
		}
	}
	b[0] = byte(typ)
	color := setting.Color{R: 255, G: 255, B: 255}
	if cs, ok := m["color"]; ok {
		if c, err := cs.Color(); err == nil {
			color = c
		}
	}
	period := 10000
	if ps, ok := m["period"]; ok {
		if v, err := ps.Int(); err == nil {
			period = v
		}
	}
	brightness := 100
	if bs, ok := m["brightness"]; ok {
		if v, err := bs.Int(); err == nil {
			brightness = v
		}
	}
	switch typ {
	case v2EffectOff:
	case v2EffectConstant:
		b[1], b[2], b[3] = color.R, color.G, color.B
	case v2EffectPulse:
		b[2], b[3], b[4] = color.R, color.G, color.B
		writeU16BE(b[5:7], uint16(period))
		b[8] = byte(brightness)
	case v2EffectCycle:
		writeU16BE(b[7:9], uint16(period))
		b[9] = byte(brightness)
	}
}

func parseButtonV2(b []byte) Button {
	switch b[0] {
	case v2ButtonHID:
		switch b[1] {
		case v2ButtonHIDMouse:
			return MouseButton(readU16BE(b[2:4]))
		case v2ButtonHIDKey:
			return KeyButton(b[2], b[3])
		case v2ButtonHIDCC:
			return ConsumerControlButton(readU16BE(b[2:4]))
		default:
			return DisabledButton()
		}
	case v2ButtonSpecial:
		return SpecialButton(uint16(b[1]))
	case v2ButtonMacro:
		return MacroButton(memory.Address{MemType: memory.MemType(b[2]), Page: b[1], Offset: uint16(b[3])})
	case v2ButtonDisabled:
		return DisabledButton()
	default:
		return DisabledButton()
	}
}

func writeButtonV2(b []byte, button Button) {
	b[0], b[1], b[2], b[3] = 0, 0, 0, 0
	switch button.Kind {
	case Disabled:
		b[0] = v2ButtonDisabled
	case MouseButtons:
		b[0], b[1] = v2ButtonHID, v2ButtonHIDMouse
		writeU16BE(b[2:4], button.Buttons)
	case Key:
		b[0], b[1] = v2ButtonHID, v2ButtonHIDKey
		b[2], b[3] = button.Modifiers, button.KeyCode
	case ConsumerControl:
		b[0], b[1] = v2ButtonHID, v2ButtonHIDCC
		writeU16BE(b[2:4], button.Code)
	case Special:
		b[0] = v2ButtonSpecial
		b[1] = byte(button.Code)
	case Macro:
		b[0] = v2ButtonMacro
		b[1] = button.MacroAddr.Page
		b[2] = byte(button.MacroAddr.MemType)
		b[3] = byte(button.MacroAddr.Offset)
	}
}

// decodeUTF16LE converts a fixed-length UTF-16LE byte slice to a UTF-8
// string, trimming at the first NUL code unit (spec §4.7: "Names (v2) are
// read as UTF-16LE fixed-length strings and converted to UTF-8").
func decodeUTF16LE(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = readU16LE(b[2*i : 2*i+2])
	}
	out := make([]rune, 0, len(units))
	for _, u := range units {
		if u == 0 {
			break
		}
		out = append(out, rune(u))
	}
	return string(out)
}

// encodeUTF16LE writes s into dst as fixed-length UTF-16LE, truncating or
// NUL-padding to fit.
func encodeUTF16LE(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	runes := []rune(s)
	max := len(dst) / 2
	for i := 0; i < len(runes) && i < max; i++ {
		writeU16LE(dst[2*i:2*i+2], uint16(runes[i]))
	}
}
