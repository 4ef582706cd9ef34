package profile

import (
	"fmt"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/setting"
)

// G9Format is the v1 profile layout used by the G9/G9x family (spec §4.7):
// 56 bytes, 10 buttons, 5 modes of 3 bytes each. Special actions are the
// G500's table, tentatively (spec §9 open question 3: "G9 special-action
// table is marked unknown, using G500's in the meantime").
//
// Grounded on original_source's hidpp10/ProfileFormatG9.cpp, including its
// byte-for-byte preserved quirk: "unknown0" at offset 1 overlaps the
// profile color's green channel. Writing unknown0 after color clobbers
// green, exactly as upstream does; this is kept for firmware bit-exactness,
// not imitated as a design choice.
type G9Format struct {
	sensor        Sensor
	generalDesc   setting.Schema
	modeDesc      setting.Schema
	specialAction *setting.EnumDesc
	log           hlog.Logger
}

const (
	g9ProfileSize    = 56
	g9MaxButtonCount = 10
	g9MaxModeCount   = 5
	g9ModeSize       = 3
	g9LEDCount       = 4

	g9OffColor       = 0
	g9OffUnknown0    = 1
	g9OffModes       = 2
	g9OffDefaultDPI  = 19
	g9OffUnknown1    = 20
	g9OffUnknown2    = 21
	g9OffReportRate  = 22
	g9OffButtons     = 23
	g9OffUnknown3    = 53
	g9OffUnknown4    = 54
	g9OffUnknown5    = 55
)

func NewG9Format(sensor Sensor, log hlog.Logger) *G9Format {
	def := minInt(800, int(sensor.MaximumResolution()))
	dpiDesc := setting.IntDesc(int(sensor.MinimumResolution()), int(sensor.MaximumResolution()), def)
	return &G9Format{
		sensor: sensor,
		generalDesc: setting.Schema{
			"color":            setting.ColorDesc(setting.Color{R: 255, G: 0, B: 0}),
			"unknown0":         setting.IntDesc(0x00, 0xff, 0x10),
			"default_dpi":      setting.IntDesc(0, g9MaxModeCount-1, 0),
			"default_dpi_bit7": setting.BoolDesc(false),
			"unknown1":         setting.IntDesc(0x00, 0xff, 0x21),
			"unknown2":         setting.IntDesc(0x00, 0xff, 0xa2),
			"report_rate":      setting.IntDesc(1, 8, 4),
			"unknown3":         setting.IntDesc(0x00, 0xff, 0x8f),
			"unknown4":         setting.IntDesc(0x00, 0xff, 0x00),
			"unknown5":         setting.IntDesc(0x00, 0xff, 0x00),
		},
		modeDesc: setting.Schema{
			"dpi":  dpiDesc,
			"leds": setting.LEDVectorDesc(g9LEDCount),
		},
		specialAction: v1CommonSpecialActions(),
		log:           log,
	}
}

func (f *G9Format) Size() int           { return g9ProfileSize }
func (f *G9Format) MaxButtonCount() int { return g9MaxButtonCount }
func (f *G9Format) MaxModeCount() int   { return g9MaxModeCount }
func (f *G9Format) GeneralSettings() setting.Schema   { return f.generalDesc }
func (f *G9Format) ModeSettings() setting.Schema      { return f.modeDesc }
func (f *G9Format) SpecialActions() *setting.EnumDesc { return f.specialAction }

func (f *G9Format) Read(buf []byte) (*Profile, error) {
	if len(buf) < g9ProfileSize {
		return nil, fmt.Errorf("profile: G9 buffer too short (%d < %d)", len(buf), g9ProfileSize)
	}
	p := New()
	p.Settings["color"] = setting.NewColor(setting.Color{R: buf[g9OffColor], G: buf[g9OffColor+1], B: buf[g9OffColor+2]})
	p.Settings["unknown0"] = setting.NewInt(int(buf[g9OffUnknown0]))

	for i := 0; i < g9MaxModeCount; i++ {
		mode := buf[g9OffModes+i*g9ModeSize : g9OffModes+(i+1)*g9ModeSize]
		dpi := mode[0]
		if i > 0 && dpi == 0 {
			break
		}
		ledFlags := readU16LE(mode[1:3])
		var leds []bool
		for j := 0; j < g9LEDCount; j++ {
			led := (ledFlags >> (4 * uint(j))) & 0x0f
			if led == 0 {
				break
			}
			leds = append(leds, led == 0x02)
		}
		p.Modes = append(p.Modes, map[string]setting.Setting{
			"dpi":  setting.NewInt(int(f.sensor.ToDPI(uint(dpi)))),
			"leds": setting.NewLEDVector(leds),
		})
	}

	defaultDPI := buf[g9OffDefaultDPI]
	bit7 := defaultDPI&0x80 != 0
	p.Settings["default_dpi"] = setting.NewInt(int(defaultDPI &^ 0x80))
	p.Settings["default_dpi_bit7"] = setting.NewBool(bit7)

	p.Settings["unknown1"] = setting.NewInt(int(buf[g9OffUnknown1]))
	p.Settings["unknown2"] = setting.NewInt(int(buf[g9OffUnknown2]))
	p.Settings["report_rate"] = setting.NewInt(int(buf[g9OffReportRate]))

	for i := 0; i < g9MaxButtonCount; i++ {
		b := buf[g9OffButtons+i*v1ButtonSize : g9OffButtons+(i+1)*v1ButtonSize]
		p.Buttons = append(p.Buttons, parseButtonV1(b))
	}

	p.Settings["unknown3"] = setting.NewInt(int(buf[g9OffUnknown3]))
	p.Settings["unknown4"] = setting.NewInt(int(buf[g9OffUnknown4]))
	p.Settings["unknown5"] = setting.NewInt(int(buf[g9OffUnknown5]))
	return p, nil
}

func (f *G9Format) Write(p *Profile, buf []byte) error {
	if len(buf) < g9ProfileSize {
		return fmt.Errorf("profile: G9 buffer too short (%d < %d)", len(buf), g9ProfileSize)
	}
	general := setting.NewLookup(p.Settings, f.generalDesc, f.log)

	color := general.GetColor("color")
	buf[g9OffColor], buf[g9OffColor+1], buf[g9OffColor+2] = color.R, color.G, color.B
	buf[g9OffUnknown0] = byte(general.GetInt("unknown0")) // overwrites color's green byte, see doc comment

	for i := 0; i < g9MaxModeCount; i++ {
		mode := buf[g9OffModes+i*g9ModeSize : g9OffModes+(i+1)*g9ModeSize]
		if i >= len(p.Modes) {
			for j := range mode {
				mode[j] = 0
			}
			continue
		}
		ml := setting.NewLookup(p.Modes[i], f.modeDesc, f.log)
		mode[0] = byte(f.sensor.FromDPI(uint(ml.GetInt("dpi"))))

		leds := ml.GetLEDVector("leds")
		var ledFlags uint16
		for j := 0; j < g9LEDCount && j < len(leds); j++ {
			bit := uint16(0x01)
			if leds[j] {
				bit = 0x02
			}
			ledFlags |= bit << (4 * uint(j))
		}
		writeU16LE(mode[1:3], ledFlags)
	}

	defaultDPI := general.GetInt("default_dpi")
	if defaultDPI >= len(p.Modes) {
		defaultDPI = len(p.Modes) - 1
	}
	if general.GetBool("default_dpi_bit7") {
		defaultDPI |= 0x80
	}
	buf[g9OffDefaultDPI] = byte(defaultDPI)

	buf[g9OffUnknown1] = byte(general.GetInt("unknown1"))
	buf[g9OffUnknown2] = byte(general.GetInt("unknown2"))
	buf[g9OffReportRate] = byte(general.GetInt("report_rate"))

	for i := 0; i < g9MaxButtonCount; i++ {
		b := buf[g9OffButtons+i*v1ButtonSize : g9OffButtons+(i+1)*v1ButtonSize]
		button := DisabledButton()
		if i < len(p.Buttons) {
			button = p.Buttons[i]
		}
		if err := writeButtonV1(b, button); err != nil {
			return err
		}
	}

	buf[g9OffUnknown3] = byte(general.GetInt("unknown3"))
	buf[g9OffUnknown4] = byte(general.GetInt("unknown4"))
	buf[g9OffUnknown5] = byte(general.GetInt("unknown5"))
	return nil
}
