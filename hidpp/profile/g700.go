package profile

import (
	"fmt"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/setting"
)

// G700Format is the v1 profile layout used by the G700/G700s family
// (spec §4.7): 74 bytes, 13 buttons, 5 modes of 4 bytes each. Grounded on
// original_source's hidpp10/ProfileFormatG700.cpp.
type G700Format struct {
	sensor        Sensor
	generalDesc   setting.Schema
	modeDesc      setting.Schema
	specialAction *setting.EnumDesc
	log           hlog.Logger
}

const (
	g700ProfileSize    = 74
	g700MaxButtonCount = 13
	g700MaxModeCount   = 5
	g700ModeSize       = 4
	g700LEDCount       = 4

	g700OffModes         = 0
	g700OffDefaultDPI    = 20
	g700OffAngle         = 21
	g700OffAngleSnapping = 22
	g700OffUnknown0      = 23
	g700OffReportRate    = 24
	g700OffUnknown1      = 25
	g700OffUnknown2      = 26
	g700OffUnknown3      = 27
	g700OffUnknown4      = 28
	g700OffPowerMode     = 29
	g700OffUnknown5      = 30
	g700OffUnknown6      = 31
	g700OffUnknown7      = 32
	g700OffUnknown8      = 33
	g700OffUnknown9      = 34
	g700OffButtons       = 35
)

func NewG700Format(sensor Sensor, log hlog.Logger) *G700Format {
	def := minInt(800, int(sensor.MaximumResolution()))
	dpiDesc := setting.IntDesc(int(sensor.MinimumResolution()), int(sensor.MaximumResolution()), def)
	return &G700Format{
		sensor: sensor,
		generalDesc: setting.Schema{
			"default_dpi":    setting.IntDesc(0, g700MaxModeCount-1, 0),
			"angle":          setting.IntDesc(0x00, 0xff, 0x80),
			"angle_snapping": setting.BoolDesc(false),
			"unknown0":       setting.IntDesc(0x00, 0xff, 0x10),
			"report_rate":    setting.IntDesc(1, 8, 4),
			"unknown1":       setting.IntDesc(0x00, 0xff, 0x00),
			"unknown2":       setting.IntDesc(0x00, 0xff, 0x2c),
			"unknown3":       setting.IntDesc(0x00, 0xff, 0x00),
			"unknown4":       setting.IntDesc(0x00, 0xff, 0x58),
			"power_mode":     setting.IntDesc(50, 200, 100),
			"unknown5":       setting.IntDesc(0x00, 0xff, 0xff),
			"unknown6":       setting.IntDesc(0x00, 0xff, 0xbc),
			"unknown7":       setting.IntDesc(0x00, 0xff, 0x00),
			"unknown8":       setting.IntDesc(0x00, 0xff, 0x09),
			"unknown9":       setting.IntDesc(0x00, 0xff, 0x31),
		},
		modeDesc: setting.Schema{
			"dpi_x": dpiDesc,
			"dpi_y": dpiDesc,
			"leds":  setting.LEDVectorDesc(g700LEDCount),
		},
		specialAction: g700SpecialActions(),
		log:           log,
	}
}

func (f *G700Format) Size() int           { return g700ProfileSize }
func (f *G700Format) MaxButtonCount() int { return g700MaxButtonCount }
func (f *G700Format) MaxModeCount() int   { return g700MaxModeCount }
func (f *G700Format) GeneralSettings() setting.Schema   { return f.generalDesc }
func (f *G700Format) ModeSettings() setting.Schema      { return f.modeDesc }
func (f *G700Format) SpecialActions() *setting.EnumDesc { return f.specialAction }

func (f *G700Format) Read(buf []byte) (*Profile, error) {
	if len(buf) < g700ProfileSize {
		return nil, fmt.Errorf("profile: G700 buffer too short (%d < %d)", len(buf), g700ProfileSize)
	}
	p := New()

	for i := 0; i < g700MaxModeCount; i++ {
		mode := buf[g700OffModes+i*g700ModeSize : g700OffModes+(i+1)*g700ModeSize]
		dpiX := mode[0]
		if i > 0 && dpiX == 0 {
			break
		}
		dpiY := mode[1]
		ledFlags := readU16LE(mode[2:4])
		var leds []bool
		for j := 0; j < g700LEDCount; j++ {
			led := (ledFlags >> (4 * uint(j))) & 0x0f
			if led == 0 {
				break
			}
			leds = append(leds, led == 0x02)
		}
		p.Modes = append(p.Modes, map[string]setting.Setting{
			"dpi_x": setting.NewInt(int(f.sensor.ToDPI(uint(dpiX)))),
			"dpi_y": setting.NewInt(int(f.sensor.ToDPI(uint(dpiY)))),
			"leds":  setting.NewLEDVector(leds),
		})
	}

	p.Settings["default_dpi"] = setting.NewInt(int(buf[g700OffDefaultDPI]))
	p.Settings["angle"] = setting.NewInt(int(buf[g700OffAngle]))
	p.Settings["angle_snapping"] = setting.NewBool(buf[g700OffAngleSnapping] == 0x02)
	p.Settings["unknown0"] = setting.NewInt(int(buf[g700OffUnknown0]))
	p.Settings["report_rate"] = setting.NewInt(int(buf[g700OffReportRate]))
	p.Settings["unknown1"] = setting.NewInt(int(buf[g700OffUnknown1]))
	p.Settings["unknown2"] = setting.NewInt(int(buf[g700OffUnknown2]))
	p.Settings["unknown3"] = setting.NewInt(int(buf[g700OffUnknown3]))
	p.Settings["unknown4"] = setting.NewInt(int(buf[g700OffUnknown4]))
	p.Settings["power_mode"] = setting.NewInt(int(buf[g700OffPowerMode]))
	p.Settings["unknown5"] = setting.NewInt(int(buf[g700OffUnknown5]))
	p.Settings["unknown6"] = setting.NewInt(int(buf[g700OffUnknown6]))
	p.Settings["unknown7"] = setting.NewInt(int(buf[g700OffUnknown7]))
	p.Settings["unknown8"] = setting.NewInt(int(buf[g700OffUnknown8]))
	p.Settings["unknown9"] = setting.NewInt(int(buf[g700OffUnknown9]))

	for i := 0; i < g700MaxButtonCount; i++ {
		b := buf[g700OffButtons+i*v1ButtonSize : g700OffButtons+(i+1)*v1ButtonSize]
		p.Buttons = append(p.Buttons, parseButtonV1(b))
	}
	return p, nil
}

func (f *G700Format) Write(p *Profile, buf []byte) error {
	if len(buf) < g700ProfileSize {
		return fmt.Errorf("profile: G700 buffer too short (%d < %d)", len(buf), g700ProfileSize)
	}
	general := setting.NewLookup(p.Settings, f.generalDesc, f.log)

	for i := 0; i < g700MaxModeCount; i++ {
		mode := buf[g700OffModes+i*g700ModeSize : g700OffModes+(i+1)*g700ModeSize]
		if i >= len(p.Modes) {
			for j := range mode {
				mode[j] = 0
			}
			continue
		}
		ml := setting.NewLookup(p.Modes[i], f.modeDesc, f.log)
		dpiX := ml.GetInt("dpi_x")
		mode[0] = byte(f.sensor.FromDPI(uint(dpiX)))
		dpiY := ml.GetIntDefault("dpi_y", dpiX)
		mode[1] = byte(f.sensor.FromDPI(uint(dpiY)))

		leds := ml.GetLEDVector("leds")
		var ledFlags uint16
		for j := 0; j < g700LEDCount && j < len(leds); j++ {
			bit := uint16(0x01)
			if leds[j] {
				bit = 0x02
			}
			ledFlags |= bit << (4 * uint(j))
		}
		writeU16LE(mode[2:4], ledFlags)
	}

	defaultDPI := general.GetInt("default_dpi")
	if defaultDPI >= len(p.Modes) {
		defaultDPI = len(p.Modes) - 1
	}
	buf[g700OffDefaultDPI] = byte(defaultDPI)
	buf[g700OffAngle] = byte(general.GetInt("angle"))

	if general.GetBool("angle_snapping") {
		buf[g700OffAngleSnapping] = 0x02
	} else {
		buf[g700OffAngleSnapping] = 0x01
	}

	buf[g700OffUnknown0] = byte(general.GetInt("unknown0"))
	buf[g700OffReportRate] = byte(general.GetInt("report_rate"))
	buf[g700OffUnknown1] = byte(general.GetInt("unknown1"))
	buf[g700OffUnknown2] = byte(general.GetInt("unknown2"))
	buf[g700OffUnknown3] = byte(general.GetInt("unknown3"))
	buf[g700OffUnknown4] = byte(general.GetInt("unknown4"))
	buf[g700OffPowerMode] = byte(general.GetInt("power_mode"))
	buf[g700OffUnknown5] = byte(general.GetInt("unknown5"))
	buf[g700OffUnknown6] = byte(general.GetInt("unknown6"))
	buf[g700OffUnknown7] = byte(general.GetInt("unknown7"))
	buf[g700OffUnknown8] = byte(general.GetInt("unknown8"))
	buf[g700OffUnknown9] = byte(general.GetInt("unknown9"))

	for i := 0; i < g700MaxButtonCount; i++ {
		b := buf[g700OffButtons+i*v1ButtonSize : g700OffButtons+(i+1)*v1ButtonSize]
		button := DisabledButton()
		if i < len(p.Buttons) {
			button = p.Buttons[i]
		}
		if err := writeButtonV1(b, button); err != nil {
			return err
		}
	}
	return nil
}
