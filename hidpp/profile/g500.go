package profile

import (
	"fmt"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/setting"
)

// G500Format is the v1 profile layout used by the G500/G500s/G400 family
// (spec §4.7): 78 bytes, 13 buttons, 5 modes of 6 bytes each.
// Grounded on original_source's hidpp10/ProfileFormatG500.cpp.
type G500Format struct {
	sensor        Sensor
	generalDesc   setting.Schema
	modeDesc      setting.Schema
	specialAction *setting.EnumDesc
	log           hlog.Logger
}

const (
	g500ProfileSize    = 78
	g500MaxButtonCount = 13
	g500MaxModeCount   = 5
	g500ModeSize       = 6
	g500LEDCount       = 4

	g500OffColor          = 0
	g500OffAngle          = 3
	g500OffModes          = 4
	g500OffAngleSnapping  = 34
	g500OffDefaultDPI     = 35
	g500OffLiftThreshold  = 36
	g500OffUnknown        = 37
	g500OffReportRate     = 38
	g500OffButtons        = 39
)

// NewG500Format builds a G500Format bound to sensor, with the default DPI
// mode clamped to min(800, sensor.MaximumResolution()).
func NewG500Format(sensor Sensor, log hlog.Logger) *G500Format {
	def := minInt(800, int(sensor.MaximumResolution()))
	dpiDesc := setting.IntDesc(int(sensor.MinimumResolution()), int(sensor.MaximumResolution()), def)
	return &G500Format{
		sensor: sensor,
		generalDesc: setting.Schema{
			"color":           setting.ColorDesc(setting.Color{R: 255, G: 0, B: 0}),
			"angle":           setting.IntDesc(0x00, 0xff, 0x80),
			"angle_snapping":  setting.BoolDesc(false),
			"default_dpi":     setting.IntDesc(0, g500MaxModeCount-1, 0),
			"lift_threshold":  setting.IntDesc(-15, 15, 0),
			"unknown":         setting.IntDesc(0x00, 0xff, 0x10),
			"report_rate":     setting.IntDesc(1, 8, 4),
		},
		modeDesc: setting.Schema{
			"dpi_x": dpiDesc,
			"dpi_y": dpiDesc,
			"leds":  setting.LEDVectorDesc(g500LEDCount),
		},
		specialAction: v1CommonSpecialActions(),
		log:           log,
	}
}

func (f *G500Format) Size() int            { return g500ProfileSize }
func (f *G500Format) MaxButtonCount() int  { return g500MaxButtonCount }
func (f *G500Format) MaxModeCount() int    { return g500MaxModeCount }
func (f *G500Format) GeneralSettings() setting.Schema     { return f.generalDesc }
func (f *G500Format) ModeSettings() setting.Schema        { return f.modeDesc }
func (f *G500Format) SpecialActions() *setting.EnumDesc   { return f.specialAction }

func (f *G500Format) Read(buf []byte) (*Profile, error) {
	if len(buf) < g500ProfileSize {
		return nil, fmt.Errorf("profile: G500 buffer too short (%d < %d)", len(buf), g500ProfileSize)
	}
	p := New()
	p.Settings["color"] = setting.NewColor(setting.Color{R: buf[g500OffColor], G: buf[g500OffColor+1], B: buf[g500OffColor+2]})
	p.Settings["angle"] = setting.NewInt(int(buf[g500OffAngle]))

	for i := 0; i < g500MaxModeCount; i++ {
		mode := buf[g500OffModes+i*g500ModeSize : g500OffModes+(i+1)*g500ModeSize]
		dpiX := readU16BE(mode[0:2])
		if i > 0 && dpiX == 0 {
			break
		}
		dpiY := readU16BE(mode[2:4])
		ledFlags := readU16LE(mode[4:6])
		var leds []bool
		for j := 0; j < g500LEDCount; j++ {
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

	p.Settings["angle_snapping"] = setting.NewBool(buf[g500OffAngleSnapping] == 0x02)
	p.Settings["default_dpi"] = setting.NewInt(int(buf[g500OffDefaultDPI]))
	p.Settings["lift_threshold"] = setting.NewInt(int(buf[g500OffLiftThreshold]) - 16)
	p.Settings["unknown"] = setting.NewInt(int(buf[g500OffUnknown]))
	p.Settings["report_rate"] = setting.NewInt(int(buf[g500OffReportRate]))

	for i := 0; i < g500MaxButtonCount; i++ {
		b := buf[g500OffButtons+i*v1ButtonSize : g500OffButtons+(i+1)*v1ButtonSize]
		p.Buttons = append(p.Buttons, parseButtonV1(b))
	}
	return p, nil
}

func (f *G500Format) Write(p *Profile, buf []byte) error {
	if len(buf) < g500ProfileSize {
		return fmt.Errorf("profile: G500 buffer too short (%d < %d)", len(buf), g500ProfileSize)
	}
	general := setting.NewLookup(p.Settings, f.generalDesc, f.log)

	color := general.GetColor("color")
	buf[g500OffColor], buf[g500OffColor+1], buf[g500OffColor+2] = color.R, color.G, color.B
	buf[g500OffAngle] = byte(general.GetInt("angle"))

	for i := 0; i < g500MaxModeCount; i++ {
		mode := buf[g500OffModes+i*g500ModeSize : g500OffModes+(i+1)*g500ModeSize]
		if i >= len(p.Modes) {
			for j := range mode {
				mode[j] = 0
			}
			continue
		}
		ml := setting.NewLookup(p.Modes[i], f.modeDesc, f.log)
		dpiX := ml.GetInt("dpi_x")
		writeU16BE(mode[0:2], uint16(f.sensor.FromDPI(uint(dpiX))))
		dpiY := ml.GetIntDefault("dpi_y", dpiX)
		writeU16BE(mode[2:4], uint16(f.sensor.FromDPI(uint(dpiY))))

		leds := ml.GetLEDVector("leds")
		var ledFlags uint16
		for j := 0; j < g500LEDCount && j < len(leds); j++ {
			bit := uint16(0x01)
			if leds[j] {
				bit = 0x02
			}
			ledFlags |= bit << (4 * uint(j))
		}
		writeU16LE(mode[4:6], ledFlags)
	}

	if general.GetBool("angle_snapping") {
		buf[g500OffAngleSnapping] = 0x02
	} else {
		buf[g500OffAngleSnapping] = 0x01
	}

	defaultDPI := general.GetInt("default_dpi")
	if defaultDPI >= len(p.Modes) {
		defaultDPI = len(p.Modes) - 1
	}
	buf[g500OffDefaultDPI] = byte(defaultDPI)

	buf[g500OffLiftThreshold] = byte(16 + general.GetInt("lift_threshold"))
	buf[g500OffUnknown] = byte(general.GetInt("unknown"))
	buf[g500OffReportRate] = byte(general.GetInt("report_rate"))

	for i := 0; i < g500MaxButtonCount; i++ {
		b := buf[g500OffButtons+i*v1ButtonSize : g500OffButtons+(i+1)*v1ButtonSize]
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
