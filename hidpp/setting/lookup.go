package setting

import "github.com/Alia5/gohidpp/hidpp/hlog"

// Lookup resolves named settings against a schema for writing (spec §4.7
// "SettingLookup(profile.settings, schema)"): for each key it returns the
// caller-supplied value if present and valid, else the schema default,
// logging a warning on an invalid value. It never mutates the underlying
// value map.
type Lookup struct {
	values map[string]Setting
	descs  Schema
	log    hlog.Logger
}

// NewLookup builds a Lookup over values validated against descs. A nil
// logger is equivalent to hlog.Nop().
func NewLookup(values map[string]Setting, descs Schema, log hlog.Logger) Lookup {
	return Lookup{values: values, descs: descs, log: log}
}

func (l Lookup) desc(name string) Desc {
	d, ok := l.descs[name]
	if !ok {
		panic("setting: lookup for undeclared setting " + name)
	}
	return d
}

// Get resolves name to its Setting, falling back to the schema default
// when absent or invalid.
func (l Lookup) Get(name string) Setting {
	d := l.desc(name)
	v, ok := l.values[name]
	if !ok {
		return d.DefaultValue()
	}
	if !d.Check(v) {
		l.log.Warn("invalid value in setting, using default instead", map[string]any{"setting": name})
		return d.DefaultValue()
	}
	return v
}

// GetInt is a convenience accessor combining Get with the Int() typed
// getter; it panics if the schema entry is not an Int (a programmer error,
// not a data error — same contract as the original's templated get<int>).
func (l Lookup) GetInt(name string) int {
	v, err := l.Get(name).Int()
	if err != nil {
		panic(err)
	}
	return v
}

// GetIntDefault behaves like GetInt but returns fallback instead of the
// schema default when the setting is absent, matching the original's
// SettingLookup::get(name, default_value) overload (used by ProfileFormatG500
// for dpi_y falling back to dpi_x).
func (l Lookup) GetIntDefault(name string, fallback int) int {
	d := l.desc(name)
	v, ok := l.values[name]
	if !ok {
		return fallback
	}
	if !d.Check(v) {
		l.log.Warn("invalid value in setting, using default instead", map[string]any{"setting": name})
		return fallback
	}
	i, err := v.Int()
	if err != nil {
		panic(err)
	}
	return i
}

func (l Lookup) GetBool(name string) bool {
	v, err := l.Get(name).Bool()
	if err != nil {
		panic(err)
	}
	return v
}

func (l Lookup) GetColor(name string) Color {
	v, err := l.Get(name).Color()
	if err != nil {
		panic(err)
	}
	return v
}

func (l Lookup) GetLEDVector(name string) []bool {
	v, err := l.Get(name).LEDVector()
	if err != nil {
		panic(err)
	}
	return v
}

func (l Lookup) GetEnum(name string) EnumValue {
	v, err := l.Get(name).Enum()
	if err != nil {
		panic(err)
	}
	return v
}
