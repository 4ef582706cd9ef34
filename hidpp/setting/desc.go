package setting

import "fmt"

// Desc is a Setting's schema (spec §3 "SettingDesc"): the kind it must
// have, any constraints (integer range, LED vector length, enum table,
// composed sub-schema), and a default value used to fill absent or invalid
// keys.
type Desc struct {
	kind     Kind
	min, max int
	ledCount int
	sub      map[string]Desc
	enumDesc *EnumDesc
	def      Setting
}

// StringDesc describes a String setting with the given default.
func StringDesc(def string) Desc { return Desc{kind: String, def: NewString(def)} }

// BoolDesc describes a Bool setting with the given default.
func BoolDesc(def bool) Desc { return Desc{kind: Bool, def: NewBool(def)} }

// IntDesc describes an Int setting bounded to [min, max].
func IntDesc(min, max, def int) Desc {
	return Desc{kind: Int, min: min, max: max, def: NewInt(def)}
}

// LEDVectorDesc describes a fixed-length LEDVector setting, all-off by
// default.
func LEDVectorDesc(count int) Desc {
	return Desc{kind: LEDVector, ledCount: count, def: NewLEDVector(make([]bool, count))}
}

// ColorDesc describes a Color setting with the given default.
func ColorDesc(def Color) Desc { return Desc{kind: ColorKind, def: NewColor(def)} }

// ComposedDesc describes a nested-map setting; each entry binds a
// sub-setting name to its own schema.
func ComposedDesc(sub map[string]Desc) Desc {
	cp := make(map[string]Desc, len(sub))
	for k, v := range sub {
		cp[k] = v
	}
	return Desc{kind: Composed, sub: cp, def: NewComposed(nil)}
}

// EnumDescOf describes an Enum setting bound to desc, with the given
// default value.
func EnumDescOf(desc *EnumDesc, def int) Desc {
	return Desc{kind: Enum, enumDesc: desc, def: NewEnum(desc, def)}
}

// Kind reports the described setting's kind.
func (d Desc) Kind() Kind { return d.kind }

// IntRange returns the [min, max] bounds of an Int desc.
func (d Desc) IntRange() (int, int) { return d.min, d.max }

// LEDCount returns the fixed length of an LEDVector desc.
func (d Desc) LEDCount() int { return d.ledCount }

// EnumDesc returns the bound EnumDesc of an Enum desc.
func (d Desc) EnumDesc() *EnumDesc { return d.enumDesc }

// IsComposed reports whether this desc describes a nested map.
func (d Desc) IsComposed() bool { return d.kind == Composed }

// Sub looks up a composed desc's sub-schema by name.
func (d Desc) Sub(name string) (Desc, bool) {
	sub, ok := d.sub[name]
	return sub, ok
}

// DefaultValue returns the schema's default Setting.
func (d Desc) DefaultValue() Setting { return d.def }

// Check validates s against the schema, recursing into Composed
// sub-settings (spec §3: "desc.check(setting) verifies the kind matches
// and constraints hold recursively").
func (d Desc) Check(s Setting) bool {
	if s.Kind() != d.kind {
		return false
	}
	switch d.kind {
	case String, Bool, ColorKind:
		return true
	case Int:
		v, err := s.Int()
		return err == nil && v >= d.min && v <= d.max
	case LEDVector:
		v, err := s.LEDVector()
		return err == nil && len(v) == d.ledCount
	case Enum:
		v, err := s.Enum()
		return err == nil && v.Desc == d.enumDesc && d.enumDesc.Check(v.Value)
	case Composed:
		m, err := s.Composed()
		if err != nil {
			return false
		}
		for name, sub := range m {
			subDesc, ok := d.sub[name]
			if !ok {
				return false
			}
			if !subDesc.Check(sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ConvertError is the conversion error raised by Desc.ConvertFromString; an
// unknown enum name is reported as InvalidEnumValueError instead.
type ConvertError struct {
	Reason string
}

func (e *ConvertError) Error() string { return "setting: " + e.Reason }

// ConvertFromString parses a textual value against the schema, mirroring
// SettingDesc::convertFromString from the original (used by config/CLI
// front-ends layered on top of this package; not otherwise exercised by
// the core).
func (d Desc) ConvertFromString(str string) (Setting, error) {
	switch d.kind {
	case String:
		return NewString(str), nil
	case Bool:
		switch str {
		case "true", "on":
			return NewBool(true), nil
		case "false", "off":
			return NewBool(false), nil
		default:
			return Setting{}, &ConvertError{Reason: "string is not a boolean value"}
		}
	case Int:
		var v int
		if _, err := fmt.Sscanf(str, "%d", &v); err != nil {
			return Setting{}, &ConvertError{Reason: "string is not a number"}
		}
		if v < d.min || v > d.max {
			return Setting{}, &ConvertError{Reason: "number is out of range"}
		}
		return NewInt(v), nil
	case LEDVector:
		if len(str) < d.ledCount {
			return Setting{}, &ConvertError{Reason: "LED vector is too short"}
		}
		vec := make([]bool, d.ledCount)
		for i := 0; i < d.ledCount; i++ {
			switch str[i] {
			case '1':
				vec[i] = true
			case '0':
				vec[i] = false
			default:
				return Setting{}, &ConvertError{Reason: "invalid character in LED vector"}
			}
		}
		return NewLEDVector(vec), nil
	case ColorKind:
		var r, g, b uint8
		if _, err := fmt.Sscanf(str, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Setting{}, &ConvertError{Reason: "string is not a color value"}
		}
		return NewColor(Color{R: r, G: g, B: b}), nil
	case Enum:
		v, err := d.enumDesc.FromString(str)
		if err != nil {
			return Setting{}, err
		}
		return NewEnum(d.enumDesc, v), nil
	default:
		return Setting{}, &ConvertError{Reason: "composed settings have no string form"}
	}
}

// Schema is a named collection of Desc, e.g. a profile format's general or
// mode settings table.
type Schema map[string]Desc
