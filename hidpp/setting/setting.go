// Package setting implements the typed, schema-validated setting container
// described in spec §3 and §4.7: a tagged-variant value (string, bool, int,
// LED vector, color, enum, nested composed map) plus the SettingDesc schema
// that validates it and supplies defaults for absent or invalid keys.
//
// A C++ original uses a std::variant-like union with get<T>() throwing on
// a type mismatch; this port follows the teacher's flat tagged-struct
// convention (see hidpp/macro.Item) instead of an interface hierarchy, and
// returns errors from the typed accessors rather than panicking.
package setting

import "fmt"

// Kind is the Setting's tag.
type Kind int

const (
	String Kind = iota
	Bool
	Int
	LEDVector
	ColorKind
	Composed
	Enum
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case LEDVector:
		return "led_vector"
	case ColorKind:
		return "color"
	case Composed:
		return "composed"
	case Enum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Color is an RGB triple (spec §3).
type Color struct {
	R, G, B uint8
}

// TypeError is raised by a typed accessor when the Setting's Kind does not
// match the requested type.
type TypeError struct {
	Want, Got Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("setting: wanted %s, got %s", e.Want, e.Got)
}

// Setting is the tagged-variant value container (spec §3). Only the field
// matching Kind is meaningful; use the typed accessors rather than reading
// fields directly from outside the package.
type Setting struct {
	kind     Kind
	str      string
	boolean  bool
	integer  int
	leds     []bool
	color    Color
	composed map[string]Setting
	enum     EnumValue
}

// NewString builds a String setting.
func NewString(v string) Setting { return Setting{kind: String, str: v} }

// NewBool builds a Bool setting.
func NewBool(v bool) Setting { return Setting{kind: Bool, boolean: v} }

// NewInt builds an Int setting.
func NewInt(v int) Setting { return Setting{kind: Int, integer: v} }

// NewLEDVector builds an LEDVector setting. The slice is copied.
func NewLEDVector(v []bool) Setting {
	cp := make([]bool, len(v))
	copy(cp, v)
	return Setting{kind: LEDVector, leds: cp}
}

// NewColor builds a Color setting.
func NewColor(c Color) Setting { return Setting{kind: ColorKind, color: c} }

// NewComposed builds a Composed (nested map) setting. The map is copied
// shallowly.
func NewComposed(m map[string]Setting) Setting {
	cp := make(map[string]Setting, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Setting{kind: Composed, composed: cp}
}

// NewEnum builds an Enum setting bound to a specific EnumDesc and value.
func NewEnum(desc *EnumDesc, value int) Setting {
	return Setting{kind: Enum, enum: EnumValue{Desc: desc, Value: value}}
}

// Kind reports the setting's tag.
func (s Setting) Kind() Kind { return s.kind }

func (s Setting) String() (string, error) {
	if s.kind != String {
		return "", &TypeError{Want: String, Got: s.kind}
	}
	return s.str, nil
}

func (s Setting) Bool() (bool, error) {
	if s.kind != Bool {
		return false, &TypeError{Want: Bool, Got: s.kind}
	}
	return s.boolean, nil
}

func (s Setting) Int() (int, error) {
	if s.kind != Int {
		return 0, &TypeError{Want: Int, Got: s.kind}
	}
	return s.integer, nil
}

func (s Setting) LEDVector() ([]bool, error) {
	if s.kind != LEDVector {
		return nil, &TypeError{Want: LEDVector, Got: s.kind}
	}
	out := make([]bool, len(s.leds))
	copy(out, s.leds)
	return out, nil
}

func (s Setting) Color() (Color, error) {
	if s.kind != ColorKind {
		return Color{}, &TypeError{Want: ColorKind, Got: s.kind}
	}
	return s.color, nil
}

func (s Setting) Composed() (map[string]Setting, error) {
	if s.kind != Composed {
		return nil, &TypeError{Want: Composed, Got: s.kind}
	}
	out := make(map[string]Setting, len(s.composed))
	for k, v := range s.composed {
		out[k] = v
	}
	return out, nil
}

func (s Setting) Enum() (EnumValue, error) {
	if s.kind != Enum {
		return EnumValue{}, &TypeError{Want: Enum, Got: s.kind}
	}
	return s.enum, nil
}

// ToString renders the setting as text, mirroring the original's
// Setting::toString (used for debug logging and macro/profile dumps).
// Composed settings have no string form.
func (s Setting) ToString() (string, error) {
	switch s.kind {
	case String:
		return s.str, nil
	case Bool:
		if s.boolean {
			return "true", nil
		}
		return "false", nil
	case Int:
		return fmt.Sprintf("%d", s.integer), nil
	case LEDVector:
		out := make([]byte, len(s.leds))
		for i, on := range s.leds {
			if on {
				out[i] = '1'
			} else {
				out[i] = '0'
			}
		}
		return string(out), nil
	case ColorKind:
		return fmt.Sprintf("%02x%02x%02x", s.color.R, s.color.G, s.color.B), nil
	case Enum:
		return s.enum.String(), nil
	default:
		return "", fmt.Errorf("setting: no string conversion for %s", s.kind)
	}
}
