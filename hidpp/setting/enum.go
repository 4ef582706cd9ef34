package setting

import "fmt"

// InvalidEnumValueError is raised when an enum value or name is not a member
// of its EnumDesc (spec §7).
type InvalidEnumValueError struct {
	Value int
	Name  string
}

func (e *InvalidEnumValueError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("setting: %q is not a valid enum value", e.Name)
	}
	return fmt.Sprintf("setting: %d is not a valid enum value", e.Value)
}

// EnumDesc is a closed name<->int mapping used by Enum settings: special
// actions, LED effect kinds, power modes, and so on (spec §3, §4.7).
type EnumDesc struct {
	values map[string]int
	order  []string
}

// NewEnumDesc builds an EnumDesc from name->value pairs, preserving
// insertion order for iteration.
func NewEnumDesc(pairs ...EnumPair) *EnumDesc {
	d := &EnumDesc{values: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		if _, ok := d.values[p.Name]; !ok {
			d.order = append(d.order, p.Name)
		}
		d.values[p.Name] = p.Value
	}
	return d
}

// EnumPair is one name/value entry passed to NewEnumDesc.
type EnumPair struct {
	Name  string
	Value int
}

// Pair is a convenience constructor for EnumPair, used to keep enum tables
// readable as a flat list of pairs.
func Pair(name string, value int) EnumPair { return EnumPair{Name: name, Value: value} }

// Names returns the enum's member names in declaration order.
func (d *EnumDesc) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// FromString resolves a member name to its integer value.
func (d *EnumDesc) FromString(name string) (int, error) {
	v, ok := d.values[name]
	if !ok {
		return 0, &InvalidEnumValueError{Name: name}
	}
	return v, nil
}

// ToString finds the first member name with the given value.
func (d *EnumDesc) ToString(value int) (string, error) {
	for _, name := range d.order {
		if d.values[name] == value {
			return name, nil
		}
	}
	return "", &InvalidEnumValueError{Value: value}
}

// Check reports whether value is a member of the enum.
func (d *EnumDesc) Check(value int) bool {
	for _, name := range d.order {
		if d.values[name] == value {
			return true
		}
	}
	return false
}

// EnumValue pairs an integer with the EnumDesc it belongs to, so a Setting
// of kind Enum can be validated against the exact table it was built with,
// not merely any table containing the same integer (spec §3).
type EnumValue struct {
	Desc  *EnumDesc
	Value int
}

func (v EnumValue) String() string {
	s, err := v.Desc.ToString(v.Value)
	if err != nil {
		return fmt.Sprintf("EnumValue(%d)", v.Value)
	}
	return s
}
