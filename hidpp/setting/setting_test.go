package setting_test

import (
	"testing"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/setting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingTypedAccessorsRejectWrongKind(t *testing.T) {
	cases := []struct {
		name string
		s    setting.Setting
	}{
		{"string", setting.NewString("hi")},
		{"bool", setting.NewBool(true)},
		{"int", setting.NewInt(5)},
		{"color", setting.NewColor(setting.Color{R: 1})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.s.LEDVector()
			if tc.s.Kind() == setting.LEDVector {
				return
			}
			require.Error(t, err)
			var typeErr *setting.TypeError
			assert.ErrorAs(t, err, &typeErr)
		})
	}
}

func TestSettingToString(t *testing.T) {
	cases := []struct {
		name     string
		s        setting.Setting
		expected string
	}{
		{"string", setting.NewString("abc"), "abc"},
		{"bool true", setting.NewBool(true), "true"},
		{"bool false", setting.NewBool(false), "false"},
		{"int", setting.NewInt(42), "42"},
		{"color", setting.NewColor(setting.Color{R: 0xff, G: 0x00, B: 0x10}), "ff0010"},
		{"led vector", setting.NewLEDVector([]bool{true, false, true}), "101"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.s.ToString()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestComposedSettingHasNoStringForm(t *testing.T) {
	s := setting.NewComposed(map[string]setting.Setting{"a": setting.NewInt(1)})
	_, err := s.ToString()
	assert.Error(t, err)
}

func TestEnumDescLookup(t *testing.T) {
	desc := setting.NewEnumDesc(
		setting.Pair("Off", 0),
		setting.Pair("On", 1),
	)
	v, err := desc.FromString("On")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	name, err := desc.ToString(0)
	require.NoError(t, err)
	assert.Equal(t, "Off", name)

	_, err = desc.FromString("Unknown")
	assert.Error(t, err)
	assert.False(t, desc.Check(99))
}

func TestDescCheckValidatesRangeAndComposed(t *testing.T) {
	intDesc := setting.IntDesc(0, 10, 5)
	assert.True(t, intDesc.Check(setting.NewInt(3)))
	assert.False(t, intDesc.Check(setting.NewInt(11)))
	assert.False(t, intDesc.Check(setting.NewString("x")))

	composed := setting.ComposedDesc(map[string]setting.Desc{
		"x": setting.IntDesc(0, 10, 0),
	})
	ok := composed.Check(setting.NewComposed(map[string]setting.Setting{
		"x": setting.NewInt(5),
	}))
	assert.True(t, ok)

	bad := composed.Check(setting.NewComposed(map[string]setting.Setting{
		"x": setting.NewInt(50),
	}))
	assert.False(t, bad)
}

func TestLookupFallsBackToDefaultOnInvalidValue(t *testing.T) {
	schema := setting.Schema{"rate": setting.IntDesc(1, 8, 4)}
	values := map[string]setting.Setting{"rate": setting.NewInt(99)}
	l := setting.NewLookup(values, schema, hlog.Nop())
	assert.Equal(t, 4, l.GetInt("rate"))
}

func TestLookupGetIntDefaultFallsBackWhenAbsent(t *testing.T) {
	schema := setting.Schema{"dpi_y": setting.IntDesc(0, 8000, 800)}
	l := setting.NewLookup(map[string]setting.Setting{}, schema, hlog.Nop())
	assert.Equal(t, 1200, l.GetIntDefault("dpi_y", 1200))
}
