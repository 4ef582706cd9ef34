package profile_test

import (
	"testing"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/memory"
	"github.com/Alia5/gohidpp/hidpp/profile"
	"github.com/Alia5/gohidpp/hidpp/setting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV1FormatsRoundTripButtons(t *testing.T) {
	cases := []struct {
		name   string
		format profile.Format
	}{
		{"G500", profile.NewG500Format(profile.ListSensorS6006, hlog.Nop())},
		{"G9", profile.NewG9Format(profile.ListSensorS6090, hlog.Nop())},
		{"G700", profile.NewG700Format(profile.RangeSensorS9500, hlog.Nop())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := profile.New()
			for name, desc := range tc.format.GeneralSettings() {
				p.Settings[name] = desc.DefaultValue()
			}
			p.Buttons = append(p.Buttons, profile.MouseButton(0x01), profile.DisabledButton())

			buf := make([]byte, tc.format.Size())
			require.NoError(t, tc.format.Write(p, buf))

			readBack, err := tc.format.Read(buf)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(readBack.Buttons), 2)
			assert.Equal(t, profile.MouseButtons, readBack.Buttons[0].Kind)
			assert.Equal(t, uint16(0x01), readBack.Buttons[0].Buttons)
		})
	}
}

func TestG500WriteReadModeCountRoundTrip(t *testing.T) {
	f := profile.NewG500Format(profile.ListSensorS6006, hlog.Nop())
	p := profile.New()
	for name, desc := range f.GeneralSettings() {
		p.Settings[name] = desc.DefaultValue()
	}
	modeDesc := f.ModeSettings()
	mode := map[string]setting.Setting{}
	for name, desc := range modeDesc {
		mode[name] = desc.DefaultValue()
	}
	p.Modes = []map[string]setting.Setting{mode}

	buf := make([]byte, f.Size())
	require.NoError(t, f.Write(p, buf))
	readBack, err := f.Read(buf)
	require.NoError(t, err)
	require.Len(t, readBack.Modes, 1)
}

func TestV2FormatRoundTripNameAndSpecialButton(t *testing.T) {
	f := profile.NewV2Format(hlog.Nop())
	p := profile.New()
	for name, desc := range f.GeneralSettings() {
		p.Settings[name] = desc.DefaultValue()
	}
	p.Settings["name"] = setting.NewString("Test Profile")
	p.Buttons = append(p.Buttons, profile.SpecialButton(1))

	buf := make([]byte, f.Size())
	require.NoError(t, f.Write(p, buf))

	readBack, err := f.Read(buf)
	require.NoError(t, err)
	name, err := readBack.Settings["name"].String()
	require.NoError(t, err)
	assert.Equal(t, "Test Profile", name)
	assert.Equal(t, profile.Special, readBack.Buttons[0].Kind)
}

func TestV1DirectoryFormatRoundTrip(t *testing.T) {
	f := profile.NewV1DirectoryFormat(4, hlog.Nop())
	dir := &profile.Directory{Entries: []profile.DirectoryEntry{
		{
			Address:  memory.Address{Page: 2, Offset: 0},
			Settings: map[string]setting.Setting{"leds": setting.NewLEDVector([]bool{true, false, true, false})},
		},
	}}

	buf := make([]byte, 64)
	n, err := f.Write(dir, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n) // 1 entry (3 bytes) + sentinel

	readBack, err := f.Read(buf)
	require.NoError(t, err)
	require.Len(t, readBack.Entries, 1)
	assert.Equal(t, uint8(2), readBack.Entries[0].Address.Page)
	leds, err := readBack.Entries[0].Settings["leds"].LEDVector()
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, leds)
}

func TestV2DirectoryFormatRoundTrip(t *testing.T) {
	f := profile.NewV2DirectoryFormat(hlog.Nop())
	dir := &profile.Directory{Entries: []profile.DirectoryEntry{
		{
			Address:  memory.Address{MemType: memory.Writable, Page: 3},
			Settings: map[string]setting.Setting{"enabled": setting.NewBool(true)},
		},
	}}

	buf := make([]byte, 64)
	n, err := f.Write(dir, buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n) // 1 entry (4 bytes) + sentinel

	readBack, err := f.Read(buf)
	require.NoError(t, err)
	require.Len(t, readBack.Entries, 1)
	enabled, err := readBack.Entries[0].Settings["enabled"].Bool()
	require.NoError(t, err)
	assert.True(t, enabled)
}
