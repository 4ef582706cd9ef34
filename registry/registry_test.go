package registry_test

import (
	"os"
	"strings"
	"testing"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
families:
  - name: G500
    vendor_id: 0x046d
    product_id: 0xc068
    profile_format: g500
    sensor:
      kind: list
      resolutions: [400, 800, 1600, 2000]
    directory_format: v1
    led_count: 4
  - name: G502 Hero
    vendor_id: 0x046d
    product_id: 0xc08b
    profile_format: v2
    directory_format: v2
`

func TestLoadRegistersFamiliesFromYAML(t *testing.T) {
	err := registry.Load(strings.NewReader(sampleYAML), hlog.Nop())
	require.NoError(t, err)

	f, ok := registry.Lookup(0x046d, 0xc068)
	require.True(t, ok)
	assert.Equal(t, "G500", f.Name)
	assert.NotNil(t, f.Profile)
	assert.NotNil(t, f.Directory)
	assert.Equal(t, 78, f.Profile.Size())

	f2, ok := registry.Lookup(0x046d, 0xc08b)
	require.True(t, ok)
	assert.Equal(t, 256, f2.Profile.Size())
}

func TestLoadDefaultFindsExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/families.yaml"
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	found, err := registry.LoadDefault(path, hlog.Nop())
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, ok := registry.Lookup(0x046d, 0xc068)
	require.True(t, ok)
}

func TestLoadDefaultErrorsWhenNothingFound(t *testing.T) {
	_, err := registry.LoadDefault(t.TempDir()+"/missing.yaml", hlog.Nop())
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProfileFormat(t *testing.T) {
	err := registry.Load(strings.NewReader(`
families:
  - name: Bogus
    vendor_id: 1
    product_id: 2
    profile_format: not-a-real-format
`), hlog.Nop())
	assert.Error(t, err)
}
