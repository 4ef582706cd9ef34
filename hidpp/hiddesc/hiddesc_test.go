package hiddesc_test

import (
	"testing"

	"github.com/Alia5/gohidpp/hidpp"
	"github.com/Alia5/gohidpp/hidpp/hiddesc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortLongDescriptor builds a minimal descriptor exposing both the
// 8x6/report-id-0x10 short collection and the 8x19/report-id-0x11 long
// collection (spec §4.2's canonical HID++ identities), each with a
// matching Input and Output field.
func shortLongDescriptor() []byte {
	collection := func(usage byte, reportID byte, count byte) []byte {
		return []byte{
			0x06, 0x00, 0xff, // Usage Page (0xFF00), 2-byte data
			0x09, usage, // Usage
			0xa1, 0x01, // Collection (Application)
			0x85, reportID, // Report ID
			0x75, 0x08, // Report Size 8
			0x95, count, // Report Count
			0x09, 0x01, // Usage
			0x81, 0x00, // Input (Data,Array,Abs)
			0x91, 0x00, // Output (Data,Array,Abs)
			0xc0, // End Collection
		}
	}
	var b []byte
	b = append(b, collection(0x01, 0x10, 6)...)
	b = append(b, collection(0x02, 0x11, 19)...)
	return b
}

func TestProbeRecognizesShortAndLongCollections(t *testing.T) {
	desc, err := hiddesc.Parse(shortLongDescriptor())
	require.NoError(t, err)
	require.Len(t, desc.Collections, 2)

	info, err := hiddesc.Probe(desc)
	require.NoError(t, err)
	assert.True(t, info.HasShort)
	assert.True(t, info.HasLong)
}

func TestProbeFailsWithoutHIDPPCollections(t *testing.T) {
	desc, err := hiddesc.Parse([]byte{
		0x05, 0x01, // Usage Page (Generic Desktop)
		0x09, 0x06, // Usage (Keyboard)
		0xa1, 0x01, // Collection (Application)
		0xc0, // End Collection
	})
	require.NoError(t, err)

	_, err = hiddesc.Probe(desc)
	assert.ErrorIs(t, err, hidpp.ErrNoHIDPPReport)
}
