package memory_test

import (
	"testing"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend, standing in for real flash so
// PagedMemory's caching/dirty/sync behavior can be exercised without
// hardware.
type fakeBackend struct {
	sectorSize int
	wordAddr   bool
	pages      map[[2]byte][]byte
	writes     int
}

func newFakeBackend(sectorSize int, wordAddr bool) *fakeBackend {
	return &fakeBackend{sectorSize: sectorSize, wordAddr: wordAddr, pages: map[[2]byte][]byte{}}
}

func (f *fakeBackend) SectorSize() int      { return f.sectorSize }
func (f *fakeBackend) WordAddressable() bool { return f.wordAddr }

func (f *fakeBackend) ReadPage(memType memory.MemType, page uint8) ([]byte, error) {
	k := [2]byte{byte(memType), page}
	if data, ok := f.pages[k]; ok {
		return append([]byte(nil), data...), nil
	}
	return make([]byte, f.sectorSize), nil
}

func (f *fakeBackend) WritePage(memType memory.MemType, page uint8, data []byte) error {
	f.writes++
	k := [2]byte{byte(memType), page}
	f.pages[k] = append([]byte(nil), data...)
	return nil
}

func TestCRC16CCITTKnownVector(t *testing.T) {
	// The CRC of an empty input is the untouched initial value.
	assert.Equal(t, uint16(0xFFFF), memory.CRC16CCITT(nil))
	// The standard check value for this CRC variant.
	assert.Equal(t, uint16(0x29B1), memory.CRC16CCITT([]byte("123456789")))
}

func TestPagedMemoryReadThroughAndCache(t *testing.T) {
	backend := newFakeBackend(16, false)
	backend.pages[[2]byte{0, 1}] = []byte("0123456789abcdef")

	m := memory.New(backend, false, hlog.Nop())
	data, err := m.ReadOnlyPage(memory.Address{MemType: memory.Writable, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", string(data))

	// Second read must hit the cache, not the backend, so mutating the
	// backend's page afterward should not be visible.
	backend.pages[[2]byte{0, 1}] = []byte("zzzzzzzzzzzzzzzz")
	data2, err := m.ReadOnlyPage(memory.Address{MemType: memory.Writable, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", string(data2))
}

func TestPagedMemoryWriteDirtiesAndSyncs(t *testing.T) {
	backend := newFakeBackend(8, false)
	m := memory.New(backend, false, hlog.Nop())

	buf, err := m.WritablePage(memory.Address{Page: 2})
	require.NoError(t, err)
	copy(buf, []byte("deadbeef"))

	require.NoError(t, m.Sync())
	assert.Equal(t, 1, backend.writes)

	stored, ok := backend.pages[[2]byte{0, 2}]
	require.True(t, ok)
	assert.Equal(t, "deadbeef", string(stored))

	// A second Sync with nothing dirty must not write again.
	require.NoError(t, m.Sync())
	assert.Equal(t, 1, backend.writes)
}

func TestPagedMemorySyncAppendsCRCTrailer(t *testing.T) {
	backend := newFakeBackend(8, false)
	m := memory.New(backend, true, hlog.Nop())

	buf, err := m.WritablePage(memory.Address{Page: 0})
	require.NoError(t, err)
	copy(buf, []byte{1, 2, 3, 4, 5, 6, 0, 0})

	require.NoError(t, m.Sync())
	stored := backend.pages[[2]byte{0, 0}]
	require.Len(t, stored, 8)

	want := memory.CRC16CCITT(stored[:6])
	assert.Equal(t, byte(want>>8), stored[6])
	assert.Equal(t, byte(want), stored[7])
}

func TestPagedMemoryIteratorForScalesByWordSize(t *testing.T) {
	backend := newFakeBackend(16, true)
	m := memory.New(backend, false, hlog.Nop())

	_, idx, err := m.IteratorFor(memory.Address{Page: 0, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 6, idx)

	addr, ok := m.OffsetOf(memory.Writable, 0, 6)
	require.True(t, ok)
	assert.Equal(t, uint16(3), addr.Offset)

	_, ok = m.OffsetOf(memory.Writable, 0, 5)
	assert.False(t, ok)
}

func TestPagedMemorySectorSizeAndWordAddressable(t *testing.T) {
	backend := newFakeBackend(512, true)
	m := memory.New(backend, false, hlog.Nop())
	assert.Equal(t, 512, m.SectorSize())
	assert.True(t, m.WordAddressable())
}
