package macro_test

import (
	"testing"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/macro"
	"github.com/Alia5/gohidpp/hidpp/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend, word-addressable or not, with fixed
// page contents, for exercising PagedMemory/layout without real hardware.
type fakeBackend struct {
	sectorSize int
	word       bool
	pages      map[pageID][]byte
}

type pageID struct {
	memType memory.MemType
	page    uint8
}

func newFakeBackend(sectorSize int, word bool) *fakeBackend {
	return &fakeBackend{sectorSize: sectorSize, word: word, pages: make(map[pageID][]byte)}
}

func (b *fakeBackend) SectorSize() int       { return b.sectorSize }
func (b *fakeBackend) WordAddressable() bool { return b.word }

func (b *fakeBackend) ReadPage(memType memory.MemType, page uint8) ([]byte, error) {
	id := pageID{memType, page}
	if d, ok := b.pages[id]; ok {
		return append([]byte(nil), d...), nil
	}
	return make([]byte, b.sectorSize), nil
}

func (b *fakeBackend) WritePage(memType memory.MemType, page uint8, data []byte) error {
	id := pageID{memType, page}
	b.pages[id] = append([]byte(nil), data...)
	return nil
}

func TestV1FormatKeyPressDelayJumpEncoding(t *testing.T) {
	// spec concrete scenario 4: KeyPress('A' HID usage 0x04), Delay(100ms),
	// JumpIfPressed back to the macro start.
	m := &macro.Macro{Items: []macro.Item{
		{Instr: macro.KeyPress, Key: 0x04, JumpTarget: -1},
		{Instr: macro.Delay, Delay: 100, JumpTarget: -1},
		{Instr: macro.JumpIfPressed, JumpTarget: 0},
	}}

	backend := newFakeBackend(512, true)
	mem := memory.New(backend, false, hlog.Nop())

	next, err := macro.WriteMacro(m, macro.V1Format{}, mem, memory.Address{Page: 1, Offset: 0})
	require.NoError(t, err)

	page, err := mem.ReadOnlyPage(memory.Address{Page: 1})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x20, 0x04, 0x43, 0x00, 0x64, 0x45, 0x01, 0x00}, page[:8])
	assert.Equal(t, memory.Address{Page: 1, Offset: 4}, next)
}

func TestV1FormatRoundTrip(t *testing.T) {
	backend := newFakeBackend(512, true)
	mem := memory.New(backend, false, hlog.Nop())

	// v1 has no combined modifiers+key opcode, so use the two plain
	// instructions rather than ModifiersKeyPress/Release (which Write
	// expands to these same two opcodes but Parse cannot recombine).
	original := &macro.Macro{Items: []macro.Item{
		{Instr: macro.ModifiersPress, Modifiers: 0x01, JumpTarget: -1},
		{Instr: macro.KeyPress, Key: 0x04, JumpTarget: -1},
		{Instr: macro.Delay, Delay: 50, JumpTarget: -1},
		{Instr: macro.ModifiersRelease, Modifiers: 0x01, JumpTarget: -1},
		{Instr: macro.KeyRelease, Key: 0x04, JumpTarget: -1},
		{Instr: macro.End, JumpTarget: -1},
	}}

	start := memory.Address{Page: 2, Offset: 0}
	_, err := macro.WriteMacro(original, macro.V1Format{}, mem, start)
	require.NoError(t, err)

	readBack, err := macro.ReadMacro(macro.V1Format{}, mem, start)
	require.NoError(t, err)
	require.Len(t, readBack.Items, len(original.Items))
	for i, it := range original.Items {
		assert.Equal(t, it.Instr, readBack.Items[i].Instr, "item %d", i)
		assert.Equal(t, it.Key, readBack.Items[i].Key, "item %d", i)
		assert.Equal(t, it.Modifiers, readBack.Items[i].Modifiers, "item %d", i)
		assert.Equal(t, it.Delay, readBack.Items[i].Delay, "item %d", i)
	}
}

func TestV2FormatRoundTrip(t *testing.T) {
	backend := newFakeBackend(512, false)
	mem := memory.New(backend, false, hlog.Nop())

	original := &macro.Macro{Items: []macro.Item{
		{Instr: macro.MouseButtonPress, Buttons: 0x0001, JumpTarget: -1},
		{Instr: macro.Delay, Delay: 20, JumpTarget: -1},
		{Instr: macro.MouseButtonRelease, Buttons: 0x0001, JumpTarget: -1},
		{Instr: macro.End, JumpTarget: -1},
	}}

	start := memory.Address{Page: 0, Offset: 0}
	_, err := macro.WriteMacro(original, macro.V2Format{}, mem, start)
	require.NoError(t, err)

	readBack, err := macro.ReadMacro(macro.V2Format{}, mem, start)
	require.NoError(t, err)
	require.Len(t, readBack.Items, len(original.Items))
	for i, it := range original.Items {
		assert.Equal(t, it.Instr, readBack.Items[i].Instr, "item %d", i)
		assert.Equal(t, it.Buttons, readBack.Items[i].Buttons, "item %d", i)
		assert.Equal(t, it.Delay, readBack.Items[i].Delay, "item %d", i)
	}
}

func TestMacroSimplifyDropsNoOpsAndJumpToNext(t *testing.T) {
	m := &macro.Macro{Items: []macro.Item{
		{Instr: macro.NoOp, JumpTarget: -1},
		{Instr: macro.KeyPress, Key: 0x05, JumpTarget: -1},
		{Instr: macro.Jump, JumpTarget: 3},
		{Instr: macro.End, JumpTarget: -1},
	}}
	m.Simplify()

	require.Len(t, m.Items, 2)
	assert.Equal(t, macro.KeyPress, m.Items[0].Instr)
	assert.Equal(t, macro.End, m.Items[1].Instr)
}

func TestShortDelayEncodeDecodeRoundTripsWithinQuantization(t *testing.T) {
	backend := newFakeBackend(512, true)
	mem := memory.New(backend, false, hlog.Nop())

	m := &macro.Macro{Items: []macro.Item{
		{Instr: macro.ShortDelay, Delay: 256, JumpTarget: -1},
		{Instr: macro.End, JumpTarget: -1},
	}}
	start := memory.Address{Page: 5, Offset: 0}
	_, err := macro.WriteMacro(m, macro.V1Format{}, mem, start)
	require.NoError(t, err)

	readBack, err := macro.ReadMacro(macro.V1Format{}, mem, start)
	require.NoError(t, err)
	require.Len(t, readBack.Items, 2)
	// quantized table, not exact: within one 8ms step of the requested value.
	assert.InDelta(t, 256, readBack.Items[0].Delay, 8)
}
