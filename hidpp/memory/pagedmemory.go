package memory

import "github.com/Alia5/gohidpp/hidpp/hlog"

// PagedMemory represents the device's writable memory as a keyed cache
// (mem_type, page) -> Page (spec §4.5). It is single-threaded; callers
// coordinate externally.
type PagedMemory struct {
	backend Backend
	cache   map[pageKey]*Page
	crc     bool
	log     hlog.Logger
}

// New builds a PagedMemory over backend. crcMode enables the CRC-CCITT
// trailer on sync, per spec §4.5 step 1.
func New(backend Backend, crcMode bool, log hlog.Logger) *PagedMemory {
	return &PagedMemory{
		backend: backend,
		cache:   make(map[pageKey]*Page),
		crc:     crcMode,
		log:     log,
	}
}

// SectorSize returns the backend's page size in bytes.
func (m *PagedMemory) SectorSize() int { return m.backend.SectorSize() }

// WordAddressable reports whether the backend addresses memory in 2-byte
// words (HID++1.0) rather than bytes (HID++2.0).
func (m *PagedMemory) WordAddressable() bool { return m.backend.WordAddressable() }

// page returns the cached Page for addr, reading it through from the
// device on first access.
func (m *PagedMemory) page(addr Address) (*Page, error) {
	k := keyOf(addr)
	if p, ok := m.cache[k]; ok {
		return p, nil
	}
	data, err := m.backend.ReadPage(addr.MemType, addr.Page)
	if err != nil {
		return nil, err
	}
	p := &Page{Data: data}
	m.cache[k] = p
	return p, nil
}

// ReadOnlyPage returns a read-through view of the full page bytes at addr.
// The returned slice must not be retained across a call that could evict;
// this implementation never evicts before Sync.
func (m *PagedMemory) ReadOnlyPage(addr Address) ([]byte, error) {
	p, err := m.page(addr)
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}

// WritablePage returns a mutable view of the page at addr and marks it
// dirty.
func (m *PagedMemory) WritablePage(addr Address) ([]byte, error) {
	p, err := m.page(addr)
	if err != nil {
		return nil, err
	}
	p.Dirty = true
	return p.Data, nil
}

// IteratorFor returns a position into the cached page at addr.Offset,
// scaled by 2 for v1's word addressing.
func (m *PagedMemory) IteratorFor(addr Address) (data []byte, index int, err error) {
	p, err := m.page(addr)
	if err != nil {
		return nil, 0, err
	}
	idx := int(addr.Offset)
	if m.backend.WordAddressable() {
		idx *= 2
	}
	return p.Data, idx, nil
}

// OffsetOf is the inverse of IteratorFor: given the page identity and a
// byte index into it, returns the Address, or ok=false when the position is
// not aligned (v1: odd byte positions have no addressable word).
func (m *PagedMemory) OffsetOf(memType MemType, page uint8, index int) (addr Address, ok bool) {
	if m.backend.WordAddressable() {
		if index%2 != 0 {
			return Address{}, false
		}
		return Address{MemType: memType, Page: page, Offset: uint16(index / 2)}, true
	}
	return Address{MemType: memType, Page: page, Offset: uint16(index)}, true
}

// Sync writes every dirty page back to the device and clears its dirty
// flag. Pages are synced in map iteration order, which spec §4.5 leaves
// unspecified ("for each dirty page in arbitrary order").
func (m *PagedMemory) Sync() error {
	for k, p := range m.cache {
		if !p.Dirty {
			continue
		}
		payload := p.Data
		if m.crc {
			payload = append([]byte(nil), p.Data...)
			n := len(payload)
			crc := CRC16CCITT(payload[:n-2])
			payload[n-2] = byte(crc >> 8)
			payload[n-1] = byte(crc)
			p.Data = payload
		}
		if err := m.backend.WritePage(k.memType, k.page, payload); err != nil {
			return err
		}
		p.Dirty = false
	}
	return nil
}
