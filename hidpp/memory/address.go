// Package memory implements the paged flash-memory cache (spec §4.5): a
// read-modify-write cache over device pages keyed by (memory type, page),
// with dirty tracking and CRC-CCITT write-back.
package memory

// MemType distinguishes writable flash from read-only ROM. v1 devices only
// ever use Writable; v2 devices can address both.
type MemType uint8

const (
	Writable MemType = 0
	ROM      MemType = 1
)

// Address identifies one byte (v2) or 16-bit word (v1) of device memory.
// Addresses order lexicographically by (MemType, Page, Offset).
type Address struct {
	MemType MemType
	Page    uint8
	Offset  uint16
}

// Less orders addresses lexicographically.
func (a Address) Less(b Address) bool {
	if a.MemType != b.MemType {
		return a.MemType < b.MemType
	}
	if a.Page != b.Page {
		return a.Page < b.Page
	}
	return a.Offset < b.Offset
}

// pageKey identifies a cached Page; only (MemType, Page) selects storage,
// Offset selects a byte/word inside it.
type pageKey struct {
	memType MemType
	page    uint8
}

func keyOf(a Address) pageKey {
	return pageKey{memType: a.MemType, page: a.Page}
}
