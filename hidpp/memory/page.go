package memory

// Page is one cached flash page (spec §3 Data Model).
type Page struct {
	Data  []byte
	Dirty bool
}

// Backend supplies the per-version wire primitives PagedMemory drives:
// reading a page's bytes from the device and writing a page back,
// including whatever sequence-numbered packet protocol the firmware
// version requires. WritePage receives data with the CRC trailer (if any)
// already embedded by PagedMemory.
type Backend interface {
	// SectorSize is the page/sector size in bytes (512 for v1, device
	// declared for v2).
	SectorSize() int
	// WordAddressable is true for v1 (offsets address 16-bit words), false
	// for v2 (offsets address bytes).
	WordAddressable() bool
	// ReadPage fetches the full contents of one page from the device.
	ReadPage(memType MemType, page uint8) ([]byte, error)
	// WritePage writes one full page back to the device.
	WritePage(memType MemType, page uint8, data []byte) error
}
