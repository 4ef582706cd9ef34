package memory

// CRC16CCITT computes the CRC-CCITT checksum (polynomial 0x1021, initial
// 0xFFFF, msb-first, no reflection) used to validate flash pages (spec
// §4.5, §6.4).
func CRC16CCITT(data []byte) uint16 {
	var crc uint16 = 0xFFFF
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
