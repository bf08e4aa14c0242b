// ABOUTME: Reflected IEEE 802.3 CRC-32 over the entropy segment's ASCII bytes
// ABOUTME: Table-driven, bit-for-bit compatible with zlib and hash/crc32

package token

import "github.com/releasekit/asfcred/internal/base62"

// crcPoly is the reflected IEEE 802.3 polynomial.
const crcPoly = 0xEDB88320

var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		crc := uint32(i)
		for k := 0; k < 8; k++ {
			if crc&1 == 1 {
				crc = (crc >> 1) ^ crcPoly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return &t
}

// entropyChecksum computes the CRC-32 of the entropy string's raw ASCII
// bytes in order, as written, never over a decoded form. Initial
// register 0xFFFFFFFF, final XOR 0xFFFFFFFF.
func entropyChecksum(entropy string) uint32 {
	crc := ^uint32(0)
	for i := 0; i < len(entropy); i++ {
		crc = crcTable[byte(crc)^entropy[i]] ^ (crc >> 8)
	}
	return ^crc
}

// checksumSegment renders the CRC-32 of entropy as the 6-character
// base62 checksum segment, zero-left-padded, most significant first.
func checksumSegment(entropy string) string {
	seg, err := base62.Encode(uint64(entropyChecksum(entropy)), ChecksumLen)
	if err != nil {
		// 62^6 exceeds the CRC-32 range, so Encode cannot overflow here.
		panic(err)
	}
	return seg
}
