// ABOUTME: Tests for the CRC-32 engine against known vectors and hash/crc32
// ABOUTME: Pins the checksum segment encoding used by the wire format

package token

import (
	"hash/crc32"
	"strings"
	"testing"
)

func TestEntropyChecksum_KnownVectors(t *testing.T) {
	tests := []struct {
		name    string
		entropy string
		want    uint32
		segment string
	}{
		{
			name:    "27 zeros",
			entropy: strings.Repeat("0", 27),
			want:    0x816710BC,
			segment: "2MvMGi",
		},
		{
			name:    "27 z",
			entropy: strings.Repeat("z", 27),
			want:    0x39DF34DC,
			segment: "13hv5A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entropyChecksum(tt.entropy); got != tt.want {
				t.Errorf("entropyChecksum(%q) = %#x, want %#x", tt.entropy, got, tt.want)
			}
			if got := checksumSegment(tt.entropy); got != tt.segment {
				t.Errorf("checksumSegment(%q) = %q, want %q", tt.entropy, got, tt.segment)
			}
		})
	}
}

func TestEntropyChecksum_MatchesStdlib(t *testing.T) {
	// The engine must reproduce IEEE 802.3 bit-for-bit so checksums are
	// verifiable by any standard CRC-32 implementation.
	inputs := []string{
		"",
		"0",
		"123456789", // classic check input, CRC 0xCBF43926
		strings.Repeat("0", 27),
		strings.Repeat("z", 27),
		"The quick brown fox jumps over the lazy dog",
		"aB3xY9kL0mN7pQ2rS5tU8vW1zD4",
	}
	for _, in := range inputs {
		want := crc32.ChecksumIEEE([]byte(in))
		if got := entropyChecksum(in); got != want {
			t.Errorf("entropyChecksum(%q) = %#x, stdlib = %#x", in, got, want)
		}
	}
	if got := entropyChecksum("123456789"); got != 0xCBF43926 {
		t.Errorf("check input CRC = %#x, want 0xCBF43926", got)
	}
}

func TestChecksumSegment_LeadingDigitRange(t *testing.T) {
	// The maximum CRC-32 value encodes to "4gfFC3", so every checksum
	// segment must start with a digit in 0-4.
	entropies := []string{
		strings.Repeat("0", 27),
		strings.Repeat("z", 27),
		strings.Repeat("A", 27),
		"0123456789ABCDEFGHIJKLMNOPQ",
		"zyxwvutsrqponmlkjihgfedcba9",
	}
	for _, entropy := range entropies {
		seg := checksumSegment(entropy)
		if len(seg) != ChecksumLen {
			t.Fatalf("checksumSegment(%q) length = %d", entropy, len(seg))
		}
		if seg[0] < '0' || seg[0] > '4' {
			t.Errorf("checksumSegment(%q) = %q, leading digit outside 0-4", entropy, seg)
		}
	}
}
