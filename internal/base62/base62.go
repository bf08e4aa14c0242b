// ABOUTME: Fixed-width base62 encoding and decoding of unsigned integers
// ABOUTME: The 0-9A-Za-z alphabet order is load-bearing for token checksums

package base62

import (
	"errors"
	"fmt"
)

// Alphabet is the base62 digit set in value order: '0' has value 0,
// 'Z' has value 35, 'z' has value 61.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Base is the radix of the encoding.
const Base = 62

// ErrOverflow indicates a value too large to encode in the requested width.
var ErrOverflow = errors.New("base62: value overflows width")

// ErrInvalidDigit indicates a character outside the base62 alphabet.
var ErrInvalidDigit = errors.New("base62: invalid digit")

// Encode renders value as exactly width base62 digits, most significant
// first, left-padded with '0'. Returns ErrOverflow if value >= 62^width,
// since it would not fit without truncation.
func Encode(value uint64, width int) (string, error) {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = Alphabet[value%Base]
		value /= Base
	}
	if value != 0 {
		return "", fmt.Errorf("%w: width %d", ErrOverflow, width)
	}
	return string(buf), nil
}

// Decode folds text left to right, acc = acc*62 + digit. Returns
// ErrInvalidDigit if any character is outside the alphabet. The caller
// is responsible for keeping the result within uint64 range.
func Decode(text string) (uint64, error) {
	var acc uint64
	for i := 0; i < len(text); i++ {
		v := DigitValue(text[i])
		if v < 0 {
			return 0, fmt.Errorf("%w: %q at offset %d", ErrInvalidDigit, text[i], i)
		}
		acc = acc*Base + uint64(v)
	}
	return acc, nil
}

// DigitValue returns the numeric value of a base62 digit, or -1 if c is
// not in the alphabet.
func DigitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	}
	return -1
}

// IsDigit reports whether c is in the base62 alphabet.
func IsDigit(c byte) bool {
	return DigitValue(c) >= 0
}
