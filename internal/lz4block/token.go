package lz4block

import "github.com/lz4go/lz4/internal/lz4errors"

// maxVarLen bounds the running sum of a 255-chain length extension (spec
// §4.1: "Overflow on extension sums is a decode error"). At 4 GiB it is
// far above any length a 4 MiB frame block could ever need, so it only
// ever trips on adversarial input.
const maxVarLen = 1 << 32

// appendVarLen appends the 0xFF-chain encoding of rem (already stripped of
// its nibble-code bias of 15) to dst and returns the extended slice.
func appendVarLen(dst []byte, rem int) []byte {
	for rem >= 0xFF {
		dst = append(dst, 0xFF)
		rem -= 0xFF
	}
	return append(dst, byte(rem))
}

// writeVarLen writes the same chain into dst starting at offset di,
// returning the new offset. The caller guarantees enough room.
func writeVarLen(dst []byte, di, rem int) int {
	for rem >= 0xFF {
		dst[di] = 0xFF
		di++
		rem -= 0xFF
	}
	dst[di] = byte(rem)
	return di + 1
}

// varLenSize returns how many bytes the 0xFF-chain encoding of rem takes.
func varLenSize(rem int) int {
	return rem/0xFF + 1
}

// readVarLen reads a 0xFF-terminated length extension chain from src
// starting at index i (the byte following the token or the offset field).
// It returns the accumulated length, the index of the first byte after the
// chain, and an error if the input is truncated or the sum overflows.
func readVarLen(src []byte, i int) (sum int, next int, err error) {
	for {
		if i >= len(src) {
			return 0, i, lz4errors.New(lz4errors.DecompressionFailed)
		}
		b := src[i]
		i++
		sum += int(b)
		if sum >= maxVarLen {
			return 0, i, lz4errors.Wrap(lz4errors.DecompressionFailed, "length extension overflow")
		}
		if b != 0xFF {
			return sum, i, nil
		}
	}
}
