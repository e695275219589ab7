package lz4block

import "encoding/binary"

// window is the "virtual concatenation" spec §3/§4.2/§4.5 describes: up to
// 64 KiB of dictionary history placed logically before src. Positions are
// addressed relative to src[0]: src occupies [0, len(src)) and the
// dictionary occupies the negative range [-len(dict), 0), so a hash-table
// entry can name a dictionary byte or a src byte with the same signed int
// and the rebase step (§4.5) is a single subtraction either way.
type window struct {
	dict []byte
	src  []byte
}

// byteAt returns the byte at position v (v may be negative).
func (w *window) byteAt(v int) byte {
	if v >= 0 {
		return w.src[v]
	}
	return w.dict[len(w.dict)+v]
}

// u32At returns the little-endian uint32 starting at position v, which
// may straddle the dict/src boundary.
func (w *window) u32At(v int) uint32 {
	if v >= 0 {
		return load32(w.src, v)
	}
	di := len(w.dict) + v
	if di+4 <= len(w.dict) {
		return load32(w.dict, di)
	}
	var b [4]byte
	for i := 0; i < 4; i++ {
		b[i] = w.byteAt(v + i)
	}
	return binary.LittleEndian.Uint32(b[:])
}

func (w *window) equal4(a, b int) bool {
	return w.u32At(a) == w.u32At(b)
}

// matchLen returns how many bytes starting at positions a and b agree,
// scanning no further than limit bytes and never past the end of src
// (b+n must stay inside src once it crosses 0; callers pass limit
// accordingly).
func (w *window) matchLen(a, b, limit int) int {
	n := 0
	for n < limit && w.byteAt(a+n) == w.byteAt(b+n) {
		n++
	}
	return n
}

// inWindow reports whether position v (relative to the current si) is
// reachable at all: not before the start of the dictionary, and within
// the 64 KiB offset limit of si.
func (w *window) inWindow(v, si int) bool {
	if v < -len(w.dict) {
		return false
	}
	if si-v > MaxOffset {
		return false
	}
	return true
}
