package lz4block

import (
	"math/bits"
	"runtime"

	"github.com/lz4go/lz4/internal/lz4errors"
)

// skipTrigger matches the reference encoder's search-acceleration shift:
// the number of consecutive misses (right-shifted) before the scan step
// grows, per spec §4.2 ("initial step 1, growing geometrically the longer
// we fail").
const skipTrigger = 6

// recoverBlock converts the out-of-range slice panic raised when dst is
// too small for the sequence being written into the "does not fit" error
// result, so the hot encoding loop never pays for a capacity check on
// every single byte written.
func recoverBlock(err *error) {
	if r := recover(); r != nil {
		if _, ok := r.(runtime.Error); ok {
			*err = lz4errors.New(lz4errors.DstMaxSizeTooSmall)
			return
		}
		panic(r)
	}
}

// CompressBlock compresses src into dst using the fast hash-table
// matcher (spec §4.2). ht is the caller-owned hash table (its positions
// are relative to src[0]; dict, if non-nil, occupies the negative address
// range immediately before src). acceleration must be >= 1; larger values
// trade ratio for speed.
//
// It returns the number of bytes written, 0 if the data did not compress
// (the caller should then store it uncompressed), or a non-nil error if
// dst was too small to hold even the fallback worst case.
func CompressBlock(src, dst []byte, ht *HashTable, dict *Dict, acceleration int) (di int, err error) {
	defer recoverBlock(&err)

	if acceleration < 1 {
		acceleration = 1
	}

	sn := len(src) - MFLimit
	if sn <= 0 || len(dst) == 0 {
		return 0, nil
	}

	w := &window{src: src}
	if dict != nil {
		w.dict = dict.window()
	}

	var si int
	anchor := si
	searchMatchNb := acceleration << skipTrigger

	for si < sn {
		match := w.u32At(si)
		h := ht.index(match)

		ref := int(ht.get(h))
		ht.set(h, int32(si))

		if !w.inWindow(ref, si) || !w.equal4(ref, si) {
			step := searchMatchNb >> skipTrigger
			if step < 1 {
				step = 1
			}
			si += step
			searchMatchNb++
			continue
		}
		searchMatchNb = acceleration << skipTrigger

		// Backward extension: pull the match boundary left over bytes
		// that would otherwise be emitted as literals (spec §4.2 step 4).
		for si > anchor && ref > -len(w.dict) && w.byteAt(ref-1) == w.byteAt(si-1) {
			si--
			ref--
		}

		lLen := si - anchor
		offset := si - ref

		// Forward extension, past the mandatory MinMatch bytes.
		mStart := si
		si += MinMatch
		ref += MinMatch
		if ref >= 0 {
			// Both sides live in src: compare 8 bytes at a time.
			for si < sn {
				x := load64(src, si) ^ load64(src, si-offset)
				if x == 0 {
					si += 8
				} else {
					si += bits.TrailingZeros64(x) >> 3
					break
				}
			}
		} else {
			// The match straddles the dictionary boundary: fall back to
			// byte-wise extension via the window abstraction.
			si += w.matchLen(ref, si, sn-si)
		}
		mLen := si - mStart

		di = emitSequence(dst, di, src, anchor, lLen, offset, mLen)
		anchor = si

		// Insert an entry for the byte pair straddling the match end so
		// overlapping matches starting just past this one are still
		// found without rescanning.
		if si-2 >= 0 && si+2 <= len(src) {
			ht.set(ht.index(w.u32At(si-2)), int32(si-2))
		}
	}

	if anchor == 0 {
		return 0, nil
	}

	di = emitLastLiterals(dst, di, src, anchor)
	if di >= len(src) {
		return 0, nil
	}
	return di, nil
}

// emitSequence writes one full sequence (token, extensions, literals,
// offset) per spec §4.1 and returns the new dst index.
func emitSequence(dst []byte, di int, src []byte, anchor, lLen int, offset, mLen int) int {
	mlCode := mLen - MinMatch
	llCode := lLen
	var tok byte
	if mlCode < 0xF {
		tok = byte(mlCode)
	} else {
		tok = 0xF
	}
	if llCode < 0xF {
		tok |= byte(llCode << 4)
	} else {
		tok |= 0xF0
	}
	dst[di] = tok
	di++

	if llCode >= 0xF {
		di = writeVarLen(dst, di, llCode-0xF)
	}

	di += copy(dst[di:di+lLen], src[anchor:anchor+lLen])

	dst[di] = byte(offset)
	dst[di+1] = byte(offset >> 8)
	di += 2

	if mlCode >= 0xF {
		di = writeVarLen(dst, di, mlCode-0xF)
	}
	return di
}

// emitLastLiterals writes the terminating literals-only sequence that
// closes every block (spec §4.2 step 6).
func emitLastLiterals(dst []byte, di int, src []byte, anchor int) int {
	lLen := len(src) - anchor
	if lLen < 0xF {
		dst[di] = byte(lLen << 4)
		di++
	} else {
		dst[di] = 0xF0
		di++
		di = writeVarLen(dst, di, lLen-0xF)
	}
	di += copy(dst[di:di+len(src)-anchor], src[anchor:])
	return di
}
