package lz4block

import "github.com/lz4go/lz4/internal/lz4errors"

// UncompressBlock decodes src (one LZ4 block) into dst and returns the
// number of bytes produced. It never reads past src or writes past dst
// (spec §8 property 3), returning an error instead. dict, if non-nil,
// supplies up to 64 KiB of external-dictionary history a match may
// reference (spec §4.4 step 6).
func UncompressBlock(src, dst []byte, dict *Dict) (int, error) {
	return decodeBlock(dst, src, dictWindow(dict), true)
}

// UncompressBlockFast decodes src into dst exactly like UncompressBlock,
// but skips the input-side bounds bookkeeping the safe decoder performs
// on every field, trusting the caller to have supplied a trusted,
// well-formed block (spec §4.4 "Fast" variant). Output writes remain
// bounds-checked by the Go runtime regardless.
func UncompressBlockFast(src, dst []byte, dict *Dict) (int, error) {
	return decodeBlock(dst, src, dictWindow(dict), false)
}

func dictWindow(dict *Dict) []byte {
	if dict == nil {
		return nil
	}
	return dict.window()
}

// decodeBlock is the control flow shared by the safe and fast decoders
// (spec §4.4): they differ only in how defensively they re-validate each
// field before trusting it.
func decodeBlock(dst, src []byte, dictData []byte, safe bool) (ret int, err error) {
	defer func() {
		// A Go slice-bounds panic proves some field lied about its
		// length; the runtime has already refused to write or read out
		// of range, so converting it to a plain error is just surfacing
		// that as the documented decode failure instead of propagating
		// the panic (spec §8 property 3: safe decoding never corrupts
		// memory, for any input, by construction).
		if r := recover(); r != nil {
			ret, err = -1, lz4errors.New(lz4errors.DecompressionFailed)
		}
	}()

	if len(src) == 0 {
		return 0, nil
	}

	sn, dn := len(src), len(dst)
	var si, di int

	for {
		if safe && si >= sn {
			return -1, lz4errors.Wrap(lz4errors.DecompressionFailed, "truncated token")
		}
		token := src[si]
		si++

		litLen := int(token >> 4)
		if litLen == 0xF {
			var ext int
			var err error
			ext, si, err = readVarLen(src, si)
			if err != nil {
				return -1, err
			}
			litLen += ext
		}

		if safe {
			if si+litLen > sn {
				return -1, lz4errors.New(lz4errors.DecompressionFailed)
			}
			if di+litLen > dn {
				return -1, lz4errors.New(lz4errors.DstMaxSizeTooSmall)
			}
		}
		di += copy(dst[di:di+litLen], src[si:si+litLen])
		si += litLen

		if si == sn {
			// Terminal literals-only sequence; block complete.
			return di, nil
		}

		if safe && si+2 > sn {
			return -1, lz4errors.New(lz4errors.DecompressionFailed)
		}
		offset := int(src[si]) | int(src[si+1])<<8
		si += 2
		if offset == 0 {
			return -1, lz4errors.Wrap(lz4errors.DecompressionFailed, "zero offset")
		}

		matLen := int(token & 0xF)
		if matLen == 0xF {
			var ext int
			var err error
			ext, si, err = readVarLen(src, si)
			if err != nil {
				return -1, err
			}
			matLen += ext
		}
		matLen += MinMatch

		if si == sn {
			// A match cannot be the block's final sequence: the last
			// bytes of a block are always literals (spec §3, §4.4).
			return -1, lz4errors.Wrap(lz4errors.DecompressionFailed, "match in final sequence")
		}

		match := di - offset
		if match < -len(dictData) {
			return -1, lz4errors.Wrap(lz4errors.DecompressionFailed, "offset before start of history")
		}
		if safe && di+matLen > dn {
			return -1, lz4errors.New(lz4errors.DstMaxSizeTooSmall)
		}

		copyMatch(dst, di, match, matLen, dictData)
		di += matLen
	}
}

// copyMatch writes n bytes starting at output position di, copying from
// logical position match (negative values read from dictData, the tail
// of the external dictionary; spec §4.4 step 6).
func copyMatch(dst []byte, di, match, n int, dictData []byte) {
	if match < 0 {
		dictStart := len(dictData) + match
		avail := -match
		if avail > n {
			avail = n
		}
		copy(dst[di:di+avail], dictData[dictStart:dictStart+avail])
		di += avail
		match += avail
		n -= avail
		if n == 0 {
			return
		}
		// match has now crossed into the current output (match == 0).
	}
	copyOverlap(dst, di, match, n)
}

// copyOverlap copies n bytes from dst[match:] to dst[di:], where the two
// regions may overlap (offset = di-match < n): a self-referential,
// RLE-like copy whose output must reflect bytes written earlier in this
// same call (spec §4.4 step 5, design notes §9).
//
// When offset >= 8 the copy is done 8 bytes at a time: each chunk's
// source and destination ranges are disjoint (since the chunk width
// never exceeds offset), so a plain slice copy per chunk is correct and
// automatically picks up bytes written by the previous chunk through the
// shared backing array. When offset < 8, chunks of that width would
// overlap with themselves, so the copy falls back to byte-at-a-time,
// which is always correct at the cost of throughput — the simpler of
// the two choices design notes §9 sanctions explicitly.
func copyOverlap(dst []byte, di, match, n int) {
	offset := di - match
	if offset >= 8 {
		end := di + n
		for di < end {
			chunk := 8
			if di+chunk > end {
				chunk = end - di
			}
			copy(dst[di:di+chunk], dst[match:match+chunk])
			di += chunk
			match += chunk
		}
		return
	}
	for i := 0; i < n; i++ {
		dst[di+i] = dst[match+i]
	}
}
