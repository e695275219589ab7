// Package lz4block implements the LZ4 block format: the token/varint
// layer (spec §4.1), the fast hash-table compressor (§4.2), the
// hash-chain high-compression compressor (§4.3), and the safe and fast
// decoders (§4.4).
package lz4block

import "encoding/binary"

const (
	// MinMatch is the shortest match length the block format can express.
	MinMatch = 4
	// MaxOffset is the largest backward distance a 2-byte offset field
	// can encode.
	MaxOffset = 65535
	// MFLimit is the minimum distance from the end of the input at which
	// the encoder stops searching for matches (spec glossary: MFLIMIT).
	MFLimit = 12
	// lastLiterals is the number of trailing bytes that must always be
	// literals, never covered by a match.
	lastLiterals = 5

	// DefaultHashLog sizes the fast encoder's hash table to 2^14 entries
	// per spec §4.2 ("default H=14").
	DefaultHashLog = 14
	// MaxHashLog is the largest table log CompressBlockBound-style callers
	// may request; above this the table no longer improves ratio enough
	// to pay for the memory.
	MaxHashLog = 18

	hashMultiplier uint32 = 2654435761
)

// CompressBlockBound returns the worst-case size of a compressed block
// produced from n bytes of input, matching spec §6's compressBound.
func CompressBlockBound(n int) int {
	return n + n/255 + 16
}

// hash hashes the 4 bytes of x (already loaded little-endian) down to
// hashLog bits, per spec §4.2's Knuth multiplicative hash.
func hash(x uint32, hashLog uint) uint32 {
	return (x * hashMultiplier) >> (32 - hashLog)
}

func load32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i:])
}

func load64(b []byte, i int) uint64 {
	return binary.LittleEndian.Uint64(b[i:])
}

// Dict describes the window of history a block encoder or decoder may
// reference in addition to the current src/dst buffer (spec §4.5): an
// external dictionary living at an unrelated address. A prefix dictionary
// (contiguous with the current buffer) is expressed simply by a negative
// start position into the same slice and needs no separate type.
type Dict struct {
	// Data is the dictionary content; only the last 64 KiB is relevant.
	Data []byte
}

// window returns the up-to-64 KiB tail of d actually usable as history.
func (d *Dict) window() []byte {
	if d == nil || len(d.Data) == 0 {
		return nil
	}
	if len(d.Data) > MaxOffset {
		return d.Data[len(d.Data)-MaxOffset:]
	}
	return d.Data
}

// HashTable is a fast-encoder hash table: hashLog bits of a 4-byte
// fingerprint map to a position in the logical stream (src position, or,
// for positions that fall in the dictionary window, a position biased
// into negative space so the two can be told apart cheaply). A zero value
// is not ready for use; call Reset.
type HashTable struct {
	log   uint
	slots []int32
}

// NewHashTable allocates a fast-encoder hash table with 2^log slots.
func NewHashTable(log uint) *HashTable {
	if log == 0 {
		log = DefaultHashLog
	}
	h := &HashTable{}
	h.Reset(log)
	return h
}

// Reset clears the table, resizing it if log changed, and marks every
// slot invalid.
func (h *HashTable) Reset(log uint) {
	if log == 0 {
		log = DefaultHashLog
	}
	n := 1 << log
	if cap(h.slots) < n {
		h.slots = make([]int32, n)
	} else {
		h.slots = h.slots[:n]
	}
	for i := range h.slots {
		h.slots[i] = invalidPos
	}
	h.log = log
}

// invalidPos marks a hash-table slot that has never been written, or
// whose referent fell out of the window after a rebase (spec §4.5
// "rebasing ... clamping negative results to a sentinel unknown value").
// It must lie further back than any legal dictionary position (the
// dictionary window is at most MaxOffset bytes), or a never-written slot
// could be mistaken for a real reference into a loaded dictionary.
const invalidPos int32 = -(1 << 30)

func (h *HashTable) index(x uint32) uint32 {
	return hash(x, h.log)
}

func (h *HashTable) get(idx uint32) int32 {
	return h.slots[idx]
}

func (h *HashTable) set(idx uint32, pos int32) {
	h.slots[idx] = pos
}

// Rebase subtracts bias from every valid slot, discarding (setting to
// invalidPos) any entry that falls more than MaxOffset behind zero once
// shifted, since such an entry could never again produce a legal 16-bit
// offset. This implements spec §4.5's rebasing discipline: position
// values here are relative to the current block's first byte, so moving
// to a new block of length `bias` shifts every old entry `bias` further
// into negative (dictionary) territory.
func (h *HashTable) Rebase(bias int32) {
	for i, v := range h.slots {
		if v == invalidPos {
			continue
		}
		nv := v - bias
		if int(nv) < -MaxOffset {
			h.slots[i] = invalidPos
		} else {
			h.slots[i] = nv
		}
	}
}
