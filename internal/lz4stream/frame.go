// Package lz4stream implements the LZ4 frame container (spec §3 "Frame
// format", §4.6 encoder, §4.7 decoder state machine): the self-describing
// wrapper around one or more LZ4 blocks with magic, flags, optional
// content size / dictionary ID / checksums, and an end mark.
package lz4stream

import (
	"encoding/binary"

	"github.com/lz4go/lz4/internal/lz4errors"
	"github.com/lz4go/lz4/internal/xxh32"
)

const (
	FrameMagic = 0x184D2204
	// LegacyMagic identifies the pre-frame container spec §9 says new
	// implementations must still accept for reading.
	LegacyMagic = 0x184C2102
	// SkippableMagicHigh/SkippableMagicMask let callers recognize any of
	// the 16 skippable-frame magic values (low nibble arbitrary).
	SkippableMagicHigh = 0x184D2A50
	SkippableMagicMask = 0xFFFFFFF0

	legacyBlockSize = 8 << 20 // legacy frames always use 8 MiB blocks

	endMark = 0

	// Block size classes (spec §3 "blockSizeID ∈ {4,5,6,7}").
	BlockSize64K  = 64 << 10
	BlockSize256K = 256 << 10
	BlockSize1M   = 1 << 20
	BlockSize4M   = 4 << 20

	minBlockSizeID = 4
	maxBlockSizeID = 7

	uncompressedBlockFlag uint32 = 1 << 31
	blockSizeMask         uint32 = ^uncompressedBlockFlag

	// maxHeaderSize is magic(4) + FLG(1) + BD(1) + contentSize(8) +
	// dictID(4) + HC(1).
	maxHeaderSize = 19
	minHeaderSize = 4 + 1 + 1 + 1 // magic + FLG + BD + HC, no optional fields

	// MaxHeaderSize is maxHeaderSize exported for callers computing a
	// worst-case frame size bound (e.g. CompressFrameBound).
	MaxHeaderSize = maxHeaderSize
)

// FrameInfo describes a frame's header fields (spec §6 "Preferences
// enumerate block size class, block mode ..."). It is also what
// getFrameInfo surfaces to callers of the decoder.
type FrameInfo struct {
	BlockChecksum     bool
	BlockIndependence bool
	ContentChecksum   bool
	ContentSize       uint64 // valid iff ContentSizeSet
	ContentSizeSet    bool
	DictID            uint32 // valid iff DictIDSet
	DictIDSet         bool
	BlockSizeIndex    int // minBlockSizeID..maxBlockSizeID
}

// BlockSizeIndexFor returns the smallest block-size class id whose
// capacity is >= n, clamped to maxBlockSizeID.
func BlockSizeIndexFor(n int) int {
	switch {
	case n <= BlockSize64K:
		return 4
	case n <= BlockSize256K:
		return 5
	case n <= BlockSize1M:
		return 6
	default:
		return 7
	}
}

// BlockCapacity returns the maximum payload size for block-size class id.
func BlockCapacity(id int) int {
	switch id {
	case 4:
		return BlockSize64K
	case 5:
		return BlockSize256K
	case 6:
		return BlockSize1M
	case 7:
		return BlockSize4M
	default:
		return BlockSize4M
	}
}

// EncodeHeader appends the frame header for info to dst and returns the
// extended slice (spec §4.6 "begin").
func EncodeHeader(dst []byte, info FrameInfo) []byte {
	start := len(dst)
	var magicBuf [4]byte
	binary.LittleEndian.PutUint32(magicBuf[:], FrameMagic)
	dst = append(dst, magicBuf[:]...)

	var flg byte = 1 << 6 // version = 01
	if info.BlockIndependence {
		flg |= 1 << 5
	}
	if info.BlockChecksum {
		flg |= 1 << 4
	}
	if info.ContentSizeSet {
		flg |= 1 << 3
	}
	if info.ContentChecksum {
		flg |= 1 << 2
	}
	if info.DictIDSet {
		flg |= 1 << 0
	}
	dst = append(dst, flg)

	id := info.BlockSizeIndex
	if id < minBlockSizeID || id > maxBlockSizeID {
		id = maxBlockSizeID
	}
	bd := byte(id) << 4
	dst = append(dst, bd)

	if info.ContentSizeSet {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], info.ContentSize)
		dst = append(dst, b[:]...)
	}
	if info.DictIDSet {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], info.DictID)
		dst = append(dst, b[:]...)
	}

	hc := byte(xxh32.Checksum(0, dst[start+4:]) >> 8)
	dst = append(dst, hc)
	return dst
}

// DecodeHeader parses a complete frame header (the caller has already
// recognized the magic and knows the header's exact length — see
// HeaderLen) and returns the frame info.
func DecodeHeader(buf []byte) (FrameInfo, error) {
	if len(buf) < minHeaderSize {
		return FrameInfo{}, lz4errors.New(lz4errors.FrameHeaderIncomplete)
	}
	magic := binary.LittleEndian.Uint32(buf)
	if magic != FrameMagic {
		return FrameInfo{}, lz4errors.New(lz4errors.FrameTypeUnknown)
	}
	flg := buf[4]
	bd := buf[5]

	if flg>>6 != 1 {
		return FrameInfo{}, lz4errors.New(lz4errors.HeaderVersionWrong)
	}
	if bd&0x8F != 0 || flg&0x02 != 0 {
		return FrameInfo{}, lz4errors.New(lz4errors.ReservedFlagSet)
	}

	info := FrameInfo{
		BlockIndependence: flg&(1<<5) != 0,
		BlockChecksum:     flg&(1<<4) != 0,
		ContentSizeSet:    flg&(1<<3) != 0,
		ContentChecksum:   flg&(1<<2) != 0,
		DictIDSet:         flg&(1<<0) != 0,
		BlockSizeIndex:    int(bd>>4) & 0x7,
	}
	if info.BlockSizeIndex < minBlockSizeID || info.BlockSizeIndex > maxBlockSizeID {
		return FrameInfo{}, lz4errors.New(lz4errors.MaxBlockSizeInvalid)
	}

	i := 6
	if info.ContentSizeSet {
		if len(buf) < i+8 {
			return FrameInfo{}, lz4errors.New(lz4errors.FrameHeaderIncomplete)
		}
		info.ContentSize = binary.LittleEndian.Uint64(buf[i:])
		i += 8
	}
	if info.DictIDSet {
		if len(buf) < i+4 {
			return FrameInfo{}, lz4errors.New(lz4errors.FrameHeaderIncomplete)
		}
		info.DictID = binary.LittleEndian.Uint32(buf[i:])
		i += 4
	}
	if len(buf) < i+1 {
		return FrameInfo{}, lz4errors.New(lz4errors.FrameHeaderIncomplete)
	}
	wantHC := byte(xxh32.Checksum(0, buf[4:i]) >> 8)
	if buf[i] != wantHC {
		return FrameInfo{}, lz4errors.New(lz4errors.HeaderChecksumInvalid)
	}
	return info, nil
}

// HeaderLen returns the exact byte length of the header described by the
// already-read FLG byte (buf must hold at least 6 bytes: magic+FLG+BD).
func HeaderLen(buf []byte) (int, error) {
	if len(buf) < 6 {
		return 0, lz4errors.New(lz4errors.FrameHeaderIncomplete)
	}
	flg := buf[4]
	n := minHeaderSize
	if flg&(1<<3) != 0 {
		n += 8
	}
	if flg&(1<<0) != 0 {
		n += 4
	}
	return n, nil
}

// EncodeBlockHeader returns the 4-byte LE block header for a payload of
// size bytes, with the high bit set when the block is stored raw.
func EncodeBlockHeader(size int, uncompressed bool) [4]byte {
	v := uint32(size)
	if uncompressed {
		v |= uncompressedBlockFlag
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b
}

// DecodeBlockHeader parses a 4-byte LE block header.
func DecodeBlockHeader(b []byte) (size int, uncompressed bool) {
	v := binary.LittleEndian.Uint32(b)
	return int(v & blockSizeMask), v&uncompressedBlockFlag != 0
}

// IsEndMark reports whether the 4-byte block header just read is the
// frame's end mark.
func IsEndMark(b []byte) bool {
	return binary.LittleEndian.Uint32(b) == endMark
}

// IsSkippableMagic reports whether magic is one of the 16 skippable
// frame magic numbers (spec §3).
func IsSkippableMagic(magic uint32) bool {
	return magic&SkippableMagicMask == SkippableMagicHigh
}

// IsLegacyMagic reports whether magic is the legacy pre-frame magic.
func IsLegacyMagic(magic uint32) bool {
	return magic == LegacyMagic
}
