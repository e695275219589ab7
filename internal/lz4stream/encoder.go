package lz4stream

import (
	"encoding/binary"

	"github.com/lz4go/lz4/internal/xxh32"
)

// AppendBlock appends one framed block (4-byte header, payload, optional
// block checksum) to dst (spec §4.6 "emit block"). raw marks the payload
// as stored uncompressed.
func AppendBlock(dst, payload []byte, raw bool, withChecksum bool) []byte {
	hdr := EncodeBlockHeader(len(payload), raw)
	dst = append(dst, hdr[:]...)
	dst = append(dst, payload...)
	if withChecksum {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], xxh32.Checksum(0, payload))
		dst = append(dst, b[:]...)
	}
	return dst
}

// AppendEndMark appends the 4-byte zero end-of-blocks mark.
func AppendEndMark(dst []byte) []byte {
	var b [4]byte
	return append(dst, b[:]...)
}

// AppendContentChecksum appends the frame's trailing content checksum.
func AppendContentChecksum(dst []byte, h *xxh32.Digest) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], h.Sum32())
	return append(dst, b[:]...)
}
