package lz4

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/lz4go/lz4/internal/lz4stream"
)

// CompressFrameBound returns an upper bound, in bytes, on the size of the
// frame CompressFrameParallel (or a Writer configured with pref) would
// produce for n bytes of input: the header, every block's
// CompressBlockBound plus its 4-byte size field and optional block
// checksum, the 4-byte end mark, and the optional content checksum
// (SPEC_FULL §D.5, "compressFrameBound accounts for multiple blocks and
// header/footer fields, not just one block's bound").
func CompressFrameBound(n int, pref Preferences) int {
	capacity := lz4stream.BlockCapacity(pref.blockSizeIndex())
	if capacity <= 0 {
		capacity = 1
	}
	blocks := (n + capacity - 1) / capacity
	if blocks == 0 {
		blocks = 1
	}
	perBlockOverhead := 4 // block size header
	if pref.BlockChecksum {
		perBlockOverhead += 4
	}
	bound := lz4stream.MaxHeaderSize
	bound += blocks * (perBlockOverhead + CompressBlockBound(capacity))
	bound += 4 // end mark
	if pref.ContentChecksum {
		bound += 4
	}
	return bound
}

// SkipSkippableFrames discards zero or more skippable frames (spec §3's
// `0x184D2A5x`-magic frames) from the front of r, leaving r positioned at
// the start of whatever follows — typically a real LZ4 frame, or EOF
// (SPEC_FULL §D.6: callers commonly need to skip any skippable frames a
// producer prepended before handing the reader to NewReader). r must be a
// *bufio.Reader so a non-skippable magic can be peeked without being
// irrecoverably consumed.
func SkipSkippableFrames(r *bufio.Reader) error {
	for {
		peek, err := r.Peek(4)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		magic := binary.LittleEndian.Uint32(peek)
		if !lz4stream.IsSkippableMagic(magic) {
			return nil
		}
		if _, err := r.Discard(4); err != nil {
			return err
		}
		var sizeBuf [4]byte
		if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
			return err
		}
		size := binary.LittleEndian.Uint32(sizeBuf[:])
		if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
			return err
		}
	}
}
