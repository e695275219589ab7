package lz4stream

import (
	"encoding/binary"

	"github.com/lz4go/lz4/internal/lz4block"
	"github.com/lz4go/lz4/internal/lz4errors"
	"github.com/lz4go/lz4/internal/xxh32"
)

type dstate int

const (
	stMagic dstate = iota
	stHeader
	stSkippableSize
	stSkippableData
	stLegacyBlockSize
	stLegacyBlockData
	stBlockHeader
	stBlockData
	stBlockChecksum
	stSuffix
)

// Decoder drives the frame decoder state machine (spec §4.7): it is fed
// arbitrarily-sized, possibly byte-at-a-time chunks of a frame and
// produces decoded bytes, making forward progress on every call that
// supplies at least one new input byte or has buffered output to flush.
// It has no I/O of its own; Reader in the root package drives it over an
// io.Reader.
type Decoder struct {
	state dstate

	acc     []byte // staging buffer for the structural element in progress
	accWant int     // bytes still needed to complete acc

	Info  FrameInfo
	magic uint32

	blockSize  int
	blockRaw   bool
	blockBuf   []byte // accumulated compressed/raw block payload bytes
	decoded    []byte // decoded-but-undelivered bytes (flushOut spool)
	decodedOff int

	dictWindow []byte // trailing <=64KiB of decoded history, linked mode

	contentHash   xxh32.Digest
	wantContentCk bool

	legacyRemaining int

	skipRemaining int

	// Done reports frame completion (end mark + optional checksum seen).
	Done bool
}

// NewDecoder returns a fresh Decoder ready to parse a new frame from the
// start.
func NewDecoder() *Decoder {
	return &Decoder{state: stMagic}
}

// Reset rearms the decoder to parse another frame, carrying dict forward
// as external-dictionary history for linked blocks (pass nil otherwise).
func (d *Decoder) Reset(dict []byte) {
	*d = Decoder{state: stMagic, dictWindow: dict}
}

// rearm marks the current frame complete and returns the decoder to
// stMagic so a concatenated frame immediately following in the same
// stream is parsed without any action from the caller (spec §4.7 "the
// context resets to getHeader, allowing concatenated frames"). The
// trailing dictWindow carries forward as linked-mode history for the
// next frame's blocks.
func (d *Decoder) rearm() {
	d.state = stMagic
	d.acc = d.acc[:0]
	d.accWant = 0
	d.Done = true
}

// Decode consumes bytes from src and writes decoded bytes to dst,
// returning how much of each it used/produced. hint is a best-effort
// estimate of how many more source bytes the decoder needs before it can
// make further progress (spec §4.7 "progress hint"); callers may ignore
// it and simply supply more bytes.
func (d *Decoder) Decode(dst, src []byte) (hint, nSrc, nDst int, err error) {
	for {
		if d.decodedOff < len(d.decoded) {
			n := copy(dst[nDst:], d.decoded[d.decodedOff:])
			nDst += n
			d.decodedOff += n
			if d.decodedOff == len(d.decoded) {
				d.decoded = d.decoded[:0]
				d.decodedOff = 0
			}
			if nDst == len(dst) {
				return 1, nSrc, nDst, nil
			}
			continue
		}

		progressed, consumed, herr := d.step(dst[nDst:], src[nSrc:])
		nSrc += consumed
		if herr != nil {
			return 0, nSrc, nDst, herr
		}
		if !progressed {
			return d.remaining(), nSrc, nDst, nil
		}
	}
}

// remaining reports how many more bytes the in-progress structural
// element needs, for use as the returned hint.
func (d *Decoder) remaining() int {
	if d.accWant > 0 {
		return d.accWant
	}
	return 1
}

// fill appends as much of src as needed to complete acc (to length
// accWant), returning how many bytes it consumed and whether acc is now
// complete.
func (d *Decoder) fill(src []byte) (consumed int, complete bool) {
	need := d.accWant - len(d.acc)
	if need <= 0 {
		return 0, true
	}
	n := len(src)
	if n > need {
		n = need
	}
	d.acc = append(d.acc, src[:n]...)
	return n, len(d.acc) == d.accWant
}

// step performs one unit of state-machine work. progressed is false when
// it could not advance without more input.
func (d *Decoder) step(dst, src []byte) (progressed bool, consumed int, err error) {
	switch d.state {
	case stMagic:
		d.accWant = 4
		n, ok := d.fill(src)
		if !ok {
			return n > 0, n, nil
		}
		d.magic = binary.LittleEndian.Uint32(d.acc)
		d.acc = d.acc[:0]
		d.accWant = 0
		switch {
		case IsLegacyMagic(d.magic):
			// Legacy frames have no header to decode, so Info must be
			// reset explicitly here: a stale Info left over from a
			// preceding concatenated modern frame would otherwise leak
			// its BlockIndependence/ContentChecksum into this frame's
			// block decoding.
			d.Info = FrameInfo{}
			d.legacyRemaining = 0
			d.state = stLegacyBlockSize
		case IsSkippableMagic(d.magic):
			d.state = stSkippableSize
		case d.magic == FrameMagic:
			d.state = stHeader
		default:
			return false, n, lz4errors.New(lz4errors.FrameTypeUnknown)
		}
		d.Done = false
		return true, n, nil

	case stHeader:
		// First accumulate FLG+BD (2 bytes) to learn the exact header
		// length, then the rest.
		if d.accWant == 0 {
			d.accWant = 2
		}
		n, ok := d.fill(src)
		if !ok {
			return n > 0, n, nil
		}
		if d.accWant == 2 {
			full, herr := HeaderLen(append(append([]byte{}, magicBytes(d.magic)...), d.acc...))
			if herr != nil {
				return true, n, herr
			}
			d.accWant = full - 4 // magic already consumed, not in acc
			return true, n, nil
		}
		hdr := append(magicBytes(d.magic), d.acc...)
		info, herr := DecodeHeader(hdr)
		if herr != nil {
			return false, n, herr
		}
		d.Info = info
		d.wantContentCk = info.ContentChecksum
		d.contentHash.Reset(0)
		d.acc = d.acc[:0]
		d.state = stBlockHeader
		return true, n, nil

	case stSkippableSize:
		d.accWant = 4
		n, ok := d.fill(src)
		if !ok {
			return n > 0, n, nil
		}
		d.skipRemaining = int(binary.LittleEndian.Uint32(d.acc))
		d.acc = d.acc[:0]
		d.state = stSkippableData
		return true, n, nil

	case stSkippableData:
		n := d.skipRemaining
		if n > len(src) {
			n = len(src)
		}
		d.skipRemaining -= n
		if d.skipRemaining == 0 {
			d.rearm()
		}
		return n > 0 || d.skipRemaining == 0, n, nil

	case stLegacyBlockSize:
		d.accWant = 4
		n, ok := d.fill(src)
		if !ok {
			return n > 0, n, nil
		}
		size := binary.LittleEndian.Uint32(d.acc)
		d.acc = d.acc[:0]
		if size == 0 {
			d.rearm()
			return true, n, nil
		}
		d.blockSize = int(size)
		d.blockRaw = false
		d.state = stLegacyBlockData
		return true, n, nil

	case stLegacyBlockData:
		return d.fillBlockPayload(dst, src)

	case stBlockHeader:
		d.accWant = 4
		n, ok := d.fill(src)
		if !ok {
			return n > 0, n, nil
		}
		if IsEndMark(d.acc) {
			d.acc = d.acc[:0]
			d.state = stSuffix
			return true, n, nil
		}
		size, raw := DecodeBlockHeader(d.acc)
		d.acc = d.acc[:0]
		d.blockSize = size
		d.blockRaw = raw
		d.state = stBlockData
		return true, n, nil

	case stBlockData:
		return d.fillBlockPayload(dst, src)

	case stBlockChecksum:
		d.accWant = 4
		n, ok := d.fill(src)
		if !ok {
			return n > 0, n, nil
		}
		want := binary.LittleEndian.Uint32(d.acc)
		d.acc = d.acc[:0]
		if xxh32.Checksum(0, d.blockBuf) != want {
			return false, n, lz4errors.New(lz4errors.BlockChecksumInvalid)
		}
		if ok, derr := d.decodeBufferedBlock(); !ok {
			return false, n, derr
		}
		d.state = stBlockHeader
		return true, n, nil

	case stSuffix:
		if !d.wantContentCk {
			d.rearm()
			return true, 0, nil
		}
		d.accWant = 4
		n, ok := d.fill(src)
		if !ok {
			return n > 0, n, nil
		}
		want := binary.LittleEndian.Uint32(d.acc)
		if d.contentHash.Sum32() != want {
			return false, n, lz4errors.New(lz4errors.ContentChecksumInvalid)
		}
		d.rearm()
		return true, n, nil
	}
	return false, 0, nil
}

func magicBytes(magic uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], magic)
	return b[:]
}

// fillBlockPayload accumulates blockSize bytes into blockBuf, then either
// decodes immediately (legacy/unchecksummed) or moves to the checksum
// state.
func (d *Decoder) fillBlockPayload(dst, src []byte) (progressed bool, consumed int, err error) {
	need := d.blockSize - len(d.blockBuf)
	n := len(src)
	if n > need {
		n = need
	}
	d.blockBuf = append(d.blockBuf, src[:n]...)
	if len(d.blockBuf) < d.blockSize {
		return n > 0, n, nil
	}

	if d.state == stLegacyBlockData || !d.Info.BlockChecksum {
		if ok, derr := d.decodeBufferedBlock(); !ok {
			return false, n, derr
		}
		if d.state == stLegacyBlockData {
			d.state = stLegacyBlockSize
		} else {
			d.state = stBlockHeader
		}
		return true, n, nil
	}
	d.state = stBlockChecksum
	return true, n, nil
}

// decodeBufferedBlock decompresses the accumulated blockBuf (or copies it
// raw) into the decoded spool, updates the dictionary window and running
// content hash, and resets blockBuf for the next block.
func (d *Decoder) decodeBufferedBlock() (ok bool, err error) {
	defer func() { d.blockBuf = d.blockBuf[:0] }()

	var out []byte
	if d.blockRaw {
		out = append([]byte(nil), d.blockBuf...)
	} else {
		bufSize := legacyBlockSize
		if d.state != stLegacyBlockData {
			bufSize = maxUncompressedGuess(d.Info.BlockSizeIndex)
		}
		buf := make([]byte, bufSize)
		var dict *lz4block.Dict
		if len(d.dictWindow) > 0 {
			dict = &lz4block.Dict{Data: d.dictWindow}
		}
		n, derr := lz4block.UncompressBlock(d.blockBuf, buf, dict)
		if derr != nil {
			return false, derr
		}
		out = buf[:n]
	}

	if d.Info.ContentChecksum {
		d.contentHash.Write(out)
	}
	d.decoded = append(d.decoded[:0], out...)
	d.decodedOff = 0

	if !d.Info.BlockIndependence {
		d.dictWindow = appendWindow(d.dictWindow, out)
	}
	return true, nil
}

// maxUncompressedGuess returns the decode buffer size to allocate for a
// block of the frame's declared size class: a block never expands its
// own class's bound when compressed, so the class capacity itself is a
// safe upper bound for the decompressed size.
func maxUncompressedGuess(blockSizeIndex int) int {
	return BlockCapacity(blockSizeIndex)
}

// SaveDict copies up to capacity bytes of the decoder's current trailing
// window to dst and rebinds the decoder to that private copy (spec §4.5
// "saveDict", decode side).
func (d *Decoder) SaveDict(dst []byte, capacity int) []byte {
	w := d.dictWindow
	if len(w) > capacity {
		w = w[len(w)-capacity:]
	}
	saved := append(dst[:0], w...)
	d.dictWindow = append([]byte(nil), saved...)
	return saved
}

// appendWindow maintains a rolling <=64KiB trailing window of decoded
// history for linked-mode blocks (spec §4.5 "ring" state simplified to an
// always-contiguous buffer, acceptable since streaming call sites don't
// need the zero-copy ring's memory bound).
func appendWindow(win, out []byte) []byte {
	const maxWindow = lz4block.MaxOffset
	win = append(win, out...)
	if len(win) > maxWindow {
		win = append([]byte(nil), win[len(win)-maxWindow:]...)
	}
	return win
}
