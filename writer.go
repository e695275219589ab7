package lz4

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/lz4go/lz4/internal/lz4block"
	"github.com/lz4go/lz4/internal/lz4errors"
	"github.com/lz4go/lz4/internal/lz4stream"
	"github.com/lz4go/lz4/internal/xxh32"
)

// Writer compresses bytes into the LZ4 frame format as they are written
// (spec §4.6 "Frame encoder"). The zero value is not usable; create one
// with NewWriter.
type Writer struct {
	w    io.Writer
	pref Preferences
	log  *logrus.Logger

	started bool
	buf     []byte // accumulated, not-yet-compressed input (spec "tmp buffer")
	dict    dictContext

	fast *lz4block.HashTable
	hc   *lz4block.HCState

	contentHash   xxh32.Digest
	contentLen    uint64
	frame         []byte // scratch for one compressed block's payload
	headerWritten bool
}

// NewWriter returns a Writer wrapping w. By default it uses independent,
// unchecksummed 4 MiB blocks with fast-path compression; pass Options to
// change that.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	wr := &Writer{w: w, log: disabledLogger()}
	for _, o := range opts {
		o(&wr.pref)
	}
	return wr
}

// SetLogger installs a logrus.Logger for debug-level tracing of frame
// start and block emission; nil restores the disabled logger.
func (z *Writer) SetLogger(l *logrus.Logger) {
	if l == nil {
		l = disabledLogger()
	}
	z.log = l
}

// AttachDict shares cd by reference for this frame (spec SPEC_FULL §D.1
// attachDict), without copying it. Must be called before the first
// Write.
func (z *Writer) AttachDict(cd *CDict) {
	z.dict.attach(cd)
}

// LoadDict copies data as this frame's starting dictionary (spec's
// loadDict, distinct from the zero-copy attachDict).
func (z *Writer) LoadDict(data []byte) {
	z.dict.load(data)
}

// SaveDict copies up to capacity bytes of the writer's current trailing
// window to dst and rebinds the writer to that private copy, so a caller
// can reuse its own buffer without corrupting the writer's dictionary
// state (spec §4.5 "saveDict").
func (z *Writer) SaveDict(dst []byte, capacity int) []byte {
	return z.dict.saveDict(dst, capacity)
}

func (z *Writer) blockCapacity() int {
	return lz4stream.BlockCapacity(z.pref.blockSizeIndex())
}

func (z *Writer) begin() error {
	if z.started {
		return nil
	}
	hdr := lz4stream.EncodeHeader(nil, z.pref.frameInfo())
	if _, err := z.w.Write(hdr); err != nil {
		return err
	}
	z.started = true
	z.headerWritten = true
	z.contentHash.Reset(0)
	z.contentLen = 0
	z.buf = z.buf[:0]
	if z.pref.CompressionLevel > 0 {
		if z.hc == nil {
			z.hc = lz4block.NewHCState()
		} else {
			z.hc.Reset()
		}
	} else if z.fast == nil {
		z.fast = lz4block.NewHashTable(lz4block.DefaultHashLog)
	}
	z.log.WithFields(logrus.Fields{
		"blockLinked":     z.pref.BlockLinked,
		"blockChecksum":   z.pref.BlockChecksum,
		"contentChecksum": z.pref.ContentChecksum,
	}).Debug("lz4: frame started")
	return nil
}

// Write implements io.Writer, buffering p and emitting whole blocks as
// they fill (spec "update": autoFlush=0 lets input be re-ordered across
// calls for denser packing; autoFlush=1 flushes every call).
//
// When StableSrc is set (spec §6 "stableSrc"), the caller promises p's
// backing array won't be reused or mutated behind the Writer's back, so
// whole blocks that already sit at a block-size boundary are compressed
// straight out of p instead of first being copied into the internal
// buf — the same bytes end up on the wire either way, just with one
// fewer copy for the common large-Write case.
func (z *Writer) Write(p []byte) (int, error) {
	if err := z.begin(); err != nil {
		return 0, err
	}
	n := len(p)
	blockCap := z.blockCapacity()

	if z.pref.StableSrc {
		for len(z.buf) == 0 && len(p) >= blockCap {
			if err := z.compressAndWriteBlock(p[:blockCap]); err != nil {
				return n - len(p), err
			}
			p = p[blockCap:]
		}
	}

	for len(p) > 0 {
		room := blockCap - len(z.buf)
		if room > len(p) {
			room = len(p)
		}
		z.buf = append(z.buf, p[:room]...)
		p = p[room:]
		if len(z.buf) == blockCap {
			if err := z.emitBlock(); err != nil {
				return n - len(p), err
			}
		}
	}
	if z.pref.AutoFlush {
		if err := z.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Flush forces compression of whatever is currently buffered (spec
// "flush"). A no-op when nothing is buffered.
func (z *Writer) Flush() error {
	if len(z.buf) == 0 {
		return nil
	}
	return z.emitBlock()
}

// emitBlock compresses z.buf and resets it for the next block.
func (z *Writer) emitBlock() error {
	err := z.compressAndWriteBlock(z.buf)
	z.buf = z.buf[:0]
	return err
}

// compressAndWriteBlock compresses src as one block and writes it to the
// underlying writer, independent of whether src is z.buf (the common
// path) or a slice straight out of the caller's Write argument (the
// StableSrc fast path).
func (z *Writer) compressAndWriteBlock(src []byte) error {
	z.contentHash.Write(src)
	z.contentLen += uint64(len(src))

	bound := lz4block.CompressBlockBound(len(src))
	if cap(z.frame) < bound {
		z.frame = make([]byte, bound)
	}
	dict := z.dict.blockDict()

	var n int
	var err error
	if z.pref.CompressionLevel > 0 {
		n, err = z.hc.Compress(src, z.frame, z.pref.CompressionLevel, dict, z.pref.FavorDecSpeed)
	} else {
		acc := 1
		if z.pref.CompressionLevel < 0 {
			acc = -z.pref.CompressionLevel
		}
		n, err = lz4block.CompressBlock(src, z.frame, z.fast, dict, acc)
	}
	if err != nil {
		return err
	}

	// Table positions are relative to src[0]: shift them into the
	// history range for a linked next block, otherwise start clean.
	if z.pref.CompressionLevel > 0 {
		z.hc.Reset()
	} else if z.pref.BlockLinked {
		z.fast.Rebase(int32(len(src)))
	} else {
		z.fast.Reset(lz4block.DefaultHashLog)
	}

	var out []byte
	raw := false
	if n == 0 || n >= len(src) {
		out, raw = src, true
	} else {
		out = z.frame[:n]
	}

	var buf []byte
	buf = lz4stream.AppendBlock(buf, out, raw, z.pref.BlockChecksum)
	if _, err := z.w.Write(buf); err != nil {
		return err
	}
	z.log.WithFields(logrus.Fields{"rawBytes": len(src), "wireBytes": len(out), "stored": map[bool]string{true: "raw", false: "compressed"}[raw]}).Debug("lz4: block emitted")

	if z.pref.BlockLinked {
		z.dict.extend(src)
	}
	return nil
}

// Close flushes any buffered input, writes the end mark and optional
// content checksum, validates any declared content size, and rearms the
// Writer so it can start a new frame on the next Write (spec "end").
func (z *Writer) Close() error {
	if !z.started {
		return nil
	}
	if err := z.Flush(); err != nil {
		return err
	}
	var suffix []byte
	suffix = lz4stream.AppendEndMark(suffix)
	if z.pref.ContentChecksum {
		suffix = lz4stream.AppendContentChecksum(suffix, &z.contentHash)
	}
	if _, err := z.w.Write(suffix); err != nil {
		return err
	}
	if z.pref.ContentSizeSet && z.pref.ContentSize != z.contentLen {
		return lz4errors.New(lz4errors.ContentSizeMismatch)
	}
	z.started = false
	z.headerWritten = false
	return nil
}

func disabledLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
