package lz4

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/lz4go/lz4/internal/lz4stream"
)

// Reader decompresses an LZ4 frame as bytes are read (spec §4.7 "Frame
// decoder state machine"). The zero value is not usable; create one with
// NewReader.
type Reader struct {
	r   io.Reader
	log *logrus.Logger
	dec *lz4stream.Decoder

	in      []byte // raw bytes read from r, not yet handed to dec
	inOff   int
	eof     bool
	lastErr error
}

// NewReader returns a Reader wrapping r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, log: disabledLogger(), dec: lz4stream.NewDecoder(), in: make([]byte, 0, 64*1024)}
}

// SetLogger installs a logrus.Logger for debug-level tracing.
func (z *Reader) SetLogger(l *logrus.Logger) {
	if l == nil {
		l = disabledLogger()
	}
	z.log = l
}

// AttachDict uses a private copy of cd's bytes as this frame's starting
// dictionary, the decode-side counterpart of Writer.AttachDict. Must be
// called before the first Read.
func (z *Reader) AttachDict(cd *CDict) {
	z.dec.Reset(append([]byte(nil), cd.window()...))
}

// SaveDict copies up to capacity bytes of the reader's current trailing
// window to dst and rebinds the reader to that private copy, mirroring
// Writer.SaveDict.
func (z *Reader) SaveDict(dst []byte, capacity int) []byte {
	return z.dec.SaveDict(dst, capacity)
}

// FrameInfo returns the most recently decoded frame header. Valid once
// Read has returned at least one byte or io.EOF after a header.
func (z *Reader) FrameInfo() FrameInfo {
	fi := z.dec.Info
	return FrameInfo{
		BlockChecksum:     fi.BlockChecksum,
		BlockIndependence: fi.BlockIndependence,
		ContentChecksum:   fi.ContentChecksum,
		ContentSize:       fi.ContentSize,
		ContentSizeSet:    fi.ContentSizeSet,
		DictID:            fi.DictID,
		DictIDSet:         fi.DictIDSet,
	}
}

// FrameInfo mirrors the decoded header fields a caller may want to
// inspect (spec "getFrameInfo").
type FrameInfo struct {
	BlockChecksum     bool
	BlockIndependence bool
	ContentChecksum   bool
	ContentSize       uint64
	ContentSizeSet    bool
	DictID            uint32
	DictIDSet         bool
}

// Read implements io.Reader. It drives the resumable frame decoder
// (spec's getHeader → ... → done state machine), reading from the
// underlying io.Reader only as needed and making progress on every call
// until either p is full or the frame (and any further concatenated
// frames) is exhausted.
func (z *Reader) Read(p []byte) (int, error) {
	if z.lastErr != nil {
		return 0, z.lastErr
	}
	total := 0
	for total < len(p) {
		if z.inOff == len(z.in) || len(z.in) == 0 {
			n, err := z.r.Read(z.in[:cap(z.in)])
			z.in = z.in[:n]
			z.inOff = 0
			if n == 0 {
				if err == io.EOF {
					z.eof = true
				} else if err != nil {
					z.lastErr = err
					return total, err
				}
			}
		}

		hint, nSrc, nDst, err := z.dec.Decode(p[total:], z.in[z.inOff:])
		z.inOff += nSrc
		total += nDst
		if err != nil {
			z.lastErr = err
			return total, err
		}
		if nSrc == 0 && nDst == 0 {
			if z.eof && z.inOff == len(z.in) {
				if z.dec.Done {
					// Clean frame boundary and the underlying reader is
					// exhausted: no concatenated frame follows (spec
					// §4.7 "context resets to getHeader, allowing
					// concatenated frames" — there's simply nothing
					// left to reset into).
					z.log.Debug("lz4: stream complete")
					if total > 0 {
						return total, nil
					}
					return total, io.EOF
				}
				z.lastErr = io.ErrUnexpectedEOF
				return total, z.lastErr
			}
			if z.inOff == len(z.in) {
				need := hint
				if need <= 0 {
					need = 1
				}
				if need > cap(z.in) {
					grown := make([]byte, need)
					z.in = grown[:0]
				} else {
					z.in = z.in[:0]
				}
				z.inOff = 0
			}
			if total > 0 {
				return total, nil
			}
			continue
		}
	}
	return total, nil
}
