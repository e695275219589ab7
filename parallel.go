package lz4

import (
	"context"
	"io"

	"github.com/lz4go/lz4/internal/lz4block"
	"github.com/lz4go/lz4/internal/lz4errors"
	"github.com/lz4go/lz4/internal/lz4pool"
	"github.com/lz4go/lz4/internal/lz4stream"
	"github.com/lz4go/lz4/internal/xxh32"
)

// CompressFrameParallel compresses src as a single frame made of
// independent blocks, compressing the blocks concurrently across
// lz4pool's worker pool before writing them out in order (spec §5: "the
// reference supports but does not require a worker pool for frame-level
// encoding when blocks are independent"). Preferences with BlockLinked
// set are rejected: cross-block references would serialize the very
// parallelism this entry point exists for.
func CompressFrameParallel(dst io.Writer, src []byte, opts ...Option) error {
	var pref Preferences
	for _, o := range opts {
		o(&pref)
	}
	if pref.BlockLinked {
		return lz4errors.Wrap(lz4errors.GenericError, "CompressFrameParallel requires independent blocks")
	}
	pref.ContentSize, pref.ContentSizeSet = uint64(len(src)), true

	blockCap := lz4stream.BlockCapacity(pref.blockSizeIndex())
	var blocks [][]byte
	for off := 0; off < len(src) || (off == 0 && len(src) == 0); {
		end := off + blockCap
		if end > len(src) {
			end = len(src)
		}
		blocks = append(blocks, src[off:end])
		off = end
		if off >= len(src) {
			break
		}
	}

	jobs := make([]*lz4pool.Job, len(blocks))

	pool := lz4pool.New(context.Background(), lz4pool.DefaultWorkers())
	for i, b := range blocks {
		b := b
		level := pref.CompressionLevel
		job := &lz4pool.Job{
			Src: b,
			Dst: make([]byte, lz4block.CompressBlockBound(len(b))),
		}
		ht := lz4block.NewHashTable(lz4block.DefaultHashLog)
		job.Compress = func(src, d []byte) (int, error) {
			if level > 0 {
				return lz4block.CompressBlockHC(src, d, level, nil)
			}
			acc := 1
			if level < 0 {
				acc = -level
			}
			return lz4block.CompressBlock(src, d, ht, nil, acc)
		}
		jobs[i] = job
		pool.Submit(job)
	}
	if err := pool.CompleteAll(); err != nil {
		return err
	}

	hdr := lz4stream.EncodeHeader(nil, pref.frameInfo())
	if _, err := dst.Write(hdr); err != nil {
		return err
	}

	var contentHash xxh32.Digest
	contentHash.Reset(0)
	for i, b := range blocks {
		contentHash.Write(b)
		job := jobs[i]
		payload, raw := job.Dst[:job.N], false
		if job.N == 0 || job.N >= len(b) {
			payload, raw = b, true
		}
		var buf []byte
		buf = lz4stream.AppendBlock(buf, payload, raw, pref.BlockChecksum)
		if _, err := dst.Write(buf); err != nil {
			return err
		}
	}

	var suffix []byte
	suffix = lz4stream.AppendEndMark(suffix)
	if pref.ContentChecksum {
		suffix = lz4stream.AppendContentChecksum(suffix, &contentHash)
	}
	_, err := dst.Write(suffix)
	return err
}
