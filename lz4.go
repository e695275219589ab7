// Package lz4 implements the LZ4 block format and its self-describing
// frame container: a byte-oriented lossless compressor built for
// throughput rather than ratio.
//
// The block-level API (CompressBlock, CompressBlockHC, UncompressBlock)
// is a direct, single-buffer codec. Writer and Reader wrap it in the LZ4
// frame format (magic, flags, optional checksums, block headers, end
// mark) and support streaming large inputs with cross-block dictionary
// continuity.
package lz4

import (
	"github.com/lz4go/lz4/internal/lz4block"
	"github.com/lz4go/lz4/internal/lz4errors"
	"github.com/lz4go/lz4/internal/lz4stream"
)

const (
	// MinMatch is the shortest match length the block format can
	// express (spec glossary: MINMATCH).
	MinMatch = lz4block.MinMatch
	// MaxOffset is the largest backward distance a block's 2-byte
	// offset field can encode: the 64 KiB window.
	MaxOffset = lz4block.MaxOffset

	// MaxInputSize is the largest source buffer CompressBlockBound can
	// account for; compressBound's behaviour above this is undefined
	// per spec §6.
	MaxInputSize = 0x7E000000

	// BlockSize64K, BlockSize256K, BlockSize1M and BlockSize4M are the
	// frame block-size classes spec §3 defines.
	BlockSize64K  = lz4stream.BlockSize64K
	BlockSize256K = lz4stream.BlockSize256K
	BlockSize1M   = lz4stream.BlockSize1M
	BlockSize4M   = lz4stream.BlockSize4M

	// CompressionLevelFastDefault is the acceleration CompressBlock uses
	// when a caller wants the fast path without tuning it.
	CompressionLevelFastDefault = 1
	// CompressionLevelHCDefault is the level CompressBlockHC uses by
	// default.
	CompressionLevelHCDefault = lz4block.HCDefaultLevel
	// CompressionLevelHCMax is the highest level CompressBlockHC accepts
	// before it is clamped.
	CompressionLevelHCMax = lz4block.HCMaxLevel
)

// CompressBlockBound returns the maximum size of a compressed block
// produced from n bytes of input — srcSize + srcSize/255 + 16, undefined
// above MaxInputSize (spec §6).
func CompressBlockBound(n int) int {
	return lz4block.CompressBlockBound(n)
}

// CompressBlock compresses src into dst with the fast, single-pass
// hash-table matcher (spec §4.2). hashTable must be either nil (a fresh
// table is allocated) or a *HashTable obtained from NewHashTable, reused
// across calls to amortise its setup cost. acceleration must be >= 1.
//
// It returns the number of bytes written. A return of 0 with a nil error
// means src did not compress; the caller should store it uncompressed.
func CompressBlock(src, dst []byte, hashTable *HashTable, acceleration int) (int, error) {
	var ht *lz4block.HashTable
	if hashTable != nil {
		ht = hashTable.ht
	} else {
		ht = lz4block.NewHashTable(lz4block.DefaultHashLog)
	}
	return lz4block.CompressBlock(src, dst, ht, nil, acceleration)
}

// CompressBlockHC compresses src into dst with the high-compression
// hash-chain matcher at the given level (spec §4.3). Level is clamped
// into [1, CompressionLevelHCMax]; <= 0 selects CompressionLevelHCDefault.
func CompressBlockHC(src, dst []byte, level int) (int, error) {
	return lz4block.CompressBlockHC(src, dst, level, nil)
}

// UncompressBlock decompresses src (one LZ4 block) into dst and returns
// the number of bytes written. dst must be sized to the exact original
// length or larger; an error is returned if it is too small or src is
// corrupt (spec §4.4, "safe" decoder — never reads past src or writes
// past dst, for any input).
func UncompressBlock(src, dst []byte) (int, error) {
	n, err := lz4block.UncompressBlock(src, dst, nil)
	if n < 0 {
		return 0, err
	}
	return n, err
}

// HashTable is a reusable fast-encoder hash table (spec §4.2's
// "Compressor context (fast)"). The zero value is not usable; create one
// with NewHashTable.
type HashTable struct {
	ht *lz4block.HashTable
}

// NewHashTable allocates a fast-encoder hash table of 2^log slots. log
// of 0 selects lz4block.DefaultHashLog.
func NewHashTable(log uint) *HashTable {
	return &HashTable{ht: lz4block.NewHashTable(log)}
}

// Reset clears the table so it can be reused for an unrelated input,
// optionally resizing it.
func (h *HashTable) Reset(log uint) { h.ht.Reset(log) }

// IsError reports whether err is non-nil, whatever produced it,
// mirroring the spec §7 "isError predicate" contract. Idiomatic
// call sites should simply check err != nil; this exists for API
// parity with the C reference.
func IsError(err error) bool {
	return lz4errors.IsError(err)
}
