package lz4

import "github.com/lz4go/lz4/internal/lz4stream"

// Preferences configures a Writer's frame handling (spec §6
// "Preferences enumerate block size class, block mode, checksum flags,
// content size, dict ID, compression level").
type Preferences struct {
	// BlockSizeIndex selects one of the four frame block-size classes
	// (64K, 256K, 1M, 4M). Zero selects BlockSize4M.
	BlockSizeIndex int
	// BlockLinked, when true, lets blocks reference up to 64 KiB of
	// history from the previous block (spec §4.5 "prefix"/"extDict").
	// False produces independent blocks, each safely decodable alone.
	BlockLinked bool
	// BlockChecksum appends an XXH32 checksum after every block payload.
	BlockChecksum bool
	// ContentChecksum appends a whole-frame XXH32 checksum after the end
	// mark.
	ContentChecksum bool
	// ContentSize, if set (via ContentSizeOption), is written into the
	// header and cross-checked against the actual byte count at Close.
	ContentSize    uint64
	ContentSizeSet bool
	// DictID, if set, is written into the header for the reader to match
	// against its own dictionary store (SPEC_FULL §D.4).
	DictID    uint32
	DictIDSet bool
	// CompressionLevel selects the block codec: 0 or negative picks the
	// fast path (magnitude is the acceleration), positive picks HC at
	// that level.
	CompressionLevel int

	// AutoFlush makes every Write emit all data buffered so far instead
	// of letting the writer re-order input across calls for denser
	// packing (spec §4.6).
	AutoFlush bool
	// FavorDecSpeed biases the HC optimal parser toward matches that are
	// cheaper to decode, trading a little ratio for decode throughput
	// (spec SPEC_FULL §D.2, a genuine lz4frame.c option the distillation
	// dropped).
	FavorDecSpeed bool
	// StableSrc promises the Writer that p's backing array in a Write
	// call won't be mutated or reused behind its back, letting whole
	// blocks be compressed straight out of p instead of through an
	// internal copy.
	StableSrc bool
	// StableDst mirrors StableSrc for the decode destination. It is set
	// only through StableDstOption (the TOML config has no key for it),
	// and nothing reads it: Reader takes no Preferences, and the decoder
	// always decodes each block into its own internal buffer (see
	// DESIGN.md's options.go entry).
	StableDst bool
}

// blockSizeIndex returns the frame BlockSizeIndex, defaulting to the
// largest class (4 MiB) when unset.
func (p Preferences) blockSizeIndex() int {
	if p.BlockSizeIndex == 0 {
		return 7
	}
	return p.BlockSizeIndex
}

func (p Preferences) frameInfo() lz4stream.FrameInfo {
	return lz4stream.FrameInfo{
		BlockChecksum:     p.BlockChecksum,
		BlockIndependence: !p.BlockLinked,
		ContentChecksum:   p.ContentChecksum,
		ContentSize:       p.ContentSize,
		ContentSizeSet:    p.ContentSizeSet,
		DictID:            p.DictID,
		DictIDSet:         p.DictIDSet,
		BlockSizeIndex:    p.blockSizeIndex(),
	}
}

// Option mutates a Preferences value; NewWriter and CompressFrameParallel
// accept a variadic list of Options (the functional-options idiom `urfave/cli` and
// the wider corpus use for optional configuration).
type Option func(*Preferences)

// BlockSizeOption selects one of BlockSize64K, BlockSize256K, BlockSize1M
// or BlockSize4M.
func BlockSizeOption(n int) Option {
	return func(p *Preferences) { p.BlockSizeIndex = lz4stream.BlockSizeIndexFor(n) }
}

// BlockLinkedOption toggles linked (true) vs independent (false) blocks.
func BlockLinkedOption(linked bool) Option {
	return func(p *Preferences) { p.BlockLinked = linked }
}

// BlockChecksumOption toggles per-block checksums.
func BlockChecksumOption(on bool) Option {
	return func(p *Preferences) { p.BlockChecksum = on }
}

// ContentChecksumOption toggles the whole-frame trailing checksum.
func ContentChecksumOption(on bool) Option {
	return func(p *Preferences) { p.ContentChecksum = on }
}

// ContentSizeOption declares the exact uncompressed size up front.
func ContentSizeOption(n uint64) Option {
	return func(p *Preferences) { p.ContentSize, p.ContentSizeSet = n, true }
}

// DictIDOption stamps a dictionary identifier into the header.
func DictIDOption(id uint32) Option {
	return func(p *Preferences) { p.DictID, p.DictIDSet = id, true }
}

// CompressionLevelOption sets the block codec level (positive = HC
// level, <= 0 = fast-path acceleration magnitude).
func CompressionLevelOption(level int) Option {
	return func(p *Preferences) { p.CompressionLevel = level }
}

// AutoFlushOption toggles autoFlush (spec §4.6).
func AutoFlushOption(on bool) Option {
	return func(p *Preferences) { p.AutoFlush = on }
}

// FavorDecSpeedOption toggles the HC optimal parser's decode-speed bias.
func FavorDecSpeedOption(on bool) Option {
	return func(p *Preferences) { p.FavorDecSpeed = on }
}

// StableSrcOption toggles the StableSrc optimization.
func StableSrcOption(on bool) Option {
	return func(p *Preferences) { p.StableSrc = on }
}

// StableDstOption toggles the StableDst optimization.
func StableDstOption(on bool) Option {
	return func(p *Preferences) { p.StableDst = on }
}
