package lz4

import "github.com/lz4go/lz4/internal/lz4block"

// CDict is a preloaded compressed dictionary: up to 64 KiB of history a
// Writer or Reader can reference without re-transmitting it (spec §5
// "A compressed dictionary object may be shared read-only by multiple
// compressor contexts concurrently"). The zero value is not usable;
// build one with NewCDict.
//
// A CDict is immutable once built and safe for concurrent use by many
// Writers/Readers, matching the spec's sharing contract.
type CDict struct {
	data []byte // trailing <=64KiB window, oldest-first
}

const maxDictSize = lz4block.MaxOffset

// NewCDict builds a CDict from raw dictionary bytes, retaining at most
// the trailing 64 KiB (anything further back can never be referenced by
// a 16-bit offset).
func NewCDict(data []byte) *CDict {
	if len(data) > maxDictSize {
		data = data[len(data)-maxDictSize:]
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return &CDict{data: cp}
}

// window returns the dictionary's trailing history for the block codec.
func (d *CDict) window() []byte {
	if d == nil {
		return nil
	}
	return d.data
}

// dictContext is the stream-context dictionary state shared by Writer and
// Reader (spec §4.5): fresh/prefix/extDict/ring collapse, for this
// implementation's purposes, to "no history" vs "up to 64 KiB of trailing
// history bytes", since Go's garbage-collected slices make the
// prefix/extDict distinction — contiguous-address vs separate-buffer — an
// optimization the encoder doesn't need to special-case to stay correct;
// what matters for correctness is that the offset math always treats the
// history as the logical continuation of the stream, which lz4block's
// window type already provides via signed addressing.
type dictContext struct {
	attached *CDict // AttachDict: read-only, shared, never mutated here
	owned    []byte // LoadDict / saveDict: private, mutable trailing window
}

// attach references cd by pointer (spec SPEC_FULL §D.1 attachDict):
// zero-copy, safe to share cd across many contexts simultaneously.
func (c *dictContext) attach(cd *CDict) {
	c.attached = cd
	c.owned = nil
}

// load copies data's trailing window into private storage (loadDict):
// unlike attach, the context may later extend this window itself.
func (c *dictContext) load(data []byte) {
	if len(data) > maxDictSize {
		data = data[len(data)-maxDictSize:]
	}
	c.owned = append([]byte(nil), data...)
	c.attached = nil
}

// window returns the current dictionary bytes a block may reference.
func (c *dictContext) window() []byte {
	if c.attached != nil {
		return c.attached.window()
	}
	return c.owned
}

// blockDict adapts window() to the block codec's *lz4block.Dict, or nil
// when there is no history.
func (c *dictContext) blockDict() *lz4block.Dict {
	w := c.window()
	if len(w) == 0 {
		return nil
	}
	return &lz4block.Dict{Data: w}
}

// extend appends newly produced/consumed plaintext to the owned window
// (linked-block continuity), trimming to the 64 KiB bound. Attached
// dictionaries are never mutated; extending after an attach silently
// starts an owned window seeded from the attached one, matching
// lz4frame.c's copy-on-write behaviour for attachDict contexts that keep
// compressing past the attached dictionary's own content.
func (c *dictContext) extend(plain []byte) {
	if c.attached != nil {
		seed := c.attached.window()
		c.owned = append(append([]byte(nil), seed...), plain...)
		c.attached = nil
	} else {
		c.owned = append(c.owned, plain...)
	}
	if len(c.owned) > maxDictSize {
		c.owned = append([]byte(nil), c.owned[len(c.owned)-maxDictSize:]...)
	}
}

// saveDict copies up to cap bytes of the current window to dst and
// rebinds the context to that copy (spec §4.5 "saveDict moves up to 64
// KiB of the last window to caller-owned memory and rebinds the context
// to extDict over it"). It returns the bytes actually saved.
func (c *dictContext) saveDict(dst []byte, capacity int) []byte {
	w := c.window()
	if len(w) > capacity {
		w = w[len(w)-capacity:]
	}
	saved := append(dst[:0], w...)
	c.load(saved)
	return saved
}
