package lz4block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDictRoundTrip covers spec §8 property 5: compress_continue against a
// loaded dictionary, then decompress_using_dict, reproduces the input.
func TestDictRoundTrip(t *testing.T) {
	dict := bytes.Repeat([]byte("shared-history-"), 200) // > MinMatch, < 64KiB
	src := []byte("shared-history-shared-history-tail bytes not in the dictionary at all")

	d := &Dict{Data: dict}
	dst := make([]byte, CompressBlockBound(len(src)))
	ht := NewHashTable(DefaultHashLog)
	n, err := CompressBlock(src, dst, ht, d, 1)
	require.NoError(t, err)
	require.NotZero(t, n, "expected the dictionary to make src compress")

	out := make([]byte, len(src))
	got, err := UncompressBlock(dst[:n], out, d)
	require.NoError(t, err)
	assert.Equal(t, src, out[:got])
}

// TestDictRoundTripWrongDictFails shows a mismatched dictionary produces
// either a decode error or, if the bytes happen to parse, incorrect
// output — it must not panic either way.
func TestDictRoundTripWrongDictFails(t *testing.T) {
	dict := bytes.Repeat([]byte("shared-history-"), 200)
	src := []byte("shared-history-shared-history-tail bytes not in the dictionary at all")

	d := &Dict{Data: dict}
	dst := make([]byte, CompressBlockBound(len(src)))
	ht := NewHashTable(DefaultHashLog)
	n, err := CompressBlock(src, dst, ht, d, 1)
	require.NoError(t, err)
	require.NotZero(t, n)

	wrongDict := &Dict{Data: bytes.Repeat([]byte("completely-different-"), 200)}
	out := make([]byte, len(src))
	got, err := UncompressBlock(dst[:n], out, wrongDict)
	if err == nil {
		assert.NotEqual(t, src, out[:got])
	}
}

// TestCopyOverlapDirect exercises copyMatch/copyOverlap with a hand-built
// block at every small self-overlapping offset, independent of whether
// the encoder would ever choose to emit one (design notes §9, spec §8
// "self-overlapping match with offset 1..7").
func TestCopyOverlapDirect(t *testing.T) {
	for offset := 1; offset <= 9; offset++ {
		offset := offset
		t.Run("", func(t *testing.T) {
			// One literal run of `offset` bytes, then a long match copying
			// from `offset` bytes back — classic RLE pattern.
			lit := make([]byte, offset)
			for i := range lit {
				lit[i] = byte('A' + i)
			}
			matLen := 40
			var src []byte
			llCode := len(lit)
			mlCode := matLen - MinMatch
			var tok byte
			if llCode < 0xF {
				tok = byte(llCode << 4)
			} else {
				tok = 0xF0
			}
			if mlCode < 0xF {
				tok |= byte(mlCode)
			} else {
				tok |= 0xF
			}
			src = append(src, tok)
			if llCode >= 0xF {
				src = appendVarLen(src, llCode-0xF)
			}
			src = append(src, lit...)
			src = append(src, byte(offset), byte(offset>>8))
			if mlCode >= 0xF {
				src = appendVarLen(src, mlCode-0xF)
			}
			// terminal literal-only sequence (required by the format)
			src = append(src, 0x10, 'Z')

			want := make([]byte, len(lit))
			copy(want, lit)
			for len(want) < len(lit)+matLen {
				want = append(want, want[len(want)-offset])
			}
			want = append(want, 'Z')

			dst := make([]byte, len(want)+8)
			n, err := UncompressBlock(src, dst, nil)
			require.NoError(t, err)
			assert.Equal(t, want, dst[:n])
		})
	}
}
