package lz4block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, src []byte) {
	t.Helper()

	dst := make([]byte, CompressBlockBound(len(src)))
	ht := NewHashTable(DefaultHashLog)
	n, err := CompressBlock(src, dst, ht, nil, 1)
	require.NoError(t, err)

	var compressed []byte
	if n == 0 {
		compressed = src // spec: a 0 return means "store uncompressed"
	} else {
		compressed = dst[:n]
	}

	out := make([]byte, len(src)+16)
	if n == 0 {
		copy(out, src)
		out = out[:len(src)]
	} else {
		got, err := UncompressBlock(compressed, out, nil)
		require.NoError(t, err)
		out = out[:got]
	}
	assert.Equal(t, src, out)
}

func TestRoundTripFastVarious(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("x"),
		[]byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit."),
		bytes.Repeat([]byte{'a'}, 1024),
		bytes.Repeat([]byte("ABCD"), 500),
		func() []byte {
			b := make([]byte, 5000)
			for i := range b {
				b[i] = byte(i * 31)
			}
			return b
		}(),
	}
	for _, c := range cases {
		c := c
		t.Run("", func(t *testing.T) {
			roundTrip(t, c)
		})
	}
}

// Scenario 2 from spec §8: "a"x1024 compresses to a short literal run, one
// long match at offset 1, and a literal tail; decoding reproduces it.
func TestRepeatedByteMatchOffsetOne(t *testing.T) {
	src := bytes.Repeat([]byte{'a'}, 1024)
	roundTrip(t, src)
}

// Scenario: maximum-distance match (offset == MaxOffset) round-trips.
func TestMaxDistanceMatch(t *testing.T) {
	src := make([]byte, MaxOffset+8)
	for i := range src {
		src[i] = byte(i)
	}
	// Plant a second copy of a run at the far end so the encoder is forced
	// to consider (or at least not break on) a near-65535 backward offset.
	copy(src[MaxOffset:], src[:8])
	roundTrip(t, src)
}

// Self-overlapping matches at every small offset 1..7 (design notes §9).
func TestSelfOverlapAllSmallOffsets(t *testing.T) {
	for off := 1; off <= 7; off++ {
		off := off
		t.Run("", func(t *testing.T) {
			src := make([]byte, 64)
			for i := 0; i < off; i++ {
				src[i] = byte('A' + i)
			}
			for i := off; i < len(src); i++ {
				src[i] = src[i-off]
			}
			roundTrip(t, src)
		})
	}
}

func TestCompressBlockBound(t *testing.T) {
	assert.Equal(t, 16, CompressBlockBound(0))
	assert.Equal(t, 1000+1000/255+16, CompressBlockBound(1000))
}

// Adversarial block: literal-length field chains past the input with no
// terminating byte under 0xFF. decompress must error, not panic or overrun.
func TestDecodeLiteralLengthOverflow(t *testing.T) {
	src := []byte{0xF0, 0xFF, 0xFF, 0xFF, 0xFF}
	dst := make([]byte, 16)
	n, err := UncompressBlock(src, dst, nil)
	assert.Error(t, err)
	assert.Equal(t, -1, n)
}

// Adversarial block: valid token, zero offset.
func TestDecodeZeroOffset(t *testing.T) {
	// One literal byte, then a match with offset 0.
	src := []byte{0x11, 'x', 0x00, 0x00}
	dst := make([]byte, 16)
	_, err := UncompressBlock(src, dst, nil)
	assert.Error(t, err)
}

func TestDecodeTruncatedToken(t *testing.T) {
	dst := make([]byte, 16)
	n, err := UncompressBlock([]byte{0x50}, dst, nil)
	assert.Error(t, err)
	assert.Equal(t, -1, n)
}

func TestDecodeEmptyInput(t *testing.T) {
	dst := make([]byte, 16)
	n, err := UncompressBlock(nil, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDecodeDstTooSmall(t *testing.T) {
	src := make([]byte, CompressBlockBound(100))
	big := bytes.Repeat([]byte{'z'}, 100)
	ht := NewHashTable(DefaultHashLog)
	n, err := CompressBlock(big, src, ht, nil, 1)
	require.NoError(t, err)
	require.NotZero(t, n)

	tooSmall := make([]byte, 10)
	_, err = UncompressBlock(src[:n], tooSmall, nil)
	assert.Error(t, err)
}

func TestHashTableRebase(t *testing.T) {
	ht := NewHashTable(DefaultHashLog)
	ht.set(5, 100)
	ht.set(6, 40)
	ht.Rebase(50)
	assert.Equal(t, int32(50), ht.get(5))
	// 40-50 = -10: still within the 64KiB window (dictionary-relative), so
	// it must survive the rebase rather than being clamped to invalidPos.
	assert.Equal(t, int32(-10), ht.get(6))

	ht.set(7, 10)
	ht.Rebase(MaxOffset + 100)
	// 10-(MaxOffset+100) falls further back than any legal dictionary
	// position, so it must be clamped to invalidPos.
	assert.Equal(t, invalidPos, ht.get(7))
}

func FuzzUncompressBlockNeverPanics(f *testing.F) {
	f.Add([]byte{0xF0, 0xFF, 0xFF, 0xFF, 0xFF})
	f.Add([]byte{0x11, 'x', 0x00, 0x00})
	f.Add([]byte{0x50})
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, in []byte) {
		dst := make([]byte, 4096)
		_, _ = UncompressBlock(in, dst, nil)
	})
}

func FuzzRoundTripFast(f *testing.F) {
	f.Add([]byte("hello world"))
	f.Add(bytes.Repeat([]byte{0}, 300))
	f.Fuzz(func(t *testing.T, in []byte) {
		if len(in) > 1<<16 {
			return
		}
		dst := make([]byte, CompressBlockBound(len(in)))
		ht := NewHashTable(DefaultHashLog)
		n, err := CompressBlock(in, dst, ht, nil, 1)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		var compressed []byte
		if n == 0 {
			compressed = in
		} else {
			compressed = dst[:n]
		}
		out := make([]byte, len(in)+16)
		got, err := UncompressBlock(compressed, out, nil)
		if n == 0 {
			return
		}
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if !bytes.Equal(in, out[:got]) {
			t.Fatalf("round trip mismatch")
		}
	})
}
