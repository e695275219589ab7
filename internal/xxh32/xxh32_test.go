package xxh32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumEmpty(t *testing.T) {
	// Known XXH32("", seed=0) vector.
	assert.Equal(t, uint32(0x02cc5d05), Checksum(0, nil))
}

func TestChecksumSeedChangesResult(t *testing.T) {
	in := []byte("abc")
	assert.NotEqual(t, Checksum(0, in), Checksum(1, in), "different seeds must not collide on a short input")
}

func TestChecksumStableAcrossCalls(t *testing.T) {
	in := []byte("The quick brown fox jumps over the lazy dog")
	assert.Equal(t, Checksum(0, in), Checksum(0, in))
}

func TestWriteMatchesOneShot(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i * 7)
	}
	want := Checksum(0, data)

	var d Digest
	d.Reset(0)
	// Feed in irregular chunk sizes to exercise the partial-buffer path.
	chunks := []int{1, 3, 16, 17, 200, 763 - 1 - 3 - 16 - 17 - 200}
	off := 0
	for _, c := range chunks {
		n, err := d.Write(data[off : off+c])
		require.NoError(t, err)
		require.Equal(t, c, n)
		off += c
	}
	n, err := d.Write(data[off:])
	require.NoError(t, err)
	require.Equal(t, len(data)-off, n)

	assert.Equal(t, want, d.Sum32())
}

func TestResetReuse(t *testing.T) {
	var d Digest
	d.Reset(42)
	d.Write([]byte("hello"))
	first := d.Sum32()

	d.Reset(42)
	d.Write([]byte("hello"))
	assert.Equal(t, first, d.Sum32())
}

func FuzzChecksum(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("a"))
	f.Add([]byte("The quick brown fox jumps over the lazy dog"))
	f.Fuzz(func(t *testing.T, in []byte) {
		var d Digest
		d.Reset(0)
		d.Write(in)
		if d.Sum32() != Checksum(0, in) {
			t.Fatalf("streaming and one-shot checksums disagree on %d bytes", len(in))
		}
	})
}
