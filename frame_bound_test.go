package lz4

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressFrameBoundIsSufficient(t *testing.T) {
	src := bytes.Repeat([]byte("frame bound sanity check content "), 5000)
	var pref Preferences
	BlockSizeOption(BlockSize64K)(&pref)
	pref.BlockChecksum = true
	pref.ContentChecksum = true

	var buf bytes.Buffer
	w := NewWriter(&buf,
		BlockSizeOption(BlockSize64K),
		BlockChecksumOption(true),
		ContentChecksumOption(true),
	)
	_, err := w.Write(src)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	bound := CompressFrameBound(len(src), pref)
	assert.LessOrEqual(t, buf.Len(), bound)
}

func TestCompressFrameBoundEmptyInput(t *testing.T) {
	bound := CompressFrameBound(0, Preferences{})
	assert.Greater(t, bound, 0)
}

func TestSkipSkippableFramesSkipsOne(t *testing.T) {
	var buf bytes.Buffer
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], 0x184D2A50)
	buf.Write(magic[:])
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], 6)
	buf.Write(size[:])
	buf.WriteString("ignore")

	w := NewWriter(&buf)
	_, err := w.Write([]byte("real payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	br := bufio.NewReader(&buf)
	require.NoError(t, SkipSkippableFrames(br))

	r := NewReader(br)
	out := make([]byte, 64)
	n, _ := r.Read(out)
	assert.Equal(t, "real payload", string(out[:n]))
}

func TestSkipSkippableFramesNoneToSkip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err := w.Write([]byte("no skippable frames here"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	br := bufio.NewReader(&buf)
	require.NoError(t, SkipSkippableFrames(br))

	r := NewReader(br)
	out := make([]byte, 64)
	n, _ := r.Read(out)
	assert.Equal(t, "no skippable frames here", string(out[:n]))
}

func TestSkipSkippableFramesEmptyReader(t *testing.T) {
	br := bufio.NewReader(bytes.NewReader(nil))
	assert.NoError(t, SkipSkippableFrames(br))
}
