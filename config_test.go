package lz4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePreferencesFromTOML(t *testing.T) {
	data := []byte(`
block_size_kb = 256
block_linked = true
block_checksum = true
content_checksum = true
compression_level = 9
auto_flush = true
favor_dec_speed = true
`)
	p, err := DecodePreferences(data)
	require.NoError(t, err)
	assert.Equal(t, 5, p.BlockSizeIndex)
	assert.True(t, p.BlockLinked)
	assert.True(t, p.BlockChecksum)
	assert.True(t, p.ContentChecksum)
	assert.Equal(t, 9, p.CompressionLevel)
	assert.True(t, p.AutoFlush)
	assert.True(t, p.FavorDecSpeed)
}

func TestDecodePreferencesDefaultsWithoutBlockSize(t *testing.T) {
	p, err := DecodePreferences([]byte(``))
	require.NoError(t, err)
	assert.Zero(t, p.BlockSizeIndex)
	assert.False(t, p.BlockLinked)
}

func TestDecodePreferencesInvalidTOML(t *testing.T) {
	_, err := DecodePreferences([]byte(`not = [valid toml`))
	assert.Error(t, err)
}

func TestLoadPreferencesMissingFile(t *testing.T) {
	_, err := LoadPreferences("/nonexistent/path/does/not/exist.toml")
	assert.Error(t, err)
}

func TestBlockSizeIndexForKB(t *testing.T) {
	assert.Equal(t, 4, blockSizeIndexForKB(64))
	assert.Equal(t, 5, blockSizeIndexForKB(256))
	assert.Equal(t, 6, blockSizeIndexForKB(1024))
	assert.Equal(t, 7, blockSizeIndexForKB(2048))
}
