package lz4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferencesDefaultBlockSizeIndex(t *testing.T) {
	var p Preferences
	assert.Equal(t, 7, p.blockSizeIndex())
}

func TestOptionsApply(t *testing.T) {
	var p Preferences
	for _, o := range []Option{
		BlockSizeOption(BlockSize256K),
		BlockLinkedOption(true),
		BlockChecksumOption(true),
		ContentChecksumOption(true),
		ContentSizeOption(42),
		DictIDOption(7),
		CompressionLevelOption(9),
		AutoFlushOption(true),
		FavorDecSpeedOption(true),
		StableSrcOption(true),
		StableDstOption(true),
	} {
		o(&p)
	}

	assert.Equal(t, 5, p.BlockSizeIndex)
	assert.True(t, p.BlockLinked)
	assert.True(t, p.BlockChecksum)
	assert.True(t, p.ContentChecksum)
	assert.EqualValues(t, 42, p.ContentSize)
	assert.True(t, p.ContentSizeSet)
	assert.EqualValues(t, 7, p.DictID)
	assert.True(t, p.DictIDSet)
	assert.Equal(t, 9, p.CompressionLevel)
	assert.True(t, p.AutoFlush)
	assert.True(t, p.FavorDecSpeed)
	assert.True(t, p.StableSrc)
	assert.True(t, p.StableDst)
}

func TestFrameInfoReflectsBlockLinked(t *testing.T) {
	p := Preferences{BlockLinked: true, BlockSizeIndex: 7}
	assert.False(t, p.frameInfo().BlockIndependence)

	p2 := Preferences{BlockLinked: false, BlockSizeIndex: 7}
	assert.True(t, p2.frameInfo().BlockIndependence)
}
