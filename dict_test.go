package lz4

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCDictTruncatesToMaxOffset(t *testing.T) {
	big := bytes.Repeat([]byte("x"), MaxOffset+1000)
	cd := NewCDict(big)
	assert.Len(t, cd.window(), MaxOffset)
}

func TestNewCDictNilWindow(t *testing.T) {
	var cd *CDict
	assert.Nil(t, cd.window())
}

func TestDictContextAttachVsLoad(t *testing.T) {
	cd := NewCDict([]byte("attached bytes"))
	var dc dictContext
	dc.attach(cd)
	assert.Equal(t, "attached bytes", string(dc.window()))

	dc.load([]byte("owned bytes"))
	assert.Equal(t, "owned bytes", string(dc.window()))
	assert.Nil(t, dc.attached)
}

func TestDictContextExtendAfterAttachCopiesOnWrite(t *testing.T) {
	cd := NewCDict([]byte("seed-"))
	var dc dictContext
	dc.attach(cd)
	dc.extend([]byte("more"))
	assert.Equal(t, "seed-more", string(dc.window()))
	// original CDict must be untouched
	assert.Equal(t, "seed-", string(cd.window()))
}

func TestDictContextSaveDict(t *testing.T) {
	var dc dictContext
	dc.load(bytes.Repeat([]byte("abcdefgh"), 10))
	saved := dc.saveDict(nil, 16)
	assert.Len(t, saved, 16)
	assert.Equal(t, saved, dc.window())
}

func TestDictContextBlockDictNilWhenEmpty(t *testing.T) {
	var dc dictContext
	assert.Nil(t, dc.blockDict())
}
