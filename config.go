package lz4

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig is the TOML-decodable shape of a Preferences file, letting
// cmd/lz4c and embedders express frame preferences declaratively instead
// of only through functional Options (SPEC_FULL §B "Configuration").
type FileConfig struct {
	BlockSizeKB      int  `toml:"block_size_kb"`
	BlockLinked      bool `toml:"block_linked"`
	BlockChecksum    bool `toml:"block_checksum"`
	ContentChecksum  bool `toml:"content_checksum"`
	CompressionLevel int  `toml:"compression_level"`
	AutoFlush        bool `toml:"auto_flush"`
	FavorDecSpeed    bool `toml:"favor_dec_speed"`
}

// LoadPreferences decodes a TOML file at path into a Preferences value.
func LoadPreferences(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preferences{}, err
	}
	return DecodePreferences(data)
}

// DecodePreferences decodes TOML-formatted config bytes into Preferences.
func DecodePreferences(data []byte) (Preferences, error) {
	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Preferences{}, err
	}
	p := Preferences{
		BlockLinked:      fc.BlockLinked,
		BlockChecksum:    fc.BlockChecksum,
		ContentChecksum:  fc.ContentChecksum,
		CompressionLevel: fc.CompressionLevel,
		AutoFlush:        fc.AutoFlush,
		FavorDecSpeed:    fc.FavorDecSpeed,
	}
	if fc.BlockSizeKB > 0 {
		p.BlockSizeIndex = blockSizeIndexForKB(fc.BlockSizeKB)
	}
	return p, nil
}

func blockSizeIndexForKB(kb int) int {
	switch {
	case kb <= 64:
		return 4
	case kb <= 256:
		return 5
	case kb <= 1024:
		return 6
	default:
		return 7
	}
}
