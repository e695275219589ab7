package lz4

import (
	"errors"

	"github.com/lz4go/lz4/internal/lz4errors"
)

// Sentinel errors returned by the block, stream and frame layers. Test
// and caller code should compare with errors.Is, not ==, since some are
// wrapped with extra context before being returned.
var (
	ErrInvalidSource            = lz4errors.New(lz4errors.DecompressionFailed)
	ErrInvalidSourceShortBuffer = lz4errors.New(lz4errors.DstMaxSizeTooSmall)
	ErrInvalidFrame             = lz4errors.New(lz4errors.FrameTypeUnknown)
	ErrInvalidHeaderChecksum    = lz4errors.New(lz4errors.HeaderChecksumInvalid)
	ErrInvalidBlockChecksum     = lz4errors.New(lz4errors.BlockChecksumInvalid)
	ErrInvalidContentChecksum   = lz4errors.New(lz4errors.ContentChecksumInvalid)
	ErrReservedFlagSet          = lz4errors.New(lz4errors.ReservedFlagSet)
	ErrContentSizeMismatch      = lz4errors.New(lz4errors.ContentSizeMismatch)
	ErrUnsupportedVersion       = lz4errors.New(lz4errors.HeaderVersionWrong)
	ErrOptionInvalid            = lz4errors.New(lz4errors.MaxBlockSizeInvalid)
	ErrWriteNotStarted          = lz4errors.New(lz4errors.NotStarted)
)

// As is a thin re-export of errors.As so callers don't need to import
// both this package and the standard errors package for the common case
// of pulling a *FrameInfo mismatch or similar detail out of a returned
// error.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is a thin re-export of errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }
