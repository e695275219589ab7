// Package lz4errors defines the dense error-code enum shared by the block,
// stream and frame layers (spec §6/§7): every fallible core operation fails
// with one of these codes, wrapped in a plain Go error so callers can use
// errors.Is / errors.As instead of a C-style size_t sentinel range.
package lz4errors

import "fmt"

// Code identifies a specific failure reason.
type Code int

const (
	NoError Code = iota
	GenericError
	AllocationFailed
	SrcSizeTooLarge
	DstMaxSizeTooSmall
	FrameTypeUnknown
	FrameSizeWrong
	SrcPtrNull
	DecompressionFailed
	HeaderVersionWrong
	HeaderChecksumInvalid
	ContentChecksumInvalid
	BlockChecksumInvalid
	ReservedFlagSet
	FrameDecodingAlreadyStarted
	FrameHeaderIncomplete
	MaxBlockSizeInvalid
	BlockChecksumUnsupported
	ContentSizeMismatch
	NotStarted
)

var names = map[Code]string{
	NoError:                     "no error",
	GenericError:                "generic error",
	AllocationFailed:            "allocation failed",
	SrcSizeTooLarge:             "source size too large",
	DstMaxSizeTooSmall:          "destination buffer too small",
	FrameTypeUnknown:            "unrecognized frame descriptor (not lz4 nor skippable)",
	FrameSizeWrong:              "frame size does not match expected size",
	SrcPtrNull:                  "source pointer is null",
	DecompressionFailed:         "corrupt input: decompression failed",
	HeaderVersionWrong:          "frame header version is not supported",
	HeaderChecksumInvalid:       "frame header checksum is invalid",
	ContentChecksumInvalid:      "frame content checksum is invalid",
	BlockChecksumInvalid:        "frame block checksum is invalid",
	ReservedFlagSet:             "reserved flag bit is set",
	FrameDecodingAlreadyStarted: "frame decoding already in progress",
	FrameHeaderIncomplete:       "frame header is incomplete",
	MaxBlockSizeInvalid:         "block size descriptor is invalid",
	BlockChecksumUnsupported:    "block checksums are not supported by this decoder build",
	ContentSizeMismatch:         "declared content size does not match bytes actually written",
	NotStarted:                  "operation requires begin/compressBegin to be called first",
}

// String implements fmt.Stringer with the human-readable name lookup the
// spec's error-handling contract requires.
func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "unknown error"
}

// codeError is the concrete error type every Code resolves to.
type codeError struct {
	code Code
	msg  string
}

func (e *codeError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("lz4: %s: %s", e.code, e.msg)
	}
	return fmt.Sprintf("lz4: %s", e.code)
}

// Is lets errors.Is(err, lz4errors.New(SomeCode)) match any error carrying
// the same Code, regardless of attached message.
func (e *codeError) Is(target error) bool {
	t, ok := target.(*codeError)
	return ok && t.code == e.code
}

// New returns a plain error for code.
func New(code Code) error {
	return &codeError{code: code}
}

// Wrap returns an error for code with additional context.
func Wrap(code Code, msg string) error {
	return &codeError{code: code, msg: msg}
}

// Wrapf is Wrap with fmt.Sprintf-style formatting.
func Wrapf(code Code, format string, args ...interface{}) error {
	return &codeError{code: code, msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code carried by err, or GenericError if err was not
// produced by this package.
func CodeOf(err error) Code {
	if ce, ok := err.(*codeError); ok {
		return ce.code
	}
	return GenericError
}

// IsError reports whether err is non-nil. It exists to mirror the spec's
// "fallible operation returns ... a distinguished error sentinel testable
// via an isError predicate" contract for callers translating from the C
// API shape; idiomatic Go call sites should just check err != nil.
func IsError(err error) bool {
	return err != nil
}
