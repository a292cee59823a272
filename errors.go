package qtc

import (
	"errors"

	"github.com/deepteams/qtc/internal/qtree"
)

// Errors returned by Encode and Decode.
var (
	ErrBadMagic       = errors.New("qtc: bad magic, want Q1")
	ErrTruncated      = errors.New("qtc: truncated bit-stream")
	ErrNotPowerOfTwo  = qtree.ErrNotPowerOfTwo
	ErrFilterStrength = errors.New("qtc: filter strength out of range [0,2]")
)
