package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEncoding indicates received bytes are not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrFrameMismatch indicates a line feed was received without the
	// preceding carriage return, so no complete "\r\n" terminated frame
	// can be split from the buffer.
	ErrFrameMismatch = errors.New("frame terminator mismatch")
)

// DecodeError reports a received chunk that was discarded because it
// could not be decoded as text.
type DecodeError struct {
	Len int
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %d bytes discarded", ErrInvalidEncoding, e.Len)
}

// Unwrap returns ErrInvalidEncoding.
func (e *DecodeError) Unwrap() error {
	return ErrInvalidEncoding
}

// FrameMismatchError reports a bare line feed in the receive buffer.
type FrameMismatchError struct {
	// Offset of the bare '\n' in the receive buffer.
	Offset int
}

// Error implements error.
func (e *FrameMismatchError) Error() string {
	return fmt.Sprintf("%v: bare line feed at offset %d", ErrFrameMismatch, e.Offset)
}

// Unwrap returns ErrFrameMismatch.
func (e *FrameMismatchError) Unwrap() error {
	return ErrFrameMismatch
}
