package comm

import (
	"bytes"
	"unicode/utf8"
)

var terminator = []byte(Terminator)

// Decoder reassembles received bytes into frames.
// The zero value is ready to use. It's not safe for concurrent use.
type Decoder struct {
	buf []byte
	// 1-based offset of the bare line feed last reported, 0 if none.
	reported int
}

// Feed appends received bytes to the buffer.
// A chunk which is not valid UTF-8 is discarded entirely and
// a *DecodeError is returned. The buffer is left untouched.
func (d *Decoder) Feed(p []byte) error {
	if !utf8.Valid(p) {
		return &DecodeError{Len: len(p)}
	}
	d.buf = append(d.buf, p...)
	return nil
}

// Drain extracts all complete frames from the buffer in arrival order,
// without terminators. Incomplete data stays buffered for later calls.
//
// If the remaining buffer contains a line feed but no "\r\n", the frames
// extracted so far are returned with a *FrameMismatchError whose Offset
// is the first bare line feed. The pending bytes are kept, so a later
// "\r\n" still completes the frame, bare line feeds included.
//
// The mismatch is reported once per first bare line feed: further drains
// return no error until that line feed is consumed by a complete frame.
// Bare line feeds received behind it are not reported on their own,
// they end up in the same frame; the next mismatch is reported once a
// bare line feed is first in the remaining buffer.
func (d *Decoder) Drain() (frames []string, err error) {
	for {
		pos := bytes.Index(d.buf, terminator)
		if pos < 0 {
			break
		}
		frames = append(frames, string(d.buf[:pos]))
		d.consume(pos + len(terminator))
	}
	if pos := bytes.IndexByte(d.buf, '\n'); pos >= 0 && pos+1 != d.reported {
		d.reported = pos + 1
		err = &FrameMismatchError{Offset: pos}
	}
	return
}

// Buffered returns the number of pending bytes.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Reset drops all pending bytes.
func (d *Decoder) Reset() {
	d.buf, d.reported = d.buf[:0], 0
}

func (d *Decoder) consume(n int) {
	rest := copy(d.buf, d.buf[n:])
	d.buf = d.buf[:rest]
	if d.reported -= n; d.reported < 0 {
		d.reported = 0
	}
}
