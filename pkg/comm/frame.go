package comm

import (
	"io"
	"strconv"
)

// Wire markers of a frame.
const (
	StartMarker   byte   = '$'
	ChecksumDelim byte   = '*'
	Terminator    string = "\r\n"
)

const hexDigits = "0123456789ABCDEF"

// Checksum calculates the XOR of all bytes in p.
func Checksum(p []byte) byte {
	var sum byte
	for _, b := range p {
		sum ^= b
	}
	return sum
}

// Frame contains the fields of an outbound frame.
type Frame struct {
	Tag    string
	Fields []int
}

// Payload returns the comma separated tag and fields, which is the
// checksum input.
func (f *Frame) Payload() []byte {
	return f.appendPayload(make([]byte, 0, len(f.Tag)+len(f.Fields)*6))
}

// Checksum returns the checksum of the payload.
func (f *Frame) Checksum() byte {
	return Checksum(f.Payload())
}

func (f *Frame) appendPayload(b []byte) []byte {
	b = append(b, f.Tag...)
	for _, v := range f.Fields {
		b = append(b, ',')
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return b
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	b := make([]byte, 1, len(f.Tag)+len(f.Fields)*6+6)
	b[0] = StartMarker
	b = f.appendPayload(b)
	sum := Checksum(b[1:])
	b = append(b, ChecksumDelim, hexDigits[sum>>4], hexDigits[sum&0x0f])
	return append(b, Terminator...)
}

// WriteTo writes encoded bytes.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// String renders the frame without checksum and terminator.
func (f *Frame) String() string {
	return string(f.appendPayload([]byte{StartMarker}))
}
