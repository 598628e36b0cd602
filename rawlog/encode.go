package rawlog

import (
	"encoding/binary"
	"errors"
)

// ErrPayloadTooLong is returned when a frame's payload does not fit the
// single length byte of the header.
var ErrPayloadTooLong = errors.New("payload longer than 255 bytes")

// AppendFrame appends the raw log encoding of f to dst. The header length
// byte is taken from len(f.Data); f.Length is ignored.
func AppendFrame(dst []byte, f *Frame) ([]byte, error) {
	if len(f.Data) > 0xff {
		return dst, ErrPayloadTooLong
	}
	var h [HeaderSize]byte
	h[offTag] = f.Tag
	binary.BigEndian.PutUint32(h[offTimestamp:], f.Timestamp)
	binary.BigEndian.PutUint32(h[offID:], f.ID)
	binary.BigEndian.PutUint32(h[offSpeed:], f.Speed)
	h[offLength] = byte(len(f.Data))
	dst = append(dst, h[:]...)
	return append(dst, f.Data...), nil
}

// EncodeFrame encodes a single frame into the raw log format.
// It panics if the payload is longer than 255 bytes.
func EncodeFrame(f *Frame) []byte {
	b, err := AppendFrame(make([]byte, 0, HeaderSize+len(f.Data)), f)
	if err != nil {
		panic(err)
	}
	return b
}
