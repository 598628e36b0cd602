package rawlog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the size of the fixed record header:
// tag(1) timestamp(4) id(4) speed(4) length(1).
const HeaderSize = 14

const (
	offTag       = 0
	offTimestamp = 1
	offID        = 5
	offSpeed     = 9
	offLength    = 13
)

// ErrTruncated is returned by Decoder.Next when the stream ends inside a
// record. A capture interrupted mid-write ends this way, so callers treat it
// as the end of the log rather than a failure.
var ErrTruncated = errors.New("truncated record")

// Decoder reads raw log frames from an input stream, one record at a time.
type Decoder struct {
	reader *bufio.Reader
	header [HeaderSize]byte
	offset int64
	err    error
}

// NewDecoder creates a new Decoder that consumes data from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReader(r)}
}

// Next reads the next frame from the stream.
// It returns io.EOF when the stream ends on a record boundary and
// ErrTruncated when it ends inside a header or payload. Once Next has
// returned an error every later call returns the same error.
func (d *Decoder) Next() (*Frame, error) {
	if d.err != nil {
		return nil, d.err
	}
	f, err := d.readFrame()
	if err != nil {
		d.err = err
		return nil, err
	}
	d.offset += int64(HeaderSize) + int64(f.Length)
	return f, nil
}

// Offset returns the number of bytes consumed by fully decoded frames.
func (d *Decoder) Offset() int64 {
	return d.offset
}

func (d *Decoder) readFrame() (*Frame, error) {
	h := d.header[:]
	if _, err := io.ReadFull(d.reader, h); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, ErrTruncated
		default:
			return nil, fmt.Errorf("reading header at offset %d: %w", d.offset, err)
		}
	}

	length := h[offLength]
	data := make([]byte, length)
	if _, err := io.ReadFull(d.reader, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, fmt.Errorf("reading %d byte payload at offset %d: %w", length, d.offset+HeaderSize, err)
	}

	return &Frame{
		Tag:       h[offTag],
		Interface: InterfaceFromTag(h[offTag]),
		Timestamp: binary.BigEndian.Uint32(h[offTimestamp:]),
		ID:        binary.BigEndian.Uint32(h[offID:]),
		Speed:     binary.BigEndian.Uint32(h[offSpeed:]),
		Length:    length,
		Data:      data,
	}, nil
}
