package rawlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Output formats accepted by NewFrameWriter.
const (
	FormatCSV  = "csv"
	FormatCBOR = "cbor"
)

// ErrUnsupportedFormat is returned by NewFrameWriter for an unknown format name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// FrameWriter is a sink for decoded frames.
type FrameWriter interface {
	WriteFrame(f *Frame) error
	Flush() error
}

// NewFrameWriter returns the sink for the named output format.
func NewFrameWriter(format string, w io.Writer) (FrameWriter, error) {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return NewRowWriter(w), nil
	case FormatCBOR:
		return NewCBORWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// RowWriter writes one text line per frame.
type RowWriter struct {
	w   *bufio.Writer
	buf []byte
}

func NewRowWriter(w io.Writer) *RowWriter {
	return &RowWriter{w: bufio.NewWriter(w)}
}

func (rw *RowWriter) WriteFrame(f *Frame) error {
	rw.buf = AppendRow(rw.buf[:0], f)
	_, err := rw.w.Write(rw.buf)
	return err
}

func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}

// CBORWriter writes frames as a CBOR sequence, one map per frame.
type CBORWriter struct {
	w   *bufio.Writer
	enc *cbor.Encoder
}

func NewCBORWriter(w io.Writer) *CBORWriter {
	bw := bufio.NewWriter(w)
	return &CBORWriter{w: bw, enc: cbor.NewEncoder(bw)}
}

func (cw *CBORWriter) WriteFrame(f *Frame) error {
	if err := cw.enc.Encode(f); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	return nil
}

func (cw *CBORWriter) Flush() error {
	return cw.w.Flush()
}

// ReadCBORFrames decodes a CBOR sequence written by CBORWriter.
func ReadCBORFrames(r io.Reader) ([]*Frame, error) {
	dec := cbor.NewDecoder(r)
	var frames []*Frame
	for {
		f := &Frame{}
		if err := dec.Decode(f); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, fmt.Errorf("decoding frame %d: %w", len(frames), err)
		}
		f.Interface = InterfaceFromTag(f.Tag)
		if f.Data == nil {
			f.Data = []byte{}
		}
		frames = append(frames, f)
	}
}
