package rawlog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleLog(t *testing.T) ([]byte, []*Frame) {
	t.Helper()

	frames := []*Frame{
		{Tag: TagCAN1Standard, Timestamp: 100, ID: 0x123, Speed: 50, Data: []byte{0xaa, 0xbb}},
		{Tag: TagCAN2Extended, Timestamp: 250, ID: 0x18daf110, Speed: 500000, Data: []byte{}},
		{Tag: 0x42, Timestamp: 900, ID: 0x7df, Speed: 500000, Data: []byte{0x02, 0x01, 0x0c, 0, 0, 0, 0, 0}},
	}
	var buf bytes.Buffer
	for _, f := range frames {
		f.Interface = InterfaceFromTag(f.Tag)
		f.Length = uint8(len(f.Data))
		buf.Write(EncodeFrame(f))
	}
	return buf.Bytes(), frames
}

func TestConvertRows(t *testing.T) {
	t.Parallel()

	raw, _ := sampleLog(t)
	var out bytes.Buffer
	var seen []uint32

	res, err := Convert(bytes.NewReader(raw), NewRowWriter(&out), func(f *Frame) {
		seen = append(seen, f.Timestamp)
	})
	require.NoError(t, err)
	require.Equal(t, Result{Frames: 3, Offset: int64(len(raw))}, res)
	require.Equal(t, []uint32{100, 250, 900}, seen)
	require.Equal(t, ""+
		"100, CAN1, Standard, 50, 0x123, 2, 0xaa, 0xbb\n"+
		"250, CAN2, Extended, 500000, 0x18daf110, 0\n"+
		"900, INV, INV, 500000, 0x7df, 8, 0x2, 0x1, 0xc, 0x0, 0x0, 0x0, 0x0, 0x0\n",
		out.String())
}

func TestConvertTruncatedTail(t *testing.T) {
	t.Parallel()

	raw, _ := sampleLog(t)
	partial := append(append([]byte{}, raw...), EncodeFrame(&Frame{Tag: TagCAN1Standard, Data: []byte{1, 2, 3}})[:HeaderSize+1]...)

	var out bytes.Buffer
	res, err := Convert(bytes.NewReader(partial), NewRowWriter(&out))
	require.NoError(t, err)
	require.True(t, res.Truncated)
	require.Equal(t, 3, res.Frames)
	require.EqualValues(t, len(raw), res.Offset)
	require.Equal(t, 3, strings.Count(out.String(), "\n"))
}

func TestConvertEmpty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	res, err := Convert(bytes.NewReader(nil), NewRowWriter(&out))
	require.NoError(t, err)
	require.Equal(t, Result{}, res)
	require.Empty(t, out.String())
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestConvertSinkError(t *testing.T) {
	t.Parallel()

	raw, _ := sampleLog(t)
	boom := errors.New("disk full")
	_, err := Convert(bytes.NewReader(raw), NewRowWriter(errWriter{err: boom}))
	require.ErrorIs(t, err, boom)
}

func TestCBORWriterRoundTrip(t *testing.T) {
	t.Parallel()

	raw, frames := sampleLog(t)
	var out bytes.Buffer
	w, err := NewFrameWriter("CBOR", &out)
	require.NoError(t, err)

	res, err := Convert(bytes.NewReader(raw), w)
	require.NoError(t, err)
	require.Equal(t, 3, res.Frames)

	got, err := ReadCBORFrames(&out)
	require.NoError(t, err)
	require.Equal(t, frames, got)
}

func TestNewFrameWriter(t *testing.T) {
	t.Parallel()

	w, err := NewFrameWriter("csv", &bytes.Buffer{})
	require.NoError(t, err)
	require.IsType(t, &RowWriter{}, w)

	w, err = NewFrameWriter("", &bytes.Buffer{})
	require.NoError(t, err)
	require.IsType(t, &RowWriter{}, w)

	_, err = NewFrameWriter("parquet", &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAppendFrameTooLong(t *testing.T) {
	t.Parallel()

	_, err := AppendFrame(nil, &Frame{Data: make([]byte, 256)})
	require.ErrorIs(t, err, ErrPayloadTooLong)
	require.Panics(t, func() { EncodeFrame(&Frame{Data: make([]byte, 300)}) })
}
