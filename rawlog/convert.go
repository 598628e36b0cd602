package rawlog

import (
	"errors"
	"fmt"
	"io"
)

// Result describes a finished Convert run.
type Result struct {
	Frames    int
	Truncated bool  // the log ended inside a record
	Offset    int64 // bytes consumed by complete frames
}

// Convert decodes every frame from r and writes it to w, calling each
// observer after the frame is written. A truncated trailing record stops the
// conversion without an error; frames before it are kept.
func Convert(r io.Reader, w FrameWriter, observers ...func(*Frame)) (Result, error) {
	var res Result
	dec := NewDecoder(r)

	for {
		f, err := dec.Next()
		if err != nil {
			res.Offset = dec.Offset()
			switch {
			case errors.Is(err, io.EOF):
			case errors.Is(err, ErrTruncated):
				res.Truncated = true
			default:
				_ = w.Flush()
				return res, err
			}
			break
		}

		if err := w.WriteFrame(f); err != nil {
			return res, fmt.Errorf("writing frame %d: %w", res.Frames, err)
		}
		res.Frames++
		for _, observe := range observers {
			observe(f)
		}
	}

	if err := w.Flush(); err != nil {
		return res, fmt.Errorf("flushing output: %w", err)
	}
	return res, nil
}
