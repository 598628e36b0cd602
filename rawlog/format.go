package rawlog

import "strconv"

// AppendRow appends the parsed log line for f to dst:
//
//	timestamp, bus, format, speed, 0xid, length[, 0xbyte...]\n
//
// Hex values are lowercase without zero padding.
func AppendRow(dst []byte, f *Frame) []byte {
	dst = strconv.AppendUint(dst, uint64(f.Timestamp), 10)
	dst = append(dst, ", "...)
	dst = append(dst, f.Interface.Bus()...)
	dst = append(dst, ", "...)
	dst = append(dst, f.Interface.Format()...)
	dst = append(dst, ", "...)
	dst = strconv.AppendUint(dst, uint64(f.Speed), 10)
	dst = append(dst, ", 0x"...)
	dst = strconv.AppendUint(dst, uint64(f.ID), 16)
	dst = append(dst, ", "...)
	dst = strconv.AppendUint(dst, uint64(len(f.Data)), 10)
	for _, b := range f.Data {
		dst = append(dst, ", 0x"...)
		dst = strconv.AppendUint(dst, uint64(b), 16)
	}
	return append(dst, '\n')
}

// FormatRow returns the parsed log line for f, including the trailing newline.
func FormatRow(f *Frame) string {
	return string(AppendRow(make([]byte, 0, 48+5*len(f.Data)), f))
}
