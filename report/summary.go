// Package report aggregates decoded CAN frames into capture summaries and
// cross-log comparisons.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"

	"canlog/v2/rawlog"
)

// IDKey identifies a CAN ID on a given interface.
type IDKey struct {
	Interface rawlog.Interface
	ID        uint32
}

func (k IDKey) String() string {
	return fmt.Sprintf("%s 0x%x", k.Interface.Bus(), k.ID)
}

func (k IDKey) less(o IDKey) bool {
	if k.ID == o.ID {
		return k.Interface < o.Interface
	}
	return k.ID < o.ID
}

// Summary collects capture statistics. Observe is meant to be passed to
// rawlog.Convert as an observer.
type Summary struct {
	Frames       int
	PayloadBytes int
	Truncated    bool
	MinTimestamp uint32
	MaxTimestamp uint32

	interfaces map[rawlog.Interface]int
	ids        map[IDKey]int
}

func NewSummary() *Summary {
	return &Summary{
		MinTimestamp: math.MaxUint32,
		interfaces:   make(map[rawlog.Interface]int),
		ids:          make(map[IDKey]int),
	}
}

// Observe records one frame.
func (s *Summary) Observe(f *rawlog.Frame) {
	s.Frames++
	s.PayloadBytes += len(f.Data)
	s.interfaces[f.Interface]++
	s.ids[IDKey{Interface: f.Interface, ID: f.ID}]++

	if f.Timestamp < s.MinTimestamp {
		s.MinTimestamp = f.Timestamp
	}
	if f.Timestamp > s.MaxTimestamp {
		s.MaxTimestamp = f.Timestamp
	}
}

// InterfaceCount returns the number of frames seen on iface.
func (s *Summary) InterfaceCount(iface rawlog.Interface) int {
	return s.interfaces[iface]
}

// IDCount returns the number of frames seen with the given ID on iface.
func (s *Summary) IDCount(iface rawlog.Interface, id uint32) int {
	return s.ids[IDKey{Interface: iface, ID: id}]
}

// DistinctIDs returns the number of distinct (interface, ID) pairs.
func (s *Summary) DistinctIDs() int {
	return len(s.ids)
}

// DurationMs returns the time between the first and last frame in
// milliseconds. Timestamps are microseconds.
func (s *Summary) DurationMs() float64 {
	if s.Frames == 0 || s.MaxTimestamp < s.MinTimestamp {
		return 0
	}
	return float64(s.MaxTimestamp-s.MinTimestamp) / 1000
}

// Print writes a human-readable summary to w.
func (s *Summary) Print(w io.Writer) {
	title := color.New(color.FgHiBlue, color.Bold)
	warn := color.New(color.FgYellow)

	fmt.Fprintln(w, "===================================================")
	title.Fprintln(w, "📊 Capture Summary")
	if s.Frames == 0 {
		fmt.Fprintln(w, "   No complete frames decoded")
	} else {
		fmt.Fprintf(w, "   Duration: %s\n", FormatDuration(s.DurationMs()))
		fmt.Fprintf(w, "   From: %d to %d µs\n", s.MinTimestamp, s.MaxTimestamp)
	}
	fmt.Fprintf(w, "   Frames: %d (%d payload bytes)\n", s.Frames, s.PayloadBytes)
	for _, iface := range []rawlog.Interface{rawlog.CAN1Standard, rawlog.CAN1Extended, rawlog.CAN2Standard, rawlog.CAN2Extended, rawlog.Unknown} {
		if n := s.interfaces[iface]; n > 0 {
			fmt.Fprintf(w, "   %-16s %d\n", iface.String()+":", n)
		}
	}
	if s.Truncated {
		warn.Fprintln(w, "   ⚠️ Log ends with a truncated record")
	}

	if len(s.ids) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 51))
		title.Fprintf(w, "🔖 CAN IDs (%d)\n", len(s.ids))
		keys := make([]IDKey, 0, len(s.ids))
		for k := range s.ids {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
		for _, k := range keys {
			fmt.Fprintf(w, "   %-16s %d\n", k.String(), s.ids[k])
		}
	}
	fmt.Fprintln(w, "===================================================")
}

// FormatDuration formats milliseconds to a human-readable string
func FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2f ms", ms)
	}

	seconds := ms / 1000
	if seconds < 60 {
		return fmt.Sprintf("%.2f sec", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		secs := int(seconds) % 60
		return fmt.Sprintf("%d min %d sec", int(minutes), secs)
	}

	hours := minutes / 60
	mins := int(minutes) % 60
	return fmt.Sprintf("%d hour %d min", int(hours), mins)
}
