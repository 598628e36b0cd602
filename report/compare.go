package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"canlog/v2/rawlog"
)

// IDSet holds per-ID frame counts for one log.
type IDSet struct {
	Name      string
	Frames    int
	Truncated bool
	Counts    map[IDKey]int
}

// CollectIDs decodes the whole log in r and counts frames per interface and
// CAN ID. A truncated log contributes its complete frames.
func CollectIDs(name string, r io.Reader) (*IDSet, error) {
	set := &IDSet{Name: name, Counts: make(map[IDKey]int)}
	dec := rawlog.NewDecoder(r)
	for {
		f, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return set, nil
			}
			if errors.Is(err, rawlog.ErrTruncated) {
				set.Truncated = true
				return set, nil
			}
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		set.Frames++
		set.Counts[IDKey{Interface: f.Interface, ID: f.ID}]++
	}
}

// IDPattern is one CAN ID and the logs it was seen in.
type IDPattern struct {
	Key         IDKey
	Occurrences map[string]int // log name -> count
}

// Comparison classifies CAN IDs across several logs.
type Comparison struct {
	Sets        []*IDSet
	Common      []*IDPattern            // present in every log
	Unique      map[string][]*IDPattern // present in exactly one log
	Partial     []*IDPattern            // present in more than one but not all
	uniqueTotal int
}

// Compare compares CAN IDs across the given logs.
func Compare(sets ...*IDSet) *Comparison {
	patterns := make(map[IDKey]*IDPattern)
	for _, set := range sets {
		for key, n := range set.Counts {
			p, ok := patterns[key]
			if !ok {
				p = &IDPattern{Key: key, Occurrences: make(map[string]int)}
				patterns[key] = p
			}
			p.Occurrences[set.Name] += n
		}
	}

	sorted := make([]*IDSet, len(sets))
	copy(sorted, sets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	c := &Comparison{Sets: sorted, Unique: make(map[string][]*IDPattern)}
	for _, p := range patterns {
		switch {
		case len(p.Occurrences) == len(sets):
			c.Common = append(c.Common, p)
		case len(p.Occurrences) == 1:
			for name := range p.Occurrences {
				c.Unique[name] = append(c.Unique[name], p)
			}
			c.uniqueTotal++
		default:
			c.Partial = append(c.Partial, p)
		}
	}

	sortPatterns(c.Common)
	sortPatterns(c.Partial)
	for name := range c.Unique {
		sortPatterns(c.Unique[name])
	}
	return c
}

// Print writes the comparison to w.
func (c *Comparison) Print(w io.Writer) {
	title := color.New(color.FgHiBlue, color.Bold)

	fmt.Fprintln(w, "===================================================")
	title.Fprintln(w, "📊 CAN ID COMPARISON")
	fmt.Fprintln(w, "===================================================")
	fmt.Fprintln(w, "Logs analyzed:")
	for i, set := range c.Sets {
		note := ""
		if set.Truncated {
			note = ", truncated"
		}
		fmt.Fprintf(w, "  [%d] %s (%d frames, %d IDs%s)\n", i+1, set.Name, set.Frames, len(set.Counts), note)
	}

	if len(c.Common) > 0 {
		title.Fprintf(w, "\n🔗 IDs common to ALL logs (%d):\n", len(c.Common))
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for _, p := range c.Common {
			counts := make([]string, len(c.Sets))
			for i, set := range c.Sets {
				counts[i] = fmt.Sprintf("%d", p.Occurrences[set.Name])
			}
			fmt.Fprintf(w, "  %s\n", p.Key)
			fmt.Fprintf(w, "    Occurrences: [%s]\n", strings.Join(counts, ", "))
		}
	}

	for _, set := range c.Sets {
		patterns := c.Unique[set.Name]
		if len(patterns) == 0 {
			continue
		}
		title.Fprintf(w, "\n🔸 IDs UNIQUE to %s (%d):\n", set.Name, len(patterns))
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for _, p := range patterns {
			fmt.Fprintf(w, "  %s (count: %d)\n", p.Key, p.Occurrences[set.Name])
		}
	}

	if len(c.Partial) > 0 {
		title.Fprintf(w, "\n🔀 IDs in SOME logs (%d):\n", len(c.Partial))
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for _, p := range c.Partial {
			presentIn := make([]string, 0, len(p.Occurrences))
			for i, set := range c.Sets {
				if count, ok := p.Occurrences[set.Name]; ok {
					presentIn = append(presentIn, fmt.Sprintf("[%d]:%d", i+1, count))
				}
			}
			fmt.Fprintf(w, "  %s\n", p.Key)
			fmt.Fprintf(w, "    Present in: %s\n", strings.Join(presentIn, ", "))
		}
	}

	fmt.Fprintln(w, "\n===================================================")
	fmt.Fprintf(w, "📈 Summary:\n")
	fmt.Fprintf(w, "   Total distinct IDs: %d\n", len(c.Common)+c.uniqueTotal+len(c.Partial))
	fmt.Fprintf(w, "   Common to all logs: %d\n", len(c.Common))
	fmt.Fprintf(w, "   Unique to one log: %d\n", c.uniqueTotal)
	fmt.Fprintf(w, "   In some logs: %d\n", len(c.Partial))
	fmt.Fprintln(w, "===================================================")
}

func sortPatterns(patterns []*IDPattern) {
	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].Key.less(patterns[j].Key)
	})
}
