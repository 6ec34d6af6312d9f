package dmi

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WriteTo writes the metadata back out as a description in the layout BYOND
// uses. Parsing the output yields the same states at the same frame
// positions. Frames that only advanced the running total, such as those of a
// redeclared state's earlier record, are written as padding: a throwaway
// declaration of the next state, or an extra frames field ahead of dirs.
func (m *Metadata) WriteTo(w io.Writer) (int64, error) {
	if m == nil {
		return 0, errors.New("dmi: writing nil metadata")
	}
	cw := &countingWriter{w: w}
	b := bufio.NewWriter(cw)

	b.WriteString("# BEGIN DMI\n")
	b.WriteString("version = " + formatVersion(m.version) + "\n")
	b.WriteString("\twidth = " + strconv.Itoa(m.width) + "\n")
	b.WriteString("\theight = " + strconv.Itoa(m.height) + "\n")
	pos := 0
	for i, name := range m.order {
		s := m.states[name]
		next := m.frames
		if i+1 < len(m.order) {
			next = m.states[m.order[i+1]].FirstFramePos
		}
		if gap := s.FirstFramePos - pos; gap > 0 {
			b.WriteString("state = \"" + s.Name + "\"\n")
			writeField(b, "dirs", 1)
			writeField(b, "frames", gap)
			pos = s.FirstFramePos
		}
		pos += writeState(b, s, next-pos)
	}
	b.WriteString("# END DMI\n")

	err := b.Flush()
	return cw.n, err
}

// writeState writes s, advancing the running total by span when the
// grammar allows it and by less otherwise. It returns the advance.
func writeState(b *bufio.Writer, s *SpriteState, span int) int {
	n := len(s.Delays)
	b.WriteString("state = \"" + s.Name + "\"\n")

	var adv int
	switch {
	case span >= n*s.Dirs:
		if pad := span - n*s.Dirs; pad > 0 {
			writeField(b, "dirs", 1)
			writeField(b, "frames", pad)
		}
		writeField(b, "dirs", s.Dirs)
		writeField(b, "frames", n)
		adv = span
	case span >= n && n > 0:
		// frames read with dirs 1, then dirs raised without a second frames.
		writeField(b, "dirs", 1)
		if pad := span - n; pad > 0 {
			writeField(b, "frames", pad)
		}
		writeField(b, "frames", n)
		writeField(b, "dirs", s.Dirs)
		adv = span
	default:
		// frames ahead of dirs add nothing.
		writeField(b, "frames", n)
		writeField(b, "dirs", s.Dirs)
	}

	if n > 0 {
		delays := make([]string, n)
		for i, d := range s.Delays {
			delays[i] = strconv.Itoa(d)
		}
		b.WriteString("\tdelay = " + strings.Join(delays, ",") + "\n")
	}
	if s.Rewind {
		b.WriteString("\trewind = 1\n")
	}
	return adv
}

func writeField(b *bufio.Writer, name string, v int) {
	b.WriteString("\t" + name + " = " + strconv.Itoa(v) + "\n")
}

// String returns the description as written by WriteTo.
func (m *Metadata) String() string {
	sb := &strings.Builder{}
	m.WriteTo(sb)
	return sb.String()
}

func formatVersion(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
