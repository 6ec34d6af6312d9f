package dmi

import (
	"slices"
)

// SpriteState describes one animation state of a sprite sheet.
type SpriteState struct {
	Name string

	// FirstFramePos is the index of the state's first frame within the
	// sheet's frame sequence.
	FirstFramePos int
	// Dirs is the number of directions each frame is drawn in.
	Dirs int
	// Delays holds one delay per frame, in ticks (tenths of a second).
	Delays []int
	// Rewind animations play forwards and then backwards instead of
	// looping.
	Rewind bool
}

// Frames returns the number of frames of the state.
func (s SpriteState) Frames() int {
	return len(s.Delays)
}

// FrameCount returns the number of sheet frames the state occupies.
func (s SpriteState) FrameCount() int {
	return len(s.Delays) * s.Dirs
}

// FrameIndex returns the position, in the sheet's frame sequence, of the
// passed animation frame drawn in the passed direction. Frames are stored
// frame-major: all directions of frame 0, then all directions of frame 1.
func (s SpriteState) FrameIndex(dir, frame int) int {
	return s.FirstFramePos + frame*s.Dirs + dir
}

// Duration returns the sum of all delays.
func (s SpriteState) Duration() int {
	total := 0
	for _, d := range s.Delays {
		total += d
	}
	return total
}

// Metadata is the parsed description of a sprite sheet: its header and its
// animation states. It is built by Parse and never modified afterwards, so
// it is safe for concurrent use. A nil *Metadata, as returned alongside a
// load error, reads as an empty one.
type Metadata struct {
	version       float64
	width, height int

	states map[string]*SpriteState
	order  []string
	frames int

	imageWidth, imageHeight int
}

func newMetadata() *Metadata {
	return &Metadata{
		states: make(map[string]*SpriteState),
	}
}

// Version returns the declared format version.
func (m *Metadata) Version() float64 {
	if m == nil {
		return 0
	}
	return m.version
}

// Width returns the width of a single frame.
func (m *Metadata) Width() int {
	if m == nil {
		return 0
	}
	return m.width
}

// Height returns the height of a single frame.
func (m *Metadata) Height() int {
	if m == nil {
		return 0
	}
	return m.height
}

// ImageSize returns the size of the whole sheet, as recorded in the
// container header. It is zero for metadata obtained with Parse.
func (m *Metadata) ImageSize() (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.imageWidth, m.imageHeight
}

// Lookup returns the state with the passed name. The returned value holds
// its own copy of the delays.
func (m *Metadata) Lookup(name string) (SpriteState, bool) {
	if m == nil {
		return SpriteState{}, false
	}
	s, ok := m.states[name]
	if !ok {
		return SpriteState{}, false
	}
	st := *s
	st.Delays = slices.Clone(s.Delays)
	return st, true
}

// States returns the state names in declaration order.
func (m *Metadata) States() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Len returns the number of states.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// FrameCount returns the total number of frames declared, which is the
// number of frames the sheet is expected to hold.
func (m *Metadata) FrameCount() int {
	if m == nil {
		return 0
	}
	return m.frames
}

// put stores s, replacing and reordering any state with the same name.
func (m *Metadata) put(s *SpriteState) {
	if _, ok := m.states[s.Name]; ok {
		m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == s.Name })
	}
	m.states[s.Name] = s
	m.order = append(m.order, s.Name)
}

// finish fills in defaults for states that never declared dirs.
func (m *Metadata) finish() {
	for _, s := range m.states {
		if s.Dirs == 0 {
			s.Dirs = 1
		}
		if s.Delays == nil {
			s.Delays = []int{}
		}
	}
}
