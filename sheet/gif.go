package sheet

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"

	"github.com/bradfitz/iter"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
)

// Sequence returns the order in which the frames of a state are shown for
// one loop: 0..n-1, followed by n-2..1 for rewinding states.
func Sequence(frames int, rewind bool) []int {
	seq := make([]int, 0, 2*frames)
	for i := range iter.N(frames) {
		seq = append(seq, i)
	}
	if rewind {
		for i := frames - 2; i > 0; i-- {
			seq = append(seq, i)
		}
	}
	return seq
}

// GIF renders one direction of a state as an animated GIF.
//
// Delays are in ticks (tenths of a second); a delay of zero is shown as one
// tick.
func (s *Sheet) GIF(state string, dir int) (*gif.GIF, error) {
	st, ok := s.md.Lookup(state)
	if !ok {
		return nil, errors.Errorf("sheet: no state %q", state)
	}
	if st.Frames() == 0 {
		return nil, errors.Errorf("sheet: state %q has no frames", state)
	}

	g := &gif.GIF{BackgroundIndex: 0}
	q := quantize.MedianCutQuantizer{}
	for _, fr := range Sequence(st.Frames(), st.Rewind) {
		img, err := s.Frame(state, dir, fr)
		if err != nil {
			return nil, err
		}

		// Index 0 is transparent so that the empty image defaults to it.
		pal := append(color.Palette{color.Transparent}, q.Quantize(make(color.Palette, 0, 255), img)...)
		p := image.NewPaletted(img.Bounds(), pal)
		draw.Draw(p, p.Bounds(), img, image.Point{}, draw.Over)

		delay := st.Delays[fr]
		if delay <= 0 {
			delay = 1
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, delay*10) // ticks to 1/100s
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return g, nil
}
