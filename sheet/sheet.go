// Package sheet cuts the frames of a .dmi sprite sheet out of its image,
// using the frame positions from the sheet's metadata.
//
// Frames are laid out left to right, top to bottom, in cells of the size
// declared in the metadata. A state's frames start at its first frame
// position and are stored frame-major: every direction of the first frame,
// then every direction of the second, and so on.
package sheet

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/source"
)

// Sheet is a decoded sprite sheet together with its metadata.
type Sheet struct {
	img image.Image
	md  *dmi.Metadata

	cols, rows int
}

// New combines a decoded image with its metadata.
func New(img image.Image, md *dmi.Metadata) (*Sheet, error) {
	if md == nil {
		return nil, errors.New("sheet: nil metadata")
	}
	if md.Width() <= 0 || md.Height() <= 0 {
		return nil, errors.Errorf("sheet: invalid frame size %dx%d", md.Width(), md.Height())
	}
	size := img.Bounds().Size()
	s := &Sheet{
		img:  img,
		md:   md,
		cols: size.X / md.Width(),
		rows: size.Y / md.Height(),
	}
	if s.cols*s.rows < md.FrameCount() {
		return nil, errors.Errorf("sheet: %dx%d image holds %d frames of %dx%d, metadata declares %d",
			size.X, size.Y, s.cols*s.rows, md.Width(), md.Height(), md.FrameCount())
	}
	glog.V(2).Infof("sheet: %d columns, %d rows, %d frames declared", s.cols, s.rows, md.FrameCount())
	return s, nil
}

// Decode reads a whole .dmi file from r, decoding both the metadata and
// the pixels.
func Decode(r io.Reader) (*Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "sheet: reading")
	}
	md, err := dmi.LoadFrom(source.Bytes(b))
	if err != nil {
		return nil, errors.Wrap(err, "sheet: reading metadata")
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "sheet: decoding image")
	}
	return New(img, md)
}

// Load decodes the .dmi file at path.
func Load(path string) (*Sheet, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", path)
	}
	return s, nil
}

// Metadata returns the sheet's metadata.
func (s *Sheet) Metadata() *dmi.Metadata {
	return s.md
}

// Image returns the whole sheet.
func (s *Sheet) Image() image.Image {
	return s.img
}

// Capacity returns how many frames fit in the image.
func (s *Sheet) Capacity() int {
	return s.cols * s.rows
}

// Rect returns the rectangle of the image holding the frame at position idx
// of the sheet's frame sequence.
func (s *Sheet) Rect(idx int) image.Rectangle {
	w, h := s.md.Width(), s.md.Height()
	col, row := idx%s.cols, idx/s.cols
	return image.Rect(col*w, row*h, (col+1)*w, (row+1)*h).Add(s.img.Bounds().Min)
}

// FrameAt returns a copy of the frame at position idx, with its origin at
// (0, 0).
func (s *Sheet) FrameAt(idx int) (image.Image, error) {
	if idx < 0 || idx >= s.Capacity() {
		return nil, errors.Errorf("sheet: frame %d out of range [0,%d)", idx, s.Capacity())
	}
	r := s.Rect(idx)
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(img, img.Bounds(), s.img, r.Min, draw.Src)
	return img, nil
}

// Frame returns the passed animation frame of a state, facing dir.
func (s *Sheet) Frame(state string, dir, frame int) (image.Image, error) {
	st, ok := s.md.Lookup(state)
	if !ok {
		return nil, errors.Errorf("sheet: no state %q", state)
	}
	if dir < 0 || dir >= st.Dirs {
		return nil, errors.Errorf("sheet: state %q has %d dirs, asked for %d", state, st.Dirs, dir)
	}
	if frame < 0 || frame >= st.Frames() {
		return nil, errors.Errorf("sheet: state %q has %d frames, asked for %d", state, st.Frames(), frame)
	}
	return s.FrameAt(st.FrameIndex(dir, frame))
}
