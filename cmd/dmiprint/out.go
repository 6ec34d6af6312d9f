package main

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/imageprint"
	"badc0de.net/pkg/go-dmi/sheet"
)

func printFrames(w io.Writer, mode imageprint.Mode, sh *sheet.Sheet, state string, dir, frame int) error {
	st, ok := sh.Metadata().Lookup(state)
	if !ok {
		return errors.Errorf("no state %q", state)
	}
	frames := []int{frame}
	if frame < 0 {
		frames = sheet.Sequence(st.Frames(), false)
	}
	for _, fr := range frames {
		img, err := sh.Frame(state, dir, fr)
		if err != nil {
			return err
		}
		delay := 0
		if fr < len(st.Delays) {
			delay = st.Delays[fr]
		}
		fmt.Fprintf(w, "%s dir %d frame %d, delay %d\n", state, dir, fr, delay)
		out(w, mode, img, fmt.Sprintf("%s-%d-%d.png", state, dir, fr))
	}
	return nil
}

func out(w io.Writer, mode imageprint.Mode, img image.Image, name string) {
	if *downsize {
		termSize, err := getTermSize()
		if err == nil {
			if (termSize.XPixel != 0 && termSize.YPixel != 0) && (mode == imageprint.ModeRasTerm || mode == imageprint.ModeITerm) {
				// Images drawn as images can use the pixel size; anything else draws two columns per pixel.
				img = resize.Thumbnail(termSize.XPixel/2, termSize.YPixel/2, img, resize.NearestNeighbor)
			} else {
				img = resize.Thumbnail(termSize.Cols/2, termSize.Rows, img, resize.NearestNeighbor)
			}
		}
	}
	imageprint.Print(w, mode, img, name, *blanks)
}

func writeGIF(path string, sh *sheet.Sheet, state string, dir int) error {
	g, err := sh.GIF(state, dir)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %q", path)
	}
	return errors.Wrapf(f.Close(), "closing %q", path)
}
