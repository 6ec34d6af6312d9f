//go:build !windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

func isTermItermWez() bool {
	return rasterm.IsTermItermWez()
}

// PrintRasTerm draws an image using the RasTerm library.
//
// This should enable drawing in Kitty, iTerm/WezTerm and sixel capable
// terminals. Nothing is drawn elsewhere.
func PrintRasTerm(w io.Writer, i image.Image) {
	if rasterm.IsTermKitty() {
		rasterm.Settings{}.KittyWriteImage(w, i)
		fmt.Fprint(w, "\n")
		return
	}
	if rasterm.IsTermItermWez() {
		rasterm.Settings{}.ItermWriteImage(w, i)
		fmt.Fprint(w, "\n")
		return
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		rasterm.Settings{}.SixelWriteImage(w, Paletted(i, 64))
		fmt.Fprint(w, "\n")
		return
	}
}

// Paletted reduces an image to at most n colors.
func Paletted(i image.Image, n int) *image.Paletted {
	palettedImage := image.NewPaletted(i.Bounds(), nil)
	quantizer := gogif.MedianCutQuantizer{NumColor: n}
	quantizer.Quantize(palettedImage, i.Bounds(), i, i.Bounds().Min)
	return palettedImage
}
