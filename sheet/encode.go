package sheet

import (
	"bytes"
	"image"
	"image/png"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
)

// Thumbnail scales img down to fit in maxW x maxH, keeping its aspect ratio.
// Pixel art is scaled with nearest neighbour sampling.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	return resize.Thumbnail(uint(maxW), uint(maxH), img, resize.NearestNeighbor)
}

// Scale scales img by an integer factor.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	size := img.Bounds().Size()
	return resize.Resize(uint(size.X*factor), uint(size.Y*factor), img, resize.NearestNeighbor)
}

// DataURL encodes img as a PNG data URL.
func DataURL(img image.Image) (string, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return "", errors.Wrap(err, "sheet: encoding png")
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}
