package ttesting

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// Chunk is an extra chunk to be spliced into a generated PNG, right after
// IHDR unless AfterIDAT is set.
type Chunk struct {
	Type string
	Data []byte

	// AfterIDAT places the chunk between the image data and IEND.
	AfterIDAT bool

	// BadCRC stores a deliberately wrong checksum.
	BadCRC bool
}

// TEXt returns an uncompressed text chunk.
func TEXt(key, text string) Chunk {
	data := append([]byte(key), 0)
	data = append(data, text...)
	return Chunk{Type: "tEXt", Data: data}
}

// ZTXt returns a zlib compressed text chunk, as written by BYOND.
func ZTXt(t *testing.T, key, text string) Chunk {
	t.Helper()
	data := append([]byte(key), 0, 0)
	data = append(data, deflate(t, text)...)
	return Chunk{Type: "zTXt", Data: data}
}

// ITXt returns an international text chunk, compressed or not.
func ITXt(t *testing.T, key, text string, compressed bool) Chunk {
	t.Helper()
	data := append([]byte(key), 0)
	if compressed {
		data = append(data, 1, 0)
	} else {
		data = append(data, 0, 0)
	}
	data = append(data, "en"...)
	data = append(data, 0)
	data = append(data, key...) // translated keyword
	data = append(data, 0)
	if compressed {
		data = append(data, deflate(t, text)...)
	} else {
		data = append(data, text...)
	}
	return Chunk{Type: "iTXt", Data: data}
}

func deflate(t *testing.T, text string) []byte {
	t.Helper()
	b := &bytes.Buffer{}
	zw := zlib.NewWriter(b)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatalf("deflating text: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing deflater: %v", err)
	}
	return b.Bytes()
}

// Sheet returns a w*h RGBA image where every fw*fh cell is filled with a
// color derived from the cell's index, so tests can tell frames apart.
func Sheet(w, h, fw, fh int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cols := w / fw
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, CellColor((y/fh)*cols+x/fw))
		}
	}
	return img
}

// CellColor is the color Sheet uses for the cell with the passed index.
func CellColor(idx int) color.RGBA {
	return color.RGBA{R: uint8(idx), G: uint8(255 - idx), B: 0x80, A: 0xFF}
}

// BuildPNG encodes img and splices the passed chunks in after IHDR, or just
// before IEND for chunks marked AfterIDAT.
func BuildPNG(t *testing.T, img image.Image, chunks ...Chunk) []byte {
	t.Helper()
	encoded := &bytes.Buffer{}
	if err := png.Encode(encoded, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	raw := encoded.Bytes()

	// signature (8) + IHDR length, type, 13 bytes of data, crc
	const afterIHDR = 8 + 4 + 4 + 13 + 4

	// IEND: length, type, crc
	beforeIEND := len(raw) - 12

	out := &bytes.Buffer{}
	out.Write(raw[:afterIHDR])
	for _, c := range chunks {
		if !c.AfterIDAT {
			WriteChunk(out, c)
		}
	}
	out.Write(raw[afterIHDR:beforeIEND])
	for _, c := range chunks {
		if c.AfterIDAT {
			WriteChunk(out, c)
		}
	}
	out.Write(raw[beforeIEND:])
	return out.Bytes()
}

// DMI builds a small PNG carrying desc in a zTXt "Description" chunk.
func DMI(t *testing.T, desc string) []byte {
	t.Helper()
	return BuildPNG(t, Sheet(32, 32, 32, 32), ZTXt(t, "Description", desc))
}

// WriteChunk writes a single chunk including its length and checksum.
func WriteChunk(b *bytes.Buffer, c Chunk) {
	binary.Write(b, binary.BigEndian, uint32(len(c.Data)))
	b.WriteString(c.Type)
	b.Write(c.Data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(c.Type))
	crc.Write(c.Data)
	sum := crc.Sum32()
	if c.BadCRC {
		sum = ^sum
	}
	binary.Write(b, binary.BigEndian, sum)
}
