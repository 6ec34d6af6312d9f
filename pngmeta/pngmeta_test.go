package pngmeta

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"badc0de.net/pkg/flagutil/v1"

	"badc0de.net/pkg/go-dmi/source"
	"badc0de.net/pkg/go-dmi/ttesting"
)

func TestMain(m *testing.M) {
	// make -args -v=3 -logtostderr work.
	flagutil.Parse()
	os.Exit(m.Run())
}

const desc = "# BEGIN DMI\nversion = 4.0\n\twidth = 32\n\theight = 32\n# END DMI\n"

func TestOpen(t *testing.T) {
	img := ttesting.Sheet(64, 32, 32, 32)
	for _, tc := range []struct {
		name  string
		chunk ttesting.Chunk
	}{
		{"tEXt", ttesting.TEXt(DescriptionKey, desc)},
		{"zTXt", ttesting.ZTXt(t, DescriptionKey, desc)},
		{"iTXt", ttesting.ITXt(t, DescriptionKey, desc, false)},
		{"iTXt compressed", ttesting.ITXt(t, DescriptionKey, desc, true)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := ttesting.BuildPNG(t, img, tc.chunk)
			txt, err := Open(source.Bytes(b))
			if err != nil {
				t.Fatalf("failed to open container: %s", err)
			}
			ttesting.AssertEqualString(t, "text", txt.Text, desc)
			ttesting.AssertEqualString(t, "key", txt.Key, DescriptionKey)
			ttesting.AssertEqualString(t, "chunk", txt.Chunk, tc.chunk.Type)
			ttesting.AssertEqualInt(t, "width", int(txt.Header.Width), 64)
			ttesting.AssertEqualInt(t, "height", int(txt.Header.Height), 32)
		})
	}
}

func TestOpenFirstMatchWins(t *testing.T) {
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32),
		ttesting.TEXt("Software", "something"),
		ttesting.ZTXt(t, DescriptionKey, "first"),
		ttesting.TEXt(DescriptionKey, "second"),
	)
	txt, err := Open(source.Bytes(b))
	if err != nil {
		t.Fatalf("failed to open container: %s", err)
	}
	ttesting.AssertEqualString(t, "text", txt.Text, "first")
}

func TestOpenAfterImageData(t *testing.T) {
	late := ttesting.ZTXt(t, DescriptionKey, desc)
	late.AfterIDAT = true
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), ttesting.TEXt("Software", "paint"), late)
	txt, err := Open(source.Bytes(b))
	if err != nil {
		t.Fatalf("failed to open container: %s", err)
	}
	ttesting.AssertEqualString(t, "text", txt.Text, desc)

	early := ttesting.TEXt(DescriptionKey, "early")
	b = ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), late, early)
	if txt, err = Open(source.Bytes(b)); err != nil {
		t.Fatalf("failed to open container: %s", err)
	}
	ttesting.AssertEqualString(t, "text ahead of image data wins", txt.Text, "early")
}

func TestOpenKeyIsExact(t *testing.T) {
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32),
		ttesting.TEXt("description", desc),
		ttesting.TEXt("Description ", desc),
	)
	_, err := Open(source.Bytes(b))
	if !errors.Is(err, ErrMetadataNotFound) {
		t.Errorf("got %v; want ErrMetadataNotFound", err)
	}
}

func TestOpenNotAContainer(t *testing.T) {
	_, err := Open(source.Bytes([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")))
	if !errors.Is(err, ErrNotAContainer) {
		t.Fatalf("got %v; want ErrNotAContainer", err)
	}
	var cerr *ContainerError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %T; want *ContainerError", err)
	}
	ttesting.AssertEqualInt(t, "kind", int(cerr.Kind), int(ErrNotAContainer))
}

func TestOpenTruncated(t *testing.T) {
	full := ttesting.DMI(t, desc)
	for _, tc := range []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"short signature", 5},
		{"signature only", 8},
		{"inside IHDR", 8 + 8 + 6},
		{"inside description", 8 + 25 + 12},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open(source.Bytes(full[:tc.n]))
			if !errors.Is(err, ErrTruncatedStream) {
				t.Errorf("got %v; want ErrTruncatedStream", err)
			}
		})
	}
}

func TestOpenMetadataNotFound(t *testing.T) {
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), ttesting.TEXt("Software", "paint"))
	_, err := Open(source.Bytes(b))
	if !errors.Is(err, ErrMetadataNotFound) {
		t.Errorf("got %v; want ErrMetadataNotFound", err)
	}
}

func TestOpenBadCRC(t *testing.T) {
	c := ttesting.TEXt(DescriptionKey, desc)
	c.BadCRC = true
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), c)
	_, err := Open(source.Bytes(b))
	if !errors.Is(err, ErrCorruptChunk) {
		t.Errorf("got %v; want ErrCorruptChunk", err)
	}
}

func TestOpenBadCompression(t *testing.T) {
	data := append([]byte(DescriptionKey), 0, 0, 'n', 'o', 'p', 'e')
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), ttesting.Chunk{Type: "zTXt", Data: data})
	_, err := Open(source.Bytes(b))
	if !errors.Is(err, ErrCorruptChunk) {
		t.Errorf("got %v; want ErrCorruptChunk", err)
	}
}

func TestOpenInflatedTextTooLarge(t *testing.T) {
	defer func(n int) { maxTextSize = n }(maxTextSize)
	maxTextSize = len(desc)

	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), ttesting.ZTXt(t, DescriptionKey, desc))
	if _, err := Open(source.Bytes(b)); err != nil {
		t.Fatalf("text at the limit: %s", err)
	}

	b = ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), ttesting.ZTXt(t, DescriptionKey, desc+"\n"))
	_, err := Open(source.Bytes(b))
	if !errors.Is(err, ErrCorruptChunk) {
		t.Errorf("got %v; want ErrCorruptChunk", err)
	}
}

func TestOpenFirstChunkMustBeIHDR(t *testing.T) {
	b := &bytes.Buffer{}
	b.Write(Signature[:])
	ttesting.WriteChunk(b, ttesting.TEXt(DescriptionKey, desc))
	_, err := Open(source.Bytes(b.Bytes()))
	if !errors.Is(err, ErrCorruptChunk) {
		t.Errorf("got %v; want ErrCorruptChunk", err)
	}
}

func TestOpenIOError(t *testing.T) {
	boom := errors.New("connection reset")
	full := source.Bytes(ttesting.DMI(t, desc))
	read := 0
	src := source.Func(func(buf []byte) (int, error) {
		if read >= 20 {
			return 0, boom
		}
		if len(buf) > 20-read {
			buf = buf[:20-read]
		}
		n, err := full.Read(buf)
		read += n
		return n, err
	})

	_, err := Open(src)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v; want %v", err, boom)
	}
	var cerr *ContainerError
	if errors.As(err, &cerr) {
		t.Errorf("I/O error reported as container error %v", cerr)
	}
}

func TestKeys(t *testing.T) {
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32),
		ttesting.TEXt("Software", "paint"),
		ttesting.ZTXt(t, DescriptionKey, desc),
		ttesting.ITXt(t, "Comment", "hi", false),
	)
	keys, err := Keys(source.Bytes(b))
	if err != nil {
		t.Fatalf("failed to list keys: %s", err)
	}
	ttesting.AssertEqualInt(t, "key count", len(keys), 3)
	if len(keys) == 3 {
		ttesting.AssertEqualString(t, "first key", keys[0], "Software")
		ttesting.AssertEqualString(t, "second key", keys[1], DescriptionKey)
		ttesting.AssertEqualString(t, "third key", keys[2], "Comment")
	}
}

func TestLatin1(t *testing.T) {
	ttesting.AssertEqualString(t, "ascii", latin1([]byte("idle")), "idle")
	ttesting.AssertEqualString(t, "high bytes", latin1([]byte{'c', 0xE9}), "cé")
}
