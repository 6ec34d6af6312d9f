package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"badc0de.net/pkg/go-dmi/ttesting"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	img.Set(1, 0, color.White)
	img.Set(0, 1, color.Black)
	// 1,1 stays transparent
	return img
}

func TestPrintNoColor(t *testing.T) {
	b := &bytes.Buffer{}
	PrintNoColor(b, testImage(), false)
	ttesting.AssertEqualString(t, "output", b.String(), "==##\n..  \n")
}

func TestPrint24bit(t *testing.T) {
	b := &bytes.Buffer{}
	Print24bit(b, testImage(), true)
	out := b.String()
	if !strings.Contains(out, "\x1b[48;2;255;0;0m  ") {
		t.Errorf("missing red background escape in %q", out)
	}
	ttesting.AssertEqualInt(t, "lines", strings.Count(out, "\n"), 2)
}

func TestPrint256Color(t *testing.T) {
	b := &bytes.Buffer{}
	Print256Color(b, testImage(), true)
	ttesting.AssertEqualInt(t, "lines", strings.Count(b.String(), "\n"), 2)
}

func TestParseMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Mode
	}{
		{"", Mode24bit},
		{"24bit", Mode24bit},
		{"256", Mode256Color},
		{"none", ModeNoColor},
		{"iterm", ModeITerm},
		{"rasterm", ModeRasTerm},
	} {
		got, err := ParseMode(tc.in)
		if err != nil {
			t.Errorf("ParseMode(%q): %s", tc.in, err)
			continue
		}
		ttesting.AssertEqualInt(t, tc.in, int(got), int(tc.want))
	}
	if _, err := ParseMode("vga"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}
