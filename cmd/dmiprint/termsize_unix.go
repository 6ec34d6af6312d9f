//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

type termSize struct {
	Rows, Cols     uint
	XPixel, YPixel uint
}

var kittySizeReply = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

func getTermSize() (termSize, error) {
	f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666)
	if err != nil {
		return fallbackTermSize()
	}
	defer f.Close()

	sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return fallbackTermSize()
	}
	ts := termSize{Rows: uint(sz.Row), Cols: uint(sz.Col), XPixel: uint(sz.Xpixel), YPixel: uint(sz.Ypixel)}
	if ts.XPixel == 0 && ts.YPixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
		ts.XPixel, ts.YPixel = kittyPixelSize(f)
	}
	return ts, nil
}

// kittyPixelSize asks the terminal for its size in pixels with CSI 14 t.
// It returns zeroes if there is no usable reply.
func kittyPixelSize(f *os.File) (uint, uint) {
	state, err := terminal.MakeRaw(int(f.Fd()))
	if err != nil {
		return 0, 0
	}
	defer terminal.Restore(int(f.Fd()), state)

	fmt.Fprint(f, "\033[14t")
	// TODO: time out if the terminal never replies.
	reply, err := bufio.NewReader(f).ReadString('t')
	if err != nil {
		return 0, 0
	}
	m := kittySizeReply.FindStringSubmatch(reply)
	if len(m) != 3 {
		return 0, 0
	}
	height, errH := strconv.Atoi(m[1])
	width, errW := strconv.Atoi(m[2])
	if errH != nil || errW != nil {
		return 0, 0
	}
	return uint(width), uint(height)
}

func fallbackTermSize() (termSize, error) {
	w, h, err := terminal.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		return termSize{}, err
	}
	return termSize{Rows: uint(h), Cols: uint(w)}, nil
}
