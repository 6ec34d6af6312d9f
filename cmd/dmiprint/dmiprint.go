// Command dmiprint prints the states of a .dmi sprite sheet and, optionally,
// draws its frames on the terminal.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/imageprint"
	"badc0de.net/pkg/go-dmi/paths"
	"badc0de.net/pkg/go-dmi/pngmeta"
	"badc0de.net/pkg/go-dmi/sheet"
	"badc0de.net/pkg/go-dmi/source"
)

var (
	state     = flag.String("state", "", "state whose frames to print; empty prints only the state table")
	dir       = flag.Int("dir", 0, "direction to print")
	frame     = flag.Int("frame", -1, "frame to print; -1 prints every frame of the state")
	format    = flag.String("format", "text", "state table format: text, yaml, json or dmi")
	keys      = flag.Bool("keys", false, "list the text chunk keys of the file instead of its states")
	printMode = flag.String("print", "24bit", "how to draw frames: 24bit, 256, none, iterm or rasterm")
	blanks    = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize  = flag.Bool("downsize", true, "whether to shrink frames to fit the terminal")
	gifPath   = flag.String("gif", "", "if set, write the animation of -state and -dir to this file")

	dmiPath string
)

func main() {
	paths.SetupFilePathFlag("icons.dmi", "dmi_path", &dmiPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if flag.NArg() > 0 {
		dmiPath = flag.Arg(0)
	}
	if dmiPath == "" {
		glog.Exit("no sprite sheet passed; use -dmi_path or pass it as an argument")
	}
	if err := run(os.Stdout, dmiPath); err != nil {
		glog.Exit(err)
	}
}

func run(w io.Writer, path string) error {
	f, err := paths.NoFindOpen(path)
	if err != nil {
		return err
	}
	b, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return errors.Wrapf(err, "reading %q", path)
	}

	if *keys {
		ks, err := pngmeta.Keys(source.Bytes(b))
		if err != nil {
			return err
		}
		for _, k := range ks {
			fmt.Fprintln(w, k)
		}
		return nil
	}

	sh, err := sheet.Decode(bytes.NewReader(b))
	if err != nil {
		return errors.Wrapf(err, "decoding %q", path)
	}
	if err := writeTable(w, *format, sh.Metadata()); err != nil {
		return err
	}

	if *state == "" {
		return nil
	}
	if *gifPath != "" {
		if err := writeGIF(*gifPath, sh, *state, *dir); err != nil {
			return err
		}
	}
	mode, err := imageprint.ParseMode(*printMode)
	if err != nil {
		return err
	}
	return printFrames(w, mode, sh, *state, *dir, *frame)
}
