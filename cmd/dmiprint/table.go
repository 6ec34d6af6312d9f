package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"badc0de.net/pkg/go-dmi/dmi"
)

type stateRow struct {
	Name          string `json:"name" yaml:"name"`
	FirstFramePos int    `json:"first_frame_pos" yaml:"first_frame_pos"`
	Dirs          int    `json:"dirs" yaml:"dirs"`
	Frames        int    `json:"frames" yaml:"frames"`
	Delays        []int  `json:"delays" yaml:"delays,flow"`
	Rewind        bool   `json:"rewind,omitempty" yaml:"rewind,omitempty"`
}

type table struct {
	Version    float64    `json:"version" yaml:"version"`
	Width      int        `json:"width" yaml:"width"`
	Height     int        `json:"height" yaml:"height"`
	FrameCount int        `json:"frame_count" yaml:"frame_count"`
	States     []stateRow `json:"states" yaml:"states"`
}

func newTable(md *dmi.Metadata) table {
	t := table{
		Version:    md.Version(),
		Width:      md.Width(),
		Height:     md.Height(),
		FrameCount: md.FrameCount(),
		States:     []stateRow{},
	}
	for _, name := range md.States() {
		st, _ := md.Lookup(name)
		t.States = append(t.States, stateRow{
			Name:          st.Name,
			FirstFramePos: st.FirstFramePos,
			Dirs:          st.Dirs,
			Frames:        st.Frames(),
			Delays:        st.Delays,
			Rewind:        st.Rewind,
		})
	}
	return t
}

func writeTable(w io.Writer, format string, md *dmi.Metadata) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newTable(md)); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(newTable(md)), "encoding json")
	case "dmi":
		_, err := md.WriteTo(w)
		return err
	case "text":
		t := newTable(md)
		fmt.Fprintf(w, "version %v, %dx%d frames, %d states, %d frames in total\n", t.Version, t.Width, t.Height, len(t.States), t.FrameCount)
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "STATE\tFIRST\tDIRS\tFRAMES\tDELAYS\tREWIND")
		for _, s := range t.States {
			delays := make([]string, len(s.Delays))
			for i, d := range s.Delays {
				delays[i] = fmt.Sprint(d)
			}
			fmt.Fprintf(tw, "%q\t%d\t%d\t%d\t%s\t%v\n", s.Name, s.FirstFramePos, s.Dirs, s.Frames, strings.Join(delays, ","), s.Rewind)
		}
		return tw.Flush()
	}
	return errors.Errorf("unknown format %q", format)
}
