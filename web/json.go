package web

import (
	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/sheet"
)

// StateJSON is one state as served in meta.json.
type StateJSON struct {
	Name          string `json:"name"`
	FirstFramePos int    `json:"first_frame_pos"`
	Dirs          int    `json:"dirs"`
	Frames        int    `json:"frames"`
	Delays        []int  `json:"delays"`
	Rewind        bool   `json:"rewind,omitempty"`

	// Thumbs holds a PNG data URL of the first frame for every direction.
	Thumbs []string `json:"thumbs,omitempty"`
}

// SheetJSON is the body of meta.json.
type SheetJSON struct {
	Name       string      `json:"name"`
	Version    float64     `json:"version"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	FrameCount int         `json:"frame_count"`
	States     []StateJSON `json:"states"`
}

func stateJSON(st dmi.SpriteState) StateJSON {
	return StateJSON{
		Name:          st.Name,
		FirstFramePos: st.FirstFramePos,
		Dirs:          st.Dirs,
		Frames:        st.Frames(),
		Delays:        st.Delays,
		Rewind:        st.Rewind,
	}
}

// MetaJSON describes a sheet's states in declaration order, optionally with
// thumbnails of their first frames.
func MetaJSON(name string, sh *sheet.Sheet, thumbs bool) (*SheetJSON, error) {
	md := sh.Metadata()
	m := &SheetJSON{
		Name:       name,
		Version:    md.Version(),
		Width:      md.Width(),
		Height:     md.Height(),
		FrameCount: md.FrameCount(),
		States:     []StateJSON{},
	}
	for _, n := range md.States() {
		st, _ := md.Lookup(n)
		sj := stateJSON(st)
		if thumbs && st.Frames() > 0 {
			for d := 0; d < st.Dirs; d++ {
				img, err := sh.Frame(n, d, 0)
				if err != nil {
					return nil, err
				}
				u, err := sheet.DataURL(sheet.Thumbnail(img, 64, 64))
				if err != nil {
					return nil, err
				}
				sj.Thumbs = append(sj.Thumbs, u)
			}
		}
		m.States = append(m.States, sj)
	}
	return m, nil
}
