package dmi

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-dmi/pngmeta"
	"badc0de.net/pkg/go-dmi/source"
)

// Load reads the metadata of the .dmi file at path.
//
// Errors from the container reader (pngmeta) and from Parse are returned
// wrapped; use errors.Is with the pngmeta and dmi error kinds to tell them
// apart.
func Load(path string) (*Metadata, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md, err := LoadFrom(f)
	if err != nil {
		return nil, errors.Wrapf(err, "dmi: loading %q", path)
	}
	return md, nil
}

// LoadFrom reads the metadata from a source positioned at the start of a PNG
// container.
func LoadFrom(src source.Source) (*Metadata, error) {
	txt, err := pngmeta.Open(src)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("dmi: found description in %s chunk, %d bytes", txt.Chunk, len(txt.Text))

	md, err := Parse(txt.Text)
	if err != nil {
		return nil, err
	}
	md.imageWidth = int(txt.Header.Width)
	md.imageHeight = int(txt.Header.Height)
	return md, nil
}

// LoadAll loads every passed file concurrently. Each file gets its own
// source, reader and Metadata. The results are in the order of paths; if any
// load fails, the first error is returned and the remaining loads are
// abandoned once they next check ctx.
func LoadAll(ctx context.Context, paths ...string) ([]*Metadata, error) {
	out := make([]*Metadata, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			md, err := Load(path)
			if err != nil {
				return err
			}
			out[i] = md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
