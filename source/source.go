// Package source adapts arbitrary byte streams into the single pull-based
// read operation used by the container reader.
//
// Nothing in this package interprets the bytes; end-of-stream and I/O
// errors of the underlying stream are passed through as they are.
package source

import (
	"bytes"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Source is anything that can fill a buffer with the next bytes of a stream.
//
// It has the same contract as io.Reader, so any reader is a Source.
type Source interface {
	Read(buf []byte) (int, error)
}

// ReadCloser is a Source which holds a resource that should be released.
type ReadCloser interface {
	Source
	io.Closer
}

// Func turns a read callback into a Source.
type Func func(buf []byte) (int, error)

// Read calls f.
func (f Func) Read(buf []byte) (int, error) {
	return f(buf)
}

// FromReader wraps a reader of any concrete type.
func FromReader(r io.Reader) Source {
	return Func(r.Read)
}

// Bytes returns a Source reading from an in-memory buffer.
func Bytes(b []byte) Source {
	return bytes.NewReader(b)
}

// Open opens a file as a Source. Reads after Close fail with an error
// wrapping os.ErrClosed.
func Open(path string) (ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "source: opening %q", path)
	}
	glog.V(2).Infof("source.Open(%q)", path)
	return f, nil
}

// ReadFull reads exactly len(buf) bytes from src.
//
// It returns io.EOF if nothing was read, and io.ErrUnexpectedEOF if the
// stream ended part way through. Other errors are returned unchanged.
func ReadFull(src Source, buf []byte) (int, error) {
	return io.ReadFull(src, buf)
}
