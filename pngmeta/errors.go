package pngmeta

import (
	"fmt"
)

// Kind classifies a ContainerError. Each Kind is itself an error, so callers
// can test for it with errors.Is(err, pngmeta.ErrMetadataNotFound).
type Kind int

const (
	ErrNotAContainer Kind = iota + 1
	ErrTruncatedStream
	ErrMetadataNotFound
	ErrCorruptChunk
)

func (k Kind) Error() string {
	switch k {
	case ErrNotAContainer:
		return "not a png container"
	case ErrTruncatedStream:
		return "truncated png stream"
	case ErrMetadataNotFound:
		return "metadata not found"
	case ErrCorruptChunk:
		return "corrupt png chunk"
	default:
		return fmt.Sprintf("container error kind %d", int(k))
	}
}

// ContainerError is returned by Open and Keys for every failure.
type ContainerError struct {
	Kind Kind

	// Chunk is the four-letter type of the chunk being read, if any.
	Chunk string

	// Err is the underlying I/O or decompression error, if any.
	Err error
}

func (e *ContainerError) Error() string {
	msg := "pngmeta: " + e.Kind.Error()
	if e.Chunk != "" {
		msg += " (chunk " + e.Chunk + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContainerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func containerError(kind Kind, chunk string, err error) error {
	return &ContainerError{Kind: kind, Chunk: chunk, Err: err}
}
