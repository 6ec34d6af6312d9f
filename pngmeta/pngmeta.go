package pngmeta

import (
	"bytes"
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/source"
)

// Signature is the magic prefix of every PNG file.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// DescriptionKey is the text key under which DMI metadata is stored.
const DescriptionKey = "Description"

// MaxChunkSize bounds the declared length of a single chunk. The PNG format
// allows up to 2^31-1 bytes; anything near that in a sprite sheet is garbage.
const MaxChunkSize = 64 << 20

// Header is the content of the IHDR chunk.
type Header struct {
	Width, Height uint32
	BitDepth      uint8
	ColorType     uint8
	Compression   uint8
	Filter        uint8
	Interlace     uint8
}

// Text is a text entry found in the container.
type Text struct {
	Header Header

	// Chunk is the type of chunk the entry came from: tEXt, zTXt or iTXt.
	Chunk string
	Key   string
	Text  string
}

// Open reads src until it finds the DescriptionKey text entry, and returns it.
//
// Only the bytes up to and including the matching chunk are consumed.
func Open(src source.Source) (*Text, error) {
	r := newReader(src)
	var found *Text
	err := r.walk(func(typ string, data []byte) (bool, error) {
		key, text, err := decodeText(typ, data, DescriptionKey)
		if err != nil {
			return false, err
		}
		if key != DescriptionKey {
			glog.V(2).Infof("pngmeta: skipping %s entry %q", typ, key)
			return false, nil
		}
		found = &Text{Header: r.hdr, Chunk: typ, Key: key, Text: text}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, containerError(ErrMetadataNotFound, "", nil)
	}
	return found, nil
}

// Keys lists the keys of all text entries in src, in file order.
func Keys(src source.Source) ([]string, error) {
	r := newReader(src)
	var keys []string
	err := r.walk(func(typ string, data []byte) (bool, error) {
		key, _, err := decodeText(typ, data, "")
		if err != nil {
			return false, err
		}
		keys = append(keys, key)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// reader walks the chunk stream of a single container.
type reader struct {
	src source.Source
	crc hash.Hash32
	hdr Header

	chunks int
}

func newReader(src source.Source) *reader {
	return &reader{
		src: src,
		crc: crc32.NewIEEE(),
	}
}

func (r *reader) readSignature() error {
	var sig [8]byte
	if _, err := source.ReadFull(r.src, sig[:]); err != nil {
		return r.readError("", err)
	}
	if sig != Signature {
		return containerError(ErrNotAContainer, "", nil)
	}
	return nil
}

// readError maps running out of bytes to ErrTruncatedStream. Any other
// failure of the source is an I/O error and is passed on as such.
func (r *reader) readError(chunk string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return containerError(ErrTruncatedStream, chunk, err)
	}
	return errors.Wrapf(err, "pngmeta: reading chunk %d %s", r.chunks, chunk)
}

// walk reads the signature and then chunks up to IEND. Text chunks are read
// fully and handed to fn; walk stops as soon as fn returns true.
func (r *reader) walk(fn func(typ string, data []byte) (bool, error)) error {
	if err := r.readSignature(); err != nil {
		return err
	}

	for {
		var head [8]byte
		if _, err := source.ReadFull(r.src, head[:]); err != nil {
			return r.readError("", err)
		}
		length := binary.BigEndian.Uint32(head[:4])
		typ := string(head[4:])
		if !validType(head[4:]) {
			return containerError(ErrCorruptChunk, "", errors.Errorf("invalid chunk type %q", typ))
		}
		if length > MaxChunkSize {
			return containerError(ErrCorruptChunk, typ, errors.Errorf("chunk length %d exceeds %d", length, MaxChunkSize))
		}
		glog.V(3).Infof("pngmeta: chunk %d: %s, %d bytes", r.chunks, typ, length)

		if r.chunks == 0 && typ != "IHDR" {
			return containerError(ErrCorruptChunk, typ, errors.Errorf("first chunk is %s, want IHDR", typ))
		}
		r.chunks++

		r.crc.Reset()
		r.crc.Write(head[4:])

		switch typ {
		case "IHDR", "tEXt", "zTXt", "iTXt":
			data := make([]byte, length)
			if _, err := source.ReadFull(r.src, data); err != nil {
				return r.readError(typ, err)
			}
			r.crc.Write(data)
			if err := r.checkCRC(typ); err != nil {
				return err
			}

			if typ == "IHDR" {
				if err := r.parseHeader(data); err != nil {
					return err
				}
				continue
			}

			stop, err := fn(typ, data)
			if err != nil {
				return containerError(ErrCorruptChunk, typ, err)
			}
			if stop {
				return nil
			}
		default:
			n, err := io.CopyN(r.crc, r.src, int64(length))
			if err != nil {
				if err == io.EOF && n < int64(length) {
					err = io.ErrUnexpectedEOF
				}
				return r.readError(typ, err)
			}
			if err := r.checkCRC(typ); err != nil {
				return err
			}
			if typ == "IEND" {
				return nil
			}
		}
	}
}

func (r *reader) checkCRC(typ string) error {
	var want [4]byte
	if _, err := source.ReadFull(r.src, want[:]); err != nil {
		return r.readError(typ, err)
	}
	if got := r.crc.Sum32(); got != binary.BigEndian.Uint32(want[:]) {
		return containerError(ErrCorruptChunk, typ, errors.Errorf("crc mismatch: got %08x, want %08x", got, binary.BigEndian.Uint32(want[:])))
	}
	return nil
}

func (r *reader) parseHeader(data []byte) error {
	if len(data) != 13 {
		return containerError(ErrCorruptChunk, "IHDR", errors.Errorf("IHDR is %d bytes, want 13", len(data)))
	}
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &r.hdr); err != nil {
		return containerError(ErrCorruptChunk, "IHDR", err)
	}
	glog.V(2).Infof("pngmeta: header %+v", r.hdr)
	return nil
}

func validType(b []byte) bool {
	for _, c := range b {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// decodeText splits a text chunk into its key and text. The text is only
// decoded (and decompressed) if the key equals want, or if want is empty
// and the caller only needs keys; in the latter case text is empty.
func decodeText(typ string, data []byte, want string) (string, string, error) {
	sep := bytes.IndexByte(data, 0)
	if typ == "tEXt" && sep < 0 {
		// a tEXt chunk with no separator holds only a key
		return latin1(data), "", nil
	}
	if sep < 0 {
		return "", "", errors.Errorf("%s: no keyword terminator", typ)
	}
	key := latin1(data[:sep])
	rest := data[sep+1:]
	if want == "" || key != want {
		return key, "", nil
	}

	switch typ {
	case "tEXt":
		return key, latin1(rest), nil
	case "zTXt":
		if len(rest) < 1 {
			return "", "", errors.Errorf("zTXt: missing compression method")
		}
		if rest[0] != 0 {
			return "", "", errors.Errorf("zTXt: unknown compression method %d", rest[0])
		}
		text, err := inflate(rest[1:])
		if err != nil {
			return "", "", err
		}
		return key, latin1(text), nil
	case "iTXt":
		if len(rest) < 2 {
			return "", "", errors.Errorf("iTXt: missing compression flags")
		}
		compressed, method := rest[0], rest[1]
		rest = rest[2:]
		// language tag, then translated keyword
		for i := 0; i < 2; i++ {
			sep := bytes.IndexByte(rest, 0)
			if sep < 0 {
				return "", "", errors.Errorf("iTXt: unterminated header field")
			}
			rest = rest[sep+1:]
		}
		if compressed == 0 {
			return key, string(rest), nil
		}
		if method != 0 {
			return "", "", errors.Errorf("iTXt: unknown compression method %d", method)
		}
		text, err := inflate(rest)
		if err != nil {
			return "", "", err
		}
		return key, string(text), nil
	}
	return "", "", errors.Errorf("%s is not a text chunk", typ)
}

// maxTextSize bounds the inflated size of a compressed text chunk.
var maxTextSize = MaxChunkSize

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := &bytes.Buffer{}
	if _, err := io.Copy(out, io.LimitReader(zr, int64(maxTextSize)+1)); err != nil {
		return nil, err
	}
	if out.Len() > maxTextSize {
		return nil, errors.Errorf("inflated text exceeds %d bytes", maxTextSize)
	}
	return out.Bytes(), nil
}

// latin1 converts ISO 8859-1 bytes, which is what tEXt and zTXt hold, to a
// UTF-8 string.
func latin1(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
