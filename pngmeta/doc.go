// Package pngmeta reads the textual metadata embedded in a PNG container
// without decoding any pixel data.
//
// Sprite sheets produced by BYOND (.dmi files) are ordinary PNG images which
// carry a "Description" text entry, usually in a compressed zTXt chunk. Open
// validates the signature, walks the chunk stream through a source.Source and
// returns the first such entry. Decoding the pixels is left to image/png.
package pngmeta
