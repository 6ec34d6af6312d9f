// Package dmi decodes the animation metadata of BYOND .dmi sprite sheets.
//
// A .dmi file is a PNG image whose frames are laid out in a grid, together
// with a "Description" text entry naming the animation states, the number
// of directions and frames of each, per-frame delays and whether the
// animation rewinds. This package only reads the description; the pixels
// are decoded by image/png, and the sheet package combines the two.
//
// Use Load or LoadFrom to read a file, or Parse if the description text is
// already at hand. The resulting Metadata is immutable.
package dmi
