// Package common holds enumerations shared by encoder, renderers and
// configuration, so none of them has to import the other just for a type.
package common

//go:generate go tool go-enum --marshal --names --nocase

// Visibility of generated symbol.
// ENUM(private, public)
type Visibility int

// How a character is narrowed to the signed 8-bit element type.
// ENUM(strict, truncate, charset)
type NarrowingPolicy int

// Specification of requested output type.
// ENUM(rust, c, h, yaml, ion)
type OutputFmt int

// Ext returns file name extension for generated output.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtRust:
		return ".rs"
	case OutputFmtC:
		return ".c"
	case OutputFmtH:
		return ".h"
	case OutputFmtYaml:
		return ".yaml"
	case OutputFmtIon:
		return ".ion"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// IsSource reports whether output is target language source text.
func (o OutputFmt) IsSource() bool {
	return o == OutputFmtRust || o == OutputFmtC || o == OutputFmtH
}
