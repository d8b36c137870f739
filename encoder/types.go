package encoder

import (
	"fmt"

	"cstrgen/common"
)

// ElementType names the narrow character type every element is cast to:
// signed 8-bit integer, C "char" on platforms where it is signed.
const ElementType = "i8"

// Span is location of an input in the declaration source.
type Span struct {
	File   string
	Offset int
	Length int
	Line   int
	Column int
}

// IsZero reports whether span carries no location, as for inputs given
// directly on command line.
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Length == 0
}

func (s Span) String() string {
	switch {
	case s.Line == 0 && s.File == "":
		return "<input>"
	case s.Line == 0:
		return s.File
	case s.File == "":
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// ArgKind classifies a logical input of invocation.
type ArgKind int

const (
	// KindExpression is anything that has to be evaluated to get a value.
	KindExpression ArgKind = iota
	// KindLiteral is a single string literal.
	KindLiteral
	// KindIdentifier is a single bare identifier.
	KindIdentifier
)

func (k ArgKind) String() string {
	switch k {
	case KindLiteral:
		return "string literal"
	case KindIdentifier:
		return "identifier"
	default:
		return "expression"
	}
}

// Argument is a single logical input. Value is unescaped text of a literal
// or spelling of an identifier, raw source text otherwise.
type Argument struct {
	Value string
	Kind  ArgKind
	Span  Span
}

// Literal makes string literal argument without location.
func Literal(s string) Argument {
	return Argument{Value: s, Kind: KindLiteral}
}

// Ident makes identifier argument without location.
func Ident(s string) Argument {
	return Argument{Value: s, Kind: KindIdentifier}
}

// Invocation is a single request to produce declaration.
type Invocation struct {
	Span Span
	Args []Argument
	// Public forces exported symbol regardless of configured visibility.
	Public bool
}

// Declaration is the produced artifact: named fixed length immutable array
// of signed 8-bit elements with zero terminator.
type Declaration struct {
	Name        string
	Text        string
	ElementType string
	// Length always equals len(Elements), terminator included.
	Length     int
	Elements   []int8
	Immutable  bool
	Visibility common.Visibility
	// NoMangle requests toolchain to keep symbol name as is.
	NoMangle       bool
	SuppressUnused bool
	SuppressNaming bool
	Span           Span
}

// Exported reports whether symbol is visible outside of its unit.
func (d *Declaration) Exported() bool {
	return d.Visibility == common.VisibilityPublic
}
