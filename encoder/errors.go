package encoder

import (
	"errors"
	"fmt"
	"strconv"
)

// Located is implemented by diagnostics which point at source.
type Located interface {
	error
	Location() Span
}

var (
	ErrWrongArity      = errors.New("wrong number of arguments")
	ErrNotALiteral     = errors.New("expected a string literal")
	ErrNotAnIdentifier = errors.New("expected an identifier")
	ErrInvalidName     = errors.New("invalid symbol name")
	ErrUnrepresentable = errors.New("character is not representable")
)

// ArityError is reported at the invocation when number of inputs is not two.
type ArityError struct {
	Found int
	Span  Span
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected 2 arguments, found %d", e.Span, e.Found)
}

func (e *ArityError) Location() Span { return e.Span }

func (e *ArityError) Is(target error) bool {
	return target == ErrWrongArity
}

// ArgumentError is reported at the offending argument when it is not of
// required kind. Position is 1 based.
type ArgumentError struct {
	Position int
	Want     ArgKind
	Got      ArgKind
	Span     Span
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument %d: expected %s, found %s", e.Span, e.Position, e.Want, e.Got)
}

func (e *ArgumentError) Location() Span { return e.Span }

func (e *ArgumentError) Is(target error) bool {
	switch target {
	case ErrNotALiteral:
		return e.Want == KindLiteral
	case ErrNotAnIdentifier:
		return e.Want == KindIdentifier
	}
	return false
}

// NameError is reported when symbol name is not usable in generated source.
type NameError struct {
	Name   string
	Reason string
	Span   Span
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: invalid symbol name %s: %s", e.Span, strconv.Quote(e.Name), e.Reason)
}

func (e *NameError) Location() Span { return e.Span }

func (e *NameError) Is(target error) bool {
	return target == ErrInvalidName
}

// RepresentationError is reported when character cannot be narrowed to
// element type under selected policy. Index counts characters, not bytes.
type RepresentationError struct {
	Index  int
	Rune   rune
	Reason string
	Span   Span
}

func (e *RepresentationError) Error() string {
	return fmt.Sprintf("%s: character %d (%U %s): %s", e.Span, e.Index, e.Rune, strconv.QuoteRune(e.Rune), e.Reason)
}

func (e *RepresentationError) Location() Span { return e.Span }

func (e *RepresentationError) Is(target error) bool {
	return target == ErrUnrepresentable
}
