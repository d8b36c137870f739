package invocation

import (
	"cmp"
	"errors"
	"slices"

	"go.uber.org/multierr"

	"cstrgen/encoder"
)

const (
	// MacroDeclare takes symbol name and text, both string literals.
	MacroDeclare = "declare_static_raw_cstr"
	// MacroExport takes bare identifier and text, symbol is always public.
	MacroExport = "export_cstr"
)

// Expansion is result of a single call. When Err is set Decl is nil and
// nothing should be emitted for the call.
type Expansion struct {
	Call Call
	Decl *encoder.Declaration
	Err  error
}

// Expand encodes every call independently. A failing call does not stop
// expansion of the following ones.
func Expand(calls []Call, enc *encoder.Encoder) []Expansion {
	out := make([]Expansion, 0, len(calls))
	for _, call := range calls {
		x := Expansion{Call: call}
		inv := encoder.Invocation{Span: call.Span, Args: call.Args, Public: call.Public}
		switch call.Macro {
		case MacroDeclare:
			x.Decl, x.Err = enc.Encode(inv)
		case MacroExport:
			x.Decl, x.Err = enc.Export(inv)
		default:
			x.Err = &SyntaxError{Msg: "cannot find macro `" + call.Macro + "` in this scope", Span: call.Span}
		}
		out = append(out, x)
	}
	return out
}

// Declarations returns declarations in source order and all errors combined.
func Declarations(xs []Expansion) ([]*encoder.Declaration, error) {
	var (
		decls []*encoder.Declaration
		errs  error
	)
	for _, x := range xs {
		if x.Err != nil {
			errs = multierr.Append(errs, x.Err)
			continue
		}
		decls = append(decls, x.Decl)
	}
	return decls, errs
}

// Process parses source and expands every call found in it. Diagnostics are
// returned in source order.
func Process(file string, data []byte, enc *encoder.Encoder) ([]*encoder.Declaration, error) {
	calls, perr := Parse(file, data)
	decls, xerr := Declarations(Expand(calls, enc))
	return decls, SortDiagnostics(multierr.Append(perr, xerr))
}

// SortDiagnostics orders combined errors by position in source. Errors
// without location keep their relative order and go first.
func SortDiagnostics(err error) error {
	errs := multierr.Errors(err)
	if len(errs) < 2 {
		return err
	}
	offset := func(e error) int {
		var l encoder.Located
		if errors.As(e, &l) {
			return l.Location().Offset
		}
		return -1
	}
	slices.SortStableFunc(errs, func(a, b error) int {
		return cmp.Compare(offset(a), offset(b))
	})
	return multierr.Combine(errs...)
}
