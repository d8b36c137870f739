// Package encoder turns a symbol name and a text literal into declaration of
// statically allocated, zero terminated array of narrow characters exported
// under unmangled name.
package encoder

import (
	"errors"
	"unicode/utf8"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding"

	"cstrgen/common"
)

// Options control narrowing and markers of produced declarations.
type Options struct {
	Policy common.NarrowingPolicy
	// Charset is required by charset policy.
	Charset    encoding.Encoding
	Visibility common.Visibility
	// do not warn when symbol is unused in its own unit
	SuppressUnusedWarning bool
	// do not warn when symbol name does not follow constant naming rules
	SuppressNamingWarning bool
}

// Encoder is immutable after creation and may be shared between goroutines.
type Encoder struct {
	opts Options
}

func New(opts Options) (*Encoder, error) {
	if !opts.Policy.IsValid() {
		return nil, errors.New("unknown narrowing policy")
	}
	if !opts.Visibility.IsValid() {
		return nil, errors.New("unknown visibility")
	}
	if opts.Policy == common.NarrowingPolicyCharset && opts.Charset == nil {
		return nil, errors.New("charset narrowing requires character set")
	}
	return &Encoder{opts: opts}, nil
}

// Options returns options encoder was created with.
func (e *Encoder) Options() Options {
	return e.opts
}

// Encode validates invocation and builds declaration. It expects exactly two
// string literals: symbol name and text. On error no declaration is
// returned, all problems found are combined into returned error.
func (e *Encoder) Encode(inv Invocation) (*Declaration, error) {
	vis := e.opts.Visibility
	if inv.Public {
		vis = common.VisibilityPublic
	}
	return e.encode(inv, vis)
}

// EncodeString is Encode for values known to be literals.
func (e *Encoder) EncodeString(name, text string) (*Declaration, error) {
	return e.Encode(Invocation{Args: []Argument{Literal(name), Literal(text)}})
}

// Export is forwarding form: first argument is a bare identifier which
// spelling becomes symbol name. Produced symbol is always public.
func (e *Encoder) Export(inv Invocation) (*Declaration, error) {
	if len(inv.Args) > 0 {
		ident := inv.Args[0]
		if ident.Kind != KindIdentifier {
			var errs error = &ArgumentError{Position: 1, Want: KindIdentifier, Got: ident.Kind, Span: ident.Span}
			if len(inv.Args) > 1 && inv.Args[1].Kind != KindLiteral {
				errs = multierr.Append(errs, &ArgumentError{Position: 2, Want: KindLiteral, Got: inv.Args[1].Kind, Span: inv.Args[1].Span})
			}
			return nil, multierr.Append(errs, checkArity(inv))
		}
		args := make([]Argument, len(inv.Args))
		copy(args, inv.Args)
		// stringify
		args[0].Kind = KindLiteral
		inv.Args = args
	}
	return e.encode(inv, common.VisibilityPublic)
}

func checkArity(inv Invocation) error {
	if len(inv.Args) != 2 {
		return &ArityError{Found: len(inv.Args), Span: inv.Span}
	}
	return nil
}

func (e *Encoder) encode(inv Invocation, vis common.Visibility) (*Declaration, error) {
	var errs error
	for i, arg := range inv.Args[:min(len(inv.Args), 2)] {
		if arg.Kind != KindLiteral {
			errs = multierr.Append(errs, &ArgumentError{Position: i + 1, Want: KindLiteral, Got: arg.Kind, Span: arg.Span})
		}
	}
	errs = multierr.Append(errs, checkArity(inv))
	if errs != nil {
		return nil, errs
	}

	name, text := inv.Args[0], inv.Args[1]
	if reason := ValidateName(name.Value); reason != "" {
		errs = multierr.Append(errs, &NameError{Name: name.Value, Reason: reason, Span: name.Span})
	}
	elements, err := e.elements(text)
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}

	return &Declaration{
		Name:           name.Value,
		Text:           text.Value,
		ElementType:    ElementType,
		Length:         len(elements),
		Elements:       elements,
		Immutable:      true,
		Visibility:     vis,
		NoMangle:       true,
		SuppressUnused: e.opts.SuppressUnusedWarning,
		SuppressNaming: e.opts.SuppressNamingWarning,
		Span:           inv.Span,
	}, nil
}

// elements narrows every character of text independently and appends zero
// terminator. Every character which cannot be represented is reported.
func (e *Encoder) elements(text Argument) ([]int8, error) {
	n := newNarrower(e.opts.Policy, e.opts.Charset)

	var errs error
	out := make([]int8, 0, utf8.RuneCountInString(text.Value)+1)
	index := 0
	for _, r := range text.Value {
		v, reason := n.narrow(r)
		if reason == "" && v == 0 {
			// C string would end here, shorter than declared array
			reason = "narrows to zero terminator"
		}
		if reason != "" {
			errs = multierr.Append(errs, &RepresentationError{Index: index, Rune: r, Reason: reason, Span: text.Span})
		}
		out = append(out, v)
		index++
	}
	if errs != nil {
		return nil, errs
	}
	return append(out, 0), nil
}
