package encoder

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding/charmap"

	"cstrgen/common"
)

func newTestEncoder(t *testing.T, opts Options) *Encoder {
	t.Helper()
	enc, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return enc
}

func defaultOptions() Options {
	return Options{
		Policy:                common.NarrowingPolicyStrict,
		Visibility:            common.VisibilityPublic,
		SuppressUnusedWarning: true,
		SuppressNamingWarning: true,
	}
}

func TestEncode_Hello(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	d, err := enc.EncodeString("foo", "hello")
	if err != nil {
		t.Fatalf("EncodeString() error = %v", err)
	}

	want := []int8{104, 101, 108, 108, 111, 0}
	if !reflect.DeepEqual(d.Elements, want) {
		t.Errorf("Elements = %v, want %v", d.Elements, want)
	}
	if d.Length != 6 {
		t.Errorf("Length = %d, want 6", d.Length)
	}
	if d.Name != "foo" || d.Text != "hello" {
		t.Errorf("Name/Text = %q/%q", d.Name, d.Text)
	}
	if !d.Exported() || !d.NoMangle || !d.Immutable {
		t.Errorf("expected exported, unmangled, immutable declaration: %+v", d)
	}
	if d.ElementType != ElementType {
		t.Errorf("ElementType = %q", d.ElementType)
	}
	if !d.SuppressUnused || !d.SuppressNaming {
		t.Error("suppression markers not set")
	}
}

func TestEncode_Empty(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	d, err := enc.EncodeString("empty_str", "")
	if err != nil {
		t.Fatalf("EncodeString() error = %v", err)
	}
	if d.Length != 1 || !reflect.DeepEqual(d.Elements, []int8{0}) {
		t.Errorf("Elements = %v, Length = %d, want [0], 1", d.Elements, d.Length)
	}
}

func TestEncode_Properties(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	texts := []string{"a", "hello, world", "tab\there", "line\nbreak", "~!@#$%^&*()_+", "\x7f\x01"}
	for _, text := range texts {
		d, err := enc.EncodeString("sym", text)
		if err != nil {
			t.Fatalf("EncodeString(%q) error = %v", text, err)
		}
		if len(d.Elements) != len(text)+1 || d.Length != len(d.Elements) {
			t.Errorf("%q: len(Elements) = %d, Length = %d, want %d", text, len(d.Elements), d.Length, len(text)+1)
		}
		if d.Elements[len(d.Elements)-1] != 0 {
			t.Errorf("%q: last element = %d, want 0", text, d.Elements[len(d.Elements)-1])
		}
		for i := 0; i < len(text); i++ {
			if d.Elements[i] != int8(text[i]) {
				t.Errorf("%q: element %d = %d, want %d", text, i, d.Elements[i], int8(text[i]))
			}
			if d.Elements[i] == 0 {
				t.Errorf("%q: unexpected zero at %d", text, i)
			}
		}
	}
}

func TestEncode_Idempotent(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	a, err := enc.EncodeString("foo", "hello")
	if err != nil {
		t.Fatal(err)
	}
	b, err := enc.EncodeString("foo", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("declarations differ:\n%+v\n%+v", a, b)
	}
	// produced slices are not shared
	a.Elements[0] = 0
	if b.Elements[0] != 104 {
		t.Error("declarations share elements")
	}
}

func TestEncode_Arity(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())
	call := Span{File: "decl.cstr", Line: 3, Column: 1}

	for _, n := range []int{0, 1, 3, 4} {
		args := make([]Argument, n)
		for i := range args {
			args[i] = Literal("x")
		}
		d, err := enc.Encode(Invocation{Span: call, Args: args})
		if d != nil {
			t.Errorf("%d args: expected no declaration", n)
		}
		if !errors.Is(err, ErrWrongArity) {
			t.Fatalf("%d args: error = %v, want ErrWrongArity", n, err)
		}
		var ae *ArityError
		if !errors.As(err, &ae) {
			t.Fatalf("%d args: error is not ArityError", n)
		}
		if ae.Found != n {
			t.Errorf("Found = %d, want %d", ae.Found, n)
		}
		if ae.Span != call {
			t.Errorf("arity reported at %v, want %v", ae.Span, call)
		}
	}
}

func TestEncode_ZeroInputsMessage(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())
	_, err := enc.Encode(Invocation{})
	if err == nil || err.Error() != "<input>: expected 2 arguments, found 0" {
		t.Errorf("error = %v", err)
	}
}

func TestEncode_NotALiteral(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	tests := []struct {
		name      string
		args      []Argument
		positions []int
	}{
		{"name", []Argument{{Value: "foo", Kind: KindIdentifier}, Literal("x")}, []int{1}},
		{"text", []Argument{Literal("foo"), {Value: `concat!("a")`, Kind: KindExpression}}, []int{2}},
		{"both", []Argument{{Value: "1 + 2", Kind: KindExpression}, {Value: "x", Kind: KindIdentifier}}, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.args {
				tt.args[i].Span = Span{File: "f", Line: 1, Column: 10 * (i + 1)}
			}
			d, err := enc.Encode(Invocation{Args: tt.args})
			if d != nil {
				t.Error("expected no declaration")
			}
			if !errors.Is(err, ErrNotALiteral) {
				t.Fatalf("error = %v, want ErrNotALiteral", err)
			}
			errs := multierr.Errors(err)
			if len(errs) != len(tt.positions) {
				t.Fatalf("got %d errors, want %d: %v", len(errs), len(tt.positions), err)
			}
			for i, e := range errs {
				var ae *ArgumentError
				if !errors.As(e, &ae) {
					t.Fatalf("unexpected error %v", e)
				}
				if ae.Position != tt.positions[i] {
					t.Errorf("Position = %d, want %d", ae.Position, tt.positions[i])
				}
				if ae.Span != tt.args[ae.Position-1].Span {
					t.Errorf("error reported at %v, want argument span", ae.Span)
				}
			}
		})
	}
}

func TestEncode_NotALiteralWithWrongArity(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	_, err := enc.Encode(Invocation{Args: []Argument{{Value: "x", Kind: KindIdentifier}, Literal("a"), Literal("b")}})
	if !errors.Is(err, ErrNotALiteral) || !errors.Is(err, ErrWrongArity) {
		t.Errorf("error = %v, want both diagnostics", err)
	}
}

func TestEncode_InvalidName(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	for _, name := range []string{"", "1abc", "with space", "dash-ed", "ünï", "static", "fn", "_"} {
		d, err := enc.EncodeString(name, "x")
		if d != nil || !errors.Is(err, ErrInvalidName) {
			t.Errorf("EncodeString(%q) = %v, %v; want ErrInvalidName", name, d, err)
		}
	}
	for _, name := range []string{"a", "_a", "FOO_BAR", "x9", "__version"} {
		if _, err := enc.EncodeString(name, "x"); err != nil {
			t.Errorf("EncodeString(%q) error = %v", name, err)
		}
	}
}

func TestEncode_Export(t *testing.T) {
	opts := defaultOptions()
	opts.Visibility = common.VisibilityPrivate
	enc := newTestEncoder(t, opts)

	d, err := enc.Export(Invocation{Args: []Argument{Ident("greeting"), Literal("hi")}})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if d.Name != "greeting" || !reflect.DeepEqual(d.Elements, []int8{104, 105, 0}) || d.Length != 3 {
		t.Errorf("unexpected declaration %+v", d)
	}
	if !d.Exported() {
		t.Error("export form must be public")
	}

	// two argument form follows configured visibility
	d2, err := enc.EncodeString("greeting", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if d2.Exported() {
		t.Error("expected private declaration")
	}
	d2.Visibility = common.VisibilityPublic
	if !reflect.DeepEqual(d, d2) {
		t.Errorf("export form differs from encode:\n%+v\n%+v", d, d2)
	}
}

func TestEncode_ExportErrors(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	_, err := enc.Export(Invocation{Args: []Argument{Literal("greeting"), Literal("hi")}})
	if !errors.Is(err, ErrNotAnIdentifier) {
		t.Errorf("error = %v, want ErrNotAnIdentifier", err)
	}

	_, err = enc.Export(Invocation{Args: []Argument{Ident("greeting"), Ident("hi")}})
	var ae *ArgumentError
	if !errors.As(err, &ae) || ae.Position != 2 || !errors.Is(err, ErrNotALiteral) {
		t.Errorf("error = %v, want not a literal at 2", err)
	}

	_, err = enc.Export(Invocation{Args: []Argument{Ident("greeting")}})
	if !errors.Is(err, ErrWrongArity) {
		t.Errorf("error = %v, want ErrWrongArity", err)
	}

	_, err = enc.Export(Invocation{})
	var are *ArityError
	if !errors.As(err, &are) || are.Found != 0 {
		t.Errorf("error = %v, want WrongArity(0)", err)
	}
}

func TestEncode_Strict(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())

	span := Span{File: "f.cstr", Line: 2, Column: 7}
	d, err := enc.Encode(Invocation{Args: []Argument{Literal("s"), {Value: "café 世", Kind: KindLiteral, Span: span}}})
	if d != nil {
		t.Error("expected no declaration")
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", err)
	}
	var re *RepresentationError
	if !errors.As(errs[0], &re) {
		t.Fatalf("unexpected error %v", errs[0])
	}
	if re.Index != 3 || re.Rune != 'é' || re.Span != span {
		t.Errorf("unexpected error details %+v", re)
	}
	if !errors.As(errs[1], &re) || re.Index != 5 {
		t.Errorf("second error = %v", errs[1])
	}
}

func TestEncode_InteriorZero(t *testing.T) {
	enc := newTestEncoder(t, defaultOptions())
	if _, err := enc.EncodeString("z", "a\x00b"); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("error = %v, want ErrUnrepresentable", err)
	}

	opts := defaultOptions()
	opts.Policy = common.NarrowingPolicyTruncate
	enc = newTestEncoder(t, opts)
	// U+0100 wraps to zero
	if _, err := enc.EncodeString("z", "Ā"); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("error = %v, want ErrUnrepresentable", err)
	}
}

func TestEncode_Truncate(t *testing.T) {
	opts := defaultOptions()
	opts.Policy = common.NarrowingPolicyTruncate
	enc := newTestEncoder(t, opts)

	d, err := enc.EncodeString("cafe", "café世")
	if err != nil {
		t.Fatalf("EncodeString() error = %v", err)
	}
	// U+00E9 -> 0xE9 -> -23, U+4E16 -> 0x16 -> 22
	want := []int8{99, 97, 102, -23, 22, 0}
	if !reflect.DeepEqual(d.Elements, want) {
		t.Errorf("Elements = %v, want %v", d.Elements, want)
	}
	if d.Length != 6 {
		t.Errorf("Length counts characters, got %d", d.Length)
	}
}

func TestEncode_Charset(t *testing.T) {
	opts := defaultOptions()
	opts.Policy = common.NarrowingPolicyCharset
	opts.Charset = charmap.Windows1251
	enc := newTestEncoder(t, opts)

	// Cyrillic "Да" in windows-1251 is C4 E0
	d, err := enc.EncodeString("yes", "Да!")
	if err != nil {
		t.Fatalf("EncodeString() error = %v", err)
	}
	want := []int8{-60, -32, 33, 0}
	if !reflect.DeepEqual(d.Elements, want) {
		t.Errorf("Elements = %v, want %v", d.Elements, want)
	}

	if _, err := enc.EncodeString("no", "世"); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("error = %v, want ErrUnrepresentable", err)
	}
}

func TestNew_Errors(t *testing.T) {
	opts := defaultOptions()
	opts.Policy = common.NarrowingPolicyCharset
	if _, err := New(opts); err == nil {
		t.Error("expected error for charset policy without character set")
	}

	opts = defaultOptions()
	opts.Policy = common.NarrowingPolicy(42)
	if _, err := New(opts); err == nil {
		t.Error("expected error for unknown policy")
	}

	opts = defaultOptions()
	opts.Visibility = common.Visibility(-1)
	if _, err := New(opts); err == nil {
		t.Error("expected error for unknown visibility")
	}
}

func TestNarrow(t *testing.T) {
	tests := []struct {
		r       rune
		policy  common.NarrowingPolicy
		want    int8
		wantErr bool
	}{
		{'A', common.NarrowingPolicyStrict, 65, false},
		{0x7F, common.NarrowingPolicyStrict, 127, false},
		{0x80, common.NarrowingPolicyStrict, 0, true},
		{0x80, common.NarrowingPolicyTruncate, -128, false},
		{0xFF, common.NarrowingPolicyTruncate, -1, false},
		{0x1F600, common.NarrowingPolicyTruncate, 0, false},
		{'é', common.NarrowingPolicyCharset, -23, false},
		{'€', common.NarrowingPolicyCharset, -128, false},
		{'Д', common.NarrowingPolicyCharset, 0, true},
	}

	for _, tt := range tests {
		got, err := Narrow(tt.r, tt.policy, charmap.Windows1252)
		if (err != nil) != tt.wantErr {
			t.Errorf("Narrow(%U, %v) error = %v, wantErr %v", tt.r, tt.policy, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Narrow(%U, %v) = %d, want %d", tt.r, tt.policy, got, tt.want)
		}
	}
}

func TestLookupCharset(t *testing.T) {
	enc, err := LookupCharset("windows-1252")
	if err != nil || enc == nil {
		t.Fatalf("LookupCharset() = %v, %v", enc, err)
	}
	if _, err := LookupCharset("no-such-charset"); err == nil {
		t.Error("expected error for unknown charset")
	}
}

func TestSpan_String(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{Span{}, "<input>"},
		{Span{File: "a.cstr"}, "a.cstr"},
		{Span{Line: 2, Column: 5}, "2:5"},
		{Span{File: "a.cstr", Line: 2, Column: 5}, "a.cstr:2:5"},
	}
	for _, tt := range tests {
		if got := tt.span.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEncode_PublicInvocation(t *testing.T) {
	opts := defaultOptions()
	opts.Visibility = common.VisibilityPrivate
	enc := newTestEncoder(t, opts)

	d, err := enc.Encode(Invocation{Args: []Argument{Literal("foo"), Literal("x")}, Public: true})
	if err != nil {
		t.Fatal(err)
	}
	if !d.Exported() {
		t.Error("invocation marked public must produce exported symbol")
	}
}
