package emit

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/google/uuid"

	"cstrgen/common"
	"cstrgen/encoder"
)

var (
	//go:embed templates/rust.tmpl
	rustTmpl string
	//go:embed templates/c.tmpl
	cTmpl string
	//go:embed templates/h.tmpl
	hTmpl string
)

// sourceValues is what source templates can see.
type sourceValues struct {
	Generator    string
	Source       string
	Guard        string
	CharType     string
	Unsafe       bool
	Declarations []*encoder.Declaration
}

type sourceRenderer struct {
	tmpl     *template.Template
	charType string
	opts     Options
}

func newSourceRenderer(format common.OutputFmt, builtin, override, charType string, opts Options) (*sourceRenderer, error) {
	text := builtin
	if len(override) > 0 {
		text = override
	}

	funcMap := sprig.FuncMap()
	funcMap["initializer"] = func(open, close, format string, elements []int8) string {
		return initializer(open, close, format, elements, opts.WrapWidth)
	}
	funcMap["comment"] = comment

	tmpl, err := template.New(format.String()).Funcs(funcMap).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s template: %w", format, err)
	}
	return &sourceRenderer{tmpl: tmpl, charType: charType, opts: opts}, nil
}

func (r *sourceRenderer) Render(w io.Writer, u *Unit) error {
	values := sourceValues{
		Generator:    r.opts.Generator,
		Source:       u.Source,
		Guard:        includeGuard(u),
		CharType:     r.charType,
		Unsafe:       r.opts.RustUnsafeAttributes,
		Declarations: u.Declarations,
	}
	if err := r.tmpl.Execute(w, values); err != nil {
		return fmt.Errorf("unable to render %s: %w", r.tmpl.Name(), err)
	}
	return nil
}

// includeGuard is stable for the same set of symbols from the same source.
func includeGuard(u *Unit) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(u.Source+"\x00"+strings.Join(u.Symbols(), ",")))
	return "cstrgen_" + strings.ReplaceAll(id.String(), "-", "_")
}

// comment makes text safe inside single line and block comments of
// generated source: control characters are escaped and block comment
// terminators are broken up.
func comment(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case unicode.IsControl(r) || r == '\u2028' || r == '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), "*/", "* /")
}

// initializer formats array elements enclosed in delimiters. With positive
// width elements are put on separate indented rows.
func initializer(open, close, format string, elements []int8, width int) string {
	items := make([]string, 0, len(elements))
	for _, v := range elements {
		items = append(items, fmt.Sprintf(format, v))
	}
	if width <= 0 || len(items) <= width {
		return open + strings.Join(items, ", ") + close
	}

	var b strings.Builder
	b.WriteString(open)
	b.WriteByte('\n')
	for i := 0; i < len(items); i += width {
		b.WriteString("    ")
		b.WriteString(strings.Join(items[i:min(i+width, len(items))], ", "))
		b.WriteString(",\n")
	}
	b.WriteString(close)
	return b.String()
}
