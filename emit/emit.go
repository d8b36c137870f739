// Package emit serializes declarations produced by encoder either as
// target language source (Rust, C, C header) or as data (YAML, Ion).
package emit

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/maruel/natural"

	"cstrgen/common"
	"cstrgen/config"
	"cstrgen/encoder"
	"cstrgen/misc"
)

// Unit is a group of declarations rendered together, normally everything
// expanded from a single declaration source.
type Unit struct {
	// Source is name of declaration source, may be empty.
	Source       string
	Declarations []*encoder.Declaration
}

// Symbols returns names of all declarations in natural order.
func (u *Unit) Symbols() []string {
	names := make([]string, 0, len(u.Declarations))
	for _, d := range u.Declarations {
		names = append(names, d.Name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// Duplicates returns names declared more than once in the unit.
func (u *Unit) Duplicates() []string {
	seen := make(map[string]int, len(u.Declarations))
	var dups []string
	for _, d := range u.Declarations {
		seen[d.Name]++
		if seen[d.Name] == 2 {
			dups = append(dups, d.Name)
		}
	}
	sort.Sort(natural.StringSlice(dups))
	return dups
}

// Renderer writes unit in particular output format.
type Renderer interface {
	Render(w io.Writer, u *Unit) error
}

// Options control source renderers. Empty template means embedded default.
type Options struct {
	// elements per initializer row, 0 puts everything on one line
	WrapWidth            int
	RustUnsafeAttributes bool
	RustCharType         string
	CCharType            string
	RustTemplate         string
	CSourceTemplate      string
	CHeaderTemplate      string
	// Generator is put into header comment of produced sources.
	Generator string
}

// DefaultOptions matches default configuration.
func DefaultOptions() Options {
	return Options{
		WrapWidth:    16,
		RustCharType: "libc::c_char",
		CCharType:    "char",
		Generator:    misc.GetAppName(),
	}
}

// OptionsFromConfig prepares renderer options, loading template overrides
// when configured.
func OptionsFromConfig(cfg *config.GeneratorConfig) (Options, error) {
	opts := Options{
		WrapWidth:            cfg.WrapWidth,
		RustUnsafeAttributes: cfg.Rust.UnsafeAttributes,
		RustCharType:         cfg.Rust.CharType,
		CCharType:            cfg.C.CharType,
		Generator:            misc.GetAppName() + " " + misc.GetVersion(),
	}
	for _, t := range []struct {
		path string
		dst  *string
	}{
		{cfg.Rust.TemplatePath, &opts.RustTemplate},
		{cfg.C.SourceTemplatePath, &opts.CSourceTemplate},
		{cfg.C.HeaderTemplatePath, &opts.CHeaderTemplate},
	} {
		if len(t.path) == 0 {
			continue
		}
		data, err := os.ReadFile(t.path)
		if err != nil {
			return Options{}, fmt.Errorf("unable to read template: %w", err)
		}
		*t.dst = string(data)
	}
	return opts, nil
}

// New returns renderer for requested format.
func New(format common.OutputFmt, opts Options) (Renderer, error) {
	switch format {
	case common.OutputFmtRust:
		return newSourceRenderer(format, rustTmpl, opts.RustTemplate, opts.RustCharType, opts)
	case common.OutputFmtC:
		return newSourceRenderer(format, cTmpl, opts.CSourceTemplate, opts.CCharType, opts)
	case common.OutputFmtH:
		return newSourceRenderer(format, hTmpl, opts.CHeaderTemplate, opts.CCharType, opts)
	case common.OutputFmtYaml:
		return &yamlRenderer{generator: opts.Generator}, nil
	case common.OutputFmtIon:
		return &ionRenderer{generator: opts.Generator}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}
