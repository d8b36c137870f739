package invocation

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

type treeWriter struct {
	w strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	tw.w.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *treeWriter) text(depth int, label, value string) {
	tw.line(depth, "%s: %s", label, strconv.Quote(value))
}

// Dump renders expansions as indented tree: every call with its arguments
// followed by either resulting declaration or diagnostics.
func Dump(xs []Expansion) string {
	tw := &treeWriter{}
	for _, x := range xs {
		prefix := ""
		if x.Call.Public {
			prefix = "pub "
		}
		tw.line(0, "%s%s! @ %s", prefix, x.Call.Macro, x.Call.Span)
		for i, a := range x.Call.Args {
			tw.text(1, fmt.Sprintf("%d %s", i+1, a.Kind), a.Value)
		}
		if x.Err != nil {
			for _, err := range multierr.Errors(x.Err) {
				tw.line(1, "error: %v", err)
			}
			continue
		}
		d := x.Decl
		tw.line(1, "=> %s %s: [%s; %d] %v", d.Visibility, d.Name, d.ElementType, d.Length, d.Elements)
	}
	return tw.w.String()
}
