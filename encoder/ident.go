package encoder

// Words which cannot be used as a symbol name in at least one of the
// generated languages.
var reserved = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// C11 and C23
		"auto", "break", "case", "char", "const", "continue", "default", "do",
		"double", "else", "enum", "extern", "float", "for", "goto", "if",
		"inline", "int", "long", "register", "restrict", "return", "short",
		"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
		"unsigned", "void", "volatile", "while", "alignas", "alignof", "bool",
		"constexpr", "false", "nullptr", "static_assert", "thread_local",
		"true", "typeof", "typeof_unqual",
		// Rust strict and reserved keywords
		"as", "crate", "fn", "impl", "in", "let", "loop", "match", "mod",
		"move", "mut", "pub", "ref", "self", "Self", "super", "trait", "type",
		"unsafe", "use", "where", "async", "await", "dyn", "abstract", "become",
		"box", "final", "macro", "override", "priv", "try", "unsized",
		"virtual", "yield", "gen", "_",
	} {
		reserved[w] = struct{}{}
	}
}

// ValidateName checks that name is an identifier in every generated
// language and returns reason when it is not. Uniqueness is left to linker.
func ValidateName(name string) string {
	if len(name) == 0 {
		return "empty"
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return "starts with a digit"
			}
		default:
			return "only ASCII letters, digits and underscore are allowed"
		}
	}
	if _, ok := reserved[name]; ok {
		return "reserved word"
	}
	return ""
}
