package invocation

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// unquote returns value of string token. Both plain "..." strings with
// escapes and raw r#"..."# strings are accepted. Line endings are
// normalized to "\n".
func unquote(tok []byte) (string, error) {
	tok = bytes.ReplaceAll(tok, []byte("\r\n"), []byte("\n"))

	if tok[0] == 'r' {
		hashes := bytes.IndexByte(tok, '"') - 1
		s := tok[hashes+2 : len(tok)-hashes-1]
		if !utf8.Valid(s) {
			return "", fmt.Errorf("invalid UTF-8 in string literal")
		}
		return string(s), nil
	}

	s := tok[1 : len(tok)-1]
	if bytes.IndexByte(s, '\\') < 0 {
		if !utf8.Valid(s) {
			return "", fmt.Errorf("invalid UTF-8 in string literal")
		}
		return string(s), nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			r, n := utf8.DecodeRune(s[i:])
			if r == utf8.RuneError && n == 1 {
				return "", fmt.Errorf("invalid UTF-8 in string literal")
			}
			b.WriteRune(r)
			i += n
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '\'', '"':
			b.WriteByte(e)
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation skips following whitespace
			for i+1 < len(s) && strings.IndexByte(" \t\n\r", s[i+1]) >= 0 {
				i++
			}
		case 'x':
			if i+2 >= len(s) {
				return "", fmt.Errorf("numeric character escape is too short")
			}
			v, err := strconv.ParseUint(string(s[i+1:i+3]), 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid character in numeric character escape %q", s[i-1:i+3])
			}
			if v > 0x7F {
				return "", fmt.Errorf("out of range hex escape %q, must be a character in the range [\\x00-\\x7f]", s[i-1:i+3])
			}
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			end := bytes.IndexByte(s[i:], '}')
			if i+1 >= len(s) || s[i+1] != '{' || end < 0 {
				return "", fmt.Errorf("incorrect unicode escape sequence")
			}
			digits := strings.ReplaceAll(string(s[i+2:i+end]), "_", "")
			v, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || len(digits) == 0 || len(digits) > 6 {
				return "", fmt.Errorf("invalid unicode escape %q", s[i-1:i+end+1])
			}
			if v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
				return "", fmt.Errorf("invalid unicode character escape %q", s[i-1:i+end+1])
			}
			b.WriteRune(rune(v))
			i += end
		default:
			return "", fmt.Errorf("unknown character escape %q", s[i-1:i+1])
		}
		i++
	}
	return b.String(), nil
}
