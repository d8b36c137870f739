package invocation

import (
	"errors"
	"io"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
)

// TokenType determines the type of token, eg. a string or identifier.
type TokenType int

const (
	ErrorToken TokenType = iota // extra token when errors occur or input ends
	WhitespaceToken
	CommentToken
	IdentToken
	StringToken
	CharToken
	BangToken
	OpenToken
	CloseToken
	CommaToken
	SemicolonToken
	OtherToken
)

func (tt TokenType) String() string {
	switch tt {
	case ErrorToken:
		return "Error"
	case WhitespaceToken:
		return "Whitespace"
	case CommentToken:
		return "Comment"
	case IdentToken:
		return "Ident"
	case StringToken:
		return "String"
	case CharToken:
		return "Char"
	case BangToken:
		return "Bang"
	case OpenToken:
		return "Open"
	case CloseToken:
		return "Close"
	case CommaToken:
		return "Comma"
	case SemicolonToken:
		return "Semicolon"
	}
	return "Other"
}

var (
	errUnterminatedString  = errors.New("unterminated string literal")
	errUnterminatedComment = errors.New("unterminated block comment")
)

// Lexer splits declaration source into tokens. Offsets of tokens are byte
// positions in the source.
type Lexer struct {
	r      *parse.Input
	offset int
	err    error
	errPos int
}

// NewLexer returns a new Lexer for a given io.Reader.
func NewLexer(r *parse.Input) *Lexer {
	return &Lexer{r: r}
}

// Err returns the error encountered during lexing, this is often io.EOF but
// also other errors can be returned.
func (l *Lexer) Err() error {
	if l.err != nil {
		return l.err
	}
	return l.r.Err()
}

// ErrOffset returns position of lexing error other than io.EOF.
func (l *Lexer) ErrOffset() int {
	return l.errPos
}

// Next returns the next token type, its text and starting offset.
func (l *Lexer) Next() (TokenType, []byte, int) {
	start := l.offset
	tt := l.next()
	text := l.r.Shift()
	l.offset += len(text)
	return tt, text, start
}

func (l *Lexer) next() TokenType {
	if l.err != nil {
		return ErrorToken
	}
	c := l.r.Peek(0)
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		for l.consumeWhitespace() {
		}
		return WhitespaceToken
	case '"':
		if l.consumeString(0) {
			return StringToken
		}
		return ErrorToken
	case '\'':
		if l.consumeChar() {
			return CharToken
		}
		l.r.Move(1)
		return OtherToken
	case '/':
		if l.r.Peek(1) == '/' {
			for c := l.r.Peek(0); c != '\n' && !(c == 0 && l.r.PeekErr(0) != nil); c = l.r.Peek(0) {
				l.r.Move(1)
			}
			return CommentToken
		} else if l.r.Peek(1) == '*' {
			if l.consumeBlockComment() {
				return CommentToken
			}
			return ErrorToken
		}
	case '!':
		l.r.Move(1)
		return BangToken
	case '(', '[', '{':
		l.r.Move(1)
		return OpenToken
	case ')', ']', '}':
		l.r.Move(1)
		return CloseToken
	case ',':
		l.r.Move(1)
		return CommaToken
	case ';':
		l.r.Move(1)
		return SemicolonToken
	case 'r':
		if n := l.rawStringPrefix(); n > 0 {
			if l.consumeString(n) {
				return StringToken
			}
			return ErrorToken
		}
	case 0:
		if l.r.PeekErr(0) != nil {
			return ErrorToken
		}
	}

	if l.consumeIdent() {
		return IdentToken
	}
	if '0' <= c && c <= '9' {
		for c := l.r.Peek(0); c == '_' || c == '.' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'; c = l.r.Peek(0) {
			l.r.Move(1)
		}
		return OtherToken
	}
	l.r.MoveRune()
	return OtherToken
}

func (l *Lexer) fail(err error) {
	l.err = err
	l.errPos = l.offset
}

func (l *Lexer) consumeWhitespace() bool {
	switch l.r.Peek(0) {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		l.r.Move(1)
		return true
	}
	return false
}

func (l *Lexer) consumeIdent() bool {
	r, n := l.r.PeekRune(0)
	if r != '_' && !unicode.IsLetter(r) {
		return false
	}
	l.r.Move(n)
	for {
		r, n = l.r.PeekRune(0)
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
		l.r.Move(n)
	}
}

// rawStringPrefix returns length of r"  or r#..#" opening, 0 if there is none.
func (l *Lexer) rawStringPrefix() int {
	pos := 1
	for l.r.Peek(pos) == '#' {
		pos++
	}
	if l.r.Peek(pos) != '"' {
		return 0
	}
	return pos
}

// consumeString consumes quoted string. For raw strings prefix is length of
// r#.. part, escapes are not recognized then and closing quote has to be
// followed by the same number of hashes.
func (l *Lexer) consumeString(prefix int) bool {
	hashes := max(prefix-1, 0)
	l.r.Move(prefix + 1)
	for {
		c := l.r.Peek(0)
		switch {
		case c == 0 && l.r.PeekErr(0) != nil:
			l.fail(errUnterminatedString)
			return false
		case c == '\\' && prefix == 0:
			l.r.Move(1)
			if l.r.Peek(0) == 0 && l.r.PeekErr(0) != nil {
				l.fail(errUnterminatedString)
				return false
			}
			l.r.MoveRune()
		case c == '"':
			l.r.Move(1)
			n := 0
			for n < hashes && l.r.Peek(0) == '#' {
				l.r.Move(1)
				n++
			}
			if n == hashes {
				return true
			}
		default:
			l.r.Move(1)
		}
	}
}

// consumeChar consumes 'x' or '\n' style character literal.
func (l *Lexer) consumeChar() bool {
	pos := 1
	if l.r.Peek(pos) == '\\' {
		pos++
		if l.r.Peek(pos) == 'u' && l.r.Peek(pos+1) == '{' {
			for pos < 16 && l.r.Peek(pos) != '}' {
				pos++
			}
			pos++
		} else if l.r.Peek(pos) == 'x' {
			pos += 3
		} else {
			pos++
		}
	} else {
		r, n := l.r.PeekRune(pos)
		if r == '\'' || r == '\n' || (r == 0 && l.r.PeekErr(pos) != nil) {
			return false
		}
		pos += n
	}
	if l.r.Peek(pos) != '\'' {
		return false
	}
	l.r.Move(pos + 1)
	return true
}

func (l *Lexer) consumeBlockComment() bool {
	l.r.Move(2)
	depth := 1
	for depth > 0 {
		c := l.r.Peek(0)
		switch {
		case c == 0 && l.r.PeekErr(0) != nil:
			l.fail(errUnterminatedComment)
			return false
		case c == '/' && l.r.Peek(1) == '*':
			depth++
			l.r.Move(2)
		case c == '*' && l.r.Peek(1) == '/':
			depth--
			l.r.Move(2)
		default:
			l.r.Move(1)
		}
	}
	return true
}

// isEOF reports whether lexer stopped at the end of input.
func isEOF(err error) bool {
	return err == nil || err == io.EOF
}
