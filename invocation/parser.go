// Package invocation reads declaration sources: sequences of
// declare_static_raw_cstr!("name", "text") and export_cstr!(name, "text")
// invocations, and expands them into declarations.
package invocation

import (
	"bytes"
	"fmt"

	parse "github.com/tdewolff/parse/v2"
	"go.uber.org/multierr"

	"cstrgen/encoder"
)

// Call is a single invocation found in declaration source.
type Call struct {
	Macro string
	// Public is set when invocation is preceded by "pub".
	Public bool
	Span   encoder.Span
	Args   []encoder.Argument
}

// SyntaxError is reported when source cannot be split into invocations.
type SyntaxError struct {
	Msg  string
	Span encoder.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Msg)
}

func (e *SyntaxError) Location() encoder.Span { return e.Span }

type token struct {
	tt     TokenType
	text   []byte
	offset int
}

type parser struct {
	file string
	data []byte
	toks []token
	pos  int
	errs error
}

// Parse splits declaration source into invocations. Syntax errors do not
// stop parsing: parser skips to the next ";" and continues, so all problems
// are reported at once. Calls parsed successfully are returned along with
// combined errors.
func Parse(file string, data []byte) ([]Call, error) {
	p := &parser{file: file, data: data}
	if err := p.tokenize(); err != nil {
		return nil, err
	}

	var calls []Call
	for p.skipSeparators(); !p.done(); p.skipSeparators() {
		call, err := p.parseCall()
		if err != nil {
			p.errs = multierr.Append(p.errs, err)
			p.recover()
			continue
		}
		calls = append(calls, call)
	}
	return calls, p.errs
}

// tokenize drops whitespace and comments. Lexing errors are fatal for the
// whole source since token boundaries after them are unreliable.
func (p *parser) tokenize() error {
	// parse.Input may write sentinel past the end of the slice
	l := NewLexer(parse.NewInputBytes(bytes.Clone(p.data)))
	for {
		tt, text, offset := l.Next()
		switch tt {
		case ErrorToken:
			if err := l.Err(); !isEOF(err) {
				return &SyntaxError{Msg: err.Error(), Span: p.span(l.ErrOffset(), 1)}
			}
			return nil
		case WhitespaceToken, CommentToken:
			continue
		}
		p.toks = append(p.toks, token{tt: tt, text: text, offset: offset})
	}
}

func (p *parser) span(offset, length int) encoder.Span {
	line, col, _ := parse.Position(bytes.NewReader(p.data), offset)
	return encoder.Span{File: p.file, Offset: offset, Length: length, Line: line, Column: col}
}

// spanOf covers tokens [from, to).
func (p *parser) spanOf(from, to int) encoder.Span {
	first, last := p.toks[from], p.toks[to-1]
	return p.span(first.offset, last.offset+len(last.text)-first.offset)
}

func (p *parser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() token {
	if p.done() {
		return token{tt: ErrorToken, offset: len(p.data)}
	}
	return p.toks[p.pos]
}

func (p *parser) skipSeparators() {
	for !p.done() && p.peek().tt == SemicolonToken {
		p.pos++
	}
}

// recover skips to the token after next top level ";".
func (p *parser) recover() {
	depth := 0
	for ; !p.done(); p.pos++ {
		switch p.peek().tt {
		case OpenToken:
			depth++
		case CloseToken:
			depth--
		case SemicolonToken:
			if depth <= 0 {
				p.pos++
				return
			}
		}
	}
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Span: p.span(tok.offset, max(len(tok.text), 1))}
}

func (p *parser) describe(tok token) string {
	if tok.tt == ErrorToken {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.text)
}

func (p *parser) parseCall() (Call, error) {
	start := p.pos
	call := Call{}

	tok := p.peek()
	if tok.tt == IdentToken && string(tok.text) == "pub" {
		call.Public = true
		p.pos++
		tok = p.peek()
	}
	if tok.tt != IdentToken {
		return call, p.errorf(tok, "expected invocation, found %s", p.describe(tok))
	}
	call.Macro = string(tok.text)
	p.pos++

	if tok = p.peek(); tok.tt != BangToken {
		return call, p.errorf(tok, "expected '!' after %s, found %s", call.Macro, p.describe(tok))
	}
	p.pos++

	open := p.peek()
	if open.tt != OpenToken {
		return call, p.errorf(open, "expected '(' after %s!, found %s", call.Macro, p.describe(open))
	}
	p.pos++

	args, err := p.parseArgs(open)
	if err != nil {
		return call, err
	}
	call.Args = args
	call.Span = p.spanOf(start, p.pos)

	if !p.done() && p.peek().tt != SemicolonToken {
		tok = p.peek()
		return call, p.errorf(tok, "expected ';' after invocation, found %s", p.describe(tok))
	}
	return call, nil
}

var closing = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// parseArgs splits tokens up to matching close delimiter at top level
// commas. Trailing comma is allowed.
func (p *parser) parseArgs(open token) ([]encoder.Argument, error) {
	var (
		args  []encoder.Argument
		stack = []byte{closing[open.text[0]]}
		from  = p.pos
	)
	for {
		tok := p.peek()
		switch tok.tt {
		case ErrorToken:
			return nil, p.errorf(open, "unclosed delimiter %q", open.text)
		case OpenToken:
			stack = append(stack, closing[tok.text[0]])
		case CloseToken:
			if tok.text[0] != stack[len(stack)-1] {
				return nil, p.errorf(tok, "mismatched closing delimiter %q", tok.text)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				if from < p.pos {
					arg, err := p.argument(from, p.pos)
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
				}
				p.pos++
				return args, nil
			}
		case CommaToken:
			if len(stack) == 1 {
				if from == p.pos {
					return nil, p.errorf(tok, "expected expression, found ','")
				}
				arg, err := p.argument(from, p.pos)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				from = p.pos + 1
			}
		case SemicolonToken:
			if len(stack) == 1 {
				return nil, p.errorf(open, "unclosed delimiter %q", open.text)
			}
		}
		p.pos++
	}
}

// argument classifies tokens [from, to) as a single logical input.
func (p *parser) argument(from, to int) (encoder.Argument, error) {
	span := p.spanOf(from, to)
	if to-from == 1 {
		tok := p.toks[from]
		switch tok.tt {
		case StringToken:
			value, err := unquote(tok.text)
			if err != nil {
				return encoder.Argument{}, &SyntaxError{Msg: err.Error(), Span: span}
			}
			return encoder.Argument{Value: value, Kind: encoder.KindLiteral, Span: span}, nil
		case IdentToken:
			return encoder.Argument{Value: string(tok.text), Kind: encoder.KindIdentifier, Span: span}, nil
		}
	}
	return encoder.Argument{Value: string(p.data[span.Offset : span.Offset+span.Length]), Kind: encoder.KindExpression, Span: span}, nil
}
