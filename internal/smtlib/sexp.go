package smtlib

import (
	"fmt"
	"strings"
)

// AtomKind classifies an atom.
type AtomKind int

const (
	Symbol  AtomKind = iota // simple or |quoted| symbol; Text is unquoted
	Numeral                 // 42
	Decimal                 // 4.2
	Binary                  // #b0101; Text holds the digits
	Hex                     // #x1f; Text holds the digits
	String                  // "text"; Text is unescaped
	Keyword                 // :named
)

// Node is an Atom or a List.
type Node interface {
	Offset() int
	String() string
	isNode()
}

// Atom is a leaf token.
type Atom struct {
	Kind   AtomKind
	Text   string
	Quoted bool // symbol was written |quoted|
	Pos    int
}

func (Atom) isNode()       {}
func (a Atom) Offset() int { return a.Pos }

func (a Atom) String() string {
	switch a.Kind {
	case Symbol:
		if a.Quoted {
			return "|" + a.Text + "|"
		}
	case Binary:
		return "#b" + a.Text
	case Hex:
		return "#x" + a.Text
	case String:
		return `"` + strings.ReplaceAll(a.Text, `"`, `""`) + `"`
	}
	return a.Text
}

// List is a parenthesised sequence.
type List struct {
	Items []Node
	Pos   int
}

func (List) isNode()       {}
func (l List) Offset() int { return l.Pos }

func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, n := range l.Items {
		parts[i] = n.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the leading symbol of l, or "" if l does not start with one.
func (l List) Head() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(Atom); ok && a.Kind == Symbol && !a.Quoted {
		return a.Text
	}
	return ""
}

// SyntaxError reports malformed input.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("smtlib: syntax error at offset %d: %s", e.Offset, e.Message)
}

// Parse reads every top-level s-expression of src.
func Parse(src string) ([]Node, error) {
	p := &reader{src: src}
	var out []Node
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return out, nil
		}
		n, err := p.node()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

// ParseOne reads exactly one s-expression.
func ParseOne(src string) (Node, error) {
	nodes, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, &SyntaxError{Offset: 0, Message: fmt.Sprintf("expected one expression, found %d", len(nodes))}
	}
	return nodes[0], nil
}

type reader struct {
	src string
	pos int
}

func (p *reader) fail(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *reader) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == ';':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *reader) node() (Node, error) {
	start := p.pos
	switch c := p.src[p.pos]; {
	case c == '(':
		p.pos++
		list := List{Pos: start}
		for {
			p.skipSpace()
			if p.pos >= len(p.src) {
				return nil, &SyntaxError{Offset: start, Message: "unclosed parenthesis"}
			}
			if p.src[p.pos] == ')' {
				p.pos++
				return list, nil
			}
			n, err := p.node()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, n)
		}
	case c == ')':
		return nil, p.fail("unexpected ')'")
	case c == '|':
		end := strings.IndexByte(p.src[p.pos+1:], '|')
		if end < 0 {
			return nil, p.fail("unterminated quoted symbol")
		}
		text := p.src[p.pos+1 : p.pos+1+end]
		if strings.ContainsRune(text, '\\') {
			return nil, p.fail("backslash in quoted symbol")
		}
		p.pos += end + 2
		return Atom{Kind: Symbol, Text: text, Quoted: true, Pos: start}, nil
	case c == '"':
		var sb strings.Builder
		p.pos++
		for {
			if p.pos >= len(p.src) {
				return nil, &SyntaxError{Offset: start, Message: "unterminated string literal"}
			}
			ch := p.src[p.pos]
			p.pos++
			if ch == '"' {
				if p.pos < len(p.src) && p.src[p.pos] == '"' {
					sb.WriteByte('"')
					p.pos++
					continue
				}
				return Atom{Kind: String, Text: sb.String(), Pos: start}, nil
			}
			sb.WriteByte(ch)
		}
	case c == '#':
		if p.pos+1 >= len(p.src) {
			return nil, p.fail("dangling '#'")
		}
		kind, valid := Binary, isBinaryDigit
		switch p.src[p.pos+1] {
		case 'b':
		case 'x':
			kind, valid = Hex, isHexDigit
		default:
			return nil, p.fail("unknown literal prefix #%c", p.src[p.pos+1])
		}
		p.pos += 2
		digits := p.scan(valid)
		if digits == "" {
			return nil, p.fail("empty bit-vector literal")
		}
		return Atom{Kind: kind, Text: digits, Pos: start}, nil
	case isDigit(c):
		text := p.scan(isDigit)
		if p.pos < len(p.src) && p.src[p.pos] == '.' {
			p.pos++
			frac := p.scan(isDigit)
			if frac == "" {
				return nil, p.fail("malformed decimal")
			}
			return Atom{Kind: Decimal, Text: text + "." + frac, Pos: start}, nil
		}
		if len(text) > 1 && text[0] == '0' {
			return nil, &SyntaxError{Offset: start, Message: "numeral with leading zero"}
		}
		return Atom{Kind: Numeral, Text: text, Pos: start}, nil
	case c == ':':
		p.pos++
		name := p.scan(isSymbolChar)
		if name == "" {
			return nil, p.fail("empty keyword")
		}
		return Atom{Kind: Keyword, Text: ":" + name, Pos: start}, nil
	case isSymbolChar(c):
		return Atom{Kind: Symbol, Text: p.scan(isSymbolChar), Pos: start}, nil
	default:
		return nil, p.fail("unexpected character %q", c)
	}
}

func (p *reader) scan(valid func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.src) && valid(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isBinaryDigit(c byte) bool { return c == '0' || c == '1' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSymbolChar(c byte) bool {
	if isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	return strings.IndexByte("~!@$%^&*_-+=<>.?/", c) >= 0
}
