package edn

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse reads every top-level form in src.
func Parse(src []byte) ([]any, error) {
	r := newReader(src)
	var forms []any
	for {
		if err := r.skipSpace(); err != nil {
			return nil, err
		}
		if r.eof() {
			return forms, nil
		}
		v, err := r.read()
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
}

// ParseOne reads exactly one form from src.
func ParseOne(src []byte) (any, error) {
	forms, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if len(forms) != 1 {
		return nil, &SyntaxError{Line: 1, Col: 1, Msg: "expected exactly one form, found " + strconv.Itoa(len(forms))}
	}
	return forms[0], nil
}

type reader struct {
	src  []byte
	pos  int
	line int
	col  int
}

func newReader(src []byte) *reader {
	return &reader{src: src, line: 1, col: 1}
}

func (r *reader) eof() bool { return r.pos >= len(r.src) }

func (r *reader) peek() rune {
	if r.eof() {
		return utf8.RuneError
	}
	c, _ := utf8.DecodeRune(r.src[r.pos:])
	return c
}

func (r *reader) next() rune {
	c, size := utf8.DecodeRune(r.src[r.pos:])
	r.pos += size
	if c == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return c
}

func (r *reader) errorf(msg string) error {
	return &SyntaxError{Line: r.line, Col: r.col, Msg: msg}
}

func (r *reader) skipSpace() error {
	for !r.eof() {
		c := r.peek()
		switch {
		case c == ',' || unicode.IsSpace(c):
			r.next()
		case c == ';':
			for !r.eof() && r.peek() != '\n' {
				r.next()
			}
		case c == '#' && r.pos+1 < len(r.src) && r.src[r.pos+1] == '_':
			r.next()
			r.next()
			if err := r.skipSpace(); err != nil {
				return err
			}
			if r.eof() {
				return r.errorf("discard macro without a form")
			}
			if _, err := r.read(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func isDelimiter(c rune) bool {
	return c == ',' || unicode.IsSpace(c) || strings.ContainsRune("()[]{}\";", c)
}

func (r *reader) read() (any, error) {
	c := r.peek()
	switch {
	case c == '(':
		r.next()
		items, err := r.readSeq(')')
		return List(items), err
	case c == '[':
		r.next()
		items, err := r.readSeq(']')
		return Vector(items), err
	case c == '{':
		r.next()
		return r.readMap()
	case c == ')' || c == ']' || c == '}':
		return nil, r.errorf("unexpected " + string(c))
	case c == '"':
		r.next()
		return r.readString()
	case c == ':':
		r.next()
		tok := r.token()
		if tok == "" {
			return nil, r.errorf("empty keyword")
		}
		return Keyword(tok), nil
	case c == '\\':
		r.next()
		return r.readChar()
	case c == '#':
		r.next()
		return r.readDispatch()
	default:
		return r.readAtom()
	}
}

func (r *reader) readSeq(end rune) ([]any, error) {
	items := []any{}
	for {
		if err := r.skipSpace(); err != nil {
			return nil, err
		}
		if r.eof() {
			return nil, r.errorf("unterminated collection, expected " + string(end))
		}
		if r.peek() == end {
			r.next()
			return items, nil
		}
		v, err := r.read()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (r *reader) readMap() (*Map, error) {
	items, err := r.readSeq('}')
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, r.errorf("map literal must contain an even number of forms")
	}
	m := &Map{}
	for i := 0; i < len(items); i += 2 {
		if _, dup := m.Get(items[i]); dup {
			return nil, r.errorf("duplicate map key " + writeString(items[i]))
		}
		m.Set(items[i], items[i+1])
	}
	return m, nil
}

func (r *reader) readString() (string, error) {
	var b strings.Builder
	for {
		if r.eof() {
			return "", r.errorf("unterminated string")
		}
		c := r.next()
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if r.eof() {
				return "", r.errorf("unterminated escape")
			}
			e := r.next()
			switch e {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '"', '\\':
				b.WriteRune(e)
			case 'u':
				if r.pos+4 > len(r.src) {
					return "", r.errorf("short unicode escape")
				}
				n, err := strconv.ParseUint(string(r.src[r.pos:r.pos+4]), 16, 32)
				if err != nil {
					return "", r.errorf("invalid unicode escape")
				}
				for i := 0; i < 4; i++ {
					r.next()
				}
				b.WriteRune(rune(n))
			default:
				return "", r.errorf("unknown escape \\" + string(e))
			}
		default:
			b.WriteRune(c)
		}
	}
}

var namedChars = map[string]rune{
	"newline":   '\n',
	"space":     ' ',
	"tab":       '\t',
	"return":    '\r',
	"backspace": '\b',
	"formfeed":  '\f',
}

func (r *reader) readChar() (Char, error) {
	if r.eof() {
		return 0, r.errorf("empty character literal")
	}
	first := r.next()
	rest := r.token()
	if rest == "" {
		return Char(first), nil
	}
	name := string(first) + rest
	if c, ok := namedChars[name]; ok {
		return Char(c), nil
	}
	if first == 'u' && len(rest) == 4 {
		if n, err := strconv.ParseUint(rest, 16, 32); err == nil {
			return Char(rune(n)), nil
		}
	}
	return 0, r.errorf("unknown character literal \\" + name)
}

func (r *reader) readDispatch() (any, error) {
	if r.peek() == '{' {
		r.next()
		items, err := r.readSeq('}')
		return Set(items), err
	}
	tag := r.token()
	if tag == "" {
		return nil, r.errorf("invalid dispatch character")
	}
	if err := r.skipSpace(); err != nil {
		return nil, err
	}
	if r.eof() {
		return nil, r.errorf("tag #" + tag + " without a value")
	}
	v, err := r.read()
	if err != nil {
		return nil, err
	}
	return Tagged{Tag: Symbol(tag), Value: v}, nil
}

func (r *reader) token() string {
	start := r.pos
	for !r.eof() && !isDelimiter(r.peek()) {
		r.next()
	}
	return string(r.src[start:r.pos])
}

func (r *reader) readAtom() (any, error) {
	line, col := r.line, r.col
	tok := r.token()
	if tok == "" {
		return nil, r.errorf("unexpected character " + strconv.QuoteRune(r.peek()))
	}
	switch tok {
	case "nil":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if isNumberStart(tok) {
		v, err := parseNumber(tok)
		if err != nil {
			return nil, &SyntaxError{Line: line, Col: col, Msg: "invalid number " + tok}
		}
		return v, nil
	}
	return Symbol(tok), nil
}

func isNumberStart(tok string) bool {
	c := tok[0]
	if c >= '0' && c <= '9' {
		return true
	}
	return (c == '+' || c == '-') && len(tok) > 1 && tok[1] >= '0' && tok[1] <= '9'
}

func parseNumber(tok string) (any, error) {
	switch {
	case strings.HasSuffix(tok, "N"):
		tok = strings.TrimSuffix(tok, "N")
	case strings.HasSuffix(tok, "M"):
		return strconv.ParseFloat(strings.TrimSuffix(tok, "M"), 64)
	}
	if strings.ContainsAny(tok, ".eE") {
		return strconv.ParseFloat(tok, 64)
	}
	return strconv.ParseInt(tok, 10, 64)
}
