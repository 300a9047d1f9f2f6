package edn

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Marshal writes v on a single line.
func Marshal(v any) ([]byte, error) {
	p := &printer{}
	if err := p.write(v, -1); err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}

// MarshalIndent writes v across several lines. Maps holding nested
// collections put every entry on its own line, starting at column indent.
func MarshalIndent(v any, indent int) ([]byte, error) {
	p := &printer{}
	if err := p.write(v, indent); err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}

// writeString is used for diagnostics and never fails.
func writeString(v any) string {
	b, err := Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

type printer struct {
	strings.Builder
}

// write prints v. indent < 0 means single-line output.
func (p *printer) write(v any, indent int) error {
	switch x := v.(type) {
	case nil:
		p.WriteString("nil")
	case bool:
		p.WriteString(strconv.FormatBool(x))
	case int:
		p.WriteString(strconv.Itoa(x))
	case int64:
		p.WriteString(strconv.FormatInt(x, 10))
	case uint64:
		p.WriteString(strconv.FormatUint(x, 10))
	case float64:
		return p.writeFloat(x)
	case string:
		p.writeQuoted(x)
	case Keyword:
		if !x.Valid() {
			return fmt.Errorf("invalid keyword %q", string(x))
		}
		p.WriteString(x.String())
	case Symbol:
		p.WriteString(string(x))
	case Char:
		p.writeChar(x)
	case *Map:
		return p.writeMap(x, indent)
	case List:
		return p.writeSeq("(", ")", x, indent)
	case Vector:
		return p.writeSeq("[", "]", x, indent)
	case Set:
		return p.writeSeq("#{", "}", x, indent)
	case Tagged:
		p.WriteString("#" + string(x.Tag) + " ")
		return p.write(x.Value, indent)
	default:
		return fmt.Errorf("edn: cannot encode value of type %T", v)
	}
	return nil
}

func (p *printer) writeFloat(f float64) error {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("edn: cannot encode %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	p.WriteString(s)
	return nil
}

func (p *printer) writeQuoted(s string) {
	p.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			p.WriteString(`\"`)
		case '\\':
			p.WriteString(`\\`)
		case '\n':
			p.WriteString(`\n`)
		case '\t':
			p.WriteString(`\t`)
		case '\r':
			p.WriteString(`\r`)
		default:
			p.WriteRune(c)
		}
	}
	p.WriteByte('"')
}

func (p *printer) writeChar(c Char) {
	for name, r := range namedChars {
		if rune(c) == r {
			p.WriteString(`\` + name)
			return
		}
	}
	p.WriteString(`\` + string(rune(c)))
}

func isCollection(v any) bool {
	switch x := v.(type) {
	case *Map:
		return x.Len() > 0
	case List:
		return len(x) > 0
	case Vector:
		return len(x) > 0
	case Set:
		return len(x) > 0
	}
	return false
}

func (p *printer) writeMap(m *Map, indent int) error {
	nested := false
	for _, e := range m.Entries() {
		if isCollection(e.Value) {
			nested = true
			break
		}
	}
	if indent < 0 || !nested {
		p.WriteByte('{')
		for i, e := range m.Entries() {
			if i > 0 {
				p.WriteString(", ")
			}
			if err := p.write(e.Key, -1); err != nil {
				return err
			}
			p.WriteByte(' ')
			if err := p.write(e.Value, -1); err != nil {
				return err
			}
		}
		p.WriteByte('}')
		return nil
	}

	// One entry per line; nested collections move to their own line below the key.
	pad := strings.Repeat(" ", indent+1)
	p.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			p.WriteString("\n" + pad)
		}
		if err := p.write(e.Key, -1); err != nil {
			return err
		}
		if isCollection(e.Value) {
			p.WriteString("\n" + pad)
		} else {
			p.WriteByte(' ')
		}
		if err := p.write(e.Value, indent+1); err != nil {
			return err
		}
	}
	p.WriteByte('}')
	return nil
}

func (p *printer) writeSeq(open, close string, items []any, indent int) error {
	p.WriteString(open)
	for i, v := range items {
		if i > 0 {
			p.WriteByte(' ')
		}
		if err := p.write(v, -1); err != nil {
			return err
		}
	}
	p.WriteString(close)
	return nil
}
