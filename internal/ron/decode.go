package ron

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxDepth = 512

// Unmarshal parses RON data and stores the result in the value pointed to by v.
func Unmarshal(data []byte, v any) error {
	tree, err := Parse(data)
	if err != nil {
		return err
	}
	b, err := json.Marshal(withoutNonFinite(tree))
	if err != nil {
		return fmt.Errorf("ron: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return err
	}
	if !hasNonFinite(tree) {
		return nil
	}
	return storeNonFinite(reflect.ValueOf(v).Elem(), tree)
}

// Parse parses a single RON value into a generic tree of map[string]any, []any,
// string, json.Number, float64 (inf and NaN only), bool and nil.
func Parse(data []byte) (any, error) {
	p := &parser{data: data}
	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.pos < len(p.data) {
		return nil, p.errorf("unexpected trailing characters")
	}
	return v, nil
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) errorf(format string, args ...any) error {
	line, col := 1, 1
	end := p.pos
	if end > len(p.data) {
		end = len(p.data)
	}
	for _, c := range string(p.data[:end]) {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.data) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.data) {
		return 0
	}
	return p.data[p.pos+off]
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(string(p.data[p.pos:]), s)
}

// skipSpace skips whitespace, line comments and nested block comments.
func (p *parser) skipSpace() error {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '/' && p.peekAt(1) == '/':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		case c == '/' && p.peekAt(1) == '*':
			start := p.pos
			p.pos += 2
			depth := 1
			for depth > 0 {
				if p.eof() {
					p.pos = start
					return p.errorf("unterminated block comment")
				}
				switch {
				case p.hasPrefix("/*"):
					depth++
					p.pos += 2
				case p.hasPrefix("*/"):
					depth--
					p.pos += 2
				default:
					p.pos++
				}
			}
		default:
			return nil
		}
	}
	return nil
}

// skipAttributes skips leading #![...] extension attributes.
func (p *parser) skipAttributes() error {
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if !p.hasPrefix("#!") {
			return nil
		}
		p.pos += 2
		if p.peek() != '[' {
			return p.errorf("expected '[' after '#!'")
		}
		depth := 0
		for {
			if p.eof() {
				return p.errorf("unterminated attribute")
			}
			c := p.peek()
			p.pos++
			if c == '[' {
				depth++
			} else if c == ']' {
				depth--
				if depth == 0 {
					break
				}
			}
		}
	}
}

func (p *parser) expect(c byte) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, found end of input", c)
		}
		return p.errorf("expected %q, found %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) value(depth int) (any, error) {
	if depth > maxDepth {
		return nil, p.errorf("nesting deeper than %d", maxDepth)
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}
	c := p.peek()
	switch {
	case c == '"':
		return p.quoted()
	case c == 'b' && p.peekAt(1) == '"':
		p.pos++
		return p.quoted()
	case c == 'r' && (p.peekAt(1) == '"' || (p.peekAt(1) == '#' && p.isRawStringStart())):
		return p.rawString()
	case c == '\'':
		return p.char()
	case c == '[':
		return p.list(depth)
	case c == '{':
		return p.mapValue(depth)
	case c == '(':
		return p.parens(depth, "")
	case c == '-' || c == '+' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		return p.identValue(depth)
	}
	return nil, p.errorf("unexpected character %q", c)
}

// isRawStringStart reports whether r#... at the cursor opens a raw string rather than
// a raw identifier.
func (p *parser) isRawStringStart() bool {
	i := p.pos + 1
	for i < len(p.data) && p.data[i] == '#' {
		i++
	}
	return i < len(p.data) && p.data[i] == '"'
}

func (p *parser) identValue(depth int) (any, error) {
	start := p.pos
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	switch name {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "None":
		return nil, nil
	case "inf":
		return math.Inf(1), nil
	case "NaN":
		return math.NaN(), nil
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() == '(' {
		return p.parens(depth, name)
	}
	if name == "Some" {
		p.pos = start
		return nil, p.errorf("expected '(' after Some")
	}
	// Unit struct or enum variant.
	return name, nil
}

func (p *parser) ident() (string, error) {
	if p.hasPrefix("r#") {
		p.pos += 2
		start := p.pos
		for !p.eof() && isRawIdentChar(p.peek()) {
			p.pos++
		}
		if p.pos == start {
			return "", p.errorf("empty raw identifier")
		}
		return string(p.data[start:p.pos]), nil
	}
	if !isIdentStart(p.peek()) {
		return "", p.errorf("expected identifier")
	}
	start := p.pos
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	return string(p.data[start:p.pos]), nil
}

// parens parses the body of (...) after an optional struct, variant or Some name.
func (p *parser) parens(depth int, name string) (any, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	named, err := p.namedFieldsAhead()
	if err != nil {
		return nil, err
	}
	if named && name != "Some" {
		return p.structFields(depth)
	}
	var elems []any
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == ')' {
			p.pos++
			break
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		if done, err := p.separator(')'); err != nil {
			return nil, err
		} else if done {
			break
		}
	}
	switch {
	case name == "Some":
		if len(elems) != 1 {
			return nil, p.errorf("Some takes exactly one value, got %d", len(elems))
		}
		return elems[0], nil
	case len(elems) == 0:
		return nil, nil
	case name != "" && len(elems) == 1:
		return elems[0], nil
	default:
		if elems == nil {
			elems = []any{}
		}
		return elems, nil
	}
}

// namedFieldsAhead reports whether the cursor sits at `ident :`, the start of a struct
// with named fields. The cursor is left unchanged.
func (p *parser) namedFieldsAhead() (bool, error) {
	save := p.pos
	defer func() { p.pos = save }()
	if err := p.skipSpace(); err != nil {
		return false, err
	}
	if !isIdentStart(p.peek()) {
		return false, nil
	}
	if _, err := p.ident(); err != nil {
		return false, nil
	}
	if err := p.skipSpace(); err != nil {
		return false, err
	}
	return p.peek() == ':' && p.peekAt(1) != ':', nil
}

func (p *parser) structFields(depth int) (any, error) {
	out := map[string]any{}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == ')' {
			p.pos++
			return out, nil
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out[name] = v
		if done, err := p.separator(')'); err != nil {
			return nil, err
		} else if done {
			return out, nil
		}
	}
}

func (p *parser) list(depth int) (any, error) {
	p.pos++ // [
	out := []any{}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == ']' {
			p.pos++
			return out, nil
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if done, err := p.separator(']'); err != nil {
			return nil, err
		} else if done {
			return out, nil
		}
	}
}

func (p *parser) mapValue(depth int) (any, error) {
	p.pos++ // {
	out := map[string]any{}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}
		keyPos := p.pos
		k, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		key, ok := mapKey(k)
		if !ok {
			p.pos = keyPos
			return nil, p.errorf("unsupported map key of type %T", k)
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out[key] = v
		if done, err := p.separator('}'); err != nil {
			return nil, err
		} else if done {
			return out, nil
		}
	}
}

func mapKey(k any) (string, bool) {
	switch k := k.(type) {
	case string:
		return k, true
	case json.Number:
		return k.String(), true
	case bool:
		return strconv.FormatBool(k), true
	}
	return "", false
}

// separator consumes a ',' or the closing delimiter. It reports true once the
// delimiter has been consumed. A trailing comma before the delimiter is allowed.
func (p *parser) separator(closing byte) (bool, error) {
	if err := p.skipSpace(); err != nil {
		return false, err
	}
	switch p.peek() {
	case ',':
		p.pos++
		return false, nil
	case closing:
		p.pos++
		return true, nil
	}
	if p.eof() {
		return false, p.errorf("expected ',' or %q, found end of input", closing)
	}
	return false, p.errorf("expected ',' or %q, found %q", closing, p.peek())
}

func (p *parser) quoted() (any, error) {
	p.pos++ // "
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errorf("unterminated string")
		}
		c := p.peek()
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			r, err := p.escape()
			if err != nil {
				return nil, err
			}
			b.WriteRune(r)
		default:
			r, size := utf8.DecodeRune(p.data[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return nil, p.errorf("invalid UTF-8 in string")
			}
			b.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *parser) rawString() (any, error) {
	p.pos++ // r
	hashes := 0
	for p.peek() == '#' {
		hashes++
		p.pos++
	}
	if p.peek() != '"' {
		return nil, p.errorf("expected '\"' in raw string")
	}
	p.pos++
	closing := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(string(p.data[p.pos:]), closing)
	if end < 0 {
		return nil, p.errorf("unterminated raw string")
	}
	s := string(p.data[p.pos : p.pos+end])
	p.pos += end + len(closing)
	return s, nil
}

func (p *parser) char() (any, error) {
	p.pos++ // '
	var r rune
	if p.peek() == '\\' {
		var err error
		if r, err = p.escape(); err != nil {
			return nil, err
		}
	} else {
		var size int
		r, size = utf8.DecodeRune(p.data[p.pos:])
		if size == 0 || (r == utf8.RuneError && size == 1) || r == '\'' {
			return nil, p.errorf("invalid character literal")
		}
		p.pos += size
	}
	if p.peek() != '\'' {
		return nil, p.errorf("unterminated character literal")
	}
	p.pos++
	return string(r), nil
}

func (p *parser) escape() (rune, error) {
	p.pos++ // backslash
	if p.eof() {
		return 0, p.errorf("unterminated escape")
	}
	c := p.peek()
	p.pos++
	switch c {
	case '"', '\\', '\'', '/':
		return rune(c), nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '0':
		return 0, nil
	case 'x':
		return p.hexRune(2)
	case 'u':
		if p.peek() == '{' {
			p.pos++
			end := strings.IndexByte(string(p.data[p.pos:]), '}')
			if end < 1 || end > 6 {
				return 0, p.errorf("invalid unicode escape")
			}
			n, err := strconv.ParseUint(string(p.data[p.pos:p.pos+end]), 16, 32)
			if err != nil || !utf8.ValidRune(rune(n)) {
				return 0, p.errorf("invalid unicode escape")
			}
			p.pos += end + 1
			return rune(n), nil
		}
		return p.hexRune(4)
	}
	p.pos--
	return 0, p.errorf("unknown escape '\\%c'", c)
}

func (p *parser) hexRune(n int) (rune, error) {
	if p.pos+n > len(p.data) {
		return 0, p.errorf("truncated escape")
	}
	v, err := strconv.ParseUint(string(p.data[p.pos:p.pos+n]), 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, p.errorf("invalid escape")
	}
	p.pos += n
	return rune(v), nil
}

func (p *parser) number() (any, error) {
	start := p.pos
	neg := false
	if c := p.peek(); c == '-' || c == '+' {
		neg = c == '-'
		p.pos++
	}
	switch {
	case p.hasPrefix("inf"):
		p.pos += 3
		if neg {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case p.hasPrefix("NaN"):
		p.pos += 3
		return math.NaN(), nil
	}
	if !isDigit(p.peek()) {
		return nil, p.errorf("invalid number")
	}

	if p.peek() == '0' && strings.ContainsRune("xob", rune(p.peekAt(1))) {
		p.pos += 2
		for !p.eof() && (isHexDigit(p.peek()) || p.peek() == '_') {
			p.pos++
		}
		return p.integer(start, 0)
	}

	isFloat := false
	p.digits()
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		isFloat = true
		p.pos++
		p.digits()
	} else if p.peek() == '.' && !isIdentStart(p.peekAt(1)) {
		// "1." is a valid float
		isFloat = true
		p.pos++
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		isFloat = true
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			return nil, p.errorf("invalid exponent")
		}
		p.digits()
	}
	if isIdentChar(p.peek()) {
		return nil, p.errorf("invalid number suffix %q", p.peek())
	}
	if !isFloat {
		return p.integer(start, 10)
	}
	text := strings.ReplaceAll(string(p.data[start:p.pos]), "_", "")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid float %q", text)
	}
	if math.IsInf(f, 0) {
		return f, nil
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (p *parser) digits() {
	for !p.eof() && (isDigit(p.peek()) || p.peek() == '_') {
		p.pos++
	}
}

func (p *parser) integer(start, base int) (any, error) {
	text := strings.TrimPrefix(string(p.data[start:p.pos]), "+")
	text = strings.ReplaceAll(text, "_", "")
	n, ok := new(big.Int).SetString(text, base)
	if !ok {
		p.pos = start
		return nil, p.errorf("invalid integer %q", text)
	}
	return json.Number(n.String()), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isRawIdentChar(c byte) bool {
	return isIdentChar(c) || c == '.' || c == '+' || c == '-'
}
