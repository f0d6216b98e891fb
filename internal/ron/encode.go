package ron

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	numberType        = reflect.TypeOf(json.Number(""))
)

// Marshal returns the compact RON encoding of v.
func Marshal(v any) ([]byte, error) {
	e := &encoder{}
	if err := e.encode(reflect.ValueOf(v), 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) encode(v reflect.Value, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("ron: value nested deeper than %d", maxDepth)
	}
	if !v.IsValid() {
		e.buf.WriteString("None")
		return nil
	}
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		e.buf.WriteString("None")
		return nil
	}
	if v.Type() == numberType {
		s := v.String()
		if s == "" {
			s = "0"
		}
		e.buf.WriteString(s)
		return nil
	}
	if handled, err := e.marshaler(v, depth); handled {
		return err
	}

	switch v.Kind() {
	case reflect.Bool:
		e.buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		e.buf.WriteString(formatFloat(v.Float(), 32))
	case reflect.Float64:
		e.buf.WriteString(formatFloat(v.Float(), 64))
	case reflect.String:
		writeString(&e.buf, v.String())
	case reflect.Interface, reflect.Pointer:
		return e.encode(v.Elem(), depth+1)
	case reflect.Slice:
		if v.IsNil() {
			e.buf.WriteString("None")
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			// Byte slices follow encoding/json so they decode back through it.
			writeString(&e.buf, base64.StdEncoding.EncodeToString(v.Bytes()))
			return nil
		}
		return e.list(v, depth)
	case reflect.Array:
		return e.list(v, depth)
	case reflect.Map:
		if v.IsNil() {
			e.buf.WriteString("None")
			return nil
		}
		return e.mapValue(v, depth)
	case reflect.Struct:
		return e.structValue(v, depth)
	default:
		return &UnsupportedTypeError{Type: v.Type().String()}
	}
	return nil
}

// marshaler encodes values that define their own JSON or text form.
func (e *encoder) marshaler(v reflect.Value, depth int) (bool, error) {
	m := v
	if !m.Type().Implements(jsonMarshalerType) && !m.Type().Implements(textMarshalerType) && m.CanAddr() {
		m = m.Addr()
	}
	if m.Type().Implements(jsonMarshalerType) {
		b, err := m.Interface().(json.Marshaler).MarshalJSON()
		if err != nil {
			return true, fmt.Errorf("ron: %s: %w", v.Type(), err)
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var generic any
		if err := dec.Decode(&generic); err != nil {
			return true, fmt.Errorf("ron: %s: %w", v.Type(), err)
		}
		return true, e.encode(reflect.ValueOf(generic), depth+1)
	}
	if m.Type().Implements(textMarshalerType) {
		b, err := m.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return true, fmt.Errorf("ron: %s: %w", v.Type(), err)
		}
		writeString(&e.buf, string(b))
		return true, nil
	}
	return false, nil
}

func (e *encoder) list(v reflect.Value, depth int) error {
	e.buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encode(v.Index(i), depth+1); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) mapValue(v reflect.Value, depth int) error {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := mapKeyString(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: k, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	e.buf.WriteByte('{')
	for i, ent := range entries {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		writeString(&e.buf, ent.key)
		e.buf.WriteByte(':')
		if err := e.encode(ent.val, depth+1); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func mapKeyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return "", fmt.Errorf("ron: map key: %w", err)
		}
		return string(b), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", &UnsupportedTypeError{Type: "map key " + k.Type().String()}
}

func (e *encoder) structValue(v reflect.Value, depth int) error {
	e.buf.WriteByte('(')
	n := 0
	for _, f := range cachedFields(v.Type()) {
		fv, ok := fieldByIndex(v, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if n > 0 {
			e.buf.WriteByte(',')
		}
		n++
		writeIdent(&e.buf, f.name)
		e.buf.WriteByte(':')
		if err := e.encode(fv, depth+1); err != nil {
			return err
		}
	}
	e.buf.WriteByte(')')
	return nil
}

// fieldByIndex walks index through embedded structs, reporting false when it crosses
// a nil embedded pointer.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r == utf8.RuneError || !unicode.IsPrint(r) {
				fmt.Fprintf(buf, `\u{%x}`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

func writeIdent(buf *bytes.Buffer, name string) {
	if isPlainIdent(name) {
		buf.WriteString(name)
		return
	}
	buf.WriteString("r#")
	buf.WriteString(name)
}

func isPlainIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
