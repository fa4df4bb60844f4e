// Package jsondoc materializes JSON text into a generic document tree and
// back. The tree uses these node types:
//
//	nil              null
//	bool             boolean
//	Number           integer or float primitive, tagged by lexical form
//	string           string
//	[]any            array
//	*Object          object, preserving document key order
//
// Object key order matters to the engine (records preserve insertion order),
// so decoding goes through the token stream instead of a plain map.
package jsondoc

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Number is a numeric primitive kept in its source form. Whether it is an
// integer or a float primitive is part of the document's contract.
type Number string

// IsFloat reports whether the literal is a float primitive (carries a
// fraction or an exponent).
func (n Number) IsFloat() bool {
	return strings.ContainsAny(string(n), ".eE")
}

// Int64 parses the literal as a signed integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Uint64 parses the literal as an unsigned integer.
func (n Number) Uint64() (uint64, error) {
	return strconv.ParseUint(string(n), 10, 64)
}

// Float64 parses the literal as a float.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// MarshalJSON emits the literal verbatim.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// Object is a JSON object preserving document key order.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the member keys in document order. The returned slice is
// owned by the object.
func (o *Object) Keys() []string { return o.keys }

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Set inserts or replaces a member. New keys keep document order.
func (o *Object) Set(key string, v any) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// MarshalJSON emits members in document order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := gojson.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode parses JSON text into a document tree.
func Decode(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	// anything but whitespace after the document is an error
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after document")
	}
	return node, nil
}

// DecodeLenient parses JSON text after stripping // and /* */ comments.
// Schema documents may carry comments; data documents normally do not.
func DecodeLenient(data []byte) (any, error) {
	return Decode(stripComments(data))
}

func decodeValue(dec *gojson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of document")
		}
		return nil, err
	}
	return decodeFrom(dec, tok)
}

func decodeFrom(dec *gojson.Decoder, tok gojson.Token) (any, error) {
	switch v := tok.(type) {
	case gojson.Delim:
		switch v {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", string(rune(v)))
	case gojson.Number:
		return Number(v), nil
	case string:
		return v, nil
	case bool:
		return v, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// Encode renders a document tree as JSON text with four-space indentation
// and a trailing newline.
func Encode(node any) ([]byte, error) {
	var buf bytes.Buffer
	enc := gojson.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stripComments removes // line comments and /* */ block comments outside
// string literals.
func stripComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i++ // skip the trailing '/'
		default:
			out = append(out, c)
		}
	}
	return out
}
