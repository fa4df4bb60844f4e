package scribe

import (
	"math"
	"os"
	"strings"

	"github.com/reoring/scribe/internal/jsondoc"
	"gopkg.in/yaml.v3"
)

// Schema documents are recursive object literals. Every node may carry
// "schema_name" and "schema_description"; the "type" field defaults to
// "any". See SchemaFromDoc for the accepted field set per type.

// SchemaFromFile loads a schema document from a .json, .yaml or .yml file.
// JSON schema documents may carry // and /* */ comments.
func SchemaFromFile(filename string) (Schema, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Schema{}, &ReadError{Message: "reading schema file", Cause: err}
	}
	switch {
	case strings.HasSuffix(filename, ".yaml"), strings.HasSuffix(filename, ".yml"):
		var node any
		if err := yaml.Unmarshal(data, &node); err != nil {
			return Schema{}, &ReadError{Message: "parsing schema document", Cause: err}
		}
		return SchemaFromDoc(node)
	default:
		return SchemaFromJSON(data)
	}
}

// SchemaFromJSON loads a schema from JSON text, accepting comments.
func SchemaFromJSON(data []byte) (Schema, error) {
	node, err := jsondoc.DecodeLenient(data)
	if err != nil {
		return Schema{}, &ReadError{Message: "parsing schema document", Cause: err}
	}
	return SchemaFromDoc(node)
}

// SchemaFromDoc builds a Schema from a generic document tree. The loader is
// the schema format's own validator: unknown types, malformed items and
// inconsistent bounds all fail with a Validation error.
func SchemaFromDoc(node any) (Schema, error) {
	meta := Metadata{}
	if s, ok := docString(node, "schema_name"); ok {
		meta.Name = s
	}
	if s, ok := docString(node, "schema_description"); ok {
		meta.Description = s
	}

	typ := "any"
	if s, ok := docString(node, "type"); ok {
		typ = s
	}

	switch typ {
	case "none":
		return NewSchema(NoneSchema{}, meta)
	case "any":
		return NewSchema(AnySchema{}, meta)
	case "bool":
		return NewSchema(BoolSchema{}, meta)
	case "string":
		s := StringSchema{}
		if v, ok, err := docInt(node, "min_length"); err != nil {
			return Schema{}, err
		} else if ok {
			if v < 0 {
				return Schema{}, validationf("", "min_length must not be negative")
			}
			n := int(v)
			s.MinLength = &n
		}
		if v, ok, err := docInt(node, "max_length"); err != nil {
			return Schema{}, err
		} else if ok {
			if v < 0 {
				return Schema{}, validationf("", "max_length must not be negative")
			}
			n := int(v)
			s.MaxLength = &n
		}
		if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
			return Schema{}, validationf("", "min_length %d above max_length %d", *s.MinLength, *s.MaxLength)
		}
		return NewSchema(s, meta)
	case "array":
		elemNode, ok := docField(node, "elements")
		if !ok {
			return Schema{}, validationf("", "array schema without 'elements'")
		}
		elem, err := SchemaFromDoc(elemNode)
		if err != nil {
			return Schema{}, err
		}
		s := ArraySchema{Elements: elem}
		if shapeNode, ok := docField(node, "shape"); ok {
			list, ok := docList(shapeNode)
			if !ok {
				return Schema{}, validationf("", "array shape must be a list of integers")
			}
			if len(list) == 0 {
				return Schema{}, validationf("", "array shape must not be empty")
			}
			for _, entry := range list {
				d, ok := coerceInt(entry)
				if !ok {
					return Schema{}, validationf("", "array shape must be a list of integers")
				}
				if d < -1 {
					return Schema{}, validationf("", "array dimension %d must be >= 0 or the wildcard -1", d)
				}
				s.Shape = append(s.Shape, d)
			}
		}
		return NewSchema(s, meta)
	case "record", "dict": // "dict" is the legacy name, accepted on read only
		itemsNode, ok := docField(node, "items")
		if !ok {
			return Schema{}, validationf("", "record schema without 'items'")
		}
		list, ok := docList(itemsNode)
		if !ok {
			return Schema{}, validationf("", "record items must be a list")
		}
		s := RecordSchema{}
		for _, itemNode := range list {
			key, ok := docString(itemNode, "key")
			if !ok {
				return Schema{}, validationf("", "record item without 'key'")
			}
			item := ItemSchema{Key: key}
			if b, ok, err := docBool(itemNode, "optional"); err != nil {
				return Schema{}, err
			} else if ok {
				item.Optional = b
			}
			// the remaining fields of the item object form the nested schema
			nested, err := SchemaFromDoc(itemNode)
			if err != nil {
				return Schema{}, err
			}
			item.Schema = nested
			s.Items = append(s.Items, item)
		}
		return NewSchema(s, meta)
	default:
		if nt, ok := ParseNumType(typ); ok {
			return NewSchema(NumberSchema{Type: nt}, meta)
		}
		return Schema{}, validationf("", "unknown schema type %q", typ)
	}
}

// MarshalDoc serializes the schema back into a document tree. Loading the
// result yields a semantically equivalent schema; omitted optional fields
// are not re-emitted, and records are always written with the canonical
// "record" type name.
func (s Schema) MarshalDoc() any {
	obj := jsondoc.NewObject()
	if name := s.Name(); name != "" {
		obj.Set("schema_name", name)
	}
	if desc := s.Description(); desc != "" {
		obj.Set("schema_description", desc)
	}
	switch n := s.Node().(type) {
	case NoneSchema:
		obj.Set("type", "none")
	case AnySchema:
		obj.Set("type", "any")
	case BoolSchema:
		obj.Set("type", "bool")
	case NumberSchema:
		obj.Set("type", n.Type.String())
	case StringSchema:
		obj.Set("type", "string")
		if n.MinLength != nil {
			obj.Set("min_length", *n.MinLength)
		}
		if n.MaxLength != nil {
			obj.Set("max_length", *n.MaxLength)
		}
	case ArraySchema:
		obj.Set("type", "array")
		if n.Shape != nil {
			shape := make([]any, len(n.Shape))
			for i, d := range n.Shape {
				shape[i] = d
			}
			obj.Set("shape", shape)
		}
		obj.Set("elements", n.Elements.MarshalDoc())
	case RecordSchema:
		obj.Set("type", "record")
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			itemObj := jsondoc.NewObject()
			itemObj.Set("key", item.Key)
			if item.Optional {
				itemObj.Set("optional", true)
			}
			nested, ok := item.Schema.MarshalDoc().(*jsondoc.Object)
			if ok {
				for _, k := range nested.Keys() {
					v, _ := nested.Get(k)
					itemObj.Set(k, v)
				}
			}
			items[i] = itemObj
		}
		obj.Set("items", items)
	}
	return obj
}

// MarshalJSON renders the schema document as indented JSON text.
func (s Schema) MarshalJSON() ([]byte, error) {
	return jsondoc.Encode(s.MarshalDoc())
}

// WriteSchemaFile writes the schema document to a .json, .yaml or .yml file.
func WriteSchemaFile(filename string, s Schema) error {
	var data []byte
	var err error
	switch {
	case strings.HasSuffix(filename, ".yaml"), strings.HasSuffix(filename, ".yml"):
		data, err = yaml.Marshal(docToPlain(s.MarshalDoc()))
	default:
		data, err = jsondoc.Encode(s.MarshalDoc())
	}
	if err != nil {
		return &WriteError{Message: "serializing schema document", Cause: err}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return &WriteError{Message: "writing schema file", Cause: err}
	}
	return nil
}

// docToPlain rewrites jsondoc nodes into plain maps and slices for the YAML
// encoder.
func docToPlain(node any) any {
	switch v := node.(type) {
	case *jsondoc.Object:
		m := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			m[k] = docToPlain(val)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = docToPlain(e)
		}
		return out
	case jsondoc.Number:
		if v.IsFloat() {
			f, _ := v.Float64()
			return f
		}
		i, _ := v.Int64()
		return i
	default:
		return v
	}
}

// ---- document field helpers ----
//
// The loader accepts trees from both the JSON adapter (*jsondoc.Object,
// jsondoc.Number) and the YAML decoder (map[string]any with native Go
// numbers).

func docField(node any, key string) (any, bool) {
	switch v := node.(type) {
	case *jsondoc.Object:
		val, ok := v.Get(key)
		if !ok || val == nil {
			return nil, false
		}
		return val, true
	case map[string]any:
		val, ok := v[key]
		if !ok || val == nil {
			return nil, false
		}
		return val, true
	}
	return nil, false
}

func docString(node any, key string) (string, bool) {
	v, ok := docField(node, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func docBool(node any, key string) (bool, bool, error) {
	v, ok := docField(node, key)
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, validationf("", "field %q must be a boolean", key)
	}
	return b, true, nil
}

func docInt(node any, key string) (int64, bool, error) {
	v, ok := docField(node, key)
	if !ok {
		return 0, false, nil
	}
	i, ok := coerceInt(v)
	if !ok {
		return 0, false, validationf("", "field %q must be an integer", key)
	}
	return i, true, nil
}

func docList(node any) ([]any, bool) {
	list, ok := node.([]any)
	return list, ok
}

func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case jsondoc.Number:
		if n.IsFloat() {
			return 0, false
		}
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
