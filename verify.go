package scribe

import "github.com/reoring/scribe/internal/jsondoc"

// Accepts reports whether a document tree follows the schema. It is the
// permissive sibling of ValidateJSON: no error, no path, and arrays are
// checked per element without shape enforcement. Useful for quick probes
// where only the yes/no answer matters.
func (s Schema) Accepts(doc any) bool {
	switch n := s.Node().(type) {
	case NoneSchema:
		return false
	case AnySchema:
		return true
	case BoolSchema:
		_, ok := doc.(bool)
		return ok
	case NumberSchema:
		return acceptsNumber(doc, n)
	case StringSchema:
		str, ok := doc.(string)
		return ok && n.Validate(str) == nil
	case ArraySchema:
		// one nesting level per dimension, as the strict driver assigns
		// them; only the innermost elements are checked against the schema
		depth := len(n.Shape)
		if n.Shape == nil {
			depth = len(inferShape(doc, n.Elements))
		}
		var walk func(node any, level int) bool
		walk = func(node any, level int) bool {
			if level == depth {
				return n.Elements.Accepts(node)
			}
			arr, ok := node.([]any)
			if !ok {
				return false
			}
			for _, elem := range arr {
				if !walk(elem, level+1) {
					return false
				}
			}
			return true
		}
		return walk(doc, 0)
	case RecordSchema:
		obj, ok := doc.(*jsondoc.Object)
		if !ok {
			return false
		}
		_, err := n.Validate(obj.Keys())
		if err != nil {
			return false
		}
		for _, key := range obj.Keys() {
			idx := n.findItem(key)
			child, _ := obj.Get(key)
			if !n.Items[idx].Schema.Accepts(child) {
				return false
			}
		}
		return true
	}
	return false
}

// AcceptsJSON parses JSON text and reports whether it follows the schema.
func (s Schema) AcceptsJSON(data []byte) bool {
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return false
	}
	return s.Accepts(doc)
}

func acceptsNumber(doc any, s NumberSchema) bool {
	switch {
	case s.Type.IsInteger():
		n, ok := doc.(jsondoc.Number)
		if !ok {
			return false
		}
		d, ok := decodeInt(n)
		return ok && d.validate(s) == nil
	case s.Type.IsReal():
		n, ok := doc.(jsondoc.Number)
		if !ok {
			return false
		}
		if n.IsFloat() {
			_, err := n.Float64()
			return err == nil
		}
		_, ok = decodeInt(n)
		return ok
	default:
		_, _, ok := complexParts(doc)
		return ok
	}
}
