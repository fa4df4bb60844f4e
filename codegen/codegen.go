// Package codegen emits Go record definitions from a schema. Every record
// node becomes a struct with tome-tagged fields and generated
// MarshalTome/UnmarshalTome implementations, so files can be read straight
// into user types through the engine's conversion interfaces.
package codegen

import (
	"fmt"
	"strings"

	scribe "github.com/reoring/scribe"
)

// Generate renders a Go source file declaring one struct per record node of
// the schema. Shared sub-schemas (same handle visited twice) are emitted
// once; inner record definitions precede the records that use them.
func Generate(s scribe.Schema, pkg string) (string, error) {
	g := &generator{pkg: pkg}
	if _, err := g.typeName(s); err != nil {
		return "", err
	}
	return g.render(), nil
}

type generator struct {
	pkg  string
	defs []string

	// handle-identity cache; structural equality would wrongly merge
	// distinct records that happen to look alike
	seen  []scribe.Schema
	names []string

	anonCount int
}

func (g *generator) lookup(s scribe.Schema) (string, bool) {
	for i := range g.seen {
		if g.seen[i].Same(s) {
			return g.names[i], true
		}
	}
	return "", false
}

func (g *generator) typeName(s scribe.Schema) (string, error) {
	if name, ok := g.lookup(s); ok {
		return name, nil
	}
	var name string
	switch n := s.Node().(type) {
	case scribe.NoneSchema:
		return "", fmt.Errorf("codegen: cannot generate the 'none' type")
	case scribe.AnySchema:
		name = "scribe.Tome"
	case scribe.BoolSchema:
		name = "bool"
	case scribe.StringSchema:
		name = "string"
	case scribe.NumberSchema:
		name = n.Type.String()
	case scribe.ArraySchema:
		elem, err := g.elementTypeName(n.Elements)
		if err != nil {
			return "", err
		}
		name = "[]" + elem
		if elem == "scribe.Tome" {
			name = elem
		}
	case scribe.RecordSchema:
		recName := s.Name()
		if recName == "" {
			recName = fmt.Sprintf("AnonRecord%d", g.anonCount)
			g.anonCount++
		} else {
			recName = exportedName(recName)
		}
		// cache before descending so self-referencing shares resolve
		g.seen = append(g.seen, s)
		g.names = append(g.names, recName)
		if err := g.generateRecord(n, recName); err != nil {
			return "", err
		}
		return recName, nil
	}
	g.seen = append(g.seen, s)
	g.names = append(g.names, name)
	return name, nil
}

// elementTypeName maps an array element schema to a Go element type. Flat
// row-major slices mirror the Tome representation; element schemas without
// a slice form fall back to scribe.Tome. The slice conversions the generated
// methods rely on accept one-dimensional arrays only, so a slice field for
// an array of rank two or more fails to convert.
func (g *generator) elementTypeName(elem scribe.Schema) (string, error) {
	switch n := elem.Node().(type) {
	case scribe.NoneSchema:
		return "", fmt.Errorf("codegen: cannot generate the 'none' type")
	case scribe.NumberSchema:
		return n.Type.String(), nil
	case scribe.BoolSchema:
		return "bool", nil
	case scribe.StringSchema:
		return "string", nil
	case scribe.RecordSchema:
		// records keep their definitions even when the array field itself
		// degrades to a Tome
		if _, err := g.typeName(elem); err != nil {
			return "", err
		}
		return "scribe.Tome", nil
	default:
		return "scribe.Tome", nil
	}
}

func (g *generator) generateRecord(n scribe.RecordSchema, name string) error {
	type fieldInfo struct {
		goName string
		typ    string
		key    string
		opt    bool
	}
	fields := make([]fieldInfo, 0, len(n.Items))
	for _, item := range n.Items {
		typ, err := g.typeName(item.Schema)
		if err != nil {
			return err
		}
		f := fieldInfo{goName: exportedName(item.Key), typ: typ, key: item.Key, opt: item.Optional}
		if f.opt {
			f.typ = "*" + f.typ
		}
		fields = append(fields, f)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range fields {
		tag := f.key
		if f.opt {
			tag += ",optional"
		}
		fmt.Fprintf(&b, "\t%s %s `tome:%q`\n", f.goName, f.typ, tag)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (x *%s) UnmarshalTome(t *scribe.Tome) error {\n", name)
	for _, f := range fields {
		if f.opt {
			fmt.Fprintf(&b, "\tif err := scribe.ReadOptionalField(t, %q, &x.%s); err != nil {\n\t\treturn err\n\t}\n", f.key, f.goName)
		} else {
			fmt.Fprintf(&b, "\tif err := scribe.ReadField(t, %q, &x.%s); err != nil {\n\t\treturn err\n\t}\n", f.key, f.goName)
		}
	}
	b.WriteString("\treturn nil\n}\n\n")

	fmt.Fprintf(&b, "func (x %s) MarshalTome() (scribe.Tome, error) {\n", name)
	b.WriteString("\tout := scribe.NewRecord()\n")
	for _, f := range fields {
		if f.opt {
			fmt.Fprintf(&b, "\tif x.%s != nil {\n\t\tif err := scribe.SetField(&out, %q, *x.%s); err != nil {\n\t\t\treturn scribe.Tome{}, err\n\t\t}\n\t}\n", f.goName, f.key, f.goName)
		} else {
			fmt.Fprintf(&b, "\tif err := scribe.SetField(&out, %q, x.%s); err != nil {\n\t\treturn scribe.Tome{}, err\n\t}\n", f.key, f.goName)
		}
	}
	b.WriteString("\treturn out, nil\n}\n")

	g.defs = append(g.defs, b.String())
	return nil
}

func (g *generator) render() string {
	var b strings.Builder
	b.WriteString("// Code generated by scribe codegen; DO NOT EDIT.\n\n")
	pkg := g.pkg
	if pkg == "" {
		pkg = "main"
	}
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import scribe \"github.com/reoring/scribe\"\n")
	for _, def := range g.defs {
		b.WriteString("\n")
		b.WriteString(def)
	}
	return b.String()
}

// exportedName converts a record key into an exported Go identifier:
// "sample_rate" becomes "SampleRate".
func exportedName(key string) string {
	var b strings.Builder
	upper := true
	for _, r := range key {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			upper = true
		case upper:
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Field"
	}
	name := b.String()
	if name[0] >= '0' && name[0] <= '9' {
		name = "F" + name
	}
	return name
}
