package scribe

// GuessSchema derives the narrowest schema a Tome satisfies, in one
// recursive pass. The result should be considered unstable: sibling
// elements of a heterogeneous array are not unified, so the guess follows
// the first element only. It is mostly useful for interactive exploration
// of data files, or as a starting point when writing a schema for existing
// data.
func GuessSchema(t *Tome) Schema {
	switch t.kind {
	case KindBool:
		return MustSchema(BoolSchema{}, Metadata{})
	case KindString:
		return MustSchema(StringSchema{}, Metadata{})
	case KindNumber:
		return MustSchema(NumberSchema{Type: t.num}, Metadata{})
	case KindNumericArray:
		return MustSchema(ArraySchema{
			Elements: MustSchema(NumberSchema{Type: t.num}, Metadata{}),
			Shape:    int64Shape(t.shape),
		}, Metadata{})
	case KindArray:
		elem := Schema{} // any, when the array is empty
		if len(t.elems) > 0 {
			elem = GuessSchema(&t.elems[0])
		}
		return MustSchema(ArraySchema{
			Elements: elem,
			Shape:    int64Shape(t.shape),
		}, Metadata{})
	case KindRecord:
		keys, _ := t.Keys()
		items := make([]ItemSchema, 0, len(keys))
		for _, key := range keys {
			child, _ := t.Get(key)
			items = append(items, ItemSchema{Key: key, Schema: GuessSchema(child)})
		}
		return MustSchema(RecordSchema{Items: items}, Metadata{})
	}
	return Schema{}
}

func int64Shape(shape []int) []int64 {
	out := make([]int64, len(shape))
	for i, d := range shape {
		out[i] = int64(d)
	}
	return out
}
