package query

import "strings"

// Projection selects the fields returned for each document. With Exclude
// unset, only Fields are kept; with Exclude set, Fields are removed. A zero
// Projection returns documents unchanged.
type Projection struct {
	Fields  []string
	Exclude bool
}

// IsZero reports whether the projection keeps every field.
func (p Projection) IsZero() bool {
	return len(p.Fields) == 0 && !p.Exclude
}

// Apply returns a projected copy of doc. Dotted fields address nested
// objects. The source document is never modified.
func (p Projection) Apply(doc Document) Document {
	if p.IsZero() {
		return doc
	}
	if p.Exclude {
		out := cloneMap(doc)
		for _, f := range p.Fields {
			removePath(out, strings.Split(f, "."))
		}
		return out
	}
	out := Document{}
	for _, f := range p.Fields {
		copyPath(out, doc, strings.Split(f, "."))
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func removePath(m map[string]any, segs []string) {
	if len(segs) == 1 {
		delete(m, segs[0])
		return
	}
	child, ok := asMap(m[segs[0]])
	if !ok {
		return
	}
	child = cloneMap(child)
	removePath(child, segs[1:])
	m[segs[0]] = child
}

func copyPath(dst, src map[string]any, segs []string) {
	v, ok := src[segs[0]]
	if !ok {
		return
	}
	if len(segs) == 1 {
		dst[segs[0]] = v
		return
	}
	child, ok := asMap(v)
	if !ok {
		return
	}
	sub, _ := asMap(dst[segs[0]])
	if sub == nil {
		sub = map[string]any{}
	}
	copyPath(sub, child, segs[1:])
	if len(sub) > 0 {
		dst[segs[0]] = sub
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Document:
		return t, true
	}
	return nil, false
}
