package query

import "slices"

// SortKey orders documents by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Sort is an ordered list of sort keys; earlier keys take precedence.
type Sort []SortKey

// Compare orders a and b by the sort keys. Missing fields sort as null. An
// array field sorts by its smallest element when ascending and by its
// largest when descending.
func (s Sort) Compare(a, b Document) int {
	for _, k := range s {
		va := sortValue(a, k)
		vb := sortValue(b, k)
		n := compareValues(va, vb)
		if k.Desc {
			n = -n
		}
		if n != 0 {
			return n
		}
	}
	return 0
}

// Apply stably sorts idx, a list of positions into docs.
func (s Sort) Apply(docs []Document, idx []int) {
	if len(s) == 0 {
		return
	}
	slices.SortStableFunc(idx, func(i, j int) int {
		return s.Compare(docs[i], docs[j])
	})
}

func sortValue(doc Document, k SortKey) any {
	v, _ := doc.Lookup(k.Field)
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	if len(arr) == 0 {
		return nil
	}
	best := arr[0]
	for _, e := range arr[1:] {
		n := compareValues(e, best)
		if (k.Desc && n > 0) || (!k.Desc && n < 0) {
			best = e
		}
	}
	return best
}
