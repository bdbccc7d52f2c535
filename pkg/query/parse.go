package query

import (
	"bytes"
	"math"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/bestofjs/pkg/errors"
)

// =============================================================================
// Criteria
// =============================================================================

// ParseCriteria converts a MongoDB-style filter document into an [Expr].
// doc may be a bson.D, bson.M, map[string]any or [Document]; nil yields a
// nil Expr. Fields with several operators ({"stars": {"$gte": 1, "$lt": 9}})
// become separate children of the top-level [And].
func ParseCriteria(doc any) (Expr, error) {
	if doc == nil {
		return nil, nil
	}
	elems, ok := entries(doc)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "criteria must be a document, got %T", doc)
	}
	var out And
	for _, e := range elems {
		if strings.HasPrefix(e.Key, "$") {
			x, err := parseLogical(e.Key, e.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
			continue
		}
		xs, err := parseField(e.Key, e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, xs...)
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0], nil
	}
	return out, nil
}

// ParseCriteriaJSON parses criteria from MongoDB Extended JSON. Empty input
// yields a nil Expr.
func ParseCriteriaJSON(data []byte) (Expr, error) {
	d, err := unmarshalExtJSON(data, "criteria")
	if err != nil || d == nil {
		return nil, err
	}
	return ParseCriteria(d)
}

func parseLogical(op string, v any) (Expr, error) {
	switch op {
	case "$and", "$or", "$nor":
	default:
		return nil, errors.New(errors.ErrCodeInvalidQuery, "unsupported operator %q", op)
	}
	arr, ok := asArray(v)
	if !ok || len(arr) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "%s requires a non-empty array", op)
	}
	children := make([]Expr, 0, len(arr))
	for _, c := range arr {
		x, err := ParseCriteria(c)
		if err != nil {
			return nil, err
		}
		if x == nil {
			x = And{}
		}
		children = append(children, x)
	}
	switch op {
	case "$or":
		return Or(children), nil
	case "$nor":
		return Nor(children), nil
	}
	return And(children), nil
}

func parseField(field string, v any) ([]Expr, error) {
	elems, isDoc := entries(v)
	if !isDoc || len(elems) == 0 || !strings.HasPrefix(elems[0].Key, "$") {
		return []Expr{Equals{Field: field, Value: normalize(v)}}, nil
	}
	out := make([]Expr, 0, len(elems))
	for _, e := range elems {
		if !strings.HasPrefix(e.Key, "$") {
			return nil, errors.New(errors.ErrCodeInvalidQuery, "field %q mixes operators and values", field)
		}
		x, err := parseOperator(field, e.Key, e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func parseOperator(field, op string, v any) (Expr, error) {
	switch op {
	case "$eq":
		return Equals{Field: field, Value: normalize(v)}, nil
	case "$ne":
		return NotEquals{Field: field, Value: normalize(v)}, nil
	case "$in", "$nin", "$all":
		arr, ok := asArray(v)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidQuery, "%s on %q requires an array", op, field)
		}
		values := make([]any, len(arr))
		for i, a := range arr {
			values[i] = normalize(a)
		}
		switch op {
		case "$in":
			return In{Field: field, Values: values}, nil
		case "$nin":
			return NotIn{Field: field, Values: values}, nil
		}
		return AllOf{Field: field, Values: values}, nil
	case "$gt", "$gte", "$lt", "$lte":
		return Compare{Field: field, Op: Op(op), Value: normalize(v)}, nil
	case "$exists":
		want, ok := truthy(v)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidQuery, "$exists on %q requires a boolean", field)
		}
		return Exists{Field: field, Want: want}, nil
	case "$size":
		n, ok := toFloat(v)
		if !ok || n < 0 || n != math.Trunc(n) {
			return nil, errors.New(errors.ErrCodeInvalidQuery, "$size on %q requires a non-negative integer", field)
		}
		return Size{Field: field, Len: int(n)}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidQuery, "unsupported operator %q on field %q", op, field)
}

// =============================================================================
// Sort and Projection
// =============================================================================

// ParseSort converts {field: 1|-1} into a [Sort]. Key order is kept for
// bson.D input; map input is sorted by key name.
func ParseSort(doc any) (Sort, error) {
	if doc == nil {
		return nil, nil
	}
	elems, ok := entries(doc)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "sort must be a document, got %T", doc)
	}
	out := make(Sort, 0, len(elems))
	for _, e := range elems {
		n, ok := toFloat(e.Value)
		if !ok || (n != 1 && n != -1) {
			return nil, errors.New(errors.ErrCodeInvalidQuery, "sort direction for %q must be 1 or -1", e.Key)
		}
		out = append(out, SortKey{Field: e.Key, Desc: n < 0})
	}
	return out, nil
}

// ParseSortJSON parses a sort document from MongoDB Extended JSON.
func ParseSortJSON(data []byte) (Sort, error) {
	d, err := unmarshalExtJSON(data, "sort")
	if err != nil || d == nil {
		return nil, err
	}
	return ParseSort(d)
}

// ParseProjection converts {field: 0|1} into a [Projection]. Inclusion and
// exclusion cannot be mixed.
func ParseProjection(doc any) (Projection, error) {
	if doc == nil {
		return Projection{}, nil
	}
	elems, ok := entries(doc)
	if !ok {
		return Projection{}, errors.New(errors.ErrCodeInvalidQuery, "projection must be a document, got %T", doc)
	}
	var p Projection
	for i, e := range elems {
		include, ok := truthy(e.Value)
		if !ok {
			return Projection{}, errors.New(errors.ErrCodeInvalidQuery, "projection for %q must be 0 or 1", e.Key)
		}
		if i > 0 && include == p.Exclude {
			return Projection{}, errors.New(errors.ErrCodeInvalidQuery, "projection cannot mix inclusion and exclusion")
		}
		p.Exclude = !include
		p.Fields = append(p.Fields, e.Key)
	}
	return p, nil
}

// ParseProjectionJSON parses a projection from MongoDB Extended JSON.
func ParseProjectionJSON(data []byte) (Projection, error) {
	d, err := unmarshalExtJSON(data, "projection")
	if err != nil || d == nil {
		return Projection{}, err
	}
	return ParseProjection(d)
}

// =============================================================================
// Descriptor
// =============================================================================

// ParseDescriptor reads a full query descriptor
//
//	{"criteria": {...}, "sort": {...}, "skip": 0, "limit": 10, "projection": {...}, "scope": "page"}
//
// from MongoDB Extended JSON. Every key is optional; unknown keys fail.
func ParseDescriptor(data []byte) (Query, error) {
	var q Query
	d, err := unmarshalExtJSON(data, "descriptor")
	if err != nil || d == nil {
		return q, err
	}
	for _, e := range d {
		switch e.Key {
		case "criteria":
			q.Criteria, err = ParseCriteria(e.Value)
		case "sort":
			q.Sort, err = ParseSort(e.Value)
		case "skip":
			q.Skip, err = parseCount(e.Key, e.Value)
		case "limit":
			q.Limit, err = parseCount(e.Key, e.Value)
		case "projection":
			q.Projection, err = ParseProjection(e.Value)
		case "scope":
			s, ok := e.Value.(string)
			if !ok {
				err = errors.New(errors.ErrCodeInvalidQuery, "scope must be a string")
				break
			}
			q.RelevanceScope, err = ParseScope(s)
		default:
			err = errors.New(errors.ErrCodeInvalidQuery, "unknown descriptor key %q", e.Key)
		}
		if err != nil {
			return Query{}, err
		}
	}
	return q, nil
}

// ParseScope parses "page" or "all". The empty string yields [ScopePage].
func ParseScope(s string) (Scope, error) {
	switch s {
	case "", string(ScopePage):
		return ScopePage, nil
	case string(ScopeAllMatches):
		return ScopeAllMatches, nil
	}
	return "", errors.New(errors.ErrCodeInvalidQuery, "unknown relevance scope %q", s)
}

func parseCount(key string, v any) (int, error) {
	n, ok := toFloat(v)
	if !ok || n != math.Trunc(n) {
		return 0, errors.New(errors.ErrCodeInvalidQuery, "%s must be an integer", key)
	}
	if n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidQuery, "%s must be non-negative, got %v", key, n)
	}
	return int(n), nil
}

// =============================================================================
// Helpers
// =============================================================================

func unmarshalExtJSON(data []byte, what string) (bson.D, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidQuery, err, "parse %s", what)
	}
	return d, nil
}

// entries returns the ordered key/value pairs of a document value. Maps
// have no order of their own and are returned sorted by key.
func entries(v any) ([]bson.E, bool) {
	switch t := v.(type) {
	case bson.D:
		return t, true
	case bson.M:
		return mapEntries(t), true
	case map[string]any:
		return mapEntries(t), true
	case Document:
		return mapEntries(t), true
	}
	return nil, false
}

func mapEntries(m map[string]any) []bson.E {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]bson.E, len(keys))
	for i, k := range keys {
		out[i] = bson.E{Key: k, Value: m[k]}
	}
	return out
}

func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case bson.A:
		return t, true
	case []any:
		return t, true
	case []string:
		return Strings(t...), true
	}
	return nil, false
}

func truthy(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if n, ok := toFloat(v); ok {
		return n != 0, true
	}
	return false, false
}

// normalize converts decoded BSON values into the plain Go forms held by a
// [Document]: map[string]any, []any, float64 and the JSON scalars.
func normalize(v any) any {
	if elems, ok := entries(v); ok {
		m := make(map[string]any, len(elems))
		for _, e := range elems {
			m[e.Key] = normalize(e.Value)
		}
		return m
	}
	if arr, ok := asArray(v); ok {
		out := make([]any, len(arr))
		for i, a := range arr {
			out[i] = normalize(a)
		}
		return out
	}
	if n, ok := toFloat(v); ok {
		return n
	}
	return v
}
