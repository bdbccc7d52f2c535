package query

// Expr is a filter expression. The set of implementations is closed: only
// the node types declared in this package satisfy it.
type Expr interface {
	// Match reports whether doc satisfies the expression.
	Match(doc Document) bool
	expr()
}

// Equals matches when the field equals Value, or when the field is an array
// containing Value. A nil Value matches missing and null fields.
type Equals struct {
	Field string
	Value any
}

// NotEquals is the negation of Equals.
type NotEquals struct {
	Field string
	Value any
}

// In matches when the field equals any of Values.
type In struct {
	Field  string
	Values []any
}

// NotIn matches when the field equals none of Values. Missing fields match.
type NotIn struct {
	Field  string
	Values []any
}

// AllOf matches when the field contains every one of Values. An empty
// Values list matches nothing.
type AllOf struct {
	Field  string
	Values []any
}

// Op is a comparison operator.
type Op string

const (
	OpGt  Op = "$gt"
	OpGte Op = "$gte"
	OpLt  Op = "$lt"
	OpLte Op = "$lte"
)

// Compare matches when the field compares to Value according to Op. Only
// values of the same BSON type class are compared; an array field matches
// if any element does.
type Compare struct {
	Field string
	Op    Op
	Value any
}

// Exists matches when the presence of the field equals Want.
type Exists struct {
	Field string
	Want  bool
}

// Size matches arrays with exactly Len elements.
type Size struct {
	Field string
	Len   int
}

// And matches when every child matches. An empty And matches everything.
type And []Expr

// Or matches when at least one child matches.
type Or []Expr

// Nor matches when no child matches.
type Nor []Expr

// Strings converts string arguments to the []any form used by In, NotIn
// and AllOf.
func Strings(ss ...string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// Match reports whether doc satisfies e. A nil e matches everything.
func Match(e Expr, doc Document) bool {
	if e == nil {
		return true
	}
	return e.Match(doc)
}

// candidates returns the values an operator is tested against: the value
// itself and, for arrays, each element.
func candidates(v any) []any {
	arr, ok := v.([]any)
	if !ok {
		return []any{v}
	}
	out := make([]any, 0, len(arr)+1)
	out = append(out, arr...)
	return append(out, v)
}

func fieldEquals(doc Document, field string, want any) bool {
	v, found := doc.Lookup(field)
	if !found {
		return want == nil
	}
	for _, c := range candidates(v) {
		if equalValues(c, want) {
			return true
		}
	}
	return false
}

func (e Equals) Match(doc Document) bool {
	return fieldEquals(doc, e.Field, e.Value)
}

func (e NotEquals) Match(doc Document) bool {
	return !fieldEquals(doc, e.Field, e.Value)
}

func (e In) Match(doc Document) bool {
	for _, want := range e.Values {
		if fieldEquals(doc, e.Field, want) {
			return true
		}
	}
	return false
}

func (e NotIn) Match(doc Document) bool {
	return !In(e).Match(doc)
}

func (e AllOf) Match(doc Document) bool {
	if len(e.Values) == 0 {
		return false
	}
	for _, want := range e.Values {
		if !fieldEquals(doc, e.Field, want) {
			return false
		}
	}
	return true
}

func (e Compare) Match(doc Document) bool {
	v, found := doc.Lookup(e.Field)
	if !found {
		return false
	}
	rank := typeRank(e.Value)
	for _, c := range candidates(v) {
		if typeRank(c) != rank {
			continue
		}
		n := compareValues(c, e.Value)
		switch e.Op {
		case OpGt:
			if n > 0 {
				return true
			}
		case OpGte:
			if n >= 0 {
				return true
			}
		case OpLt:
			if n < 0 {
				return true
			}
		case OpLte:
			if n <= 0 {
				return true
			}
		}
	}
	return false
}

func (e Exists) Match(doc Document) bool {
	_, found := doc.Lookup(e.Field)
	return found == e.Want
}

func (e Size) Match(doc Document) bool {
	v, _ := doc.Lookup(e.Field)
	arr, ok := v.([]any)
	return ok && len(arr) == e.Len
}

func (e And) Match(doc Document) bool {
	for _, c := range e {
		if !Match(c, doc) {
			return false
		}
	}
	return true
}

func (e Or) Match(doc Document) bool {
	for _, c := range e {
		if Match(c, doc) {
			return true
		}
	}
	return false
}

func (e Nor) Match(doc Document) bool {
	return !Or(e).Match(doc)
}

func (Equals) expr()    {}
func (NotEquals) expr() {}
func (In) expr()        {}
func (NotIn) expr()     {}
func (AllOf) expr()     {}
func (Compare) expr()   {}
func (Exists) expr()    {}
func (Size) expr()      {}
func (And) expr()       {}
func (Or) expr()        {}
func (Nor) expr()       {}

// AllValues returns the values of the AllOf on field found at the top level
// of e, either directly or as a child of a top-level And.
func AllValues(e Expr, field string) ([]any, bool) {
	switch t := e.(type) {
	case AllOf:
		if t.Field == field {
			return t.Values, true
		}
	case And:
		for _, c := range t {
			if all, ok := c.(AllOf); ok && all.Field == field {
				return all.Values, true
			}
		}
	}
	return nil, false
}
