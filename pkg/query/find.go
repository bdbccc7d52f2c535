package query

import "github.com/matzehuels/bestofjs/pkg/errors"

// Scope selects which projects feed the relevant-tags ranking of a project
// search.
type Scope string

const (
	// ScopePage ranks tags over the returned page only.
	ScopePage Scope = "page"
	// ScopeAllMatches ranks tags over every match, before skip and limit.
	ScopeAllMatches Scope = "all"
)

// Query is a complete query descriptor.
type Query struct {
	Criteria   Expr
	Sort       Sort
	Skip       int
	Limit      int // 0 means no limit
	Projection Projection

	// RelevanceScope is only read by project searches. The zero value
	// behaves like ScopePage.
	RelevanceScope Scope
}

// Result holds the outcome of [Find].
type Result struct {
	// Indices are positions into the input slice, in result order.
	Indices []int
	// Matches are the positions of every match in collection order,
	// before sort, skip and limit.
	Matches []int
	// Total is len(Matches).
	Total int
}

// Find evaluates q against docs: filter, count, sort, skip, limit.
// Projection is not applied; see [Projection.Apply].
func Find(docs []Document, q Query) (Result, error) {
	if err := errors.ValidatePage(q.Skip, q.Limit); err != nil {
		return Result{}, err
	}
	matches := make([]int, 0, len(docs))
	for i, d := range docs {
		if Match(q.Criteria, d) {
			matches = append(matches, i)
		}
	}
	res := Result{Matches: matches, Total: len(matches)}

	idx := make([]int, len(matches))
	copy(idx, matches)
	q.Sort.Apply(docs, idx)

	if q.Skip >= len(idx) {
		res.Indices = []int{}
		return res, nil
	}
	idx = idx[q.Skip:]
	if q.Limit > 0 && q.Limit < len(idx) {
		idx = idx[:q.Limit]
	}
	res.Indices = idx
	return res, nil
}
