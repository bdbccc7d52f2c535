// Package query evaluates MongoDB-style queries against in-memory documents.
//
// A query has five parts: criteria ([Expr]), a [Sort], skip, limit and an
// optional [Projection]. [Find] applies them in the order
// filter → count → sort → skip → limit; projection is applied by the caller
// on the returned page so that derived fields can be computed from the full
// record first.
//
// # Criteria
//
// [Expr] is a closed set of node types:
//
//	Equals, NotEquals, In, NotIn, AllOf, Compare, Exists, Size, And, Or, Nor
//
// A nil Expr matches every document. Criteria can be built directly:
//
//	q := query.Query{
//	    Criteria: query.And{
//	        query.AllOf{Field: "tags", Values: query.Strings("react", "framework")},
//	        query.Compare{Field: "stars", Op: query.OpGte, Value: 1000},
//	    },
//	    Sort:  query.Sort{{Field: "stars", Desc: true}},
//	    Limit: 10,
//	}
//
// or parsed from MongoDB Extended JSON:
//
//	q, err := query.ParseDescriptor([]byte(`{
//	    "criteria": {"tags": {"$all": ["react"]}},
//	    "sort": {"stars": -1},
//	    "limit": 10
//	}`))
//
// Unsupported operators fail with an INVALID_QUERY error instead of silently
// matching nothing.
//
// # Field Semantics
//
// Fields are addressed with dotted paths ("trends.daily"). When a field holds
// an array, equality, $in and comparisons match if any element matches; $ne
// and $nin match only if no element matches, and also match missing fields.
//
// # Ordering
//
// Values of different types sort by BSON type order: missing/null, numbers,
// strings, objects, arrays, booleans. Sorting is stable, so documents with
// equal keys keep their collection order.
package query
